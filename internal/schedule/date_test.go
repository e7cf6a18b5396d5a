package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateToDate(t *testing.T) {
	ts := time.Date(2026, 9, 14, 23, 59, 59, 999999999, time.UTC)
	got := TruncateToDate(ts)
	assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), got)

	// 非 UTC 时间先换算到 UTC 再截断
	loc := time.FixedZone("UTC+8", 8*3600)
	ts = time.Date(2026, 9, 15, 6, 0, 0, 0, loc) // UTC 2026-09-14 22:00
	got = TruncateToDate(ts)
	assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), got)
}

func TestEffectiveRange(t *testing.T) {
	start := time.Date(2026, 9, 10, 8, 30, 0, 0, time.UTC)
	end := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)

	t.Run("两端都有时按天截断", func(t *testing.T) {
		r, ok := EffectiveRange(&start, &end)
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), r.Start)
		assert.Equal(t, time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), r.End)
	})

	t.Run("缺少任意一端都没有区间", func(t *testing.T) {
		_, ok := EffectiveRange(nil, &end)
		assert.False(t, ok)
		_, ok = EffectiveRange(&start, nil)
		assert.False(t, ok)
		_, ok = EffectiveRange(nil, nil)
		assert.False(t, ok)
	})
}

func TestDateRangeDates(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("包含两端", func(t *testing.T) {
		dates := DateRange{Start: day(10), End: day(12)}.Dates()
		require.Len(t, dates, 3)
		assert.Equal(t, day(10), dates[0])
		assert.Equal(t, day(11), dates[1])
		assert.Equal(t, day(12), dates[2])
	})

	t.Run("单天区间", func(t *testing.T) {
		dates := DateRange{Start: day(10), End: day(10)}.Dates()
		require.Len(t, dates, 1)
		assert.Equal(t, day(10), dates[0])
	})

	t.Run("结束早于开始时为空", func(t *testing.T) {
		assert.Empty(t, DateRange{Start: day(12), End: day(10)}.Dates())
	})

	t.Run("遍历不修改区间本身", func(t *testing.T) {
		r := DateRange{Start: day(10), End: day(12)}
		_ = r.Dates()
		assert.Equal(t, day(10), r.Start)
		assert.Equal(t, day(12), r.End)
	})
}
