package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
)

func TestBuildAvailabilityIndex(t *testing.T) {
	records := []*domain.Unavailability{
		{AssigneeID: 1, Date: "2026-09-10"},
		{AssigneeID: 1, Date: "2026-09-11"},
		{AssigneeID: 2, Date: "2026-09-10"},
		{AssigneeID: 1, Date: "2026-09-10"}, // 重复记录不影响集合语义
	}

	index := BuildAvailabilityIndex(records)
	require.Len(t, index, 2)
	assert.Len(t, index[1], 2)
	assert.Len(t, index[2], 1)

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, index.IsUnavailable(1, day))
	assert.True(t, index.IsUnavailable(2, day))
	assert.False(t, index.IsUnavailable(3, day))
	assert.False(t, index.IsUnavailable(2, day.AddDate(0, 0, 1)))
}

func TestFindConflicts(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
	}
	jobRange := DateRange{Start: day(10), End: day(12)}

	t.Run("区间内的每一天都会被检查", func(t *testing.T) {
		index := BuildAvailabilityIndex([]*domain.Unavailability{
			{AssigneeID: 1, Date: "2026-09-10"},
			{AssigneeID: 1, Date: "2026-09-12"},
		})

		conflicts := FindConflicts(jobRange, []int64{1}, index)
		require.Len(t, conflicts, 2)
		assert.Equal(t, Conflict{AssigneeID: 1, Date: "2026-09-10"}, conflicts[0])
		assert.Equal(t, Conflict{AssigneeID: 1, Date: "2026-09-12"}, conflicts[1])
	})

	t.Run("区间是闭区间，两端都算在内", func(t *testing.T) {
		index := BuildAvailabilityIndex([]*domain.Unavailability{
			{AssigneeID: 1, Date: "2026-09-09"},
			{AssigneeID: 1, Date: "2026-09-13"},
		})

		// 紧挨着区间两端的不可用日期不构成冲突
		assert.Empty(t, FindConflicts(jobRange, []int64{1}, index))

		index = BuildAvailabilityIndex([]*domain.Unavailability{
			{AssigneeID: 1, Date: "2026-09-12"},
		})
		assert.Len(t, FindConflicts(jobRange, []int64{1}, index), 1)
	})

	t.Run("多个人员分别检查", func(t *testing.T) {
		index := BuildAvailabilityIndex([]*domain.Unavailability{
			{AssigneeID: 2, Date: "2026-09-11"},
		})

		conflicts := FindConflicts(jobRange, []int64{1, 2, 3}, index)
		require.Len(t, conflicts, 1)
		assert.Equal(t, int64(2), conflicts[0].AssigneeID)
	})

	t.Run("没有人员或没有记录时为空", func(t *testing.T) {
		index := BuildAvailabilityIndex(nil)
		assert.Empty(t, FindConflicts(jobRange, []int64{1, 2}, index))
		assert.Empty(t, FindConflicts(jobRange, nil, index))
	})
}
