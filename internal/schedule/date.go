package schedule

import "time"

// DateLayout 与数据库中的日期列格式保持一致
const DateLayout = "2006-01-02"

// DateRange 表示一个闭区间 [Start, End]，两端都已截断到当天零点（UTC）
type DateRange struct {
	Start time.Time
	End   time.Time
}

// TruncateToDate 将时间戳截断到日历日期
// 冲突检测只按天比较，时刻会被忽略
func TruncateToDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// EffectiveRange 根据工单的开始和结束时间戳计算生效日期区间
// 只要缺少任意一端，工单就没有日期区间，也就不可能产生冲突
func EffectiveRange(start, end *time.Time) (DateRange, bool) {
	if start == nil || end == nil {
		return DateRange{}, false
	}
	return DateRange{
		Start: TruncateToDate(*start),
		End:   TruncateToDate(*end),
	}, true
}

// Dates 返回区间内的所有日期（含两端）
// 使用 AddDate 生成新值来遍历，不原地修改日期
func (r DateRange) Dates() []time.Time {
	if r.End.Before(r.Start) {
		return nil
	}

	var dates []time.Time
	for date := r.Start; !date.After(r.End); date = date.AddDate(0, 0, 1) {
		dates = append(dates, date)
	}
	return dates
}
