package schedule

import (
	"time"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
)

// Conflict 是一个派生事实：工单的日期区间覆盖 Date，且 (AssigneeID, Date) 存在不可用记录
// 只在需要时计算，从不落库
type Conflict struct {
	AssigneeID int64  `json:"assigneeID"`
	Date       string `json:"date"`
}

// AvailabilityIndex 按人员组织的不可用日期集合 {assigneeID: {date: {}}}
type AvailabilityIndex map[int64]map[string]struct{}

func BuildAvailabilityIndex(records []*domain.Unavailability) AvailabilityIndex {
	index := make(AvailabilityIndex)
	for _, record := range records {
		if _, exists := index[record.AssigneeID]; !exists {
			index[record.AssigneeID] = make(map[string]struct{})
		}
		index[record.AssigneeID][record.Date] = struct{}{}
	}
	return index
}

func (index AvailabilityIndex) IsUnavailable(assigneeID int64, date time.Time) bool {
	dates, exists := index[assigneeID]
	if !exists {
		return false
	}
	_, exists = dates[date.Format(DateLayout)]
	return exists
}

// FindConflicts 逐天逐人检查区间内的所有 (人员, 日期) 组合
// 区间内任何一天的不可用都足以让整个工单被标记为冲突，
// 但这里会返回所有冲突对，方便调用方报告是谁在哪一天不可用
func FindConflicts(jobRange DateRange, assigneeIDs []int64, index AvailabilityIndex) []Conflict {
	var conflicts []Conflict
	for _, date := range jobRange.Dates() {
		for _, assigneeID := range assigneeIDs {
			if index.IsUnavailable(assigneeID, date) {
				conflicts = append(conflicts, Conflict{
					AssigneeID: assigneeID,
					Date:       date.Format(DateLayout),
				})
			}
		}
	}
	return conflicts
}
