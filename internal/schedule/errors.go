package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// ErrJobNotFound 表示提交指派时工单已经不存在
var ErrJobNotFound = errors.New("工单不存在")

// ErrInvalidTimeRange 表示排期的开始时间晚于结束时间
var ErrInvalidTimeRange = errors.New("开始时间不能晚于结束时间")

// ConflictError 表示提案中的人员在工单区间内存在不可用日期
// 整个写入会被拒绝，Conflicts 记录了所有冲突的 (人员, 日期) 对
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	pairs := make([]string, 0, len(e.Conflicts))
	for _, conflict := range e.Conflicts {
		pairs = append(pairs, fmt.Sprintf("人员 %d 在 %s 不可用", conflict.AssigneeID, conflict.Date))
	}
	return "指派存在冲突: " + strings.Join(pairs, "；")
}

// UnresolvedAssigneeError 表示提案中的 ID 既不是员工也不是外包人员
// 通常意味着前端持有的数据已经过期
type UnresolvedAssigneeError struct {
	AssigneeID int64
}

func (e *UnresolvedAssigneeError) Error() string {
	return fmt.Sprintf("无法识别的人员 ID: %d", e.AssigneeID)
}
