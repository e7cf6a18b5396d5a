package utils

import (
	"errors"
	"time"
)

// ValidateJobTimeRange 检查工单的排期是否合法
// 允许只填一端，此时工单没有生效区间，不参与冲突检查
func ValidateJobTimeRange(startTime, endTime *time.Time) error {
	if startTime != nil && endTime != nil && endTime.Before(*startTime) {
		return errors.New("开始时间不能晚于结束时间")
	}
	return nil
}
