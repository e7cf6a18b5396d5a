package schedule

import (
	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
)

// JobHasConflict 是日历、看板和列表视图共用的冲突标记
// 必须和 FindConflicts 使用完全相同的区间截断和比较规则，两边不一致属于缺陷
func JobHasConflict(job *domain.Job, index AvailabilityIndex) bool {
	jobRange, ok := EffectiveRange(job.StartTime, job.EndTime)
	if !ok {
		return false
	}
	return len(FindConflicts(jobRange, job.AssigneeIDs(), index)) > 0
}

// AnnotatedJob 是视图投影：工单加上只读的冲突标记
// 标记只用于展示，不会阻止渲染，也不会修改任何状态
type AnnotatedJob struct {
	*domain.Job
	HasConflict bool `json:"hasConflict"`
}

func AnnotateJobs(jobs []*domain.Job, index AvailabilityIndex) []*AnnotatedJob {
	annotated := make([]*AnnotatedJob, 0, len(jobs))
	for _, job := range jobs {
		annotated = append(annotated, &AnnotatedJob{
			Job:         job,
			HasConflict: JobHasConflict(job, index),
		})
	}
	return annotated
}
