package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
)

func scheduledJob(id int64, startDay, endDay int, assigneeIDs ...int64) *domain.Job {
	start := time.Date(2026, 9, startDay, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, endDay, 17, 0, 0, 0, time.UTC)

	assignments := make([]domain.Assignment, 0, len(assigneeIDs))
	for _, assigneeID := range assigneeIDs {
		workerID := assigneeID
		assignments = append(assignments, domain.Assignment{JobID: id, WorkerID: &workerID})
	}

	return &domain.Job{
		ID:          id,
		Status:      domain.JobStatusScheduled,
		StartTime:   &start,
		EndTime:     &end,
		Assignments: assignments,
	}
}

func TestJobHasConflict(t *testing.T) {
	index := BuildAvailabilityIndex([]*domain.Unavailability{
		{AssigneeID: 1, Date: "2026-09-11"},
	})

	t.Run("区间覆盖不可用日期时标记冲突", func(t *testing.T) {
		assert.True(t, JobHasConflict(scheduledJob(1, 10, 12, 1), index))
	})

	t.Run("区间不覆盖时不标记", func(t *testing.T) {
		assert.False(t, JobHasConflict(scheduledJob(1, 12, 14, 1), index))
	})

	t.Run("没有排期的工单永远不冲突", func(t *testing.T) {
		job := &domain.Job{ID: 1, Status: domain.JobStatusDraft}
		workerID := int64(1)
		job.Assignments = []domain.Assignment{{JobID: 1, WorkerID: &workerID}}
		assert.False(t, JobHasConflict(job, index))
	})

	t.Run("没有指派的工单不冲突", func(t *testing.T) {
		assert.False(t, JobHasConflict(scheduledJob(1, 10, 12), index))
	})
}

// 视图标记和写入检查必须基于同一套规则：
// 写入时会被拒绝的组合，事后形成时一定会被视图标记出来
func TestProjectionAgreesWithFindConflicts(t *testing.T) {
	index := BuildAvailabilityIndex([]*domain.Unavailability{
		{AssigneeID: 1, Date: "2026-09-10"},
		{AssigneeID: 2, Date: "2026-09-15"},
	})

	jobs := []*domain.Job{
		scheduledJob(1, 10, 12, 1),
		scheduledJob(2, 10, 12, 2),
		scheduledJob(3, 14, 16, 2),
	}

	for _, job := range jobs {
		jobRange, ok := EffectiveRange(job.StartTime, job.EndTime)
		require.True(t, ok)
		expected := len(FindConflicts(jobRange, job.AssigneeIDs(), index)) > 0
		assert.Equal(t, expected, JobHasConflict(job, index), "job %d", job.ID)
	}
}

func TestAnnotateJobs(t *testing.T) {
	index := BuildAvailabilityIndex([]*domain.Unavailability{
		{AssigneeID: 1, Date: "2026-09-11"},
	})

	jobs := []*domain.Job{
		scheduledJob(1, 10, 12, 1),
		scheduledJob(2, 10, 12, 2),
	}

	annotated := AnnotateJobs(jobs, index)
	require.Len(t, annotated, 2)
	assert.True(t, annotated[0].HasConflict)
	assert.False(t, annotated[1].HasConflict)

	// 标记是只读投影，不改动工单本身
	assert.Same(t, jobs[0], annotated[0].Job)
}
