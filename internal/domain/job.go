package domain

import "time"

type JobStatus string

const (
	JobStatusDraft      JobStatus = "draft"
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

type JobPriority string

const (
	JobPriorityLow    JobPriority = "low"
	JobPriorityNormal JobPriority = "normal"
	JobPriorityHigh   JobPriority = "high"
	JobPriorityUrgent JobPriority = "urgent"
)

// Assignment 表示工单与人员之间的指派关系
// WorkerID 和 ContractorID 必须恰好有一个非空
type Assignment struct {
	ID           int64  `json:"id"`
	JobID        int64  `json:"jobID"`
	WorkerID     *int64 `json:"workerID"`
	ContractorID *int64 `json:"contractorID"`
}

// AssigneeID 返回这条指派所指向的人员 ID
func (a *Assignment) AssigneeID() int64 {
	if a.WorkerID != nil {
		return *a.WorkerID
	}
	if a.ContractorID != nil {
		return *a.ContractorID
	}
	return 0
}

type Job struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      JobStatus    `json:"status"`
	Priority    JobPriority  `json:"priority"`
	StartTime   *time.Time   `json:"startTime"` // StartTime 和 EndTime 都为空时表示工单还没有排期
	EndTime     *time.Time   `json:"endTime"`
	Assignments []Assignment `json:"assignments"`
	CreatedAt   time.Time    `json:"createdAt"`
	Version     int32        `json:"-"`
}

// AssigneeIDs 返回工单当前所有被指派人员的 ID
func (j *Job) AssigneeIDs() []int64 {
	ids := make([]int64, 0, len(j.Assignments))
	for i := range j.Assignments {
		ids = append(ids, j.Assignments[i].AssigneeID())
	}
	return ids
}
