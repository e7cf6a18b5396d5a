package schedule

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
)

// TimeRange 是随指派一起提交的新排期
// StartTime 和 EndTime 都为空时表示清除排期
type TimeRange struct {
	StartTime *time.Time
	EndTime   *time.Time
}

type JobStore interface {
	GetJobByID(id int64) (*domain.Job, error)
	// ReplaceJobAssignments 用 job 当前的排期和指派列表整体覆盖数据库中的记录
	// 必须在一个事务中完成
	ReplaceJobAssignments(job *domain.Job) error
}

type DirectoryStore interface {
	GetAllWorkers() ([]*domain.Worker, error)
	GetAllContractors() ([]*domain.Contractor, error)
}

type AvailabilityStore interface {
	GetAllUnavailability() ([]*domain.Unavailability, error)
}

// AssignmentService 是指派的唯一写入边界
// 提交前基于最新的不可用数据做冲突检查，任何错误路径都不会部分写入
type AssignmentService struct {
	jobs         JobStore
	directory    DirectoryStore
	availability AvailabilityStore

	mu       sync.Mutex
	jobLocks map[int64]*sync.Mutex
}

func NewAssignmentService(jobs JobStore, directory DirectoryStore, availability AvailabilityStore) *AssignmentService {
	return &AssignmentService{
		jobs:         jobs,
		directory:    directory,
		availability: availability,
		jobLocks:     make(map[int64]*sync.Mutex),
	}
}

// lockJob 返回某个工单专属的锁
// 同一工单的读取-检查-写入序列必须串行，不同工单之间互不影响
func (s *AssignmentService) lockJob(jobID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.jobLocks[jobID]
	if !exists {
		lock = &sync.Mutex{}
		s.jobLocks[jobID] = lock
	}
	return lock
}

// ResolveAssignees 将提案中的 ID 逐个解析成带类型的人员引用
// 解析顺序：先查员工，再查外包人员，两边都不存在则报错
// 提案是集合语义，重复的 ID 会被忽略
func (s *AssignmentService) ResolveAssignees(assigneeIDs []int64) ([]domain.Assignee, error) {
	workers, err := s.directory.GetAllWorkers()
	if err != nil {
		return nil, err
	}
	contractors, err := s.directory.GetAllContractors()
	if err != nil {
		return nil, err
	}

	workerSet := make(map[int64]struct{}, len(workers))
	for _, worker := range workers {
		workerSet[worker.ID] = struct{}{}
	}
	contractorSet := make(map[int64]struct{}, len(contractors))
	for _, contractor := range contractors {
		contractorSet[contractor.ID] = struct{}{}
	}

	assignees := make([]domain.Assignee, 0, len(assigneeIDs))
	seen := make(map[int64]struct{}, len(assigneeIDs))
	for _, id := range assigneeIDs {
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}

		if _, isWorker := workerSet[id]; isWorker {
			assignees = append(assignees, domain.Assignee{Kind: domain.AssigneeKindWorker, ID: id})
		} else if _, isContractor := contractorSet[id]; isContractor {
			assignees = append(assignees, domain.Assignee{Kind: domain.AssigneeKindContractor, ID: id})
		} else {
			return nil, &UnresolvedAssigneeError{AssigneeID: id}
		}
	}

	return assignees, nil
}

// SetAssignments 用提案整体替换工单的指派列表（不做增量合并）
// 如果随提案附带了新排期，排期和指派在同一个事务中一起生效或一起失败
func (s *AssignmentService) SetAssignments(jobID int64, assigneeIDs []int64, timeRange *TimeRange) (*domain.Job, error) {
	lock := s.lockJob(jobID)
	lock.Lock()
	defer lock.Unlock()

	// 每次写入都重新读取工单和不可用数据，不信任客户端持有的快照
	job, err := s.jobs.GetJobByID(jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	if timeRange != nil {
		if timeRange.StartTime != nil && timeRange.EndTime != nil && timeRange.EndTime.Before(*timeRange.StartTime) {
			return nil, ErrInvalidTimeRange
		}
		job.StartTime = timeRange.StartTime
		job.EndTime = timeRange.EndTime
	}

	assignees, err := s.ResolveAssignees(assigneeIDs)
	if err != nil {
		return nil, err
	}

	// 基于生效区间和提交时刻的不可用快照做冲突检查
	// 没有排期的工单不可能产生冲突
	if jobRange, ok := EffectiveRange(job.StartTime, job.EndTime); ok {
		records, err := s.availability.GetAllUnavailability()
		if err != nil {
			return nil, err
		}

		resolvedIDs := make([]int64, 0, len(assignees))
		for _, assignee := range assignees {
			resolvedIDs = append(resolvedIDs, assignee.ID)
		}

		if conflicts := FindConflicts(jobRange, resolvedIDs, BuildAvailabilityIndex(records)); len(conflicts) > 0 {
			return nil, &ConflictError{Conflicts: conflicts}
		}
	}

	assignments := make([]domain.Assignment, 0, len(assignees))
	for _, assignee := range assignees {
		id := assignee.ID
		assignment := domain.Assignment{JobID: job.ID}
		switch assignee.Kind {
		case domain.AssigneeKindWorker:
			assignment.WorkerID = &id
		case domain.AssigneeKindContractor:
			assignment.ContractorID = &id
		}
		assignments = append(assignments, assignment)
	}
	job.Assignments = assignments

	if err := s.jobs.ReplaceJobAssignments(job); err != nil {
		return nil, err
	}

	return job, nil
}
