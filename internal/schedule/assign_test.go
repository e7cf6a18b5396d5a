package schedule

import (
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
)

// fakeStore 用内存数据同时实现三个 store 接口，方便直接驱动 AssignmentService
type fakeStore struct {
	mu             sync.Mutex
	jobs           map[int64]*domain.Job
	workers        []*domain.Worker
	contractors    []*domain.Contractor
	unavailability []*domain.Unavailability
	replaceCalls   int
}

func (f *fakeStore) GetJobByID(id int64) (*domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, exists := f.jobs[id]
	if !exists {
		return nil, sql.ErrNoRows
	}

	// 返回副本，模拟每次读取都是一份新快照
	clone := *job
	clone.Assignments = append([]domain.Assignment(nil), job.Assignments...)
	return &clone, nil
}

func (f *fakeStore) ReplaceJobAssignments(job *domain.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.replaceCalls++
	stored := *job
	stored.Assignments = append([]domain.Assignment(nil), job.Assignments...)
	f.jobs[job.ID] = &stored
	return nil
}

func (f *fakeStore) GetAllWorkers() ([]*domain.Worker, error) {
	return f.workers, nil
}

func (f *fakeStore) GetAllContractors() ([]*domain.Contractor, error) {
	return f.contractors, nil
}

func (f *fakeStore) GetAllUnavailability() ([]*domain.Unavailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Unavailability(nil), f.unavailability...), nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs: make(map[int64]*domain.Job),
		workers: []*domain.Worker{
			{ID: 1, Name: "王建国"},
			{ID: 2, Name: "李秀英"},
		},
		contractors: []*domain.Contractor{
			{ID: 100, Name: "张伟", Company: "恒信机电维修"},
		},
	}
}

func (f *fakeStore) addJob(id int64, startDay, endDay int) {
	start := time.Date(2026, 9, startDay, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, endDay, 17, 0, 0, 0, time.UTC)
	f.jobs[id] = &domain.Job{
		ID:        id,
		Status:    domain.JobStatusScheduled,
		StartTime: &start,
		EndTime:   &end,
	}
}

func TestResolveAssignees(t *testing.T) {
	store := newFakeStore()
	service := NewAssignmentService(store, store, store)

	t.Run("先查员工再查外包人员", func(t *testing.T) {
		assignees, err := service.ResolveAssignees([]int64{1, 100})
		require.NoError(t, err)
		require.Len(t, assignees, 2)
		assert.Equal(t, domain.Assignee{Kind: domain.AssigneeKindWorker, ID: 1}, assignees[0])
		assert.Equal(t, domain.Assignee{Kind: domain.AssigneeKindContractor, ID: 100}, assignees[1])
	})

	t.Run("重复的 ID 只保留一个", func(t *testing.T) {
		assignees, err := service.ResolveAssignees([]int64{1, 1, 1})
		require.NoError(t, err)
		assert.Len(t, assignees, 1)
	})

	t.Run("无法识别的 ID 报错", func(t *testing.T) {
		_, err := service.ResolveAssignees([]int64{1, 999})
		var unresolved *UnresolvedAssigneeError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, int64(999), unresolved.AssigneeID)
	})
}

func TestSetAssignments(t *testing.T) {
	t.Run("正常指派会整体替换原有列表", func(t *testing.T) {
		store := newFakeStore()
		store.addJob(1, 10, 12)
		service := NewAssignmentService(store, store, store)

		job, err := service.SetAssignments(1, []int64{1}, nil)
		require.NoError(t, err)
		require.Len(t, job.Assignments, 1)
		require.NotNil(t, job.Assignments[0].WorkerID)
		assert.Equal(t, int64(1), *job.Assignments[0].WorkerID)

		// 再次提交 {2}，1 被整体换成 2 而不是合并
		job, err = service.SetAssignments(1, []int64{2}, nil)
		require.NoError(t, err)
		require.Len(t, job.Assignments, 1)
		assert.Equal(t, int64(2), *job.Assignments[0].WorkerID)
	})

	t.Run("外包人员落到 ContractorID 字段", func(t *testing.T) {
		store := newFakeStore()
		store.addJob(1, 10, 12)
		service := NewAssignmentService(store, store, store)

		job, err := service.SetAssignments(1, []int64{100}, nil)
		require.NoError(t, err)
		require.Len(t, job.Assignments, 1)
		assert.Nil(t, job.Assignments[0].WorkerID)
		require.NotNil(t, job.Assignments[0].ContractorID)
		assert.Equal(t, int64(100), *job.Assignments[0].ContractorID)
	})

	t.Run("任何一个人冲突整个提案都被拒绝", func(t *testing.T) {
		store := newFakeStore()
		store.addJob(1, 10, 12)
		store.unavailability = []*domain.Unavailability{
			{AssigneeID: 2, Date: "2026-09-11"},
		}
		service := NewAssignmentService(store, store, store)

		_, err := service.SetAssignments(1, []int64{1, 2}, nil)
		var conflictErr *ConflictError
		require.ErrorAs(t, err, &conflictErr)
		require.Len(t, conflictErr.Conflicts, 1)
		assert.Equal(t, Conflict{AssigneeID: 2, Date: "2026-09-11"}, conflictErr.Conflicts[0])

		// 没有冲突的 1 也不能写入
		assert.Zero(t, store.replaceCalls)
		assert.Empty(t, store.jobs[1].Assignments)
	})

	t.Run("没有排期的工单可以指派任何人", func(t *testing.T) {
		store := newFakeStore()
		store.jobs[1] = &domain.Job{ID: 1, Status: domain.JobStatusDraft}
		store.unavailability = []*domain.Unavailability{
			{AssigneeID: 1, Date: "2026-09-11"},
		}
		service := NewAssignmentService(store, store, store)

		job, err := service.SetAssignments(1, []int64{1}, nil)
		require.NoError(t, err)
		assert.Len(t, job.Assignments, 1)
	})

	t.Run("提交空提案会清空指派", func(t *testing.T) {
		store := newFakeStore()
		store.addJob(1, 10, 12)
		service := NewAssignmentService(store, store, store)

		_, err := service.SetAssignments(1, []int64{1, 2}, nil)
		require.NoError(t, err)

		job, err := service.SetAssignments(1, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, job.Assignments)
	})

	t.Run("工单不存在", func(t *testing.T) {
		store := newFakeStore()
		service := NewAssignmentService(store, store, store)

		_, err := service.SetAssignments(42, []int64{1}, nil)
		assert.ErrorIs(t, err, ErrJobNotFound)
	})

	t.Run("无法识别的人员不会产生写入", func(t *testing.T) {
		store := newFakeStore()
		store.addJob(1, 10, 12)
		service := NewAssignmentService(store, store, store)

		_, err := service.SetAssignments(1, []int64{999}, nil)
		var unresolved *UnresolvedAssigneeError
		require.ErrorAs(t, err, &unresolved)
		assert.Zero(t, store.replaceCalls)
	})
}

func TestSetAssignmentsWithTimeRange(t *testing.T) {
	t.Run("冲突检查针对新排期而不是旧排期", func(t *testing.T) {
		store := newFakeStore()
		store.addJob(1, 10, 12)
		store.unavailability = []*domain.Unavailability{
			{AssigneeID: 1, Date: "2026-09-15"},
		}
		service := NewAssignmentService(store, store, store)

		// 旧区间 [10, 12] 不含 15 号，但新区间含，必须被拒绝
		start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
		end := time.Date(2026, 9, 16, 17, 0, 0, 0, time.UTC)
		_, err := service.SetAssignments(1, []int64{1}, &TimeRange{StartTime: &start, EndTime: &end})
		var conflictErr *ConflictError
		require.ErrorAs(t, err, &conflictErr)

		// 排期和指派一起失败，旧排期保持不变
		stored, getErr := store.GetJobByID(1)
		require.NoError(t, getErr)
		assert.Equal(t, 10, stored.StartTime.Day())
		assert.Empty(t, stored.Assignments)
	})

	t.Run("排期和指派在一次提交中一起生效", func(t *testing.T) {
		store := newFakeStore()
		store.addJob(1, 10, 12)
		service := NewAssignmentService(store, store, store)

		start := time.Date(2026, 9, 20, 9, 0, 0, 0, time.UTC)
		end := time.Date(2026, 9, 21, 17, 0, 0, 0, time.UTC)
		job, err := service.SetAssignments(1, []int64{1}, &TimeRange{StartTime: &start, EndTime: &end})
		require.NoError(t, err)
		assert.Equal(t, 20, job.StartTime.Day())
		assert.Len(t, job.Assignments, 1)
	})

	t.Run("清除排期", func(t *testing.T) {
		store := newFakeStore()
		store.addJob(1, 10, 12)
		store.unavailability = []*domain.Unavailability{
			{AssigneeID: 1, Date: "2026-09-11"},
		}
		service := NewAssignmentService(store, store, store)

		// 排期被清除后不再有冲突检查
		job, err := service.SetAssignments(1, []int64{1}, &TimeRange{})
		require.NoError(t, err)
		assert.Nil(t, job.StartTime)
		assert.Nil(t, job.EndTime)
		assert.Len(t, job.Assignments, 1)
	})

	t.Run("开始时间晚于结束时间被拒绝", func(t *testing.T) {
		store := newFakeStore()
		store.addJob(1, 10, 12)
		service := NewAssignmentService(store, store, store)

		start := time.Date(2026, 9, 16, 9, 0, 0, 0, time.UTC)
		end := time.Date(2026, 9, 14, 17, 0, 0, 0, time.UTC)
		_, err := service.SetAssignments(1, []int64{1}, &TimeRange{StartTime: &start, EndTime: &end})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
		assert.Zero(t, store.replaceCalls)
	})
}

// 同一工单的并发提交必须串行，最终状态等于其中某一次完整提交的结果
func TestSetAssignmentsSerializesPerJob(t *testing.T) {
	store := newFakeStore()
	store.addJob(1, 10, 12)
	service := NewAssignmentService(store, store, store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		assigneeID := int64(1 + i%2)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.SetAssignments(1, []int64{assigneeID}, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	job, err := store.GetJobByID(1)
	require.NoError(t, err)
	require.Len(t, job.Assignments, 1)
	require.NotNil(t, job.Assignments[0].WorkerID)
	assert.Contains(t, []int64{1, 2}, *job.Assignments[0].WorkerID)
	assert.Equal(t, 20, store.replaceCalls)
}

type failingAvailabilityStore struct {
	err error
}

func (f *failingAvailabilityStore) GetAllUnavailability() ([]*domain.Unavailability, error) {
	return nil, f.err
}

// store 层的错误原样向上传递，不包装成业务错误
func TestSetAssignmentsPropagatesStoreErrors(t *testing.T) {
	store := newFakeStore()
	store.addJob(1, 10, 12)
	boom := errors.New("连接已断开")
	service := NewAssignmentService(store, store, &failingAvailabilityStore{err: boom})

	_, err := service.SetAssignments(1, []int64{1}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, store.replaceCalls)
}
