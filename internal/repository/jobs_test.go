package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops-dev/field-dispatch/backend/internal/config"
	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 10
	cfg.Database.TransactionTimeout = 20

	return NewRepository(cfg, db), mock
}

func TestGetAllJobs(t *testing.T) {
	repo, mock := newTestRepository(t)

	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 12, 17, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	columns := []string{
		"id", "title", "description", "status", "priority",
		"start_time", "end_time", "created_at", "version",
		"ja.id", "ja.worker_id", "ja.contractor_id",
	}

	// 工单 1 有两条指派（LEFT JOIN 产生两行），工单 2 没有指派也没有排期
	rows := sqlmock.NewRows(columns).
		AddRow(int64(1), "空调维修", "", "scheduled", "high", start, end, createdAt, int32(1), int64(10), int64(3), nil).
		AddRow(int64(1), "空调维修", "", "scheduled", "high", start, end, createdAt, int32(1), int64(11), nil, int64(100)).
		AddRow(int64(2), "电梯年检", "", "draft", "normal", nil, nil, createdAt, int32(1), nil, nil, nil)

	mock.ExpectQuery("SELECT(.|\n)+FROM jobs j(.|\n)+LEFT JOIN job_assignments").
		WillReturnRows(rows)

	jobs, err := repo.GetAllJobs("")
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	require.Len(t, jobs[0].Assignments, 2)
	require.NotNil(t, jobs[0].Assignments[0].WorkerID)
	assert.Equal(t, int64(3), *jobs[0].Assignments[0].WorkerID)
	require.NotNil(t, jobs[0].Assignments[1].ContractorID)
	assert.Equal(t, int64(100), *jobs[0].Assignments[1].ContractorID)

	assert.Empty(t, jobs[1].Assignments)
	assert.Nil(t, jobs[1].StartTime)
	assert.Nil(t, jobs[1].EndTime)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllJobsFiltersByStatus(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("WHERE j.status = \\$1").
		WithArgs("scheduled").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "status", "priority",
			"start_time", "end_time", "created_at", "version",
			"ja.id", "ja.worker_id", "ja.contractor_id",
		}))

	jobs, err := repo.GetAllJobs("scheduled")
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJobByID(t *testing.T) {
	repo, mock := newTestRepository(t)

	createdAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT title, description, status, priority, start_time, end_time, created_at, version(.|\n)+FROM jobs WHERE id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"title", "description", "status", "priority", "start_time", "end_time", "created_at", "version",
		}).AddRow("空调维修", "", "draft", "normal", nil, nil, createdAt, int32(1)))

	mock.ExpectQuery("SELECT id, worker_id, contractor_id(.|\n)+FROM job_assignments WHERE job_id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "worker_id", "contractor_id"}).
			AddRow(int64(10), int64(3), nil))

	job, err := repo.GetJobByID(1)
	require.NoError(t, err)
	assert.Equal(t, "空调维修", job.Title)
	assert.Nil(t, job.StartTime)
	require.Len(t, job.Assignments, 1)
	require.NotNil(t, job.Assignments[0].WorkerID)
	assert.Equal(t, int64(3), *job.Assignments[0].WorkerID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJobByIDNotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("FROM jobs WHERE id = \\$1").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetJobByID(42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceJobAssignments(t *testing.T) {
	repo, mock := newTestRepository(t)

	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 12, 17, 0, 0, 0, time.UTC)
	workerID := int64(3)
	contractorID := int64(100)

	job := &domain.Job{
		ID:        1,
		StartTime: &start,
		EndTime:   &end,
		Version:   2,
		Assignments: []domain.Assignment{
			{JobID: 1, WorkerID: &workerID},
			{JobID: 1, ContractorID: &contractorID},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE jobs(.|\n)+WHERE id = \\$3 AND version = \\$4(.|\n)+RETURNING version").
		WithArgs(&start, &end, int64(1), int32(2)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int32(3)))
	mock.ExpectExec("DELETE FROM job_assignments WHERE job_id = \\$1").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("INSERT INTO job_assignments").
		WithArgs(int64(1), &workerID, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(20)))
	mock.ExpectQuery("INSERT INTO job_assignments").
		WithArgs(int64(1), nil, &contractorID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(21)))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceJobAssignments(job))
	assert.Equal(t, int32(3), job.Version)
	assert.Equal(t, int64(20), job.Assignments[0].ID)
	assert.Equal(t, int64(21), job.Assignments[1].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// 版本不匹配时 UPDATE 查不到行，整个事务回滚，不会执行后续的删除和插入
func TestReplaceJobAssignmentsVersionMismatch(t *testing.T) {
	repo, mock := newTestRepository(t)

	job := &domain.Job{ID: 1, Version: 1}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE jobs").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.ReplaceJobAssignments(job)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateJob(t *testing.T) {
	repo, mock := newTestRepository(t)

	createdAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	job := &domain.Job{
		Title:    "空调维修",
		Status:   domain.JobStatusDraft,
		Priority: domain.JobPriorityNormal,
	}

	mock.ExpectQuery("INSERT INTO jobs").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "version"}).
			AddRow(int64(1), createdAt, int32(1)))

	require.NoError(t, repo.CreateJob(job))
	assert.Equal(t, int64(1), job.ID)
	assert.Equal(t, int32(1), job.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
