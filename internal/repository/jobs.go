package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
)

func (r *Repository) GetAllJobs(status string) ([]*domain.Job, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			j.id,
			j.title,
			j.description,
			j.status,
			j.priority,
			j.start_time,
			j.end_time,
			j.created_at,
			j.version,
			ja.id,
			ja.worker_id,
			ja.contractor_id
		FROM jobs j
		LEFT JOIN job_assignments ja ON j.id = ja.job_id
	`
	params := []any{}
	if status != "" {
		query += ` WHERE j.status = $1`
		params = append(params, status)
	}
	query += ` ORDER BY j.id, ja.id`

	rows, err := r.dbpool.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobsMap := make(map[int64]*domain.Job)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID          int64
			Title       string
			Description string
			Status      string
			Priority    string
			StartTime   sql.NullTime
			EndTime     sql.NullTime
			CreatedAt   time.Time
			Version     int32

			AssignmentID sql.NullInt64
			WorkerID     sql.NullInt64
			ContractorID sql.NullInt64
		}

		dst := []any{
			&row.ID,
			&row.Title,
			&row.Description,
			&row.Status,
			&row.Priority,
			&row.StartTime,
			&row.EndTime,
			&row.CreatedAt,
			&row.Version,
			&row.AssignmentID,
			&row.WorkerID,
			&row.ContractorID,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		job, exists := jobsMap[row.ID]
		if !exists {
			// 说明此时是第一次查到这个工单，需要在 map 中初始化
			job = &domain.Job{
				ID:          row.ID,
				Title:       row.Title,
				Description: row.Description,
				Status:      domain.JobStatus(row.Status),
				Priority:    domain.JobPriority(row.Priority),
				CreatedAt:   row.CreatedAt,
				Version:     row.Version,
				Assignments: make([]domain.Assignment, 0),
			}
			if row.StartTime.Valid {
				startTime := row.StartTime.Time
				job.StartTime = &startTime
			}
			if row.EndTime.Valid {
				endTime := row.EndTime.Time
				job.EndTime = &endTime
			}
			jobsMap[row.ID] = job
			order = append(order, row.ID)
		}

		// 如果 AssignmentID 为空，则表示这个工单没有任何指派，跳过指派解析的部分
		if !row.AssignmentID.Valid {
			continue
		}

		assignment := domain.Assignment{
			ID:    row.AssignmentID.Int64,
			JobID: row.ID,
		}
		if row.WorkerID.Valid {
			workerID := row.WorkerID.Int64
			assignment.WorkerID = &workerID
		}
		if row.ContractorID.Valid {
			contractorID := row.ContractorID.Int64
			assignment.ContractorID = &contractorID
		}
		job.Assignments = append(job.Assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	jobs := make([]*domain.Job, 0, len(order))
	for _, id := range order {
		jobs = append(jobs, jobsMap[id])
	}

	return jobs, nil
}

func (r *Repository) GetJobByID(id int64) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT title, description, status, priority, start_time, end_time, created_at, version
		FROM jobs WHERE id = $1
	`

	job := &domain.Job{
		ID:          id,
		Assignments: make([]domain.Assignment, 0),
	}

	var startTime, endTime sql.NullTime
	dst := []any{&job.Title, &job.Description, &job.Status, &job.Priority, &startTime, &endTime, &job.CreatedAt, &job.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if startTime.Valid {
		job.StartTime = &startTime.Time
	}
	if endTime.Valid {
		job.EndTime = &endTime.Time
	}

	query = `
		SELECT id, worker_id, contractor_id
		FROM job_assignments WHERE job_id = $1
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		assignment := domain.Assignment{JobID: id}
		var workerID, contractorID sql.NullInt64
		if err := rows.Scan(&assignment.ID, &workerID, &contractorID); err != nil {
			return nil, err
		}
		if workerID.Valid {
			assignment.WorkerID = &workerID.Int64
		}
		if contractorID.Valid {
			assignment.ContractorID = &contractorID.Int64
		}
		job.Assignments = append(job.Assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return job, nil
}

func (r *Repository) CreateJob(job *domain.Job) error {
	query := `
		INSERT INTO jobs (title, description, status, priority, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{job.Title, job.Description, job.Status, job.Priority, job.StartTime, job.EndTime}
	dst := []any{&job.ID, &job.CreatedAt, &job.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateJob(job *domain.Job) error {
	query := `
		UPDATE jobs
		SET
			title = $1,
			description = $2,
			status = $3,
			priority = $4,
			start_time = $5,
			end_time = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{job.Title, job.Description, job.Status, job.Priority, job.StartTime, job.EndTime, job.ID, job.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&job.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteJob(id int64) error {
	query := `
		DELETE FROM jobs WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// ReplaceJobAssignments 在一个事务中整体覆盖工单的指派列表和排期
// 旧的指派会被全部删除，不做增量合并
func (r *Repository) ReplaceJobAssignments(job *domain.Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE jobs
		SET
			start_time = $1,
			end_time = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	if err := tx.QueryRowContext(ctx, query, job.StartTime, job.EndTime, job.ID, job.Version).Scan(&job.Version); err != nil {
		return err
	}

	// 先将之前的指派全部删除
	query = `DELETE FROM job_assignments WHERE job_id = $1`
	if _, err := tx.ExecContext(ctx, query, job.ID); err != nil {
		return err
	}

	query = `
		INSERT INTO job_assignments (job_id, worker_id, contractor_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	for i := range job.Assignments {
		assignment := &job.Assignments[i]
		if err := tx.QueryRowContext(ctx, query, job.ID, assignment.WorkerID, assignment.ContractorID).Scan(&assignment.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
