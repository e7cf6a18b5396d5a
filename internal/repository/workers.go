package repository

import (
	"context"
	"time"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
)

func (r *Repository) GetAllWorkers() ([]*domain.Worker, error) {
	query := `
		SELECT id, name, phone, email, is_active, created_at, version FROM workers
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := []*domain.Worker{}
	for rows.Next() {
		var worker domain.Worker
		dst := []any{&worker.ID, &worker.Name, &worker.Phone, &worker.Email, &worker.IsActive, &worker.CreatedAt, &worker.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		workers = append(workers, &worker)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

func (r *Repository) GetWorkerByID(id int64) (*domain.Worker, error) {
	query := `
		SELECT name, phone, email, is_active, created_at, version
		FROM workers WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	worker := &domain.Worker{
		ID: id,
	}

	dst := []any{&worker.Name, &worker.Phone, &worker.Email, &worker.IsActive, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return worker, nil
}

func (r *Repository) CreateWorker(worker *domain.Worker) error {
	query := `
		INSERT INTO workers (name, phone, email, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{worker.Name, worker.Phone, worker.Email, worker.IsActive}
	dst := []any{&worker.ID, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateWorker(worker *domain.Worker) error {
	query := `
		UPDATE workers
		SET
			name = $1,
			phone = $2,
			email = $3,
			is_active = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{worker.Name, worker.Phone, worker.Email, worker.IsActive, worker.ID, worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&worker.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteWorker(id int64) error {
	query := `
		DELETE FROM workers WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
