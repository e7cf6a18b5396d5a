package repository

import (
	"context"
	"time"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
	"github.com/fieldops-dev/field-dispatch/backend/internal/schedule"
)

func (r *Repository) GetAllUnavailability() ([]*domain.Unavailability, error) {
	query := `
		SELECT id, assignee_id, date, created_at FROM unavailability
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*domain.Unavailability{}
	for rows.Next() {
		var record domain.Unavailability
		var date time.Time
		dst := []any{&record.ID, &record.AssigneeID, &date, &record.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		record.Date = date.Format(schedule.DateLayout)
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Repository) GetUnavailabilityByAssigneeID(assigneeID int64) ([]*domain.Unavailability, error) {
	query := `
		SELECT id, assignee_id, date, created_at FROM unavailability WHERE assignee_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, assigneeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*domain.Unavailability{}
	for rows.Next() {
		var record domain.Unavailability
		var date time.Time
		dst := []any{&record.ID, &record.AssigneeID, &date, &record.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		record.Date = date.Format(schedule.DateLayout)
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// CreateUnavailability 插入一条不可用记录
// (assignee_id, date) 是集合语义，重复插入直接忽略
func (r *Repository) CreateUnavailability(record *domain.Unavailability) error {
	query := `
		INSERT INTO unavailability (assignee_id, date)
		VALUES ($1, $2)
		ON CONFLICT (assignee_id, date) DO NOTHING
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, record.AssigneeID, record.Date); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteUnavailability(assigneeID int64, date string) error {
	query := `
		DELETE FROM unavailability WHERE assignee_id = $1 AND date = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, assigneeID, date); err != nil {
		return err
	}

	return nil
}
