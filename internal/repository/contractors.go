package repository

import (
	"context"
	"time"

	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
)

func (r *Repository) GetAllContractors() ([]*domain.Contractor, error) {
	query := `
		SELECT id, name, company, phone, email, created_at, version FROM contractors
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contractors := []*domain.Contractor{}
	for rows.Next() {
		var contractor domain.Contractor
		dst := []any{&contractor.ID, &contractor.Name, &contractor.Company, &contractor.Phone, &contractor.Email, &contractor.CreatedAt, &contractor.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		contractors = append(contractors, &contractor)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return contractors, nil
}

func (r *Repository) GetContractorByID(id int64) (*domain.Contractor, error) {
	query := `
		SELECT name, company, phone, email, created_at, version
		FROM contractors WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	contractor := &domain.Contractor{
		ID: id,
	}

	dst := []any{&contractor.Name, &contractor.Company, &contractor.Phone, &contractor.Email, &contractor.CreatedAt, &contractor.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return contractor, nil
}

func (r *Repository) CreateContractor(contractor *domain.Contractor) error {
	query := `
		INSERT INTO contractors (name, company, phone, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{contractor.Name, contractor.Company, contractor.Phone, contractor.Email}
	dst := []any{&contractor.ID, &contractor.CreatedAt, &contractor.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateContractor(contractor *domain.Contractor) error {
	query := `
		UPDATE contractors
		SET
			name = $1,
			company = $2,
			phone = $3,
			email = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{contractor.Name, contractor.Company, contractor.Phone, contractor.Email, contractor.ID, contractor.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&contractor.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteContractor(id int64) error {
	query := `
		DELETE FROM contractors WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
