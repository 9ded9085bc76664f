package postgres

import (
	"context"
	"database/sql"

	"notesapi/internal/model"
	"notesapi/internal/repository"
)

// ProfilePostgres is a PostgreSQL implementation of repository.ProfileRepository.
type ProfilePostgres struct {
	db *sql.DB
}

// NewProfilePostgres creates a new ProfilePostgres repository.
func NewProfilePostgres(db *sql.DB) *ProfilePostgres {
	return &ProfilePostgres{db: db}
}

var _ repository.ProfileRepository = (*ProfilePostgres)(nil)

// Create inserts a new profile row keyed by the auth user id.
func (r *ProfilePostgres) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	const q = `
		INSERT INTO profiles (id, full_name, email, branch, semester, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, full_name, email, branch, semester, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.FullName,
		p.Email,
		p.Branch,
		p.Semester,
		p.CreatedAt,
	)
	var out model.Profile
	if err := row.Scan(
		&out.ID,
		&out.FullName,
		&out.Email,
		&out.Branch,
		&out.Semester,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single profile by its ID.
func (r *ProfilePostgres) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	const q = `
		SELECT id, full_name, email, branch, semester, created_at
		FROM profiles
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var p model.Profile
	if err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.Branch,
		&p.Semester,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
