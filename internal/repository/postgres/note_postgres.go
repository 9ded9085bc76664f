package postgres

import (
	"context"
	"database/sql"

	"notesapi/internal/model"
	"notesapi/internal/repository"
)

// NotePostgres is a PostgreSQL implementation of repository.NoteRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type NotePostgres struct {
	db *sql.DB
}

// NewNotePostgres creates a new NotePostgres repository.
func NewNotePostgres(db *sql.DB) *NotePostgres {
	return &NotePostgres{db: db}
}

var _ repository.NoteRepository = (*NotePostgres)(nil)

const noteColumns = `
	n.id, n.title, n.subject, n.branch, n.semester, n.unit, n.description,
	n.file_path, n.uploaded_by, n.created_at, p.full_name, p.branch
`

// scanNote reads one joined row. The profile columns come from a LEFT JOIN and
// may be NULL when the uploader's profile row is missing.
func scanNote(s interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	var fullName, profBranch sql.NullString
	if err := s.Scan(
		&n.ID,
		&n.Title,
		&n.Subject,
		&n.Branch,
		&n.Semester,
		&n.Unit,
		&n.Description,
		&n.FilePath,
		&n.UploadedBy,
		&n.CreatedAt,
		&fullName,
		&profBranch,
	); err != nil {
		return nil, err
	}
	if fullName.Valid {
		n.Uploader = &model.UploaderProfile{
			FullName: fullName.String,
			Branch:   profBranch.String,
		}
	}
	return &n, nil
}

// Create inserts a new note row and returns the stored record.
func (r *NotePostgres) Create(ctx context.Context, note *model.Note) (*model.Note, error) {
	const q = `
		INSERT INTO notes (id, title, subject, branch, semester, unit, description, file_path, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, title, subject, branch, semester, unit, description, file_path, uploaded_by, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		note.ID,
		note.Title,
		note.Subject,
		note.Branch,
		note.Semester,
		note.Unit,
		note.Description,
		note.FilePath,
		note.UploadedBy,
		note.CreatedAt,
	)
	var out model.Note
	if err := row.Scan(
		&out.ID,
		&out.Title,
		&out.Subject,
		&out.Branch,
		&out.Semester,
		&out.Unit,
		&out.Description,
		&out.FilePath,
		&out.UploadedBy,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single note with its uploader profile joined.
func (r *NotePostgres) FindByID(ctx context.Context, id string) (*model.Note, error) {
	const q = `
		SELECT ` + noteColumns + `
		FROM notes n
		LEFT JOIN profiles p ON p.id = n.uploaded_by
		WHERE n.id = $1
	`
	return scanNote(r.db.QueryRowContext(ctx, q, id))
}

// ListAll returns the full note collection, newest first. The secondary id sort
// keeps the order stable for rows created in the same instant.
func (r *NotePostgres) ListAll(ctx context.Context) ([]model.Note, error) {
	const q = `
		SELECT ` + noteColumns + `
		FROM notes n
		LEFT JOIN profiles p ON p.id = n.uploaded_by
		ORDER BY n.created_at DESC, n.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
