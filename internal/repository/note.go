package repository

import (
	"context"

	"notesapi/internal/model"
)

// NoteRepository defines data access for notes using SQL queries only.
// No business logic here — strictly persistence operations.
type NoteRepository interface {
	// Create inserts a new note record.
	// The caller provides required fields (e.g., ID, CreatedAt) according to the database schema defaults.
	// Returns the stored note (may include values set by the DB).
	Create(ctx context.Context, note *model.Note) (*model.Note, error)

	// FindByID returns a note by its ID with the uploader profile joined.
	FindByID(ctx context.Context, id string) (*model.Note, error)

	// ListAll returns every note with the uploader profile (full_name, branch)
	// joined, ordered by created_at descending.
	ListAll(ctx context.Context) ([]model.Note, error)
}

// ProfileRepository defines data access for user profiles.
type ProfileRepository interface {
	// Create inserts a new profile record keyed by the auth user id.
	Create(ctx context.Context, p *model.Profile) (*model.Profile, error)

	// FindByID returns a profile by its ID.
	FindByID(ctx context.Context, id string) (*model.Profile, error)
}

// UserRepository defines data access for authentication identities.
type UserRepository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByEmail returns a user by email. sql.ErrNoRows when absent.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
