package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"notesapi/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	u := &model.User{
		ID:           "user-uuid",
		Email:        "student@example.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    now,
	}

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
		AddRow(u.ID, u.Email, u.PasswordHash, u.CreatedAt)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.ID, u.Email, u.PasswordHash, u.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, u)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, u.Email, result.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("user-uuid", "student@example.com", "$2a$10$hash", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("student@example.com").
			WillReturnRows(rows)

		u, err := repo.FindByEmail(ctx, "student@example.com")

		assert.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "user-uuid", u.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("missing@example.com").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByEmail(ctx, "missing@example.com")

		assert.Error(t, err)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, u)
	})
}

func TestProfilePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProfilePostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	p := &model.Profile{
		ID:        "user-uuid",
		FullName:  "Asha Rao",
		Email:     "student@example.com",
		Branch:    "BCA",
		Semester:  3,
		CreatedAt: now,
	}

	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "branch", "semester", "created_at"}).
		AddRow(p.ID, p.FullName, p.Email, p.Branch, p.Semester, p.CreatedAt)

	mock.ExpectQuery("INSERT INTO profiles").
		WithArgs(p.ID, p.FullName, p.Email, p.Branch, p.Semester, p.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, p)

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "BCA", result.Branch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProfilePostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "full_name", "email", "branch", "semester", "created_at"}).
			AddRow("user-uuid", "Asha Rao", "student@example.com", "BCA", 3, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM profiles").
			WithArgs("user-uuid").
			WillReturnRows(rows)

		p, err := repo.FindByID(ctx, "user-uuid")

		assert.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Asha Rao", p.FullName)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM profiles").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByID(ctx, "missing")

		assert.Error(t, err)
		assert.Nil(t, p)
	})
}
