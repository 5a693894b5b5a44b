package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanriapp/kanri/internal/shared"
	"github.com/kanriapp/kanri/internal/validate"
	_ "github.com/kanriapp/kanri/testing"
)

func newMockPool(t *testing.T) (pgxmock.PgxPoolIface, *Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, &Repository{db: mock}
}

func userRows(now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "username", "email", "created_at", "updated_at"}).
		AddRow("u1", "alice", "alice@example.com", now, now)
}

func TestRepositoryCreate(t *testing.T) {
	mock, repo := newMockPool(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("u1", "alice", "alice@example.com", "hash", pgxmock.AnyArg()).
		WillReturnRows(userRows(now))

	created, err := repo.Create(context.Background(), NewUser{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", created.ID)
	assert.Equal(t, "alice", created.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateDuplicateEmail(t *testing.T) {
	mock, repo := newMockPool(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("u1", "alice", "alice@example.com", "hash", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "email_idx"})

	_, err := repo.Create(context.Background(), NewUser{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	})

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
	assert.Equal(t, "Failed to create user in database", err.Error())
}

func TestRepositoryCreateDuplicateUsername(t *testing.T) {
	mock, repo := newMockPool(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("u1", "alice", "alice@example.com", "hash", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "username_idx"})

	_, err := repo.Create(context.Background(), NewUser{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	})

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)
}

func TestRepositoryCreateGenericFailure(t *testing.T) {
	mock, repo := newMockPool(t)

	driverErr := errors.New("connection refused")
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("u1", "alice", "alice@example.com", "hash", pgxmock.AnyArg()).
		WillReturnError(driverErr)

	_, err := repo.Create(context.Background(), NewUser{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	})

	assert.Equal(t, "Failed to create user in database", err.Error())
	assert.ErrorIs(t, err, driverErr)
}

func TestRepositoryFindByIDAbsent(t *testing.T) {
	mock, repo := newMockPool(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "created_at", "updated_at"}))

	got, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryFindByEmail(t *testing.T) {
	mock, repo := newMockPool(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("alice@example.com").
		WillReturnRows(userRows(now))

	got, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.ID)
}

func TestRepositoryFindByEmailWithPassword(t *testing.T) {
	mock, repo := newMockPool(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, username, email, password_hash`).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "updated_at"}).
			AddRow("u1", "alice", "alice@example.com", "hash", now, now))

	got, err := repo.FindByEmailWithPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestRepositoryFindAll(t *testing.T) {
	mock, repo := newMockPool(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT (.+) FROM users ORDER BY created_at`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "created_at", "updated_at"}).
			AddRow("u1", "alice", "alice@example.com", now, now).
			AddRow("u2", "bob", "bob@example.com", now, now))

	users, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Username)
}

func TestRepositoryUpdateMissingID(t *testing.T) {
	mock, repo := newMockPool(t)

	username := "ghost"
	mock.ExpectQuery(`UPDATE users`).
		WithArgs("missing", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "created_at", "updated_at"}))

	_, err := repo.Update(context.Background(), "missing", validate.ProfileUpdate{Username: &username})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, "Failed to update user in database", err.Error())
}

func TestRepositoryDelete(t *testing.T) {
	mock, repo := newMockPool(t)

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), "u1"))
}

func TestRepositoryDeleteMissingID(t *testing.T) {
	mock, repo := newMockPool(t)

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, "Failed to delete user from database", err.Error())
}
