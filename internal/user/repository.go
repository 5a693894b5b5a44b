package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kanriapp/kanri/internal/shared"
	"github.com/kanriapp/kanri/internal/validate"
)

// RepositoryPort defines data access methods for user accounts.
//
// Read methods report absence as (nil, nil). Write methods wrap any
// storage failure in a *WriteError (or *DuplicateError for unique
// violations) so driver internals never leak into error messages;
// updating or deleting a missing id yields a *WriteError wrapping
// shared.ErrNotFound.
type RepositoryPort interface {
	Create(ctx context.Context, in NewUser) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmailWithPassword(ctx context.Context, email string) (*UserWithPassword, error)
	FindAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id string, in validate.ProfileUpdate) (*User, error)
	Delete(ctx context.Context, id string) error
}

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides PostgreSQL backed persistence for users.
type Repository struct {
	db dbtx
}

// NewRepository constructs a repository over a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

const userColumns = "id, username, email, created_at, updated_at"

// Create inserts a new account and returns it without the hash.
func (r *Repository) Create(ctx context.Context, in NewUser) (*User, error) {
	now := time.Now().UTC()
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 RETURNING `+userColumns,
		in.ID, in.Username, in.Email, in.PasswordHash, now)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrapWriteError(verbCreate, err)
	}
	return u, nil
}

// FindByID fetches an account by id; absence is (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail fetches an account by email; absence is (nil, nil).
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindByUsername fetches an account by username; absence is (nil, nil).
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// FindByEmailWithPassword fetches an account including its stored
// hash. This is the only read that exposes password_hash.
func (r *Repository) FindByEmailWithPassword(ctx context.Context, email string) (*UserWithPassword, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE email = $1`,
		email)
	var u UserWithPassword
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// FindAll returns every account, hash excluded.
func (r *Repository) FindAll(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies the submitted profile fields and returns the updated
// record. Absent fields keep their stored values.
func (r *Repository) Update(ctx context.Context, id string, in validate.ProfileUpdate) (*User, error) {
	now := time.Now().UTC()
	row := r.db.QueryRow(ctx,
		`UPDATE users
		 SET username = COALESCE($2, username), email = COALESCE($3, email), updated_at = $4
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, in.Username, in.Email, now)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &WriteError{verb: verbUpdate, cause: shared.ErrNotFound}
		}
		return nil, wrapWriteError(verbUpdate, err)
	}
	return u, nil
}

// Delete removes an account. Sessions cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapWriteError(verbDelete, err)
	}
	if tag.RowsAffected() == 0 {
		return &WriteError{verb: verbDelete, cause: shared.ErrNotFound}
	}
	return nil
}

func (r *Repository) findOne(ctx context.Context, query, arg string) (*User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func wrapWriteError(verb string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		field := "email"
		if strings.Contains(pgErr.ConstraintName, "username") {
			field = "username"
		}
		return &DuplicateError{Field: field, verb: verb}
	}
	return &WriteError{verb: verb, cause: err}
}

var _ RepositoryPort = (*Repository)(nil)
