package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kanriapp/kanri/internal/i18n"
	"github.com/kanriapp/kanri/internal/shared"
	"github.com/kanriapp/kanri/internal/validate"
)

// PasswordHasher produces one-way password hashes. Implemented by the
// auth package; kept as an interface here to avoid a dependency on it.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// Result is the outcome of a user write operation. Validation and
// conflict problems are carried as field-keyed errors rather than Go
// errors: they are expected outcomes that the form renders back.
type Result struct {
	Success bool
	Data    *User
	Errors  validate.FieldErrors
}

func failure(field, message string) Result {
	return Result{Errors: validate.FieldErrors{field: message}}
}

// Service orchestrates validation, hashing and persistence for user
// accounts, and maps storage failures to user-safe messages.
type Service struct {
	repo     RepositoryPort
	hasher   PasswordHasher
	messages *i18n.Catalog
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher, messages: i18n.Default()}
}

// CreateUser registers a new account. Invalid input returns field
// errors without touching storage; a duplicate email or username maps
// to a field error on the offending field.
func (s *Service) CreateUser(ctx context.Context, in validate.Registration) Result {
	if errs := validate.ValidateRegistration(in); errs != nil {
		return Result{Errors: errs}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return failure("general", s.messages.Message(i18n.KindServerError))
	}

	created, err := s.repo.Create(ctx, NewUser{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return s.mapWriteError(err)
	}
	return Result{Success: true, Data: created}
}

// UpdateUser applies a partial profile update. Only submitted fields
// are validated; an email or username collision with a different
// account becomes a field error.
func (s *Service) UpdateUser(ctx context.Context, id string, in validate.ProfileUpdate) Result {
	if errs := validate.ValidateProfileUpdate(in); errs != nil {
		return Result{Errors: errs}
	}

	if in.Email != nil {
		existing, err := s.repo.FindByEmail(ctx, *in.Email)
		if err != nil {
			return failure("general", s.messages.Message(i18n.KindServerError))
		}
		if existing != nil && existing.ID != id {
			return failure("email", s.messages.Message(i18n.KindEmailTaken))
		}
	}
	if in.Username != nil {
		existing, err := s.repo.FindByUsername(ctx, *in.Username)
		if err != nil {
			return failure("general", s.messages.Message(i18n.KindServerError))
		}
		if existing != nil && existing.ID != id {
			return failure("username", s.messages.Message(i18n.KindUsernameTaken))
		}
	}

	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return failure("general", s.messages.Message(i18n.KindUserNotFound))
		}
		return s.mapWriteError(err)
	}
	return Result{Success: true, Data: updated}
}

// DeleteUser removes an account; sessions cascade in storage.
// Deleting an unknown id is a general error, not a panic path.
func (s *Service) DeleteUser(ctx context.Context, id string) Result {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return failure("general", s.messages.Message(i18n.KindUserNotFound))
		}
		return failure("general", s.messages.Message(i18n.KindServerError))
	}
	return Result{Success: true}
}

// GetUserByID returns the account or nil when absent; absence is not
// an error.
func (s *Service) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// GetUserByEmail returns the account or nil when absent.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// GetAllUsers returns every account. The User type carries no hash, so
// nothing needs stripping here.
func (s *Service) GetAllUsers(ctx context.Context) ([]User, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) mapWriteError(err error) Result {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		kind := i18n.KindEmailTaken
		if dup.Field == "username" {
			kind = i18n.KindUsernameTaken
		}
		return failure(dup.Field, s.messages.Message(kind))
	}
	return failure("general", s.messages.Message(i18n.KindServerError))
}
