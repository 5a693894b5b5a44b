package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/kanriapp/kanri/internal/i18n"
	"github.com/kanriapp/kanri/internal/user"
)

// HashPassword produces a salted bcrypt hash. Two calls on the same
// input yield different hashes.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Hasher adapts the package hash functions to the interface the user
// service consumes.
type Hasher struct{}

// Hash implements user.PasswordHasher.
func (Hasher) Hash(plain string) (string, error) {
	return HashPassword(plain)
}

// UserSource is the slice of the user repository the credential check
// needs.
type UserSource interface {
	FindByEmailWithPassword(ctx context.Context, email string) (*user.UserWithPassword, error)
}

// LoginResult is the outcome of a credential check. On failure Error
// holds a generic message that does not reveal whether the email
// exists.
type LoginResult struct {
	Success bool
	User    *user.User
	Error   string
}

// Service wraps authentication business rules.
type Service struct {
	users    UserSource
	messages *i18n.Catalog
}

// NewService constructs a new Service.
func NewService(users UserSource) *Service {
	return &Service{users: users, messages: i18n.Default()}
}

// Login validates email/password credentials. Unknown email, wrong
// password and lookup failures all produce the same generic error so
// accounts cannot be enumerated. On success the returned user carries
// no hash.
func (s *Service) Login(ctx context.Context, email, password string) LoginResult {
	invalid := LoginResult{Error: s.messages.Message(i18n.KindInvalidCredentials)}

	record, err := s.users.FindByEmailWithPassword(ctx, email)
	if err != nil || record == nil {
		return invalid
	}
	if !VerifyPassword(password, record.PasswordHash) {
		return invalid
	}
	u := record.User
	return LoginResult{Success: true, User: &u}
}
