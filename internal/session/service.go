package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTTL is the lifetime of a login session.
	DefaultTTL = 24 * time.Hour
	// DefaultCookieName is the cookie carrying the session id.
	DefaultCookieName = "sessionId"
)

// Service manages the login session lifecycle. Expiry is passive: an
// expired row stays in storage and is simply treated as absent when
// read.
type Service struct {
	repo       RepositoryPort
	ttl        time.Duration
	cookieName string
	now        func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithTTL overrides the session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) Option {
	return func(s *Service) { s.cookieName = name }
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		ttl:        DefaultTTL,
		cookieName: DefaultCookieName,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession persists a new session for userID with a fresh unique
// id and an expiry of now plus the configured TTL.
func (s *Service) CreateSession(ctx context.Context, userID string) (*Session, error) {
	now := s.now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// GetSession resolves a session id. Unknown and expired sessions both
// come back as nil.
func (s *Service) GetSession(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Expired(s.now()) {
		return nil, nil
	}
	return sess, nil
}

// GetSessionFromRequest extracts the session cookie from the request
// and resolves it; nil when the cookie is missing or stale.
func (s *Service) GetSessionFromRequest(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}
	return s.GetSession(ctx, cookie.Value)
}

// DeleteSession removes a session. Idempotent: deleting an id that
// does not exist succeeds.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// TTL exposes the configured session lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// CookieName returns the session cookie name.
func (s *Service) CookieName() string {
	return s.cookieName
}
