package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanriapp/kanri/internal/session"
	_ "github.com/kanriapp/kanri/testing"
)

type memoryRepo struct {
	sessions map[string]session.Session
	deletes  int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sessions: make(map[string]session.Session)}
}

func (m *memoryRepo) Create(ctx context.Context, sess session.Session) error {
	m.sessions[sess.ID] = sess
	return nil
}

func (m *memoryRepo) FindByID(ctx context.Context, id string) (*session.Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id string) error {
	m.deletes++
	delete(m.sessions, id)
	return nil
}

func TestCreateSessionDefaults(t *testing.T) {
	repo := newMemoryRepo()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := session.NewService(repo, session.WithClock(func() time.Time { return now }))

	sess, err := svc.CreateSession(context.Background(), "u1")
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, now, sess.CreatedAt)
	assert.Equal(t, now.Add(24*time.Hour), sess.ExpiresAt)
	assert.Contains(t, repo.sessions, sess.ID)
}

func TestCreateSessionUniqueIDs(t *testing.T) {
	repo := newMemoryRepo()
	svc := session.NewService(repo)

	first, err := svc.CreateSession(context.Background(), "u1")
	require.NoError(t, err)
	second, err := svc.CreateSession(context.Background(), "u1")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestGetSession(t *testing.T) {
	repo := newMemoryRepo()
	svc := session.NewService(repo)

	created, err := svc.CreateSession(context.Background(), "u1")
	require.NoError(t, err)

	got, err := svc.GetSession(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	missing, err := svc.GetSession(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, missing)

	empty, err := svc.GetSession(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestGetSessionExpired(t *testing.T) {
	repo := newMemoryRepo()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	current := now
	svc := session.NewService(repo, session.WithClock(func() time.Time { return current }))

	created, err := svc.CreateSession(context.Background(), "u1")
	require.NoError(t, err)

	current = now.Add(24*time.Hour + time.Minute)

	got, err := svc.GetSession(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	// Passive expiry: the row itself stays until deleted.
	assert.Contains(t, repo.sessions, created.ID)
}

func TestGetSessionFromRequest(t *testing.T) {
	repo := newMemoryRepo()
	svc := session.NewService(repo)

	created, err := svc.CreateSession(context.Background(), "u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sessionId", Value: created.ID})

	got, err := svc.GetSessionFromRequest(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
}

func TestGetSessionFromRequestNoCookie(t *testing.T) {
	svc := session.NewService(newMemoryRepo())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got, err := svc.GetSessionFromRequest(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteSessionIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	svc := session.NewService(repo)

	created, err := svc.CreateSession(context.Background(), "u1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(context.Background(), created.ID))
	require.NoError(t, svc.DeleteSession(context.Background(), created.ID))
	assert.NotContains(t, repo.sessions, created.ID)
}

func TestServiceOptions(t *testing.T) {
	svc := session.NewService(newMemoryRepo(),
		session.WithTTL(time.Hour),
		session.WithCookieName("custom"),
	)
	assert.Equal(t, time.Hour, svc.TTL())
	assert.Equal(t, "custom", svc.CookieName())
}
