package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanriapp/kanri/internal/session"
	"github.com/kanriapp/kanri/internal/shared"
	"github.com/kanriapp/kanri/internal/ui/basic"
	"github.com/kanriapp/kanri/internal/view"
	_ "github.com/kanriapp/kanri/testing"
)

type sessionStore struct {
	sessions map[string]session.Session
}

func (s *sessionStore) Create(ctx context.Context, sess session.Session) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *sessionStore) FindByID(ctx context.Context, id string) (*session.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *sessionStore) Delete(ctx context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

type handlerFixture struct {
	repo   *mockRepository
	router chi.Router
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	sessionManager := shared.NewSessionManager(redisClient, "sessionId", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	templates, err := view.NewEngine()
	require.NoError(t, err)

	repo := newMockRepository()
	svc := NewService(repo, plainHasher{})

	store := &sessionStore{sessions: map[string]session.Session{
		"sess-u1": {
			ID:        "sess-u1",
			UserID:    "u1",
			CreatedAt: time.Now().UTC(),
			ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
		},
	}}
	sessionService := session.NewService(store)

	handler := NewHandler(nil, svc, sessionService, templates, sessionManager, csrfManager, basic.MustNew())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessionManager.Load(r.Context(), r)
			require.NoError(t, err)
			ctx := shared.ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	handler.MountRoutes(router)

	return &handlerFixture{repo: repo, router: router}
}

func (f *handlerFixture) seedAlice() {
	f.repo.seed("u1", "alice", "alice@example.com", "hash")
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func loggedIn(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "sessionId", Value: "sess-u1"})
	return req
}

func TestRegisterPage(t *testing.T) {
	f := newHandlerFixture(t)

	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/register", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "<form")
	assert.Contains(t, res.Body.String(), "ユーザー登録")
}

func TestRegisterSuccessRedirectsToLogin(t *testing.T) {
	f := newHandlerFixture(t)

	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, formRequest("/register", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"password123"},
	}))

	assert.Equal(t, http.StatusFound, res.Code)
	assert.Equal(t, "/login", res.Header().Get("Location"))
	assert.Len(t, f.repo.users, 1)
}

func TestRegisterValidationFailureReturnsJSON(t *testing.T) {
	f := newHandlerFixture(t)

	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, formRequest("/register", url.Values{
		"username": {"ab"},
		"email":    {"bad"},
		"password": {"short"},
	}))

	assert.Equal(t, http.StatusBadRequest, res.Code)

	var body registerResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Len(t, body.Errors, 3)
	assert.Contains(t, body.Errors["password"], "8文字以上")
	assert.Empty(t, f.repo.users)
}

func TestRegisterDuplicateEmailReturnsJSON(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedAlice()

	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, formRequest("/register", url.Values{
		"username": {"alice2"},
		"email":    {"alice@example.com"},
		"password": {"password123"},
	}))

	assert.Equal(t, http.StatusBadRequest, res.Code)

	var body registerResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Errors["email"], "既に使用されています")
}

func TestProfileRequiresLogin(t *testing.T) {
	f := newHandlerFixture(t)

	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/profile", nil))

	assert.Equal(t, http.StatusFound, res.Code)
	assert.Equal(t, "/login", res.Header().Get("Location"))
}

func TestProfilePageShowsCurrentValues(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedAlice()

	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, loggedIn(httptest.NewRequest(http.MethodGet, "/profile", nil)))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "alice")
	assert.Contains(t, res.Body.String(), "alice@example.com")
}

func TestProfileUpdate(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedAlice()

	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, loggedIn(formRequest("/profile", url.Values{
		"username": {"alice2"},
	})))

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/profile", res.Header().Get("Location"))
	assert.Equal(t, "alice2", f.repo.users["u1"].Username)
	assert.Equal(t, "alice@example.com", f.repo.users["u1"].Email)
}

func TestProfileUpdateInvalidFieldRerendersForm(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedAlice()

	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, loggedIn(formRequest("/profile", url.Values{
		"email": {"not-an-email"},
	})))

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "有効なメールアドレス")
	assert.Equal(t, "alice@example.com", f.repo.users["u1"].Email)
}

func TestUsersListHTML(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedAlice()
	f.repo.seed("u2", "bob", "bob@example.com", "hash")

	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, loggedIn(httptest.NewRequest(http.MethodGet, "/users", nil)))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "ユーザー一覧")
	assert.Contains(t, res.Body.String(), "bob@example.com")
}

func TestUsersListJSON(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedAlice()

	req := loggedIn(httptest.NewRequest(http.MethodGet, "/users", nil))
	req.Header.Set("Accept", "application/json")
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)

	var body usersResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Len(t, body.Users, 1)
	assert.Equal(t, "alice", body.Users[0].Username)
	assert.Equal(t, "alice@example.com", body.Users[0].Email)
}

func TestUsersListRequiresLogin(t *testing.T) {
	f := newHandlerFixture(t)

	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusFound, res.Code)
	assert.Equal(t, "/login", res.Header().Get("Location"))
}

func TestDeleteUserRedirectsToListing(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedAlice()
	f.repo.seed("u2", "bob", "bob@example.com", "hash")

	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, loggedIn(formRequest("/users/u2/delete", url.Values{})))

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/users", res.Header().Get("Location"))
	assert.NotContains(t, f.repo.users, "u2")
}

func TestDeleteUnknownUserStillRedirects(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedAlice()

	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, loggedIn(formRequest("/users/missing/delete", url.Values{})))

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/users", res.Header().Get("Location"))
}
