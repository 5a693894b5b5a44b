package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kanriapp/kanri/internal/i18n"
	"github.com/kanriapp/kanri/internal/session"
	"github.com/kanriapp/kanri/internal/shared"
	"github.com/kanriapp/kanri/internal/view"
)

// Handler wires HTTP endpoints for the login and logout flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessions       *session.Service
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validator      *validator.Validate
	messages       *i18n.Catalog
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *session.Service, templates *view.Engine, manager *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessions:       sessions,
		templates:      templates,
		sessionManager: manager,
		csrfManager:    csrf,
		validator:      validator.New(),
		messages:       i18n.Default(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

// loginForm checks presence only; email shape is validated at
// registration, and a stored address must always be accepted here.
type loginForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type loginPageData struct {
	Email  string
	Errors map[string]string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, loginPageData{Errors: map[string]string{}}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := h.validator.Struct(form); err != nil {
		// Malformed input gets the same generic message as a failed
		// credential check; the login form must not reveal which part
		// was wrong.
		h.renderLogin(w, r, loginPageData{
			Email:  form.Email,
			Errors: map[string]string{"general": h.messages.Message(i18n.KindInvalidCredentials)},
		}, http.StatusBadRequest)
		return
	}

	result := h.service.Login(r.Context(), form.Email, form.Password)
	if !result.Success {
		h.renderLogin(w, r, loginPageData{
			Email:  form.Email,
			Errors: map[string]string{"general": result.Error},
		}, http.StatusBadRequest)
		return
	}

	dbSess, err := h.sessions.CreateSession(r.Context(), result.User.ID)
	if err != nil {
		h.logError("create session", err)
		h.renderLogin(w, r, loginPageData{
			Email:  form.Email,
			Errors: map[string]string{"general": h.messages.Message(i18n.KindServerError)},
		}, http.StatusInternalServerError)
		return
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		// Rebind the cookie to the persisted session id so the login
		// session can be resolved from the request on later calls.
		sess.Adopt(dbSess.ID)
		sess.SetUser(result.User.ID)
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: h.messages.Message(i18n.KindWelcomeBack)})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	dbSess, err := h.sessions.GetSessionFromRequest(r.Context(), r)
	if err != nil {
		h.logError("resolve session", err)
	}
	if dbSess != nil {
		if err := h.sessions.DeleteSession(r.Context(), dbSess.ID); err != nil {
			h.logError("delete session", err)
		}
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, data loginPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken := ""
	var flash *shared.FlashMessage
	if sess != nil {
		csrfToken, _ = h.csrfManager.EnsureToken(r.Context(), sess)
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "ログイン",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		LoggedIn:    sess != nil && sess.User() != "",
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/login.html", viewData); err != nil {
		h.logError("render login", err)
	}
}

func (h *Handler) logError(msg string, err error) {
	if h.logger != nil {
		h.logger.Error(msg, slog.Any("error", err))
	}
}
