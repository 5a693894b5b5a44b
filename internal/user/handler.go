package user

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kanriapp/kanri/internal/i18n"
	"github.com/kanriapp/kanri/internal/platform/httpx"
	"github.com/kanriapp/kanri/internal/session"
	"github.com/kanriapp/kanri/internal/shared"
	"github.com/kanriapp/kanri/internal/ui"
	"github.com/kanriapp/kanri/internal/validate"
	"github.com/kanriapp/kanri/internal/view"
)

// Handler wires the registration, profile and user-management
// endpoints.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessions       *session.Service
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	components     ui.Components
	messages       *i18n.Catalog
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *session.Service, templates *view.Engine, manager *shared.SessionManager, csrf *shared.CSRFManager, components ui.Components) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessions:       sessions,
		templates:      templates,
		sessionManager: manager,
		csrfManager:    csrf,
		components:     components,
		messages:       i18n.Default(),
	}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/register", h.showRegister)
	r.Post("/register", h.handleRegister)
	r.Get("/profile", h.showProfile)
	r.Post("/profile", h.handleProfile)
	r.Get("/users", h.listUsers)
	r.Post("/users/{id}/delete", h.deleteUser)
}

type registerResponse struct {
	Success bool                 `json:"success"`
	Errors  validate.FieldErrors `json:"errors"`
}

type userDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type usersResponse struct {
	Users []userDTO `json:"users"`
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, ui.UserFormValues{}, nil, http.StatusOK)
}

// handleRegister accepts the registration form. Success redirects to
// the login page; any failure is a 400 with field-keyed JSON errors.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	result := h.service.CreateUser(r.Context(), validate.Registration{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	})
	if !result.Success {
		httpx.JSON(w, http.StatusBadRequest, registerResponse{Errors: result.Errors})
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) showProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	values := ui.UserFormValues{Username: current.Username, Email: current.Email}
	h.renderProfile(w, r, values, nil, http.StatusOK)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var update validate.ProfileUpdate
	if _, present := r.PostForm["username"]; present {
		v := r.PostFormValue("username")
		update.Username = &v
	}
	if _, present := r.PostForm["email"]; present {
		v := r.PostFormValue("email")
		update.Email = &v
	}

	result := h.service.UpdateUser(r.Context(), current.ID, update)
	if !result.Success {
		values := ui.UserFormValues{Username: current.Username, Email: current.Email}
		if update.Username != nil {
			values.Username = *update.Username
		}
		if update.Email != nil {
			values.Email = *update.Email
		}
		h.renderProfile(w, r, values, result.Errors, http.StatusBadRequest)
		return
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: h.messages.Message(i18n.KindProfileUpdated)})
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// listUsers is the admin listing. It renders HTML by default and the
// loader data {"users": [...]} when the client asks for JSON.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}

	users, err := h.service.GetAllUsers(r.Context())
	if err != nil {
		h.logError("list users", err)
		if wantsJSON(r) {
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		h.renderUsers(w, r, nil, validate.FieldErrors{"general": h.messages.Message(i18n.KindServerError)}, http.StatusInternalServerError)
		return
	}

	if wantsJSON(r) {
		dtos := make([]userDTO, len(users))
		for i, u := range users {
			dtos[i] = userDTO{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
		}
		httpx.JSON(w, http.StatusOK, usersResponse{Users: dtos})
		return
	}
	h.renderUsers(w, r, users, nil, http.StatusOK)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}

	id := chi.URLParam(r, "id")
	result := h.service.DeleteUser(r.Context(), id)

	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if result.Success {
			sess.AddFlash(shared.FlashMessage{Kind: "success", Message: h.messages.Message(i18n.KindUserDeleted)})
		} else {
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: result.Errors["general"]})
		}
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// requireUser resolves the login session and its account. Anonymous
// requests are redirected to the login page.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (*User, bool) {
	dbSess, err := h.sessions.GetSessionFromRequest(r.Context(), r)
	if err != nil {
		h.logError("resolve session", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return nil, false
	}
	if dbSess == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil, false
	}
	current, err := h.service.GetUserByID(r.Context(), dbSess.UserID)
	if err != nil {
		h.logError("load current user", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return nil, false
	}
	if current == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil, false
	}
	return current, true
}

func (h *Handler) renderRegister(w http.ResponseWriter, r *http.Request, values ui.UserFormValues, errs validate.FieldErrors, status int) {
	form := h.components.UserForm(ui.UserFormProps{
		Action:       "/register",
		Values:       values,
		Errors:       errs,
		SubmitLabel:  "登録",
		ShowPassword: true,
		CSRFToken:    h.csrfToken(r),
	})
	h.render(w, r, "pages/register.html", "ユーザー登録", map[string]any{"FormHTML": form}, status)
}

func (h *Handler) renderProfile(w http.ResponseWriter, r *http.Request, values ui.UserFormValues, errs validate.FieldErrors, status int) {
	form := h.components.UserForm(ui.UserFormProps{
		Action:      "/profile",
		Values:      values,
		Errors:      errs,
		SubmitLabel: "更新",
		CSRFToken:   h.csrfToken(r),
	})
	h.render(w, r, "pages/profile.html", "プロフィール", map[string]any{"FormHTML": form}, status)
}

func (h *Handler) renderUsers(w http.ResponseWriter, r *http.Request, users []User, errs validate.FieldErrors, status int) {
	token := h.csrfToken(r)
	cards := make([]any, len(users))
	for i, u := range users {
		cards[i] = h.components.UserCard(ui.UserCardProps{
			UserID:    u.ID,
			Username:  u.Username,
			Email:     u.Email,
			CreatedAt: u.CreatedAt.Format("2006/01/02"),
			DeleteURL: "/users/" + u.ID + "/delete",
			CSRFToken: token,
		})
	}
	h.render(w, r, "pages/users.html", "ユーザー一覧", map[string]any{"Cards": cards, "Errors": errs}, status)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template, title string, data map[string]any, status int) {
	sess := shared.SessionFromContext(r.Context())
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   h.csrfToken(r),
		Flash:       flash,
		CurrentPath: r.URL.Path,
		LoggedIn:    sess != nil && sess.User() != "",
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logError("render template", err)
	}
}

func (h *Handler) csrfToken(r *http.Request) string {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return ""
	}
	token, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	return token
}

func (h *Handler) logError(msg string, err error) {
	if h.logger != nil {
		h.logger.Error(msg, slog.Any("error", err))
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
