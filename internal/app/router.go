package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kanriapp/kanri/internal/auth"
	"github.com/kanriapp/kanri/internal/observability"
	"github.com/kanriapp/kanri/internal/platform/httpx"
	"github.com/kanriapp/kanri/internal/shared"
	"github.com/kanriapp/kanri/internal/user"
	"github.com/kanriapp/kanri/internal/view"
	"github.com/kanriapp/kanri/web"
)

// RouterParams bundles everything the HTTP router needs.
type RouterParams struct {
	Logger      *slog.Logger
	Config      *Config
	Templates   *view.Engine
	CSRFManager *shared.CSRFManager
	AuthHandler *auth.Handler
	UserHandler *user.Handler
	Middlewares []func(http.Handler) http.Handler
	Metrics     *observability.Metrics
}

// NewRouter assembles the chi router with all application routes.
func NewRouter(p RouterParams) chi.Router {
	r := chi.NewRouter()
	for _, mw := range p.Middlewares {
		r.Use(mw)
	}
	if !p.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		sess := shared.SessionFromContext(req.Context())
		var flash *shared.FlashMessage
		loggedIn := false
		csrfToken := ""
		if sess != nil {
			flash = sess.PopFlash()
			loggedIn = sess.User() != ""
			if p.CSRFManager != nil {
				csrfToken, _ = p.CSRFManager.EnsureToken(req.Context(), sess)
			}
		}
		data := view.TemplateData{
			Title:       "Kanri",
			CSRFToken:   csrfToken,
			Flash:       flash,
			CurrentPath: req.URL.Path,
			LoggedIn:    loggedIn,
		}
		if err := p.Templates.Render(w, "pages/home.html", data); err != nil {
			p.Logger.Error("render home", slog.Any("error", err))
		}
	})

	p.AuthHandler.MountRoutes(r)
	p.UserHandler.MountRoutes(r)

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", p.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", staticCacheHandler(http.FileServer(http.FS(staticFS)))))
	}

	return r
}

func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
