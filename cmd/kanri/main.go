package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kanriapp/kanri/internal/app"
	"github.com/kanriapp/kanri/internal/auth"
	"github.com/kanriapp/kanri/internal/observability"
	"github.com/kanriapp/kanri/internal/platform/cache"
	"github.com/kanriapp/kanri/internal/platform/db"
	"github.com/kanriapp/kanri/internal/session"
	"github.com/kanriapp/kanri/internal/shared"
	"github.com/kanriapp/kanri/internal/ui/basic"
	"github.com/kanriapp/kanri/internal/user"
	"github.com/kanriapp/kanri/internal/view"
)

func main() {
	if app.InTestMode() {
		return
	}
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg.PGDSN); err != nil {
		return err
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		return err
	}
	components := basic.MustNew()
	metrics := observability.NewMetrics()

	userRepo := user.NewRepository(pool)
	userService := user.NewService(userRepo, auth.Hasher{})

	sessionRepo := session.NewRepository(pool)
	sessionService := session.NewService(sessionRepo,
		session.WithTTL(cfg.SessionTTL),
		session.WithCookieName(cfg.SessionCookie),
	)

	authService := auth.NewService(userRepo)
	authHandler := auth.NewHandler(logger, authService, sessionService, templates, sessionManager, csrfManager)
	userHandler := user.NewHandler(logger, userService, sessionService, templates, sessionManager, csrfManager, components)

	router := app.NewRouter(app.RouterParams{
		Logger:      logger,
		Config:      cfg,
		Templates:   templates,
		CSRFManager: csrfManager,
		AuthHandler: authHandler,
		UserHandler: userHandler,
		Middlewares: app.MiddlewareStack(app.MiddlewareConfig{
			Logger:         logger,
			Config:         cfg,
			SessionManager: sessionManager,
			CSRFManager:    csrfManager,
			Metrics:        metrics,
		}),
		Metrics: metrics,
	})

	srv := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
