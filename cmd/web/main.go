package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/folio-web/internal/backend"
	"finitefield.org/folio-web/internal/chat"
	"finitefield.org/folio-web/internal/config"
	"finitefield.org/folio-web/internal/content"
	"finitefield.org/folio-web/internal/i18n"
	mw "finitefield.org/folio-web/internal/middleware"
	"finitefield.org/folio-web/internal/observability"
)

var (
	templatesDir = "templates"
	publicDir    = "public"
	// devMode reparses templates on every request and disables asset caching.
	devMode    bool
	i18nBundle *i18n.Bundle
)

var supportedLangs = []string{"en", "bn"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var (
		addr       string
		tmplPath   string
		pubPath    string
		contentDir string
	)
	flag.StringVar(&addr, "addr", cfg.Addr(), "HTTP listen address")
	flag.StringVar(&tmplPath, "templates", cfg.Server.TemplatesDir, "templates directory")
	flag.StringVar(&pubPath, "public", cfg.Server.PublicDir, "public assets directory")
	flag.StringVar(&contentDir, "content", cfg.Content.Dir, "markdown content directory")
	flag.Parse()
	templatesDir = tmplPath
	publicDir = pubPath
	cfg.Content.Dir = contentDir
	devMode = cfg.Server.Dev

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, addr, logger); err != nil {
		logger.Fatal("web server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, addr string, logger *zap.Logger) error {
	if !devMode {
		tc, err := parseTemplates()
		if err != nil {
			return fmt.Errorf("parse templates: %w", err)
		}
		tmplCache = tc
	}
	bundle, err := i18n.Load(cfg.Server.LocalesDir, "en", supportedLangs)
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}
	i18nBundle = bundle
	mw.ConfigureSession(cfg.Session.SigningKey, cfg.Prod())

	a := newApp(cfg, logger)
	if a.api.Offline() {
		logger.Warn("FOLIO_API_URL is empty; serving built-in fixtures")
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web listening", zap.String("addr", addr), zap.Bool("dev", devMode), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Shutdown)
	defer cancel()
	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// app carries the dependencies shared by the handlers.
type app struct {
	cfg   config.Config
	log   *zap.Logger
	api   *backend.Client
	pages *content.Store
	chat  *chat.Service
	lists lists
}

func newApp(cfg config.Config, logger *zap.Logger) *app {
	api := backend.NewClient(backend.Options{
		BaseURL:  cfg.API.URL,
		Timeout:  cfg.API.Timeout,
		RetryMax: cfg.API.RetryMax,
		Logger:   logger,
	})
	a := &app{
		cfg:   cfg,
		log:   logger,
		api:   api,
		pages: content.NewStore(cfg.Content.Dir, "en", cfg.Content.CacheTTL),
		chat: chat.NewService(api, chat.Options{
			Inactivity:  cfg.Session.ChatInactivity,
			MaxMessages: cfg.Session.ChatHistoryMax,
			Logger:      logger,
		}),
	}
	a.lists = newLists(a)
	return a
}

// newRouter wires middleware and routes. Tests build the same router.
func newRouter(a *app) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
	r.Use(middleware.RealIP)
	r.Use(mw.Logger(a.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(publicDir, "assets"), devMode)))

	r.Group(func(r chi.Router) {
		r.Use(mw.HTMX)
		r.Use(mw.Session)
		r.Use(mw.Locale(i18nBundle))
		r.Use(mw.CSRF)
		r.Use(mw.VaryLocale)

		r.Get("/", a.HomeHandler)
		r.Get("/about", a.AboutHandler)
		a.lists.mount(r)
		r.Get("/projects/{id}", a.ProjectDetailHandler)
		r.Get("/experience/{id}", a.ExperienceDetailHandler)
		r.Get("/resume", a.ResumeHandler)
		r.Get("/contact", a.ContactHandler)
		r.Post("/contact", a.ContactSubmitHandler)
		r.Post("/chat", a.ChatHandler)
		r.Post("/chat/reset", a.ChatResetHandler)
		r.NotFound(a.NotFoundHandler)
	})
	return r
}
