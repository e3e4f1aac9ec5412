// Package server assembles the formflow HTTP application: search handlers,
// access rules, the contact pages and the autocomplete endpoint on one chi
// router.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/goliatone/go-formflow/components/autocomplete"
	"github.com/goliatone/go-formflow/components/timezones"
	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/internal/contacts"
	"github.com/goliatone/go-formflow/pkg/persistence"
	"github.com/goliatone/go-formflow/pkg/search"
	"github.com/goliatone/go-formflow/pkg/security"
	"github.com/goliatone/go-formflow/pkg/view"
)

const shutdownTimeout = 10 * time.Second

// Server is the assembled application.
type Server struct {
	cfg      config.Config
	logger   *zap.Logger
	registry *search.Registry
	security *security.Security
	handler  http.Handler
}

// New migrates db, registers the search handlers and validates cfg against
// them. Any configuration problem is returned before the server listens.
func New(ctx context.Context, cfg config.Config, db *gorm.DB, logger *zap.Logger) (*Server, error) {
	if db == nil {
		return nil, errors.New("server: missing database")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := contacts.Migrate(ctx, db); err != nil {
		return nil, err
	}

	repo := contacts.NewRepository(db)
	registry, err := NewRegistry(repo)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(registry); err != nil {
		return nil, fmt.Errorf("server: invalid configuration: %w", err)
	}

	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	sec := security.New(
		security.WithRules(cfg.Autocomplete.Rules),
		security.WithDefaultPolicy(policy),
		security.WithLogger(logger),
	)
	if policy == security.PolicyAllow {
		if names := sec.Unguarded(registry.List()...); len(names) > 0 {
			logger.Warn("autocomplete handlers without an access rule are open to every caller",
				zap.Strings("handlers", names))
		}
	}

	selection, err := view.NewStaticSelector(cfg.Theme.Name, cfg.Theme.Variant, cfg.Theme.Tokens).
		Select(cfg.Theme.Name, cfg.Theme.Variant)
	if err != nil {
		return nil, fmt.Errorf("server: theme: %w", err)
	}
	engine, err := view.New(view.WithTheme(selection))
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(Identity(security.NewTokenResolver(cfg.Grants()...)))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	contacts.NewModule(repo, persistence.NewGormStore(db), engine, contacts.WithLogger(logger)).RegisterRoutes(r)

	pattern, err := autocomplete.New(
		autocomplete.WithRegistry(registry),
		autocomplete.WithSecurity(sec),
		autocomplete.WithLogger(logger),
		autocomplete.WithOpenAPI(cfg.OpenAPI),
	).RegisterRoutes(r, "/")
	if err != nil {
		return nil, err
	}
	logger.Debug("autocomplete mounted", zap.String("path", pattern), zap.Strings("handlers", registry.List()))

	return &Server{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		security: sec,
		handler:  r,
	}, nil
}

// NewRegistry registers the built-in search handlers.
func NewRegistry(repo *contacts.Repository) (*search.Registry, error) {
	registry := search.NewRegistry()
	if err := timezones.New().Register(registry); err != nil {
		return nil, err
	}
	if err := contacts.Register(registry, repo); err != nil {
		return nil, err
	}
	return registry, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Registry returns the search handler registry.
func (s *Server) Registry() *search.Registry { return s.registry }

// Security returns the autocomplete access rules.
func (s *Server) Security() *security.Security { return s.security }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
