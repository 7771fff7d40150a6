package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"salita/internal/api"
	"salita/internal/config"
	"salita/internal/logging"
	"salita/internal/metrics"
	"salita/internal/services"
)

const shutdownTimeout = 5 * time.Second

// Server serves the learner API.
type Server struct {
	svc      *api.Service
	metrics  *metrics.Metrics
	logger   *slog.Logger
	bind     string
	token    string
	lockPath string
	handler  http.Handler
}

// New builds a server for svc. m may be nil when metrics are disabled.
func New(cfg *config.Config, svc *api.Service, m *metrics.Metrics, logger *slog.Logger) (*Server, error) {
	if cfg == nil || svc == nil {
		return nil, services.Wrap(services.ErrConfiguration, "server", "init", "config and service required", nil)
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, services.Wrap(services.ErrConfiguration, "server", "init", "paths.api_bind required", nil)
	}
	s := &Server{
		svc:      svc,
		metrics:  m,
		logger:   logging.NewComponentLogger(logger, "api-server"),
		bind:     bind,
		token:    strings.TrimSpace(cfg.Paths.APIToken),
		lockPath: cfg.LockPath(),
	}
	s.handler = requestIDMiddleware(authMiddleware(s.token, s.routes()))
	return s, nil
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc) {
		_, route, _ := strings.Cut(pattern, " ")
		mux.HandleFunc(pattern, s.instrument(route, h))
	}

	handle("GET /api/status", s.handleStatus)
	handle("GET /api/catalog", s.handleCatalog)
	handle("GET /api/users", s.handleListUsers)
	handle("POST /api/users", s.handleCreateUser)
	handle("GET /api/users/{id}", s.handleGetUser)
	handle("PUT /api/users/{id}/timezone", s.handleSetTimezone)
	handle("GET /api/users/{id}/progress", s.handleProgress)
	handle("GET /api/users/{id}/quests", s.handleQuests)
	handle("POST /api/users/{id}/games", s.handleRecordGame)
	handle("GET /api/users/{id}/history", s.handleHistory)
	handle("GET /api/leaderboard", s.handleLeaderboard)
	handle("POST /api/nlp/pos", s.handleTag)
	handle("POST /api/nlp/verify", s.handleVerify)
	handle("POST /api/nlp/chat", s.handleChat)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return jsonMuxErrors(mux)
}

// Run acquires the data directory lock, listens on the configured address,
// and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lock := flock.New(s.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return services.Wrap(services.ErrConflict, "server", "lock", "another salita server is using "+s.lockPath, nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release server lock", logging.Error(err))
		}
	}()

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve answers requests on listener until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.Bool("auth", s.token != ""),
		logging.Bool("metrics", s.metrics != nil),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api shutdown: %w", err)
		}
		return nil
	})
	err := g.Wait()
	s.logger.Info("api server stopped")
	return err
}
