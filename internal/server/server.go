// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/foodscout-tui/internal/bot"
	"github.com/jeranaias/foodscout-tui/internal/config"
	"github.com/jeranaias/foodscout-tui/internal/sessionstore"
)

// Version is reported by /healthz.
const Version = "1.0.0"

// Asker answers chat messages. *bot.Bot satisfies it.
type Asker interface {
	Ask(ctx context.Context, input string, history []bot.Turn) string
}

// settingsUpdater is implemented by askers whose knobs can change live.
type settingsUpdater interface {
	Update(bot.Settings)
}

// ============================================================================
// SERVER STATS
// ============================================================================

// ServerStats counts traffic since start.
type ServerStats struct {
	TotalRequests   atomic.Int64
	ChatRequests    atomic.Int64
	SessionsCreated atomic.Int64
	StartTime       time.Time
}

// NewServerStats creates zeroed stats starting now.
func NewServerStats() *ServerStats {
	return &ServerStats{StartTime: time.Now()}
}

// Uptime returns the time since start.
func (s *ServerStats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// StatsSnapshot is the JSON form of ServerStats.
type StatsSnapshot struct {
	TotalRequests   int64 `json:"total_requests"`
	ChatRequests    int64 `json:"chat_requests"`
	SessionsCreated int64 `json:"sessions_created"`
	UptimeSecs      int64 `json:"uptime_secs"`
}

// Snapshot returns a copy of the counters.
func (s *ServerStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		TotalRequests:   s.TotalRequests.Load(),
		ChatRequests:    s.ChatRequests.Load(),
		SessionsCreated: s.SessionsCreated.Load(),
		UptimeSecs:      int64(s.Uptime().Seconds()),
	}
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the conversation backend.
type Server struct {
	cfg     config.ServerConfig
	store   sessionstore.Store
	logger  *zap.Logger
	signer  *cookieSigner
	locks   *sessionLocks
	limiter *RateLimiter
	stats   *ServerStats
	router  chi.Router
	server  *http.Server

	newID func() string
	now   func() time.Time

	mu  sync.RWMutex
	bot Asker
}

// New creates a server backed by store. Without a secret key a random one is
// generated, so sessions end when the process does.
func New(cfg config.ServerConfig, store sessionstore.Store, logger *zap.Logger) (*Server, error) {
	if store == nil {
		return nil, errors.New("server: nil session store")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	secret := cfg.SecretKey
	if secret == "" {
		logger.Warn("SESSION_SECRET_MISSING", zap.String("hint", "set server.secret_key or FOODSCOUT_SECRET_KEY"))
		secret = randomSecret()
	}
	signer, err := newCookieSigner(secret)
	if err != nil {
		return nil, err
	}
	if cfg.SessionTTLHours <= 0 {
		cfg.SessionTTLHours = 24
	}

	s := &Server{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		signer:  signer,
		locks:   newSessionLocks(),
		limiter: NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		stats:   NewServerStats(),
		newID:   uuid.NewString,
		now:     time.Now,
	}
	s.setupRoutes()
	return s, nil
}

// WithBot sets the chat backend. A nil asker leaves the bot unavailable.
func (s *Server) WithBot(a Asker) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bot = a
	return s
}

func (s *Server) currentBot() Asker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bot
}

// ApplyConfig picks up settings that may change while serving: rate limits
// and bot knobs.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.limiter.SetLimits(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	if u, ok := s.currentBot().(settingsUpdater); ok {
		u.Update(bot.SettingsFromConfig(cfg.Bot))
	}
	s.logger.Info("CONFIG_APPLIED",
		zap.Float64("rate_limit_rps", cfg.Server.RateLimitRPS),
		zap.Int("rate_limit_burst", cfg.Server.RateLimitBurst))
}

// Stats returns the live counters.
func (s *Server) Stats() *ServerStats {
	return s.stats
}

func (s *Server) ttl() time.Duration {
	return s.cfg.SessionTTL()
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(RecoveryMiddleware(s.logger))
	r.Use(SecurityHeadersMiddleware())
	r.Use(LoggingMiddleware(s.logger))
	r.Use(s.countRequests)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, messageResponse{Success: false, Message: msgNotFound})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, messageResponse{Success: false, Message: msgMethodNotAllowed})
	})

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.logger))
		r.Use(BodyLimitMiddleware(s.cfg.MaxBodyBytes))

		r.Get("/conversations", s.handleList)
		r.Post("/conversations/new", s.handleNew)
		r.Post("/conversations/switch", s.handleSwitch)
		r.Post("/conversations/delete", s.handleDelete)
		r.Post("/conversations/star", s.handleStar)
		r.Post("/chat", s.handleChat)
		r.Post("/clear", s.handleClear)
		r.Get("/status", s.handleStatus)
		r.Get("/clear_all", s.handleClearAll)
	})

	s.router = r
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.stats.TotalRequests.Add(1)
		next.ServeHTTP(w, r)
	})
}

// Handler returns the HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start listens on the configured address and blocks until Shutdown.
// It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Chat requests wait on the model.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	s.logger.Info("SERVER_START", zap.String("addr", s.cfg.Addr), zap.String("version", Version))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and closes
// the session store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()

	s.logger.Info("SERVER_SHUTDOWN", zap.Int64("total_requests", s.stats.TotalRequests.Load()))

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
