// Package server provides the HTTP server implementation.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/irieemon/design-matrix-app-sub016/internal/config"
	"github.com/irieemon/design-matrix-app-sub016/internal/handlers"
	"github.com/irieemon/design-matrix-app-sub016/internal/limits"
	"github.com/irieemon/design-matrix-app-sub016/internal/metrics"
	"github.com/irieemon/design-matrix-app-sub016/internal/middleware"
	"github.com/irieemon/design-matrix-app-sub016/internal/services"
	"github.com/irieemon/design-matrix-app-sub016/pkg/logger"
)

// Server represents the HTTP server.
type Server struct {
	cfg            *config.Config
	log            *logger.Logger
	engine         *limits.Engine
	httpServer     *http.Server
	healthHandler  *handlers.HealthHandler
	ideaHandler    *handlers.IdeaHandler
	sessionHandler *handlers.SessionHandler
	limitsHandler  *handlers.LimitsHandler
	listener       net.Listener
	running        bool
	mu             sync.RWMutex
}

// New creates a new Server instance. The engine is owned by the caller;
// Shutdown stops the HTTP listener but leaves the engine running so
// main can order teardown itself.
func New(cfg *config.Config, log *logger.Logger, engine *limits.Engine) *Server {
	s := &Server{
		cfg:            cfg,
		log:            log,
		engine:         engine,
		healthHandler:  handlers.NewHealthHandler(),
		sessionHandler: handlers.NewSessionHandler(engine, cfg.Limits.SessionCapacity),
		limitsHandler:  handlers.NewLimitsHandler(engine, cfg.Limits.IdeaRequests, cfg.Limits.IdeaWindow),
		ideaHandler:    handlers.NewIdeaHandler(nil),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := s.buildMiddlewareChain(mux)

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// buildMiddlewareChain creates the middleware chain for the server.
func (s *Server) buildMiddlewareChain(handler http.Handler) http.Handler {
	chain := middleware.New(
		middleware.Metrics(),
		middleware.RequestID(),
		middleware.ClientIP(s.cfg.Server.TrustProxy, nil),
		middleware.ParticipantID(),
	)

	return chain.Then(handler)
}

// registerRoutes sets up the HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health check routes (GET only)
	mux.HandleFunc("GET /health", s.healthHandler.Health)
	mux.HandleFunc("GET /ready", s.healthHandler.Ready)

	// Metrics endpoint for Prometheus
	mux.Handle("GET /metrics", metrics.Handler())

	// Idea submission is the only rate-limited surface. The check runs
	// before the handler, so a denied submission never reaches storage.
	submissionLimit := middleware.RateLimit(s.checkIdeaSubmission, middleware.RateLimitConfig{
		Limit: s.cfg.Limits.IdeaRequests,
	})
	mux.Handle("POST /api/v1/ideas", submissionLimit(http.HandlerFunc(s.handleCreateIdea)))
	mux.HandleFunc("GET /api/v1/ideas", s.handleListIdeas)

	// Session membership routes
	mux.HandleFunc("POST /api/v1/sessions/{id}/join", s.handleJoin)
	mux.HandleFunc("POST /api/v1/sessions/{id}/leave", s.handleLeave)

	// Rate limit status
	mux.HandleFunc("GET /api/v1/limits/{participant}", s.handleLimitStatus)

	// Administrative routes
	mux.HandleFunc("POST /api/v1/admin/limits/{participant}/reset", s.handleLimitReset)
	mux.HandleFunc("DELETE /api/v1/admin/sessions/{id}", s.handleClearSession)
}

// checkIdeaSubmission accounts one submission for the identifier using
// the configured limit and window.
func (s *Server) checkIdeaSubmission(identifier string) limits.Decision {
	return s.engine.Check(limits.IdeaKey(identifier), s.cfg.Limits.IdeaRequests, s.cfg.Limits.IdeaWindow)
}

// handleCreateIdea routes to the idea handler for submission.
func (s *Server) handleCreateIdea(w http.ResponseWriter, r *http.Request) {
	s.ideaHandler.Create(w, r)
}

// handleListIdeas routes to the idea handler for listing.
func (s *Server) handleListIdeas(w http.ResponseWriter, r *http.Request) {
	s.ideaHandler.List(w, r)
}

// handleJoin routes to the session handler for joining.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	s.sessionHandler.Join(w, r, sessionID)
}

// handleLeave routes to the session handler for leaving.
func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	s.sessionHandler.Leave(w, r, sessionID)
}

// handleLimitStatus routes to the limits handler for a status read.
func (s *Server) handleLimitStatus(w http.ResponseWriter, r *http.Request) {
	participantID := r.PathValue("participant")
	if participantID == "" {
		http.Error(w, "invalid participant id", http.StatusBadRequest)
		return
	}
	s.limitsHandler.Status(w, r, participantID)
}

// handleLimitReset routes to the limits handler for an administrative reset.
func (s *Server) handleLimitReset(w http.ResponseWriter, r *http.Request) {
	participantID := r.PathValue("participant")
	if participantID == "" {
		http.Error(w, "invalid participant id", http.StatusBadRequest)
		return
	}
	s.limitsHandler.Reset(w, r, participantID)
}

// handleClearSession routes to the limits handler for clearing a session.
func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	s.limitsHandler.ClearSession(w, r, sessionID)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := s.cfg.Server.Address()

	// Create listener first to get the actual address (important when port is 0)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	actualAddr := listener.Addr().String()
	s.log.Info("server starting", "address", actualAddr)

	err = s.httpServer.Serve(listener)
	if err != nil && err != http.ErrServerClosed {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")

	// Mark as not ready during shutdown
	s.healthHandler.SetReady(false)

	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err != nil {
		s.log.Error("shutdown error", "error", err.Error())
		return err
	}

	s.log.Info("server stopped")
	return nil
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// HealthHandler returns the health handler.
func (s *Server) HealthHandler() *handlers.HealthHandler {
	return s.healthHandler
}

// Engine returns the abuse engine the server routes decisions through.
func (s *Server) Engine() *limits.Engine {
	return s.engine
}

// SetIdeaService wires idea persistence into the idea endpoints.
// Without it the endpoints answer 503.
func (s *Server) SetIdeaService(svc services.IdeaService) {
	s.ideaHandler = handlers.NewIdeaHandler(svc)
}
