// Package server implements the event dispatcher: a unix-socket HTTP API
// over the event store plus the background loop that fires due events.
package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mieubrisse/stacktrace"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/database"
	"github.com/odyssey/cronctl/internal/schedule"
)

// Server is the cronctl dispatcher: it owns the event store, serves the HTTP
// API on a unix socket, and fires due events on a tick.
type Server struct {
	cronctlDirpath string
	socketPath     string
	logger         *log.Logger
	httpServer     *http.Server
	listener       net.Listener
	db             *database.DB
	startedAt      time.Time

	// Config-derived state, swapped wholesale on reload.
	mu       sync.RWMutex
	cfg      *config.CronctlConfig
	registry *schedule.Registry

	// Caps simultaneous hook command runs.
	runSlots chan struct{}
}

// NewServer creates a new Server instance.
func NewServer(cronctlDirpath string, socketPath string, logger *log.Logger) *Server {
	return &Server{
		cronctlDirpath: cronctlDirpath,
		socketPath:     socketPath,
		logger:         logger,
	}
}

// Run starts the HTTP server on the unix socket and the dispatch loops, and
// blocks until ctx is cancelled. It performs graceful shutdown when the
// context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.reloadConfig(); err != nil {
		return stacktrace.Propagate(err, "failed to load config")
	}

	dbFilepath := config.GetDatabaseFilepath(s.cronctlDirpath)
	db, err := database.Open(dbFilepath)
	if err != nil {
		return stacktrace.Propagate(err, "failed to open database")
	}
	s.db = db
	defer s.db.Close()

	s.runSlots = make(chan struct{}, s.getConfig().GetMaxConcurrentRuns())
	s.startedAt = time.Now()

	// Clean up stale socket file from a previous run
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return stacktrace.Propagate(err, "failed to listen on unix socket '%s'", s.socketPath)
	}
	s.listener = listener

	// Restrict socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return stacktrace.Propagate(err, "failed to set socket permissions")
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Handler: mux,
	}

	s.logger.Printf("Dispatcher listening on %s", s.socketPath)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.logger.Printf("HTTP server error: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.runDispatchLoop(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.runConfigWatcherLoop(ctx)
	}()

	// Wait for context cancellation, then gracefully shut down
	<-ctx.Done()
	s.logger.Println("Dispatcher shutting down...")

	if err := s.httpServer.Shutdown(context.Background()); err != nil {
		s.logger.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	os.Remove(s.socketPath)
	s.logger.Println("Dispatcher stopped")

	return nil
}

// reloadConfig re-reads config.yml and rebuilds the schedule registry.
func (s *Server) reloadConfig() error {
	cfg, _, err := config.ReadCronctlConfig(s.cronctlDirpath)
	if err != nil {
		return stacktrace.Propagate(err, "failed to read config")
	}

	registry, err := schedule.NewRegistry(cfg)
	if err != nil {
		return stacktrace.Propagate(err, "failed to build schedule registry")
	}

	s.mu.Lock()
	s.cfg = cfg
	s.registry = registry
	s.mu.Unlock()

	return nil
}

func (s *Server) getConfig() *config.CronctlConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Server) getRegistry() *schedule.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleListEvents)
	mux.HandleFunc("POST /events", s.handleScheduleEvent)
	mux.HandleFunc("DELETE /events/{id}", s.handleDeleteEvent)
	mux.HandleFunc("POST /events/{id}/run", s.handleRunEvent)
	mux.HandleFunc("GET /schedules", s.handleListSchedules)
	mux.HandleFunc("POST /spawn", s.handleSpawn)
}
