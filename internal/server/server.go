// Package server exposes assessment sessions over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/vitals/internal/coach"
	"github.com/abhisek/vitals/internal/sessions"
	"github.com/abhisek/vitals/internal/store"
)

const (
	DefaultAddr     = ":8080"
	shutdownTimeout = 10 * time.Second
)

// Config wires the server to its collaborators. Events and Coach may be nil.
type Config struct {
	Addr     string
	Sessions *sessions.Manager
	Events   store.EventRepo
	Coach    *coach.Service
	Logger   *slog.Logger
}

type Server struct {
	sessions *sessions.Manager
	events   store.EventRepo
	coach    *coach.Service
	logger   *slog.Logger
	validate *validator.Validate

	httpServer *http.Server
}

func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		sessions: cfg.Sessions,
		events:   cfg.Events,
		coach:    cfg.Coach,
		logger:   cfg.Logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // coach requests wait on the LLM
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed API with middleware applied.
func (s *Server) Handler() http.Handler {
	notFound := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.errorResponse(w, http.StatusNotFound, "route not found")
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r := mux.NewRouter()
	r.Use(s.withRecover, s.withLogging)
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notAllowed

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Subrouters answer unmatched requests themselves.
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.NotFoundHandler = notFound
	v1.MethodNotAllowedHandler = notAllowed
	v1.HandleFunc("/catalog", s.handleCatalog).Methods(http.MethodGet)

	v1.HandleFunc("/assessments", s.handleStart).Methods(http.MethodPost)
	v1.HandleFunc("/assessments/{id}", s.handleGet).Methods(http.MethodGet)
	v1.HandleFunc("/assessments/{id}", s.handleDiscard).Methods(http.MethodDelete)
	v1.HandleFunc("/assessments/{id}/answer", s.handleAnswer).Methods(http.MethodPut)
	v1.HandleFunc("/assessments/{id}/next", s.handleNext).Methods(http.MethodPost)
	v1.HandleFunc("/assessments/{id}/previous", s.handlePrevious).Methods(http.MethodPost)
	v1.HandleFunc("/assessments/{id}/reset", s.handleReset).Methods(http.MethodPost)
	v1.HandleFunc("/assessments/{id}/result", s.handleResult).Methods(http.MethodGet)
	v1.HandleFunc("/assessments/{id}/coach", s.handleCoach).Methods(http.MethodPost)

	v1.HandleFunc("/results", s.handleResults).Methods(http.MethodGet)
	v1.HandleFunc("/results/stats", s.handleStats).Methods(http.MethodGet)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
