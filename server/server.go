// Package server exposes a synthesizer over HTTP so that a host application
// can schedule notes and tweak the timbre while audio plays.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mrdg/saxophone/audio"
	"github.com/mrdg/saxophone/sax"
)

const maxBodySize = 10 << 20

// Config holds server configuration
type Config struct {
	Addr     string
	Velocity int // default velocity of score events
}

// Server is the HTTP server
type Server struct {
	config Config
	router *chi.Mux
	logger *slog.Logger
	ctx    *audio.Context
	synth  *sax.Synthesizer
}

// New creates a server for synth, which plays on ctx.
func New(cfg Config, ctx *audio.Context, synth *sax.Synthesizer) *Server {
	if cfg.Velocity == 0 {
		cfg.Velocity = sax.DefaultVelocity
	}
	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		logger: slog.Default().With("component", "server"),
		ctx:    ctx,
		synth:  synth,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Post("/notes", s.handleNotes)
	r.Post("/score", s.handleScore)

	r.Route("/config", func(r chi.Router) {
		r.Get("/", s.handleGetConfig)
		r.Patch("/", s.handlePatchConfig)
		r.Post("/reset", s.handleResetConfig)
		r.Post("/preset/{name}", s.handlePreset)
	})
	r.Get("/params", s.handleParams)
	r.Put("/volume", s.handleVolume)
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("addr", s.config.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", slog.Any("error", err))
		return err
	}
	return nil
}
