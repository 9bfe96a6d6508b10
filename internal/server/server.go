// Package server exposes the study flows and quiz sessions as a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/abhisek/fgstudy/internal/explain"
	"github.com/abhisek/fgstudy/internal/quiz"
	"github.com/abhisek/fgstudy/internal/summarize"
	"github.com/abhisek/fgstudy/internal/validate"
)

// Summarizer produces note summaries. *summarize.Service satisfies it.
type Summarizer interface {
	Summarize(ctx context.Context, notes string) (*summarize.Summary, error)
}

// Explainer produces topic explanations. *explain.Service satisfies it.
type Explainer interface {
	Explain(ctx context.Context, topic string) (*explain.Explanation, error)
}

// Options wires a Server.
type Options struct {
	Summarizer Summarizer
	Explainer  Explainer
	Source     quiz.QuestionSource
	Observer   quiz.Observer // optional, attached to every new session
	Logger     *zap.Logger

	Addr             string
	SessionTTL       time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	MaxBodyBytes     int64
	DefaultQuestions int
}

// Server is the HTTP front end.
type Server struct {
	opts     Options
	logger   *zap.Logger
	registry *Registry
	router   *mux.Router
}

// New builds a Server and its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.DefaultQuestions == 0 {
		opts.DefaultQuestions = validate.DefaultQuestions
	}

	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		registry: NewRegistry(opts.SessionTTL),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(s.recoverPanics, s.logRequests)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.limitBody)
	api.HandleFunc("/summarize", s.handleSummarize).Methods(http.MethodPost)
	api.HandleFunc("/explain", s.handleExplain).Methods(http.MethodPost)

	api.HandleFunc("/quizzes", s.handleCreateQuiz).Methods(http.MethodPost)
	api.HandleFunc("/quizzes/{id}", s.handleGetQuiz).Methods(http.MethodGet)
	api.HandleFunc("/quizzes/{id}", s.handleDeleteQuiz).Methods(http.MethodDelete)
	api.HandleFunc("/quizzes/{id}/generate", s.handleRegenerate).Methods(http.MethodPost)
	api.HandleFunc("/quizzes/{id}/answers/{index:[0-9]+}", s.handleSelectAnswer).Methods(http.MethodPut)
	api.HandleFunc("/quizzes/{id}/check", s.handleCheck).Methods(http.MethodPost)
	api.HandleFunc("/quizzes/{id}/retake", s.handleRetake).Methods(http.MethodPost)
	api.HandleFunc("/quizzes/{id}/transcript", s.handleTranscript).Methods(http.MethodGet)

	s.router = r
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Registry exposes the live session registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.registry.Run(sweepCtx, sweepInterval(s.opts.SessionTTL), func(n int) {
		s.logger.Info("evicted idle quiz sessions", zap.Int("count", n))
	})

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.opts.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	every := ttl / 4
	if every < time.Minute {
		every = time.Minute
	}
	return every
}
