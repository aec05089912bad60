// Package api exposes the task store over HTTP as JSON plus a server-sent event stream
package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/balkashynov/tempus/internal/store"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	store  *store.Store
	logger *slog.Logger
	server *http.Server
}

func NewServer(s *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: s, logger: logger}
}

// Handler builds the router. It is exported for tests and embedding.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(slogMiddleware(s.logger))

		r.Get("/tasks", s.listTasks)
		r.Post("/tasks", s.createTask)
		r.Route("/tasks/{taskID}", func(r chi.Router) {
			r.Get("/", s.getTask)
			r.Patch("/", s.renameTask)
			r.Delete("/", s.removeTask)
			r.Post("/toggle", s.toggleTask)
			r.Put("/quadrant", s.moveTask)
			r.Post("/subtasks", s.addSubTask)
			r.Patch("/subtasks/{subTaskID}", s.renameSubTask)
			r.Post("/subtasks/{subTaskID}/toggle", s.toggleSubTask)
		})
		r.Get("/matrix", s.getMatrix)
		r.Post("/sync", s.sync)
		r.Get("/events", s.streamEvents)
		r.Get("/prefs", s.getPrefs)
		r.Put("/prefs", s.putPrefs)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		})
	})

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// ctx is also the base context of every request so open event streams end with it.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// slogMiddleware logs one line per request at a level derived from the status
func slogMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes_written", ww.BytesWritten(),
				"duration", time.Since(startTime),
			}
			msg := http.StatusText(ww.Status())
			switch {
			case ww.Status() >= 500:
				logger.ErrorContext(r.Context(), msg, attrs...)
			case ww.Status() >= 400:
				logger.WarnContext(r.Context(), msg, attrs...)
			default:
				logger.InfoContext(r.Context(), msg, attrs...)
			}
		})
	}
}
