// Package server exposes a session over a small JSON HTTP API.
//
// Routes:
//
//	GET    /health
//	GET    /layout                 current state
//	GET    /history                snapshots and cursor
//	POST   /blocks                 {"type":"text"} adds a block
//	PUT    /blocks/{id}            replaces a block (?live=1 debounces the commit)
//	PUT    /blocks/{id}/content    {"content":"..."}
//	DELETE /blocks/{id}
//	POST   /blocks/{id}/move       {"x":650,"y":10} pixel drop point
//	POST   /blocks/{id}/resize     {"direction":"right","delta":250}
//	POST   /undo
//	POST   /redo
//	POST   /clear
//	PUT    /ui                     {"preview_mode":true,"selected_id":"..."}
//
// Mutations answer with {"applied":bool,"state":{...}}. An absorbed
// rejection (unknown block, boundary) is applied=false with status 200,
// except that PUT and DELETE on an unknown block answer 404.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gridboard/pkg/buildinfo"
	errs "github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/session"
)

// maxBodyBytes bounds request bodies; block content is capped well below.
const maxBodyBytes = 1 << 20

// Server serves one session.
type Server struct {
	sess   *session.Session
	logger *log.Logger
	router chi.Router
}

// New builds the router for sess.
func New(sess *session.Session, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{sess: sess, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Short()})
	})
	r.Get("/layout", s.handleLayout)
	r.Get("/history", s.handleHistory)

	r.Route("/blocks", func(r chi.Router) {
		r.Post("/", s.handleAdd)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", s.handleUpdate)
			r.Delete("/", s.handleDelete)
			r.Put("/content", s.handleContent)
			r.Post("/move", s.handleMove)
			r.Post("/resize", s.handleResize)
		})
	})

	r.Post("/undo", s.handleUndo)
	r.Post("/redo", s.handleRedo)
	r.Post("/clear", s.handleClear)
	r.Put("/ui", s.handleUI)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// =============================================================================
// Handlers
// =============================================================================

type mutation struct {
	Applied bool          `json:"applied"`
	State   session.State `json:"state"`
}

func (s *Server) respond(w http.ResponseWriter, status int, applied bool) {
	writeJSON(w, status, mutation{Applied: applied, State: s.sess.State()})
}

func (s *Server) handleLayout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.State())
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.History())
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	kind, err := grid.ParseKind(req.Type)
	if err != nil {
		s.writeError(w, err)
		return
	}
	b, err := s.sess.AddBlock(r.Context(), kind)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var b grid.Block
	if !s.decode(w, r, &b) {
		return
	}
	b.ID = chi.URLParam(r, "id")

	live := r.URL.Query().Get("live")
	applied, err := s.sess.PlaceBlock(r.Context(), b, live == "1" || live == "true")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !applied {
		s.writeError(w, errs.New(errs.ErrCodeNotFound, "block %q not found", b.ID))
		return
	}
	s.respond(w, http.StatusOK, true)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	applied, err := s.sess.DeleteBlock(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !applied {
		s.writeError(w, errs.New(errs.ErrCodeNotFound, "block %q not found", id))
		return
	}
	s.respond(w, http.StatusOK, true)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	applied, err := s.sess.SetContent(r.Context(), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, applied)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var drop grid.Point
	if !s.decode(w, r, &drop) {
		return
	}
	applied, err := s.sess.Move(r.Context(), chi.URLParam(r, "id"), drop)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, applied)
}

// handleResize runs a complete drag gesture atomically.
func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string  `json:"direction"`
		Delta     float64 `json:"delta"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	dir, err := grid.ParseDirection(req.Direction)
	if err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	b, applied, err := s.sess.ResizeGesture(r.Context(), id, dir, req.Delta)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if b.ID == "" {
		s.writeError(w, errs.New(errs.ErrCodeNotFound, "block %q not found", id))
		return
	}
	s.respond(w, http.StatusOK, applied)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	applied, err := s.sess.Undo(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, applied)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	applied, err := s.sess.Redo(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, applied)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.ClearAll(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, true)
}

func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PreviewMode *bool   `json:"preview_mode"`
		SelectedID  *string `json:"selected_id"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	applied := true
	if req.PreviewMode != nil {
		if err := s.sess.SetPreviewMode(ctx, *req.PreviewMode); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.SelectedID != nil {
		ok, err := s.sess.Select(ctx, *req.SelectedID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		applied = ok
	}
	s.respond(w, http.StatusOK, applied)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Error: errs.UserMessage(err), Code: string(errs.GetCode(err))})
}

func statusFor(err error) int {
	if errs.Invalid(err) {
		return http.StatusBadRequest
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeBoundaryRejected:
		return http.StatusConflict
	case errs.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start).Round(time.Microsecond),
			"req_id", middleware.GetReqID(r.Context()))
	})
}
