// Package api exposes the HTTP interface for the ingestion service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openvagas/ingestor/internal/ingest"
	"github.com/openvagas/ingestor/internal/metrics"
	"github.com/openvagas/ingestor/internal/orchestrator"
)

// Server wires HTTP handlers to the orchestrator.
type Server struct {
	router       chi.Router
	orchestrator *orchestrator.Orchestrator
	logger       *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(orch *orchestrator.Orchestrator, logger *zap.Logger) *Server {
	s := &Server{orchestrator: orch, logger: logger}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metricsMiddleware)
	r.Use(timeoutMiddleware(90 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/import", s.importJob)
		r.Route("/crawl", func(r chi.Router) {
			r.Post("/run", s.runCrawl)
			r.Get("/status", s.crawlStatus)
		})
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type importRequest struct {
	URL    string `json:"url"`
	UserID string `json:"user_id"`
}

type jobResponse struct {
	ID          int64      `json:"id"`
	SourceType  string     `json:"source_type"`
	SourceKey   string     `json:"source_key"`
	ATSType     string     `json:"ats_type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Remote      bool       `json:"remote"`
	ApplyURL    string     `json:"apply_url"`
	CompanyID   int64      `json:"company_id"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toJobResponse(j ingest.Job) jobResponse {
	return jobResponse{
		ID:          j.ID,
		SourceType:  string(j.SourceType),
		SourceKey:   j.SourceKey,
		ATSType:     string(j.ATSType),
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		Remote:      j.Remote,
		ApplyURL:    j.ApplyURL,
		CompanyID:   j.CompanyID,
		PostedAt:    j.PostedAt,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func (s *Server) importJob(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url required")
		return
	}
	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		writeError(w, http.StatusBadRequest, "url must be absolute")
		return
	}

	job, created, err := s.orchestrator.ImportFromLink(r.Context(), req.URL, req.UserID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ingest.ErrFetchFailed) {
			status = http.StatusBadGateway
		}
		s.logger.Error("import failed", zap.String("url", req.URL), zap.Error(err))
		writeError(w, status, err.Error())
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"created": created,
		"job":     toJobResponse(job),
	})
}

func (s *Server) runCrawl(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator.Status().Running {
		writeJSON(w, http.StatusConflict, map[string]string{"status": "already running"})
		return
	}
	// Detach from the request context so the run survives the response.
	s.orchestrator.RunAsync(context.WithoutCancel(r.Context()))
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) crawlStatus(w http.ResponseWriter, _ *http.Request) {
	st := s.orchestrator.Status()
	resp := map[string]any{"running": st.Running}
	if st.LastRun != nil {
		resp["last_run"] = map[string]any{
			"started_at":   st.LastRun.StartedAt,
			"finished_at":  st.LastRun.FinishedAt,
			"companies":    st.LastRun.Companies,
			"jobs_created": st.LastRun.JobsCreated,
			"jobs_updated": st.LastRun.JobsUpdated,
			"skipped":      st.LastRun.Skipped,
			"errors":       st.LastRun.Errors,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("panic", rec))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unknown"
		}
		metrics.ObserveHTTPRequest(r.Method, route, time.Since(start))
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
