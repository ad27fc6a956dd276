package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appdesigns "github.com/bryanwahyu/design-critique/internal/application/designs"
	appfeedback "github.com/bryanwahyu/design-critique/internal/application/feedback"
	domai "github.com/bryanwahyu/design-critique/internal/domain/ai"
	domain "github.com/bryanwahyu/design-critique/internal/domain/designs"
	fb "github.com/bryanwahyu/design-critique/internal/domain/feedback"
	"github.com/bryanwahyu/design-critique/internal/middleware"
)

type Options struct {
	MaxUploadBytes int64
	AutoAnalyze    bool
}

type Router struct {
	designs  *appdesigns.Service
	feedback *appfeedback.Service
	opts     Options
}

func NewRouter(designsSvc *appdesigns.Service, feedbackSvc *appfeedback.Service, opts Options) http.Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	r := &Router{designs: designsSvc, feedback: feedbackSvc, opts: opts}
	mux := chi.NewRouter()

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/projects/{projectID}/designs", r.wrap(r.handleUpload))
		rt.Get("/projects/{projectID}/designs", r.wrap(r.handleList))
		rt.Get("/designs/{id}", r.wrap(r.handleGet))
		rt.Get("/designs/{id}/feedback", r.wrap(r.handleFeedback))
		rt.Get("/designs/{id}/feedback/stats", r.wrap(r.handleStats))
		rt.Post("/designs/{id}/retry-analysis", r.wrap(r.handleRetry))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				http.Error(w, "design not found", http.StatusNotFound)
			case errors.Is(err, domain.ErrAnalysisInFlight):
				http.Error(w, "analysis already in progress", http.StatusConflict)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// POST /v1/projects/{projectID}/designs
// Multipart upload with an "image" file field. Returns 201 immediately;
// when analysis is enabled the record is already in processing state and
// the run continues in the background.
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	projectID := chi.URLParam(req, "projectID")
	if err := middleware.ValidateProjectID(projectID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	req.Body = http.MaxBytesReader(w, req.Body, r.opts.MaxUploadBytes)
	if err := req.ParseMultipartForm(r.opts.MaxUploadBytes); err != nil {
		http.Error(w, "invalid or oversized upload", http.StatusBadRequest)
		return nil
	}
	file, header, err := req.FormFile("image")
	if err != nil {
		http.Error(w, "no image file provided", http.StatusBadRequest)
		return nil
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := middleware.ValidateImageContentType(contentType); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	auto := r.opts.AutoAnalyze
	if v := req.URL.Query().Get("analyze"); v != "" {
		auto = v == "true" || v == "1"
	}

	d, err := r.designs.Upload(req.Context(), appdesigns.UploadCommand{
		ProjectID:    projectID,
		OriginalName: header.Filename,
		MimeType:     contentType,
		UploadedBy:   middleware.GetCallerFromContext(req.Context()),
		Body:         file,
		AutoAnalyze:  auto,
	})
	if err != nil {
		return err
	}

	if auto {
		middleware.IncrementAnalyses()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(map[string]any{
		"design":   d,
		"queuedAt": time.Now(),
	})
}

// GET /v1/projects/{projectID}/designs?limit=20
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	projectID := chi.URLParam(req, "projectID")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.designs.ListByProject(req.Context(), projectID, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/designs/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	d, err := r.designs.Get(req.Context(), domain.DesignID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(d)
}

// GET /v1/designs/{id}/feedback?role=&category=&severity=
func (r *Router) handleFeedback(w http.ResponseWriter, req *http.Request) error {
	filter := fb.Filter{
		Role:     req.URL.Query().Get("role"),
		Category: req.URL.Query().Get("category"),
		Severity: req.URL.Query().Get("severity"),
	}
	if err := middleware.ValidateFeedbackFilter(filter.Role, filter.Category, filter.Severity); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	view, err := r.feedback.GetFeedback(req.Context(), domain.DesignID(chi.URLParam(req, "id")), filter)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(view)
}

// GET /v1/designs/{id}/feedback/stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	stats, err := r.feedback.GetStats(req.Context(), domain.DesignID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"stats": stats})
}

// POST /v1/designs/{id}/retry-analysis
func (r *Router) handleRetry(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateDesignID(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	if err := r.designs.Retry(req.Context(), domain.DesignID(id)); err != nil {
		return err
	}
	middleware.IncrementAnalyses()

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"message":   "Analysis restarted successfully",
		"design_id": id,
		"queuedAt":  time.Now(),
	})
}
