package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/memdex/internal/domain"
	"github.com/kailas-cloud/memdex/internal/domain/document"
	"github.com/kailas-cloud/memdex/internal/logger"
	"github.com/kailas-cloud/memdex/internal/metrics"
	contextsuc "github.com/kailas-cloud/memdex/internal/usecase/contexts"
	healthuc "github.com/kailas-cloud/memdex/internal/usecase/health"
	indexuc "github.com/kailas-cloud/memdex/internal/usecase/index"
	searchuc "github.com/kailas-cloud/memdex/internal/usecase/search"
)

// Server is the HTTP API over the context store and search engine.
type Server struct {
	contexts *contextsuc.Service
	search   *searchuc.Service
	index    *indexuc.Service
	health   *healthuc.Service
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	contexts *contextsuc.Service,
	search *searchuc.Service,
	index *indexuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{contexts: contexts, search: search, index: index, health: health, logger: logger}
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/suggest", s.handleSuggest)
		r.Post("/index/rebuild", s.handleRebuild)
		r.Get("/index/stats", s.handleStats)

		r.Route("/contexts", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Get("/", s.handleList)
			r.Get("/{id}", s.handleGet)
			r.Put("/{id}", s.handleUpdate)
			r.Delete("/{id}", s.handleDelete)
		})
	})

	return r
}

// requestLogger attaches a request-scoped logger carrying the request id,
// so deep error paths log with correlation without threading the logger
// through every handler.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := s.logger
		if reqID := chiMiddleware.GetReqID(r.Context()); reqID != "" {
			l = l.With(zap.String("request_id", reqID))
		}
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), l)))
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var dto searchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	req, err := dto.toRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleError(w, r, err, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, toSearchResponseDTO(resp))
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	suggestions := s.search.Suggest(r.Context(), q, limit)
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if err := s.index.Rebuild(r.Context()); err != nil {
		s.handleError(w, r, err, "rebuild failed")
		return
	}
	s.handleStats(w, r)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.index.Stats()

	dto := statsDTO{
		EntryCount:        stats.EntryCount,
		TotalTokens:       stats.TotalTokens,
		AvgTokensPerEntry: stats.AvgTokensPerEntry,
		Rebuilding:        stats.Rebuilding,
	}
	if !stats.LastRebuildTime.IsZero() {
		dto.LastRebuildTime = stats.LastRebuildTime.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var dto upsertContextDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	doc, err := s.contexts.Create(r.Context(), contextsuc.CreateParams{
		ID:         dto.ID,
		Title:      dto.Title,
		Content:    dto.Content,
		Type:       dto.Type,
		Tags:       dto.Tags,
		OwnerID:    dto.OwnerID,
		Importance: document.Importance(dto.Importance),
	})
	if err != nil {
		s.handleError(w, r, err, "create context failed")
		return
	}
	writeJSON(w, http.StatusCreated, toContextDTO(&doc))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := s.contexts.List(r.Context())
	if err != nil {
		s.handleError(w, r, err, "list contexts failed")
		return
	}

	out := make([]contextDTO, 0, len(docs))
	for i := range docs {
		out = append(out, toContextDTO(&docs[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"contexts": out, "total": len(out)})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.contexts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err, "get context failed")
		return
	}
	writeJSON(w, http.StatusOK, toContextDTO(&doc))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var dto upsertContextDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	doc, err := s.contexts.Update(r.Context(), chi.URLParam(r, "id"), contextsuc.UpdateParams{
		Title:      dto.Title,
		Content:    dto.Content,
		Type:       dto.Type,
		Tags:       dto.Tags,
		Importance: document.Importance(dto.Importance),
	})
	if err != nil {
		s.handleError(w, r, err, "update context failed")
		return
	}
	writeJSON(w, http.StatusOK, toContextDTO(&doc))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.contexts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleError(w, r, err, "delete context failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"status": report.Status, "checks": report.Checks})
}

// sentinelStatus maps domain sentinel errors to HTTP responses.
var sentinelStatus = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, http.StatusBadRequest, "validation_failed"},
	{domain.ErrNotFound, http.StatusNotFound, "context_not_found"},
	{domain.ErrAlreadyExists, http.StatusConflict, "already_exists"},
	{domain.ErrRebuildInProgress, http.StatusConflict, "rebuild_in_progress"},
	{domain.ErrSnapshotUnavailable, http.StatusServiceUnavailable, "snapshot_unavailable"},
	{domain.ErrEmbeddingProviderError, http.StatusBadGateway, "embedding_provider_error"},
	{domain.ErrDimensionMismatch, http.StatusInternalServerError, "dimension_mismatch"},
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	for _, m := range sentinelStatus {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}

	logger.FromContext(r.Context()).Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorDTO{Error: errorBody{Code: code, Message: message}})
}
