package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/agentdesk/internal/adapters/interchange"
	service "github.com/okian/agentdesk/internal/app"
	"github.com/okian/agentdesk/internal/domain/model"
	"github.com/okian/agentdesk/internal/domain/query"
	"github.com/okian/agentdesk/pkg/logger"
)

// queryFromRequest builds a query from the URL: q is the free-text needle,
// every other parameter is an exact-match field filter.
func queryFromRequest(r *http.Request) query.Query {
	values := r.URL.Query()
	q := query.Query{Text: values.Get("q")}
	for key := range values {
		if key == "q" || key == "async" {
			continue
		}
		if q.Exact == nil {
			q.Exact = make(map[string]string)
		}
		q.Exact[key] = values.Get(key)
	}
	return q
}

// handleList handles GET /api/{collection}.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	records, err := s.deps.List(kind, queryFromRequest(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []model.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// handleFacets handles GET /api/{collection}/facets/{field}.
func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	values, err := s.deps.Facets(kind, chi.URLParam(r, "field"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	writeJSON(w, http.StatusOK, values)
}

// handleUpsert handles POST /api/{collection}.
func (s *Server) handleUpsert(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	rec, err := s.deps.Upsert(r.Context(), kind, body)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleDelete handles DELETE /api/{collection}/{id}. Removing an unknown
// id is not an error.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	if err := s.deps.Remove(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportCSV handles GET /api/{collection}/export.csv.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	text, err := s.deps.ExportCSV(kind)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", kind))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

type importResponse struct {
	Imported int `json:"imported"`
}

// handleImportCSV handles POST /api/{collection}/import. With async=true
// the body is queued and the job is returned with 202.
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	if isAsync(r) {
		s.enqueue(w, r, model.ImportJob{Kind: kind, Format: model.FormatCSV, Payload: string(body)})
		return
	}
	n, err := s.deps.ImportCSV(r.Context(), kind, string(body))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: n})
}

func (s *Server) enqueue(w http.ResponseWriter, r *http.Request, job model.ImportJob) {
	queued, err := s.deps.EnqueueImport(r.Context(), job)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, queued)
}

// writeServiceError maps service errors to HTTP responses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownKind):
		writeError(w, http.StatusNotFound, "unknown_collection", err)
	case errors.Is(err, interchange.ErrFormat):
		writeError(w, http.StatusBadRequest, "format_error", err)
	case errors.Is(err, service.ErrInvalidRecord),
		errors.Is(err, service.ErrInvalidLogin),
		errors.Is(err, service.ErrInvalidJob):
		writeError(w, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, service.ErrQueueFull):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "queue_full", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		s.logger.Error(context.Background(), "request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
