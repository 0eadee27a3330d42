package api

import (
	"net/http"

	"github.com/okian/agentdesk/internal/domain/model"
)

const backupFilename = "agentdesk-backup.json"

// handleExportBackup handles GET /api/backup.
func (s *Server) handleExportBackup(w http.ResponseWriter, _ *http.Request) {
	text, err := s.deps.ExportJSON()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+backupFilename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// handleImportBackup handles POST /api/backup. Malformed documents are
// rejected with 400 and change nothing.
func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	if isAsync(r) {
		s.enqueue(w, r, model.ImportJob{Format: model.FormatJSON, Payload: string(body)})
		return
	}
	report, err := s.deps.ImportJSON(r.Context(), string(body))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
