package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/agentdesk/internal/domain/model"
)

// handleGetBranding handles GET /api/branding.
func (s *Server) handleGetBranding(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Branding())
}

// handlePutBranding handles PUT /api/branding. The body replaces the whole
// mapping.
func (s *Server) handlePutBranding(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	var b model.Branding
	if err := json.Unmarshal(body, &b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", fmt.Errorf("%w: branding: %w", ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, s.deps.SetBranding(r.Context(), b))
}

type sessionResponse struct {
	model.Session
	LoggedIn bool `json:"loggedIn"`
}

func newSessionResponse(sess model.Session) sessionResponse {
	return sessionResponse{Session: sess, LoggedIn: sess.LoggedIn()}
}

// handleGetSession handles GET /api/session.
func (s *Server) handleGetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newSessionResponse(s.deps.Session()))
}

// handleLogin handles POST /api/session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	var req model.Session
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", fmt.Errorf("%w: session: %w", ErrBadRequest, err))
		return
	}
	sess, err := s.deps.Login(r.Context(), req.Name, req.Role)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

// handleLogout handles DELETE /api/session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.deps.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
