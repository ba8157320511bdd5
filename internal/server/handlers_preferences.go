package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/chart-agent/internal/types"
)

// handleGetPreferences returns the manual style preference for a session.
// The style is empty when the session has never chosen one.
func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	style, err := s.store.Style(sessionID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"style": style})
}

// handleSetPreferences sets the manual style preference for a session.
func (s *Server) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	var pref types.StylePreference
	if err := json.NewDecoder(r.Body).Decode(&pref); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := pref.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SetStyle(sessionID, pref.Style); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	log.Printf("Updated preferences for session %s: %s", sessionID, pref.Style)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"style":   pref.Style,
	})
}
