package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/chart-agent/internal/resolver"
	"github.com/jonathan/chart-agent/internal/types"
)

const fallbackRefusal = "I can only help you create bar or line charts. Please ask me to make a chart with some data!"

// handleChat processes a chat message and potentially renders a chart.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.Touch(req.SessionID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sessionStyle, err := s.store.Style(req.SessionID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	// History is read before the new message is appended so the resolver
	// sees the conversation as it stood when the user typed.
	history, err := s.store.History(req.SessionID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if err := s.store.Append(req.SessionID, types.RoleUser, req.Message, nil); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	rec, err := s.resolver.Resolve(r.Context(), resolver.Input{Text: req.Message}, history)
	if err != nil {
		wrapped := &ErrResolverUnavailable{Err: err}
		s.errorResponse(w, HTTPStatus(wrapped), wrapped.Error())
		return
	}

	resp := s.completeChart(req.SessionID, rec, sessionStyle, "chat")
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleClearChat clears the chat history for a session, keeping its style.
func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	if err := s.store.ClearHistory(sessionID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	log.Printf("Cleared chat history for session: %s", sessionID)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Chat history cleared",
	})
}

// completeChart turns a resolved record into the final response: it settles
// the color scheme, renders both formats, and records the assistant turn.
func (s *Server) completeChart(sessionID string, rec types.ChartRecord, sessionStyle types.ColorScheme, source string) *types.ChatResponse {
	if !rec.IsValid {
		reason := rec.Reason
		if reason == "" {
			reason = fallbackRefusal
		}
		s.appendAssistant(sessionID, reason, nil)
		return &types.ChatResponse{Response: reason}
	}

	scheme := resolver.FinalizeScheme(rec.ColorScheme, sessionStyle, s.preference.Get())

	// A scheme picked from the message itself becomes the new persistent
	// preference, surviving across sessions.
	if rec.ColorScheme == types.SchemeFD || rec.ColorScheme == types.SchemeBNR {
		if err := s.preference.Set(rec.ColorScheme); err != nil {
			log.Printf("Failed to persist color preference: %v", err)
		}
	}

	rendered, err := s.renderer.RenderBoth(&rec, scheme)
	if err != nil {
		log.Printf("Chart rendering failed: %v", err)
		text := "I understood your request, but encountered an error generating the chart."
		s.appendAssistant(sessionID, text, nil)
		return &types.ChatResponse{Response: text}
	}

	text := "I've created a " + string(rec.ChartType) + " chart for you!"
	s.appendAssistant(sessionID, text, &types.ChartMeta{
		ChartID:   rendered.ID,
		ChartType: rec.ChartType,
		XLabels:   rec.XLabels,
		YValues:   rec.YValues,
		Title:     rec.Title,
		Source:    source,
	})

	return &types.ChatResponse{
		Response:    text,
		ChartID:     rendered.ID,
		ChartURL:    "/charts/" + rendered.ID + ".png",
		SVGURL:      "/charts/" + rendered.ID + ".svg",
		ColorScheme: scheme,
	}
}

func (s *Server) appendAssistant(sessionID, content string, meta *types.ChartMeta) {
	if err := s.store.Append(sessionID, types.RoleAssistant, content, meta); err != nil {
		log.Printf("Failed to append assistant message: %v", err)
	}
}
