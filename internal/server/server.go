// Package server provides the HTTP REST API for the chart agent.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/chart-agent/internal/charts"
	"github.com/jonathan/chart-agent/internal/config"
	"github.com/jonathan/chart-agent/internal/llm"
	"github.com/jonathan/chart-agent/internal/resolver"
	"github.com/jonathan/chart-agent/internal/session"
)

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	store          *session.Store
	preference     *session.Preference
	resolver       resolver.Resolver
	renderer       *charts.Renderer
	llmClient      llm.Client
	allowedOrigins []string
}

// New creates a new server instance
func New(cfg config.Config) (*Server, error) {
	store, err := session.NewStore(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	preference, err := session.LoadPreference(cfg.PreferenceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load color preference: %w", err)
	}

	renderer, err := charts.NewRenderer(cfg.ChartsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart renderer: %w", err)
	}

	s := &Server{
		store:          store,
		preference:     preference,
		renderer:       renderer,
		allowedOrigins: cfg.AllowedOrigins,
	}

	// The LLM strategy is optional; without an API key the rule-based
	// resolver serves every request.
	if cfg.APIKey != "" {
		client, err := llm.NewClient(context.Background(), llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			log.Printf("Failed to create LLM client, continuing with rules only: %v", err)
		} else {
			s.llmClient = client
		}
	}
	s.resolver = resolver.Select(s.llmClient)

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("DELETE /api/chat/{session_id}", s.handleClearChat)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("GET /api/preferences/{session_id}", s.handleGetPreferences)
	mux.HandleFunc("POST /api/preferences/{session_id}", s.handleSetPreferences)
	mux.HandleFunc("GET /charts/{filename}", s.handleGetChart)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // LLM calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("Failed to close LLM client: %v", err)
		}
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers for the configured frontend origins
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, allowed := range s.allowedOrigins {
			if origin == allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRoot returns basic service information
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"service": "chart-agent",
		"message": "Ask me to create a bar or line chart",
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
