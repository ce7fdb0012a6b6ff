// Package api exposes the journal board over HTTP/JSON. Handlers stay
// thin: they decode intent, call the collection store and encode the
// result. Mutating routes are gated on the admin session, and deletes
// additionally require the caller's explicit confirmation.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"market-weekly/auth"
	"market-weekly/store"
	"market-weekly/summary"
)

// Server handles HTTP API requests
type Server struct {
	store      *store.Store
	session    *auth.Session
	summarizer *summary.Service
}

// NewServer creates a new API server instance
func NewServer(st *store.Store, session *auth.Session, summarizer *summary.Service) *Server {
	return &Server{
		store:      st,
		session:    session,
		summarizer: summarizer,
	}
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Session routes
	mux.HandleFunc("GET /api/session", s.handleGetSession)
	mux.HandleFunc("POST /api/session/login", s.handleLogin)
	mux.HandleFunc("POST /api/session/logout", s.handleLogout)

	// Insight routes
	mux.HandleFunc("GET /api/board", s.handleGetBoard)
	mux.HandleFunc("GET /api/insights", s.handleGetInsights)
	mux.HandleFunc("POST /api/insights", s.requireAdmin(s.handleCreateInsight))
	mux.HandleFunc("PUT /api/insights/{id}", s.requireAdmin(s.handleUpdateInsight))
	mux.HandleFunc("DELETE /api/insights/{id}", s.requireAdmin(s.handleDeleteInsight))
	mux.HandleFunc("POST /api/insights/{id}/completion", s.requireAdmin(s.handleToggleCompletion))

	// Journal routes
	mux.HandleFunc("GET /api/journals", s.handleGetJournals)
	mux.HandleFunc("POST /api/journals", s.requireAdmin(s.handleCreateJournal))
	mux.HandleFunc("PUT /api/journals/{id}", s.requireAdmin(s.handleUpdateJournal))
	mux.HandleFunc("DELETE /api/journals/{id}", s.requireAdmin(s.handleDeleteJournal))

	// Notification routes
	mux.HandleFunc("GET /api/notifications", s.handleGetNotifications)
	mux.HandleFunc("POST /api/notifications/{id}/read", s.handleMarkNotificationRead)
	mux.HandleFunc("DELETE /api/notifications/{id}", s.handleDeleteNotification)
	mux.HandleFunc("DELETE /api/notifications", s.handleClearNotifications)

	// Summary route (LLM)
	mux.HandleFunc("GET /api/summary", s.handleGetSummary)

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.corsMiddleware(s.loggingMiddleware(mux))
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, s.Handler())
}

// requireAdmin rejects mutating requests while the session is locked.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.session.IsAdmin() {
			respondWithError(w, http.StatusForbidden, "admin session required", nil)
			return
		}
		next(w, r)
	}
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"remote": s.store.Configured(),
	})
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("API Error: failed to encode response: %v", err)
	}
}

// respondWithError logs the error and sends a JSON error response
// Use this to avoid exposing internal errors while still logging them
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		log.Printf("API Error [%d]: %s - %v", code, message, err)
	} else {
		log.Printf("API Error [%d]: %s", code, message)
	}
	writeJSON(w, code, map[string]string{"error": message})
}

// confirmGate enforces the explicit delete confirmation precondition.
func confirmGate(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Query().Get("confirm") != "true" {
		respondWithError(w, http.StatusPreconditionRequired, "delete requires confirm=true", nil)
		return false
	}
	return true
}
