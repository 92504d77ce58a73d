// Package server exposes the chain editor over HTTP. Each named chain
// document gets at most one editing session; all edits to a session are
// serialized through its mutex so the single-writer rule holds across
// concurrent requests.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/kris-hansen/chainforge/utils/config"
	"github.com/kris-hansen/chainforge/utils/editor"
	"github.com/kris-hansen/chainforge/utils/models"
	"github.com/kris-hansen/chainforge/utils/storage"
)

// Server routes editor requests onto per-document sessions.
type Server struct {
	config *config.ServerConfig
	store  storage.Store

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// sessionEntry pairs a session with the mutex that serializes its edits.
type sessionEntry struct {
	mu      sync.Mutex
	session *editor.Session
}

// NewServer creates a server over the given store.
func NewServer(cfg *config.ServerConfig, store storage.Store) *Server {
	return &Server{
		config:   cfg,
		store:    store,
		sessions: make(map[string]*sessionEntry),
	}
}

// Handler builds the routed handler with auth and CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /chains", s.handleListChains)
	mux.HandleFunc("POST /chains/{name}/open", s.handleOpenSession)
	mux.HandleFunc("GET /sessions/{name}", s.handleGetSession)
	mux.HandleFunc("POST /sessions/{name}/insert", s.handleInsert)
	mux.HandleFunc("POST /sessions/{name}/replace", s.handleReplace)
	mux.HandleFunc("POST /sessions/{name}/prompt", s.handlePrompt)
	mux.HandleFunc("POST /sessions/{name}/extract", s.handleExtract)
	mux.HandleFunc("POST /sessions/{name}/commit", s.handleCommit)
	return s.corsMiddleware(s.authMiddleware(mux))
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	config.VerboseLog("[Server] listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// authMiddleware enforces the bearer token when one is configured. The
// health endpoint stays open for probes.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.BearerToken != "" && r.URL.Path != "/health" {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") ||
				strings.TrimPrefix(auth, "Bearer ") != s.config.BearerToken {
				sendError(w, http.StatusUnauthorized, "invalid_request_error", "Invalid or missing bearer token")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware applies the configured CORS policy and answers
// preflight requests.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.CORS.Enabled {
			w.Header().Set("Access-Control-Allow-Origin", strings.Join(s.config.CORS.AllowedOrigins, ", "))
			w.Header().Set("Access-Control-Allow-Methods", strings.Join(s.config.CORS.AllowedMethods, ", "))
			w.Header().Set("Access-Control-Allow-Headers", strings.Join(s.config.CORS.AllowedHeaders, ", "))
			w.Header().Set("Access-Control-Max-Age", fmt.Sprintf("%d", s.config.CORS.MaxAge))
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// entry returns the session for a document name, or nil when no session
// is open.
func (s *Server) entry(name string) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[name]
}

// openEntry installs a session for a document name, replacing any
// existing one.
func (s *Server) openEntry(name string, session *editor.Session) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &sessionEntry{session: session}
	s.sessions[name] = e
	return e
}

// llmKeyChecker is the registry check installed on every session the
// server opens. Declared as a variable so tests can pin it.
var llmKeyChecker = models.ValidLLMKey

// sendError sends an error response in the standard envelope.
func sendError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIError{
		Error: APIErrorDetail{
			Message: message,
			Type:    errType,
		},
	})
}

func sendJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
