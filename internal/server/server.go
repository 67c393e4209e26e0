// Package server exposes the CRM assistant over HTTP: a liveness check, a
// direct extraction debug endpoint, and the full chat pipeline.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"crm-assistant/internal/extraction"
	"crm-assistant/internal/router"
)

// httpSession scopes fallback conversation history for the HTTP surface.
// All HTTP callers share one session, matching the single global state of
// the chat pipeline.
const httpSession = "http"

type Server struct {
	router *router.Router
	engine *extraction.Engine
	server *http.Server
	port   int
}

func New(r *router.Router, engine *extraction.Engine, port int) *Server {
	return &Server{
		router: r,
		engine: engine,
		port:   port,
	}
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("HTTP server listening on :%d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the full handler chain. Used by tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/agent/extract", s.handleExtract)
	mux.HandleFunc("/agent/chat", s.handleChat)
	mux.HandleFunc("/", s.handleRoot)
	return withCORS(mux)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]string{"status": "CRM AI Backend Running"})
}

// handleExtract runs the extraction engine directly, without routing or
// persistence. Debugging aid.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	text, ok := readText(w, r)
	if !ok {
		return
	}

	rec, exErr := s.engine.Extract(r.Context(), text)
	if exErr != nil {
		writeJSON(w, map[string]any{"extracted": map[string]string{"error": exErr.UserMessage()}})
		return
	}
	writeJSON(w, map[string]any{"extracted": rec})
}

// handleChat runs the full pipeline: intent routing, then either an action
// or the generative fallback.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	text, ok := readText(w, r)
	if !ok {
		return
	}

	result := s.router.Route(r.Context(), httpSession, text)
	writeJSON(w, map[string]any{"response": result})
}

// readText decodes the request body and enforces the text-field guard. On a
// missing or undecodable text field it writes the error payload itself and
// reports false: no further processing happens.
func readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		writeJSON(w, map[string]string{"error": "method not allowed"})
		return "", false
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, map[string]string{"error": "Text field missing"})
		return "", false
	}
	text, ok := body["text"].(string)
	if !ok {
		writeJSON(w, map[string]string{"error": "Text field missing"})
		return "", false
	}
	return text, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// withCORS allows any origin, mirroring the permissive setup expected by the
// frontend. Tighten in production.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
