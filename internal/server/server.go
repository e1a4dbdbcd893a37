// Package server exposes the engine over HTTP: a JSON API for renderers,
// a WebSocket stream of notifications and Prometheus metrics.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/physiq/internal/engine"
	"github.com/abhisek/physiq/internal/events"
)

// Server is the REST API server.
type Server struct {
	engine *engine.Engine
	hub    *Hub
	router *mux.Router
	log    *slog.Logger
	sub    events.Subscription
}

// New creates a server for eng and subscribes hub to the engine's bus.
// hub may be nil to disable /ws.
func New(eng *engine.Engine, hub *Hub, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		engine: eng,
		hub:    hub,
		router: mux.NewRouter(),
		log:    log,
	}
	if hub != nil {
		s.sub = eng.Bus().SubscribeAll(hub.Publish)
	}
	s.setupRoutes()
	return s
}

// Close detaches the hub from the engine's bus.
func (s *Server) Close() {
	if s.hub != nil {
		s.engine.Bus().Unsubscribe(s.sub)
	}
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/tree", s.handleTree).Methods("GET")
	api.HandleFunc("/progress", s.handleProgress).Methods("GET")
	api.HandleFunc("/nodes/{id}", s.handleNode).Methods("GET")
	api.HandleFunc("/nodes/{id}/{action:unlock|activate|deactivate}", s.handleNodeAction).Methods("POST")

	api.HandleFunc("/run/start", s.handleStartRun).Methods("POST")
	api.HandleFunc("/reputation", s.handleAddReputation).Methods("POST")
	api.HandleFunc("/skill-points", s.handleAddSkillPoints).Methods("POST")

	api.HandleFunc("/effects", s.handleEffects).Methods("GET")
	api.HandleFunc("/effects/{type}", s.handleEffect).Methods("GET")
	api.HandleFunc("/specializations/{id}", s.handleSpecialization).Methods("GET")

	api.HandleFunc("/save", s.handleSave).Methods("POST")

	if s.hub != nil {
		s.router.HandleFunc("/ws", s.hub.ServeWS)
	}
	s.router.Handle("/metrics", promhttp.Handler())
}

// Mount serves h at path alongside the API.
func (s *Server) Mount(path string, h http.Handler) {
	s.router.Handle(path, h)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondNotReady(w http.ResponseWriter) {
	respondError(w, http.StatusServiceUnavailable, "engine not ready")
}
