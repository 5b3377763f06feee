// Package api exposes the running world over HTTP: a WebSocket feed of state
// snapshots and tick events, plus read-only JSON endpoints for spectators.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/talgya/windward/internal/sim"
)

// Status is the public summary of the running world.
type Status struct {
	Tick      uint64  `json:"tick"`
	WindSpeed float32 `json:"wind_speed"`
	WindAngle float32 `json:"wind_angle"`
	Money     uint64  `json:"money"`
	Cargo     uint32  `json:"cargo_kg"`
}

// Server serves the world over HTTP. The driver owns the world; the server
// only reads through the provided callback.
type Server struct {
	Hub        *Hub
	ListenAddr string

	// StatusFn returns a point-in-time status summary. It must be safe to
	// call from the HTTP goroutines.
	StatusFn func() Status

	// Init is the immutable world configuration, served verbatim.
	Init *sim.WorldInit
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(s.Hub, w, r)
	})
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/world", s.handleWorld)

	slog.Info("HTTP API starting", "addr", s.ListenAddr)
	go func() {
		if err := http.ListenAndServe(s.ListenAddr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.StatusFn())
}

// handleWorld serves the immutable world init: terrain, seed and setting.
// Clients fetch it once and then follow the snapshot feed.
func (s *Server) handleWorld(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Init)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}
