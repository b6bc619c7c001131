package server

import (
	"errors"
	"net/http"

	"github.com/zeusync/skeletal/internal/core/instance"
	"github.com/zeusync/skeletal/internal/core/observability/log"
)

// Handler serves:
//
//	GET /ws               websocket stream of Frames
//	GET /snapshots        poses of every instance
//	GET /snapshots/{id}   pose of one instance
//	GET /stats            Stats
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /snapshots", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, s.manager.Snapshots())
	})
	mux.HandleFunc("GET /snapshots/{id}", s.handleSnapshot)
	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, s.GetStats())
	})
	return mux
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.manager.Snapshot(r.PathValue("id"))
	if errors.Is(err, instance.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	payload, err := s.encode(v)
	if err != nil {
		s.logger.Error("Failed to encode response", log.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
