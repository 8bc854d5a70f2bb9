package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/zeusync/ecosim/internal/core/observability/log"
	"github.com/zeusync/ecosim/internal/core/systems/hazard"
)

func (s *FeedServer) registerRoutes() {
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	s.router.HandleFunc("/hazards", s.handleHazards).Methods(http.MethodGet)
	s.router.HandleFunc("/hazards/{id}", s.handleHazard).Methods(http.MethodGet)
	s.router.HandleFunc("/effects", s.handleEffects).Methods(http.MethodGet).Queries("x", "{x}", "y", "{y}")
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Tick          uint64       `json:"tick"`
	SimTime       float64      `json:"sim_time"`
	Bodies        int          `json:"bodies"`
	KineticEnergy float64      `json:"kinetic_energy"`
	Submerged     int          `json:"submerged"`
	Collisions    int          `json:"collisions"`
	Hazards       hazard.Stats `json:"hazards"`
	Feed          Stats        `json:"feed"`
}

// EffectsResponse is the body of GET /effects.
type EffectsResponse struct {
	X        float64           `json:"x"`
	Y        float64           `json:"y"`
	Effects  []hazard.Modifier `json:"effects"`
	Resolved hazard.Resolved   `json:"resolved"`
}

func (s *FeedServer) handleStats(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.Latest()
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable, ErrNoSnapshot)
		return
	}
	s.writeJSON(w, http.StatusOK, StatsResponse{
		Tick:          snap.Tick,
		SimTime:       snap.SimTime,
		Bodies:        snap.Bodies,
		KineticEnergy: snap.KineticEnergy,
		Submerged:     snap.Submerged,
		Collisions:    snap.LastTick.Collisions,
		Hazards:       snap.HazardStats,
		Feed:          s.GetStats(),
	})
}

func (s *FeedServer) handleHazards(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.Latest()
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable, ErrNoSnapshot)
		return
	}
	hazards := snap.Hazards
	if hazards == nil {
		hazards = []hazard.Record{}
	}
	s.writeJSON(w, http.StatusOK, hazards)
}

func (s *FeedServer) handleHazard(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.Latest()
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable, ErrNoSnapshot)
		return
	}
	id := mux.Vars(r)["id"]
	for _, rec := range snap.Hazards {
		if rec.ID == id {
			s.writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", ErrHazardNotFound, id))
}

func (s *FeedServer) handleEffects(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	x, errX := strconv.ParseFloat(vars["x"], 64)
	y, errY := strconv.ParseFloat(vars["y"], 64)
	if errX != nil || errY != nil || !finite(x) || !finite(y) {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: x and y must be finite numbers", ErrInvalidQuery))
		return
	}

	snap, ok := s.Latest()
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable, ErrNoSnapshot)
		return
	}
	effects := snap.EffectsAt(x, y)
	if effects == nil {
		effects = []hazard.Modifier{}
	}
	s.writeJSON(w, http.StatusOK, EffectsResponse{
		X:        x,
		Y:        y,
		Effects:  effects,
		Resolved: hazard.Combine(effects),
	})
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (s *FeedServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Debug("Failed to write response", log.Error(err))
	}
}

func (s *FeedServer) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
