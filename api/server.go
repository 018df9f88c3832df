// Package api serves simulations over HTTP: one-shot runs, closed-form
// reference values, and a websocket stream of snapshots for live views.
//
// Every request builds its own simulator, so handlers share no simulation
// state.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/queue-sim/queue-sim/sim"
	"github.com/queue-sim/queue-sim/sim/export"
	"github.com/queue-sim/queue-sim/sim/theory"
)

const (
	// DefaultMaxHorizon bounds the simulated time a single request may ask for.
	DefaultMaxHorizon = 1e6
	// DefaultMaxArrivals bounds lambda*horizon, the expected number of jobs a
	// request creates. Every job is kept until the response is written.
	DefaultMaxArrivals = 1e6
	// maxBodyBytes caps the size of a request body.
	maxBodyBytes = 1 << 20
)

// Limits bounds the work a single request may trigger. Zero fields select
// the defaults.
type Limits struct {
	MaxHorizon  float64
	MaxArrivals float64
	// AllowAnyOrigin accepts websocket upgrades from any Origin. When false
	// the upgrader rejects cross-origin browser connections.
	AllowAnyOrigin bool
}

// Server holds the router and per-server limits.
type Server struct {
	router   *mux.Router
	upgrader websocket.Upgrader
	limits   Limits
}

// NewServer builds the API router.
func NewServer(limits Limits) *Server {
	if limits.MaxHorizon <= 0 {
		limits.MaxHorizon = DefaultMaxHorizon
	}
	if limits.MaxArrivals <= 0 {
		limits.MaxArrivals = DefaultMaxArrivals
	}
	s := &Server{
		router: mux.NewRouter(),
		limits: limits,
	}
	if limits.AllowAnyOrigin {
		s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	s.router.HandleFunc("/api/simulations", s.runSimulation).Methods(http.MethodPost)
	s.router.HandleFunc("/api/theory/mm1", s.theoryMM1).Methods(http.MethodGet)
	s.router.HandleFunc("/api/theory/mmc", s.theoryMMC).Methods(http.MethodGet)
	s.router.HandleFunc("/api/stream", s.stream)
	return s
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SimulationResponse is the body returned by POST /api/simulations.
type SimulationResponse struct {
	*export.Record
	Diagnostics []sim.Diagnostic `json:"diagnostics,omitempty"`
}

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// newSimulator validates cfg against the server limits and constructs it.
func (s *Server) newSimulator(cfg sim.Config) (*sim.Simulator, []sim.Diagnostic, error) {
	if cfg.Horizon > s.limits.MaxHorizon {
		return nil, nil, fmt.Errorf("horizon %v exceeds server limit %v: %w", cfg.Horizon, s.limits.MaxHorizon, sim.ErrInvalidParameter)
	}
	if expected := cfg.ArrivalRate * cfg.Horizon; expected > s.limits.MaxArrivals {
		return nil, nil, fmt.Errorf("expected arrivals lambda*horizon = %v exceed server limit %v: %w", expected, s.limits.MaxArrivals, sim.ErrInvalidParameter)
	}
	return sim.NewSimulator(cfg)
}

func (s *Server) runSimulation(w http.ResponseWriter, r *http.Request) {
	var cfg sim.Config
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, fmt.Errorf("invalid request body: %w", err))
		return
	}

	simulator, diags, err := s.newSimulator(cfg)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := simulator.RunContext(r.Context()); err != nil {
		logrus.Infof("[api] %s run abandoned at t=%.4f: %v", cfg.Kind, simulator.Clock, err)
		return
	}
	logrus.Infof("[api] %s run finished: served=%d", cfg.Kind, len(simulator.Completed))

	writeJSON(w, http.StatusOK, SimulationResponse{Record: export.NewRecord(simulator), Diagnostics: diags})
}

func (s *Server) theoryMM1(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lambda, err := floatParam(q.Get("lambda"), "lambda")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mu, err := floatParam(q.Get("mu"), "mu")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := theory.MM1(lambda, mu)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) theoryMMC(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lambda, err := floatParam(q.Get("lambda"), "lambda")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mu, err := floatParam(q.Get("mu"), "mu")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := strconv.Atoi(q.Get("c"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("c: %w", err))
		return
	}
	m, err := theory.MMC(lambda, mu, c)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func floatParam(raw, name string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sim.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, theory.ErrUnstable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logrus.Errorf("[api] encode response: %v", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logrus.Debugf("[api] write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	logrus.Debugf("[api] %d: %v", status, err)
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
