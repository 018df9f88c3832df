// Package theory computes steady-state closed-form values for M/M/1 and M/M/c
// queues and compares simulated measurements against them.
package theory

import (
	"errors"
	"fmt"
	"math"

	"github.com/queue-sim/queue-sim/sim"
)

var (
	// ErrUnstable is returned when ρ ≥ 1 and no steady state exists.
	ErrUnstable = errors.New("unstable system")
	// ErrNoReference is returned for kinds without a closed-form reference.
	ErrNoReference = errors.New("no closed-form reference")
)

// Metrics holds steady-state values. P0 and C are only set by MMC.
type Metrics struct {
	Rho float64 `json:"rho" yaml:"rho"`
	L   float64 `json:"L" yaml:"L"`
	Lq  float64 `json:"Lq" yaml:"Lq"`
	W   float64 `json:"W" yaml:"W"`
	Wq  float64 `json:"Wq" yaml:"Wq"`
	P0  float64 `json:"P0,omitempty" yaml:"P0,omitempty"`
	C   float64 `json:"C,omitempty" yaml:"C,omitempty"`
}

// MM1 returns the M/M/1 steady state for arrival rate lambda and service rate mu.
func MM1(lambda, mu float64) (Metrics, error) {
	if err := checkRates(lambda, mu); err != nil {
		return Metrics{}, err
	}
	rho := lambda / mu
	if rho >= 1 {
		return Metrics{}, fmt.Errorf("M/M/1 rho = %.3f >= 1: %w", rho, ErrUnstable)
	}
	return Metrics{
		Rho: rho,
		L:   rho / (1 - rho),
		Lq:  rho * rho / (1 - rho),
		W:   1 / (mu - lambda),
		Wq:  rho / (mu - lambda),
	}, nil
}

// MMC returns the M/M/c steady state using the Erlang-C waiting probability.
func MMC(lambda, mu float64, c int) (Metrics, error) {
	if err := checkRates(lambda, mu); err != nil {
		return Metrics{}, err
	}
	if c <= 0 {
		return Metrics{}, fmt.Errorf("server count must be positive, got %d: %w", c, sim.ErrInvalidParameter)
	}
	a := lambda / mu
	rho := a / float64(c)
	if rho >= 1 {
		return Metrics{}, fmt.Errorf("M/M/c rho = %.3f >= 1: %w", rho, ErrUnstable)
	}

	// term holds a^n/n!, built incrementally so large c does not overflow a factorial.
	term, sum := 1.0, 0.0
	for n := 0; n < c; n++ {
		sum += term
		term *= a / float64(n+1)
	}
	tail := term / (1 - rho)
	p0 := 1 / (sum + tail)
	erlangC := tail * p0

	lq := erlangC * rho / (1 - rho)
	wq := lq / lambda
	w := wq + 1/mu
	return Metrics{
		Rho: rho,
		L:   lambda * w,
		Lq:  lq,
		W:   w,
		Wq:  wq,
		P0:  p0,
		C:   erlangC,
	}, nil
}

// ForConfig returns the reference for cfg's kind: MM1 for mm1, MMC for mmc.
// Partitioned kinds have no closed form here and return ErrNoReference.
func ForConfig(cfg sim.Config) (Metrics, error) {
	switch cfg.Kind {
	case sim.KindMM1:
		return MM1(cfg.ArrivalRate, cfg.ServiceRate)
	case sim.KindMMC:
		return MMC(cfg.ArrivalRate, cfg.ServiceRate, cfg.Servers)
	default:
		return Metrics{}, fmt.Errorf("model %s: %w", cfg.Kind, ErrNoReference)
	}
}

func checkRates(lambda, mu float64) error {
	if !(lambda > 0) {
		return fmt.Errorf("lambda must be positive, got %v: %w", lambda, sim.ErrInvalidParameter)
	}
	if !(mu > 0) {
		return fmt.Errorf("mu must be positive, got %v: %w", mu, sim.ErrInvalidParameter)
	}
	return nil
}

// LittlesLaw reports whether L ≈ λ·W within a relative tolerance.
func LittlesLaw(l, lambda, w, tolerance float64) bool {
	if lambda == 0 {
		return l == 0
	}
	expected := lambda * w
	if expected == 0 {
		return math.Abs(l) < tolerance
	}
	return math.Abs(l-expected)/expected <= tolerance
}

// FromSnapshot extracts the comparable metrics from a simulation snapshot.
func FromSnapshot(s sim.Snapshot) Metrics {
	return Metrics{Rho: s.Rho, L: s.LAvg, Lq: s.LqAvg, W: s.WAvg, Wq: s.WqAvg}
}
