package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/queue-sim/queue-sim/sim/trace"
)

// ErrInvalidParameter is wrapped by every construction-time validation failure.
var ErrInvalidParameter = errors.New("invalid parameter")

// Kind selects the queueing topology.
type Kind string

const (
	// KindMM1 is one FIFO queue with one server.
	KindMM1 Kind = "mm1"
	// KindMMC is one FIFO queue shared by c servers.
	KindMMC Kind = "mmc"
	// KindMMK1 is k independent single-server queues with shortest-queue routing.
	KindMMK1 Kind = "mmk1"
	// KindMMKC is k independent c-server queues with shortest-queue routing.
	KindMMKC Kind = "mmkc"
)

var validKinds = map[Kind]bool{
	KindMM1:  true,
	KindMMC:  true,
	KindMMK1: true,
	KindMMKC: true,
}

// IsValidKind returns true if the given string names a supported topology.
func IsValidKind(kind string) bool {
	return validKinds[Kind(kind)]
}

// Config groups the construction parameters of a simulation.
// Servers is read for mmc/mmkc and Partitions for mmk1/mmkc; the other kinds
// ignore them.
type Config struct {
	Kind        Kind             `json:"kind" yaml:"kind"`
	ArrivalRate float64          `json:"lambda" yaml:"lambda"`
	ServiceRate float64          `json:"mu" yaml:"mu"`
	Servers     int              `json:"c,omitempty" yaml:"c,omitempty"`
	Partitions  int              `json:"k,omitempty" yaml:"k,omitempty"`
	Horizon     float64          `json:"horizon" yaml:"horizon"`
	Warmup      float64          `json:"warmup" yaml:"warmup"`
	Seed        int64            `json:"seed" yaml:"seed"`
	Trace       trace.TraceLevel `json:"trace,omitempty" yaml:"trace,omitempty"`
}

// Shape returns the (partitions, servers per partition) layout for the kind.
func (c Config) Shape() (partitions, servers int) {
	switch c.Kind {
	case KindMMC:
		return 1, c.Servers
	case KindMMK1:
		return c.Partitions, 1
	case KindMMKC:
		return c.Partitions, c.Servers
	default:
		return 1, 1
	}
}

// OfferedLoad is the unclamped per-server load λ/(μ·k·c). Values ≥ 1 mean the
// system is unstable.
func (c Config) OfferedLoad() float64 {
	k, s := c.Shape()
	return c.ArrivalRate / (c.ServiceRate * float64(k*s))
}

// Validate checks every parameter bound. Errors wrap ErrInvalidParameter.
func (c Config) Validate() error {
	if !validKinds[c.Kind] {
		return fmt.Errorf("unknown model %q: %w", c.Kind, ErrInvalidParameter)
	}
	if !(c.ArrivalRate > 0) || math.IsInf(c.ArrivalRate, 0) {
		return fmt.Errorf("arrival rate must be positive and finite, got %v: %w", c.ArrivalRate, ErrInvalidParameter)
	}
	if !(c.ServiceRate > 0) || math.IsInf(c.ServiceRate, 0) {
		return fmt.Errorf("service rate must be positive and finite, got %v: %w", c.ServiceRate, ErrInvalidParameter)
	}
	if (c.Kind == KindMMC || c.Kind == KindMMKC) && c.Servers < 1 {
		return fmt.Errorf("server count must be >= 1, got %d: %w", c.Servers, ErrInvalidParameter)
	}
	if (c.Kind == KindMMK1 || c.Kind == KindMMKC) && c.Partitions < 1 {
		return fmt.Errorf("partition count must be >= 1, got %d: %w", c.Partitions, ErrInvalidParameter)
	}
	if !(c.Horizon > 0) || math.IsInf(c.Horizon, 0) {
		return fmt.Errorf("horizon must be positive and finite, got %v: %w", c.Horizon, ErrInvalidParameter)
	}
	if !(c.Warmup >= 0) || c.Warmup >= c.Horizon {
		return fmt.Errorf("warmup must be in [0, horizon), got %v: %w", c.Warmup, ErrInvalidParameter)
	}
	if !trace.IsValidTraceLevel(string(c.Trace)) {
		return fmt.Errorf("unknown trace level %q: %w", c.Trace, ErrInvalidParameter)
	}
	return nil
}

// DiagnosticCode classifies an advisory diagnostic.
type DiagnosticCode string

// DiagUnstable is raised when the offered load is at or above 1.
const DiagUnstable DiagnosticCode = "unstable"

// Diagnostic is a non-fatal finding produced at construction. The simulation
// is still usable, but long-run averages may not converge.
type Diagnostic struct {
	Code    DiagnosticCode `json:"code" yaml:"code"`
	Message string         `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

func diagnose(c Config) []Diagnostic {
	var diags []Diagnostic
	if rho := c.OfferedLoad(); rho >= 1 {
		diags = append(diags, Diagnostic{
			Code:    DiagUnstable,
			Message: fmt.Sprintf("%s system is unstable: rho = %.3f >= 1, long-run averages will not converge", c.Kind, rho),
		})
	}
	return diags
}
