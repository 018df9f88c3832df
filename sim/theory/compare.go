package theory

import (
	"fmt"
	"io"
	"math"
)

// MetricComparison is the outcome for one metric.
type MetricComparison struct {
	Name      string  `json:"name" yaml:"name"`
	Simulated float64 `json:"simulated" yaml:"simulated"`
	Theory    float64 `json:"theory" yaml:"theory"`
	RelError  float64 `json:"rel_error" yaml:"rel_error"`
	OK        bool    `json:"ok" yaml:"ok"`
}

// Comparison lists metrics in the fixed order L, Lq, W, Wq, rho.
type Comparison struct {
	Tolerance float64            `json:"tolerance" yaml:"tolerance"`
	Metrics   []MetricComparison `json:"metrics" yaml:"metrics"`
}

// Compare computes per-metric relative error of measured against reference.
// A zero reference falls back to the absolute difference.
func Compare(measured, reference Metrics, tolerance float64) Comparison {
	pairs := []struct {
		name     string
		sim, ref float64
	}{
		{"L", measured.L, reference.L},
		{"Lq", measured.Lq, reference.Lq},
		{"W", measured.W, reference.W},
		{"Wq", measured.Wq, reference.Wq},
		{"rho", measured.Rho, reference.Rho},
	}
	cmp := Comparison{Tolerance: tolerance, Metrics: make([]MetricComparison, 0, len(pairs))}
	for _, p := range pairs {
		var rel float64
		if p.ref != 0 {
			rel = math.Abs(p.sim-p.ref) / p.ref
		} else {
			rel = math.Abs(p.sim - p.ref)
		}
		cmp.Metrics = append(cmp.Metrics, MetricComparison{
			Name:      p.name,
			Simulated: p.sim,
			Theory:    p.ref,
			RelError:  rel,
			OK:        rel <= tolerance,
		})
	}
	return cmp
}

// Get returns the comparison for a metric name.
func (c Comparison) Get(name string) (MetricComparison, bool) {
	for _, m := range c.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return MetricComparison{}, false
}

// Failed returns the names of metrics outside tolerance.
func (c Comparison) Failed() []string {
	var out []string
	for _, m := range c.Metrics {
		if !m.OK {
			out = append(out, m.Name)
		}
	}
	return out
}

// AllOK reports whether every metric is within tolerance.
func (c Comparison) AllOK() bool {
	return len(c.Failed()) == 0
}

// Print writes a table of simulated vs theory values.
func (c Comparison) Print(w io.Writer) {
	fmt.Fprintf(w, "%-8s %-12s %-12s %-10s %s\n", "metric", "simulated", "theory", "rel.err", "ok")
	for _, m := range c.Metrics {
		mark := "x"
		if m.OK {
			mark = "ok"
		}
		fmt.Fprintf(w, "%-8s %-12.4f %-12.4f %-10s %s\n", m.Name, m.Simulated, m.Theory, fmt.Sprintf("%.2f%%", m.RelError*100), mark)
	}
	passed := len(c.Metrics) - len(c.Failed())
	fmt.Fprintf(w, "%d/%d metrics within %.0f%% tolerance\n", passed, len(c.Metrics), c.Tolerance*100)
}
