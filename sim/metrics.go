// Tracks streaming statistics of a run: time-integrated occupancy and
// per-customer wait samples.

package sim

import (
	"fmt"
	"io"
	"math"
)

// Metrics accumulates statistics over the measurement window [warmup, clock].
type Metrics struct {
	AreaSystem float64 // ∫ jobs in system dt
	AreaQueue  float64 // ∫ jobs in queue dt
	AreaBusy   float64 // ∫ busy servers dt
	Elapsed    float64 // length of the integrated window

	QueueWaitSum    float64
	QueueWaitCount  int
	SystemWaitSum   float64
	SystemWaitCount int

	QueueWaits  []float64 // individual queue-wait samples, in service-start order
	SystemWaits []float64 // individual system-wait samples, in departure order
}

// NewMetrics creates an empty accumulator.
func NewMetrics() *Metrics {
	return &Metrics{
		QueueWaits:  make([]float64, 0),
		SystemWaits: make([]float64, 0),
	}
}

// integrate adds the occupancy held constant over (from, to], clipped to the
// window starting at warmup. Occupancy must be the pre-event state.
func (m *Metrics) integrate(from, to, warmup float64, inSystem, inQueue, busy int) {
	from = math.Max(from, warmup)
	if to <= from {
		return
	}
	dt := to - from
	m.AreaSystem += float64(inSystem) * dt
	m.AreaQueue += float64(inQueue) * dt
	m.AreaBusy += float64(busy) * dt
	m.Elapsed += dt
}

func (m *Metrics) addQueueWait(w float64) {
	m.QueueWaitSum += w
	m.QueueWaitCount++
	m.QueueWaits = append(m.QueueWaits, w)
}

func (m *Metrics) addSystemWait(w float64) {
	m.SystemWaitSum += w
	m.SystemWaitCount++
	m.SystemWaits = append(m.SystemWaits, w)
}

// MeanQueueWait is Wq, 0 before the first sample.
func (m *Metrics) MeanQueueWait() float64 {
	if m.QueueWaitCount == 0 {
		return 0
	}
	return m.QueueWaitSum / float64(m.QueueWaitCount)
}

// MeanSystemWait is W, 0 before the first sample.
func (m *Metrics) MeanSystemWait() float64 {
	if m.SystemWaitCount == 0 {
		return 0
	}
	return m.SystemWaitSum / float64(m.SystemWaitCount)
}

// MeanInSystem is L, 0 until the window has positive length.
func (m *Metrics) MeanInSystem() float64 {
	if m.Elapsed <= 0 {
		return 0
	}
	return m.AreaSystem / m.Elapsed
}

// MeanInQueue is Lq, 0 until the window has positive length.
func (m *Metrics) MeanInQueue() float64 {
	if m.Elapsed <= 0 {
		return 0
	}
	return m.AreaQueue / m.Elapsed
}

// MeanBusyFraction is the time-averaged fraction of busy servers.
func (m *Metrics) MeanBusyFraction(servers int) float64 {
	if m.Elapsed <= 0 || servers <= 0 {
		return 0
	}
	return m.AreaBusy / (m.Elapsed * float64(servers))
}

// Snapshot is the state view consumed by reporting and visualization.
type Snapshot struct {
	Kind     Kind    `json:"kind" yaml:"kind"`
	T        float64 `json:"t" yaml:"t"`
	InSystem int     `json:"in_system" yaml:"in_system"`
	InQueue  int     `json:"in_queue" yaml:"in_queue"`
	Served   int     `json:"served" yaml:"served"`
	Rejected int     `json:"rejected" yaml:"rejected"`
	Rho      float64 `json:"rho" yaml:"rho"`
	WqAvg    float64 `json:"wq_avg" yaml:"wq_avg"`
	WAvg     float64 `json:"w_avg" yaml:"w_avg"`
	LqAvg    float64 `json:"lq_avg" yaml:"lq_avg"`
	LAvg     float64 `json:"l_avg" yaml:"l_avg"`
	BusyAvg  float64 `json:"busy_avg" yaml:"busy_avg"`
}

// Print displays the snapshot as an aligned block.
func (s Snapshot) Print(w io.Writer) {
	fmt.Fprintf(w, "=== %s metrics (t=%.2f) ===\n", s.Kind, s.T)
	fmt.Fprintf(w, "rho (utilization)    : %.4f\n", s.Rho)
	fmt.Fprintf(w, "busy fraction        : %.4f\n", s.BusyAvg)
	fmt.Fprintf(w, "L  (jobs in system)  : %.4f\n", s.LAvg)
	fmt.Fprintf(w, "Lq (jobs in queue)   : %.4f\n", s.LqAvg)
	fmt.Fprintf(w, "W  (time in system)  : %.4f\n", s.WAvg)
	fmt.Fprintf(w, "Wq (time in queue)   : %.4f\n", s.WqAvg)
	fmt.Fprintf(w, "Served               : %d\n", s.Served)
}

// TimeSeries records instantaneous occupancy after each step.
type TimeSeries struct {
	T        []float64 `json:"t" yaml:"t"`
	InSystem []int     `json:"in_system" yaml:"in_system"`
	InQueue  []int     `json:"in_queue" yaml:"in_queue"`
}

// Record appends one sample.
func (ts *TimeSeries) Record(t float64, inSystem, inQueue int) {
	ts.T = append(ts.T, t)
	ts.InSystem = append(ts.InSystem, inSystem)
	ts.InQueue = append(ts.InQueue, inQueue)
}

// Len returns the number of samples.
func (ts *TimeSeries) Len() int {
	return len(ts.T)
}

// Reset drops all samples while keeping the backing storage.
func (ts *TimeSeries) Reset() {
	ts.T = ts.T[:0]
	ts.InSystem = ts.InSystem[:0]
	ts.InQueue = ts.InQueue[:0]
}
