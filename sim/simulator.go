// sim/simulator.go
package sim

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/queue-sim/queue-sim/sim/trace"
)

// Simulator is the core object that holds simulation time, system state and
// the streaming accumulators. Topology-specific behavior is delegated to a
// Topology; everything else is shared by the four kinds.
//
// A Simulator is not safe for concurrent use.
type Simulator struct {
	Config      Config
	Clock       float64
	Horizon     float64
	NextArrival float64
	// Completed holds departed jobs in departure order. Never mutated after append.
	Completed []*Job
	Metrics   *Metrics
	Series    *TimeSeries
	Trace     *trace.SimulationTrace

	topology    Topology
	rng         *PartitionedRNG
	jobsCreated int64
	servers     int
	diagnostics []Diagnostic
}

// NewSimulator validates cfg and builds a ready-to-step simulation.
// Parameter violations return an error wrapping ErrInvalidParameter and no
// simulator. Advisory findings (such as an unstable load) are returned as
// diagnostics alongside a usable simulator.
func NewSimulator(cfg Config) (*Simulator, []Diagnostic, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if cfg.Trace == "" {
		cfg.Trace = trace.TraceLevelNone
	}

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	tr := trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.Trace})
	k, c := cfg.Shape()

	s := &Simulator{
		Config:    cfg,
		Clock:     0,
		Horizon:   cfg.Horizon,
		Completed: make([]*Job, 0),
		Metrics:   NewMetrics(),
		Series:    &TimeSeries{},
		Trace:     tr,
		topology:  NewTopology(cfg, rng.ForSubsystem(SubsystemRouting), tr),
		rng:       rng,
		servers:   k * c,
	}
	s.NextArrival = SampleInterval(rng.ForSubsystem(SubsystemArrival), cfg.ArrivalRate)
	s.Series.Record(0, 0, 0)

	s.diagnostics = diagnose(cfg)
	for _, d := range s.diagnostics {
		logrus.Warnf("%s", d)
	}
	logrus.Infof("Created %s simulation: lambda=%v mu=%v k=%d c=%d horizon=%v warmup=%v seed=%d",
		cfg.Kind, cfg.ArrivalRate, cfg.ServiceRate, k, c, cfg.Horizon, cfg.Warmup, cfg.Seed)

	return s, s.diagnostics, nil
}

// Diagnostics returns the advisory findings raised at construction.
func (sim *Simulator) Diagnostics() []Diagnostic {
	return sim.diagnostics
}

// Topology returns the topology policy driving this simulation.
func (sim *Simulator) Topology() Topology {
	return sim.topology
}

// Done reports whether the clock has reached the horizon.
func (sim *Simulator) Done() bool {
	return sim.Clock >= sim.Horizon
}

// occupancy returns (in system, in queue, busy servers) at this instant.
func (sim *Simulator) occupancy() (int, int, int) {
	queued, busy := 0, 0
	for _, st := range sim.topology.Stations() {
		queued += st.queue.Len()
		busy += st.BusyServers()
	}
	return queued + busy, queued, busy
}

// advanceTo integrates the current occupancy up to t and moves the clock.
func (sim *Simulator) advanceTo(t float64) {
	inSystem, inQueue, busy := sim.occupancy()
	sim.Metrics.integrate(sim.Clock, t, sim.Config.Warmup, inSystem, inQueue, busy)
	sim.Clock = t
}

// Step advances to the next event and applies it.
//
// Arrivals win exact ties with departures. When the next event lies beyond
// the horizon the clock moves to the horizon instead. Once the horizon is
// reached Step is a no-op and returns an EventNone.
func (sim *Simulator) Step() Event {
	if sim.Done() {
		return Event{Kind: EventNone, Time: sim.Clock, Station: -1}
	}

	depTime, station, server := sim.topology.SelectNextDeparture()
	next := math.Min(sim.NextArrival, depTime)

	var ev Event
	switch {
	case next > sim.Horizon:
		sim.advanceTo(sim.Horizon)
		logrus.Debugf("[t=%.4f] no event before horizon", sim.Clock)
		ev = Event{Kind: EventHorizon, Time: sim.Clock, Station: -1}
	case sim.NextArrival <= depTime:
		ev = sim.arrive(sim.NextArrival)
	default:
		ev = sim.depart(depTime, station, server)
	}

	inSystem, inQueue, _ := sim.occupancy()
	sim.Series.Record(sim.Clock, inSystem, inQueue)
	return ev
}

func (sim *Simulator) arrive(t float64) Event {
	sim.advanceTo(t)
	sim.jobsCreated++
	j := NewJob(sim.jobsCreated, t, SampleInterval(sim.rng.ForSubsystem(SubsystemService), sim.Config.ServiceRate))
	st := sim.topology.Route(j, t)
	st.queue.Enqueue(j)
	sim.NextArrival = t + SampleInterval(sim.rng.ForSubsystem(SubsystemArrival), sim.Config.ArrivalRate)
	logrus.Tracef("[t=%.4f] << Arrival: job %d -> station %d", t, j.ID, st.Index)
	st.fill(t, sim.serviceStarted)
	return Event{Kind: EventArrival, Time: t, JobID: j.ID, Station: st.Index}
}

func (sim *Simulator) depart(t float64, st *Station, srv *Server) Event {
	sim.advanceTo(t)
	j := srv.release(t)
	sim.Completed = append(sim.Completed, j)
	if j.ArrivalTime >= sim.Config.Warmup {
		sim.Metrics.addSystemWait(j.SystemWait())
	}
	logrus.Tracef("[t=%.4f] >> Departure: job %d from station %d", t, j.ID, st.Index)
	st.fill(t, sim.serviceStarted)
	return Event{Kind: EventDeparture, Time: t, JobID: j.ID, Station: st.Index}
}

func (sim *Simulator) serviceStarted(j *Job) {
	if j.ArrivalTime >= sim.Config.Warmup {
		sim.Metrics.addQueueWait(j.QueueWait())
	}
}

// Run steps until the horizon.
func (sim *Simulator) Run() {
	for !sim.Done() {
		sim.Step()
	}
	logrus.Infof("[t=%.4f] %s simulation ended: served=%d", sim.Clock, sim.Config.Kind, len(sim.Completed))
}

// ctxCheckInterval is how many steps RunContext applies between context checks.
const ctxCheckInterval = 1024

// RunContext steps until the horizon or until ctx is done, whichever comes
// first. It returns ctx.Err() when stopped early.
func (sim *Simulator) RunContext(ctx context.Context) error {
	for i := 0; !sim.Done(); i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				logrus.Debugf("[t=%.4f] %s simulation cancelled: %v", sim.Clock, sim.Config.Kind, err)
				return err
			}
		}
		sim.Step()
	}
	return nil
}

// QueuedJobs returns the IDs of the waiting jobs of every station, head
// first, indexed by station.
func (sim *Simulator) QueuedJobs() [][]int64 {
	stations := sim.topology.Stations()
	out := make([][]int64, len(stations))
	for i, st := range stations {
		items := st.Queue().Items()
		ids := make([]int64, len(items))
		for k, j := range items {
			ids[k] = j.ID
		}
		out[i] = ids
	}
	return out
}

// AdvanceUntil steps until the clock reaches min(t, horizon) and returns the
// resulting snapshot. The last event applied may lie past t.
func (sim *Simulator) AdvanceUntil(t float64) Snapshot {
	target := math.Min(t, sim.Horizon)
	for sim.Clock < target {
		sim.Step()
	}
	return sim.State()
}

// State returns the current snapshot. L and Lq are 0 until the clock has
// moved past the warmup.
func (sim *Simulator) State() Snapshot {
	inSystem, inQueue, _ := sim.occupancy()
	return Snapshot{
		Kind:     sim.topology.Kind(),
		T:        sim.Clock,
		InSystem: inSystem,
		InQueue:  inQueue,
		Served:   len(sim.Completed),
		Rejected: 0,
		Rho:      sim.topology.Utilization(sim.Config.ArrivalRate, sim.Config.ServiceRate),
		WqAvg:    sim.Metrics.MeanQueueWait(),
		WAvg:     sim.Metrics.MeanSystemWait(),
		LqAvg:    sim.Metrics.MeanInQueue(),
		LAvg:     sim.Metrics.MeanInSystem(),
		BusyAvg:  sim.Metrics.MeanBusyFraction(sim.servers),
	}
}
