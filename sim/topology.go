package sim

import (
	"math"
	"math/rand"

	"github.com/queue-sim/queue-sim/sim/trace"
)

// Topology is the pluggable policy that distinguishes the four queueing
// kinds. The shared Simulation owns the clock and accumulators; the topology
// decides which departure fires next and where an arriving job goes.
type Topology interface {
	Kind() Kind
	Stations() []*Station
	// SelectNextDeparture returns the earliest pending departure and the
	// server holding it, or (+Inf, nil, nil) when nothing is in service.
	SelectNextDeparture() (float64, *Station, *Server)
	// Route picks the station that receives an arriving job.
	Route(j *Job, now float64) *Station
	// Utilization is the reported ρ, clamped to 1.
	Utilization(lambda, mu float64) float64
}

// NewTopology builds the topology for cfg. cfg must already be valid.
func NewTopology(cfg Config, rng *rand.Rand, tr *trace.SimulationTrace) Topology {
	k, c := cfg.Shape()
	switch cfg.Kind {
	case KindMMC:
		return &sharedPool{singleStation: singleStation{st: newStation(0, c)}}
	case KindMMK1:
		return &partitionedSingle{partitioned: newPartitioned(k, 1, rng, tr)}
	case KindMMKC:
		return &partitionedMulti{partitioned: newPartitioned(k, c, rng, tr)}
	default:
		return &singleServer{singleStation: singleStation{st: newStation(0, 1)}}
	}
}

// === one station ===

type singleStation struct {
	st *Station
}

func (s *singleStation) Stations() []*Station { return []*Station{s.st} }

func (s *singleStation) SelectNextDeparture() (float64, *Station, *Server) {
	t, srv := s.st.nextDeparture()
	if srv == nil {
		return math.Inf(1), nil, nil
	}
	return t, s.st, srv
}

func (s *singleStation) Route(_ *Job, _ float64) *Station { return s.st }

// singleServer is M/M/1: one queue, one server.
type singleServer struct {
	singleStation
}

func (*singleServer) Kind() Kind { return KindMM1 }

func (*singleServer) Utilization(lambda, mu float64) float64 {
	return math.Min(1, lambda/mu)
}

// sharedPool is M/M/c: one queue drained by any idle server.
type sharedPool struct {
	singleStation
}

func (*sharedPool) Kind() Kind { return KindMMC }

func (p *sharedPool) Utilization(lambda, mu float64) float64 {
	return math.Min(1, lambda/(mu*float64(len(p.st.servers))))
}

// === k stations with shortest-queue routing ===

type partitioned struct {
	stations []*Station
	rng      *rand.Rand
	trace    *trace.SimulationTrace
	lengths  []int
}

func newPartitioned(k, c int, rng *rand.Rand, tr *trace.SimulationTrace) partitioned {
	p := partitioned{
		stations: make([]*Station, k),
		rng:      rng,
		trace:    tr,
		lengths:  make([]int, k),
	}
	for i := range p.stations {
		p.stations[i] = newStation(i, c)
	}
	return p
}

func (p *partitioned) Stations() []*Station { return p.stations }

func (p *partitioned) SelectNextDeparture() (float64, *Station, *Server) {
	best := math.Inf(1)
	var bestSt *Station
	var bestSrv *Server
	for _, st := range p.stations {
		t, srv := st.nextDeparture()
		if srv != nil && t < best {
			best, bestSt, bestSrv = t, st, srv
		}
	}
	return best, bestSt, bestSrv
}

// Route sends the job to a partition of minimum length, where length counts
// the jobs in service. Ties are broken uniformly at random.
func (p *partitioned) Route(j *Job, now float64) *Station {
	minLen := math.MaxInt
	ties := 0
	for i, st := range p.stations {
		l := st.Length()
		p.lengths[i] = l
		switch {
		case l < minLen:
			minLen, ties = l, 1
		case l == minLen:
			ties++
		}
	}

	pick := 0
	if ties > 1 {
		pick = p.rng.Intn(ties)
	}
	chosen := -1
	for i, l := range p.lengths {
		if l != minLen {
			continue
		}
		if pick == 0 {
			chosen = i
			break
		}
		pick--
	}

	if p.trace.Enabled() {
		p.trace.RecordRouting(trace.RoutingRecord{
			JobID:   j.ID,
			Clock:   now,
			Chosen:  chosen,
			Lengths: append([]int(nil), p.lengths...),
			Ties:    ties,
		})
	}
	return p.stations[chosen]
}

// partitionedSingle is k independent M/M/1 queues.
type partitionedSingle struct {
	partitioned
}

func (*partitionedSingle) Kind() Kind { return KindMMK1 }

func (p *partitionedSingle) Utilization(lambda, mu float64) float64 {
	return math.Min(1, (lambda/float64(len(p.stations)))/mu)
}

// partitionedMulti is k independent M/M/c queues.
type partitionedMulti struct {
	partitioned
}

func (*partitionedMulti) Kind() Kind { return KindMMKC }

func (p *partitionedMulti) Utilization(lambda, mu float64) float64 {
	servers := len(p.stations) * len(p.stations[0].servers)
	return math.Min(1, lambda/(mu*float64(servers)))
}
