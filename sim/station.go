package sim

import "math"

// Station is one FIFO queue in front of a fixed pool of servers. Every
// topology is built from stations: a single station for mm1/mmc, k of them
// for the partitioned kinds.
type Station struct {
	Index   int
	queue   JobQueue
	servers []*Server
}

func newStation(index, servers int) *Station {
	st := &Station{Index: index, servers: make([]*Server, servers)}
	for i := range st.servers {
		st.servers[i] = newServer()
	}
	return st
}

// Queue exposes the waiting jobs.
func (st *Station) Queue() *JobQueue {
	return &st.queue
}

// Servers returns the station's servers in index order.
func (st *Station) Servers() []*Server {
	return st.servers
}

// BusyServers counts servers currently holding a job.
func (st *Station) BusyServers() int {
	n := 0
	for _, s := range st.servers {
		if s.Busy() {
			n++
		}
	}
	return n
}

// Length is the routing length: queued jobs plus jobs in service.
func (st *Station) Length() int {
	return st.queue.Len() + st.BusyServers()
}

// nextDeparture returns the earliest busy-until among busy servers.
// The lowest index wins exact ties. Returns (+Inf, nil) when all are idle.
func (st *Station) nextDeparture() (float64, *Server) {
	best := math.Inf(1)
	var srv *Server
	for _, s := range st.servers {
		if s.Busy() && s.busyUntil < best {
			best = s.busyUntil
			srv = s
		}
	}
	return best, srv
}

// fill hands queued jobs, head first, to idle servers in index order until
// the queue empties or no server is idle. started is called for every job
// that enters service.
func (st *Station) fill(now float64, started func(*Job)) {
	for _, s := range st.servers {
		if st.queue.Peek() == nil {
			return
		}
		if s.Busy() {
			continue
		}
		j := st.queue.Dequeue()
		s.accept(j, now)
		started(j)
	}
}
