package sim

import "math"

// Server is one service position. It holds at most one job at a time and is
// reused for the lifetime of the simulation.
type Server struct {
	busyUntil float64 // departure time of the held job, +Inf when idle
	job       *Job
}

func newServer() *Server {
	return &Server{busyUntil: math.Inf(1)}
}

// Busy reports whether the server currently holds a job.
func (s *Server) Busy() bool {
	return s.job != nil
}

// BusyUntil returns the departure time of the held job, or +Inf when idle.
func (s *Server) BusyUntil() float64 {
	return s.busyUntil
}

// Job returns the job in service, nil when idle.
func (s *Server) Job() *Job {
	return s.job
}

func (s *Server) accept(j *Job, now float64) {
	j.beginService(now)
	s.job = j
	s.busyUntil = now + j.ServiceTime
}

// release frees the server and returns the departed job.
func (s *Server) release(now float64) *Job {
	j := s.job
	j.depart(now)
	s.job = nil
	s.busyUntil = math.Inf(1)
	return j
}
