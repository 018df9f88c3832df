// Defines the Job struct that models a single customer moving through a station.
// Tracks arrival, sampled service duration and the service-start/departure stamps.

package sim

import (
	"fmt"
)

// JobPhase represents the lifecycle phase of a job.
type JobPhase string

const (
	PhaseWaiting   JobPhase = "waiting"
	PhaseInService JobPhase = "in_service"
	PhaseDeparted  JobPhase = "departed"
)

// Job models a single customer. Arrival and service duration are fixed at
// creation; start and end are only meaningful once the phase reaches them,
// so a departure without a service start cannot be expressed.
type Job struct {
	ID          int64   // Monotonic per run, starting at 1
	ArrivalTime float64 // Clock value at the arrival event
	ServiceTime float64 // Sampled from the service-rate distribution

	phase JobPhase
	start float64
	end   float64
}

// NewJob creates a job in the waiting phase.
func NewJob(id int64, arrival, service float64) *Job {
	return &Job{
		ID:          id,
		ArrivalTime: arrival,
		ServiceTime: service,
		phase:       PhaseWaiting,
	}
}

// Phase returns the current lifecycle phase.
func (j *Job) Phase() JobPhase {
	return j.phase
}

// ServiceStart returns the service-start time, ok=false while still waiting.
func (j *Job) ServiceStart() (float64, bool) {
	if j.phase == PhaseWaiting {
		return 0, false
	}
	return j.start, true
}

// Departure returns the departure time, ok=false until the job has departed.
func (j *Job) Departure() (float64, bool) {
	if j.phase != PhaseDeparted {
		return 0, false
	}
	return j.end, true
}

// QueueWait is the time spent waiting before service. Zero while waiting.
func (j *Job) QueueWait() float64 {
	if j.phase == PhaseWaiting {
		return 0
	}
	return j.start - j.ArrivalTime
}

// SystemWait is the total sojourn time. Zero until departed.
func (j *Job) SystemWait() float64 {
	if j.phase != PhaseDeparted {
		return 0
	}
	return j.end - j.ArrivalTime
}

// beginService moves the job into service. Panics on an illegal transition.
func (j *Job) beginService(now float64) {
	if j.phase != PhaseWaiting {
		panic(fmt.Sprintf("beginService: job %d is %s", j.ID, j.phase))
	}
	if now < j.ArrivalTime {
		panic(fmt.Sprintf("beginService: job %d starts at %v before arrival %v", j.ID, now, j.ArrivalTime))
	}
	j.phase = PhaseInService
	j.start = now
}

// depart completes the job. Panics unless the job is in service.
func (j *Job) depart(now float64) {
	if j.phase != PhaseInService {
		panic(fmt.Sprintf("depart: job %d is %s", j.ID, j.phase))
	}
	if now < j.start {
		panic(fmt.Sprintf("depart: job %d departs at %v before service start %v", j.ID, now, j.start))
	}
	j.phase = PhaseDeparted
	j.end = now
}

func (j Job) String() string {
	return fmt.Sprintf("Job(%d, %s, arrival=%.4f)", j.ID, j.phase, j.ArrivalTime)
}
