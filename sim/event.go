package sim

// EventKind names what a single Step applied.
type EventKind string

const (
	// EventArrival is the creation of a new job at the scheduled arrival time.
	EventArrival EventKind = "arrival"
	// EventDeparture is the completion of service for a held job.
	EventDeparture EventKind = "departure"
	// EventHorizon means no event fell inside the horizon; the clock jumped to it.
	EventHorizon EventKind = "horizon"
	// EventNone is returned when stepping a finished simulation.
	EventNone EventKind = "none"
)

// Event describes the event applied by a Step.
type Event struct {
	Kind    EventKind
	Time    float64
	JobID   int64 // 0 for horizon/none
	Station int   // station that received or released the job, -1 otherwise
}
