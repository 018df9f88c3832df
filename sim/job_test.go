package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobPhase_Constants_HaveExpectedStringValues(t *testing.T) {
	assert.Equal(t, JobPhase("waiting"), PhaseWaiting)
	assert.Equal(t, JobPhase("in_service"), PhaseInService)
	assert.Equal(t, JobPhase("departed"), PhaseDeparted)
}

func TestJob_Lifecycle_StampsTimes(t *testing.T) {
	// GIVEN a job arriving at t=1 with a 2-unit service
	j := NewJob(7, 1.0, 2.0)
	assert.Equal(t, PhaseWaiting, j.Phase())
	_, ok := j.ServiceStart()
	assert.False(t, ok)

	// WHEN it enters service at t=1.5 and departs at t=3.5
	j.beginService(1.5)
	start, ok := j.ServiceStart()
	require.True(t, ok)
	assert.Equal(t, 1.5, start)
	_, ok = j.Departure()
	assert.False(t, ok)

	j.depart(3.5)

	// THEN both stamps are visible and the waits follow from them
	end, ok := j.Departure()
	require.True(t, ok)
	assert.Equal(t, 3.5, end)
	assert.Equal(t, PhaseDeparted, j.Phase())
	assert.InDelta(t, 0.5, j.QueueWait(), 1e-12)
	assert.InDelta(t, 2.5, j.SystemWait(), 1e-12)
}

func TestJob_IllegalTransitions_Panic(t *testing.T) {
	tests := []struct {
		name string
		fn   func(j *Job)
	}{
		{"depart while waiting", func(j *Job) { j.depart(5) }},
		{"start twice", func(j *Job) { j.beginService(2); j.beginService(3) }},
		{"start before arrival", func(j *Job) { j.beginService(0.5) }},
		{"depart before start", func(j *Job) { j.beginService(2); j.depart(1.5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := NewJob(1, 1.0, 1.0)
			assert.Panics(t, func() { tt.fn(j) })
		})
	}
}

func TestServer_AcceptRelease(t *testing.T) {
	s := newServer()
	assert.False(t, s.Busy())

	j := NewJob(1, 0, 0.75)
	s.accept(j, 0.25)
	assert.True(t, s.Busy())
	assert.Equal(t, 1.0, s.BusyUntil())
	assert.Same(t, j, s.Job())

	out := s.release(1.0)
	assert.Same(t, j, out)
	assert.False(t, s.Busy())
	assert.Nil(t, s.Job())
	assert.Equal(t, PhaseDeparted, j.Phase())
}
