package sim

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

// captureLogOutput runs fn and returns the log output as a string.
func captureLogOutput(fn func()) string {
	var buf bytes.Buffer
	origOutput := logrus.StandardLogger().Out
	origLevel := logrus.GetLevel()
	logrus.SetOutput(&buf)
	logrus.SetLevel(logrus.WarnLevel)
	defer func() {
		if origOutput != nil {
			logrus.SetOutput(origOutput)
		} else {
			logrus.SetOutput(os.Stderr)
		}
		logrus.SetLevel(origLevel)
	}()
	fn()
	return buf.String()
}

// mustNewSimulator builds a simulator or fails the test.
func mustNewSimulator(t *testing.T, cfg Config) *Simulator {
	t.Helper()
	s, _, err := NewSimulator(cfg)
	if err != nil {
		t.Fatalf("NewSimulator(%+v): %v", cfg, err)
	}
	return s
}

// checkConsistency verifies the structural invariants that must hold after
// every step.
func checkConsistency(t *testing.T, s *Simulator) {
	t.Helper()
	inSystem, inQueue, busy := s.occupancy()
	if inSystem != inQueue+busy {
		t.Fatalf("t=%v: in_system %d != in_queue %d + busy %d", s.Clock, inSystem, inQueue, busy)
	}
	if int64(len(s.Completed)+inSystem) != s.jobsCreated {
		t.Fatalf("t=%v: completed %d + in system %d != created %d", s.Clock, len(s.Completed), inSystem, s.jobsCreated)
	}
	for _, st := range s.topology.Stations() {
		if st.queue.Len() > 0 && st.BusyServers() < len(st.servers) {
			t.Fatalf("t=%v: station %d has %d queued jobs but an idle server", s.Clock, st.Index, st.queue.Len())
		}
	}
	if s.Clock > s.Horizon {
		t.Fatalf("clock %v passed horizon %v", s.Clock, s.Horizon)
	}
}
