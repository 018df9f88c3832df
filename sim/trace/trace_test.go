package trace

import (
	"testing"
)

func TestSimulationTrace_RecordRouting_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for routing
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelRouting})

	// WHEN a routing record is recorded
	st.RecordRouting(RoutingRecord{
		JobID:   1,
		Clock:   0.25,
		Chosen:  2,
		Lengths: []int{1, 1, 0},
		Ties:    1,
	})

	// THEN the trace contains one routing record with correct data
	if len(st.Routings) != 1 {
		t.Fatalf("expected 1 routing, got %d", len(st.Routings))
	}
	if st.Routings[0].Chosen != 2 {
		t.Errorf("expected partition 2, got %d", st.Routings[0].Chosen)
	}
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelRouting})

	st.RecordRouting(RoutingRecord{JobID: 1, Chosen: 0, Lengths: []int{0, 0}})
	st.RecordRouting(RoutingRecord{JobID: 2, Chosen: 1, Lengths: []int{1, 0}})

	if len(st.Routings) != 2 {
		t.Fatalf("expected 2 routings, got %d", len(st.Routings))
	}
	if st.Routings[0].JobID != 1 || st.Routings[1].JobID != 2 {
		t.Error("routing order not preserved")
	}
}

func TestSimulationTrace_Enabled(t *testing.T) {
	var nilTrace *SimulationTrace
	if nilTrace.Enabled() {
		t.Error("nil trace reported enabled")
	}
	if NewSimulationTrace(TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("level none reported enabled")
	}
	if !NewSimulationTrace(TraceConfig{Level: TraceLevelRouting}).Enabled() {
		t.Error("level routing reported disabled")
	}
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"routing", true},
		{"", true},
		{"decisions", false},
		{"verbose", false},
	}
	for _, tt := range tests {
		if got := IsValidTraceLevel(tt.level); got != tt.valid {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
		}
	}
}

func TestRoutingRecord_Excess(t *testing.T) {
	tests := []struct {
		name string
		rec  RoutingRecord
		want int
	}{
		{"chosen is minimum", RoutingRecord{Chosen: 1, Lengths: []int{2, 0, 1}}, 0},
		{"chosen above minimum", RoutingRecord{Chosen: 0, Lengths: []int{3, 0, 1}}, 3},
		{"no lengths", RoutingRecord{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Excess(); got != tt.want {
				t.Errorf("Excess() = %d, want %d", got, tt.want)
			}
		})
	}
}
