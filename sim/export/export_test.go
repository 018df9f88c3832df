package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queue-sim/queue-sim/sim"
)

func runMM1(t *testing.T) *sim.Simulator {
	t.Helper()
	s, _, err := sim.NewSimulator(sim.Config{
		Kind: sim.KindMM1, ArrivalRate: 0.6, ServiceRate: 2.0,
		Horizon: 1000, Warmup: 100, Seed: 42,
	})
	require.NoError(t, err)
	s.Run()
	return s
}

func TestNewRecord_CapturesRun(t *testing.T) {
	s := runMM1(t)
	rec := NewRecord(s)

	assert.NotEmpty(t, rec.RunID)
	assert.Equal(t, sim.KindMM1, rec.Parameters.Kind)
	assert.Equal(t, 0.6, rec.Parameters.Lambda)
	assert.Equal(t, 2.0, rec.Parameters.Mu)
	assert.Equal(t, 1, rec.Parameters.C)
	assert.Equal(t, 1, rec.Parameters.K)
	assert.Equal(t, s.State(), rec.Metrics)
	assert.Equal(t, s.Series.Len(), len(rec.TimeSeries.T))
	assert.Equal(t, s.Metrics.QueueWaitCount, len(rec.WaitTimes.Queue))
	assert.Equal(t, s.Metrics.SystemWaitCount, len(rec.WaitTimes.System))
}

func TestNewRecord_IndependentOfLaterSteps(t *testing.T) {
	s, _, err := sim.NewSimulator(sim.Config{Kind: sim.KindMM1, ArrivalRate: 1, ServiceRate: 2, Horizon: 100, Seed: 1})
	require.NoError(t, err)
	s.AdvanceUntil(10)
	rec := NewRecord(s)
	n := len(rec.TimeSeries.T)

	s.Run()

	assert.Len(t, rec.TimeSeries.T, n)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	s := runMM1(t)
	rec := NewRecord(s)

	for _, name := range []string{"run.json", "run.yaml", "run.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Write(path, rec))

			got, err := Read(path)
			require.NoError(t, err)

			assert.Equal(t, rec.RunID, got.RunID)
			assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
			assert.Equal(t, rec.Parameters, got.Parameters)
			assert.Equal(t, rec.Metrics, got.Metrics)
			assert.Equal(t, rec.TimeSeries, got.TimeSeries)
			assert.Equal(t, rec.WaitTimes, got.WaitTimes)
		})
	}
}

func TestWrite_JSONLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, Write(path, NewRecord(runMM1(t))))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"parameters", "metrics", "time_series", "wait_times"} {
		assert.Contains(t, raw, key)
	}
	params := raw["parameters"].(map[string]any)
	assert.Equal(t, 0.6, params["lambda"])
	assert.Equal(t, 2.0, params["mu"])
	metrics := raw["metrics"].(map[string]any)
	for _, key := range []string{"t", "in_system", "in_queue", "served", "rejected", "rho", "wq_avg", "w_avg", "lq_avg", "l_avg"} {
		assert.Contains(t, metrics, key)
	}
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("a.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("a.YML"))
	assert.Equal(t, FormatJSON, FormatForPath("a.json"))
	assert.Equal(t, FormatJSON, FormatForPath("a"))
}

func TestUnmarshal_RejectsUnknownFields(t *testing.T) {
	_, err := Unmarshal([]byte(`{"run_id":"x","bogus":1}`), FormatJSON)
	assert.Error(t, err)

	_, err = Unmarshal([]byte("run_id: x\nbogus: 1\n"), FormatYAML)
	assert.Error(t, err)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
