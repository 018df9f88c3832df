package theory

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queue-sim/queue-sim/sim"
)

func TestMM1_KnownValues(t *testing.T) {
	m, err := MM1(0.6, 2.0)
	require.NoError(t, err)

	assert.InDelta(t, 0.3, m.Rho, 1e-12)
	assert.InDelta(t, 3.0/7.0, m.L, 1e-12)
	assert.InDelta(t, 9.0/70.0, m.Lq, 1e-12)
	assert.InDelta(t, 1/1.4, m.W, 1e-12)
	assert.InDelta(t, 0.3/1.4, m.Wq, 1e-12)
}

func TestMMC_KnownValues(t *testing.T) {
	m, err := MMC(0.7, 2.5, 3)
	require.NoError(t, err)

	assert.InDelta(t, 0.0933333333, m.Rho, 1e-9)
	assert.InDelta(t, 0.7557234941, m.P0, 1e-9)
	assert.InDelta(t, 0.0030495666, m.C, 1e-9)
	assert.InDelta(t, 0.0003139260, m.Lq, 1e-9)
	assert.InDelta(t, 0.0004484657, m.Wq, 1e-9)
	assert.InDelta(t, 0.4004484657, m.W, 1e-9)
	assert.InDelta(t, 0.2803139260, m.L, 1e-9)
}

func TestMMC_SingleServer_MatchesMM1(t *testing.T) {
	a, err := MM1(0.8, 1.7)
	require.NoError(t, err)
	b, err := MMC(0.8, 1.7, 1)
	require.NoError(t, err)

	assert.InDelta(t, a.L, b.L, 1e-12)
	assert.InDelta(t, a.Lq, b.Lq, 1e-12)
	assert.InDelta(t, a.W, b.W, 1e-12)
	assert.InDelta(t, a.Wq, b.Wq, 1e-12)
	// For one server the waiting probability is rho.
	assert.InDelta(t, a.Rho, b.C, 1e-12)
}

func TestMMC_LargeServerCount_Finite(t *testing.T) {
	m, err := MMC(150, 1, 200)
	require.NoError(t, err)
	assert.False(t, m.P0 != m.P0, "P0 is NaN")
	assert.Greater(t, m.L, 0.0)
}

func TestTheory_InvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"mm1 zero lambda", func() error { _, err := MM1(0, 1); return err }},
		{"mm1 negative mu", func() error { _, err := MM1(1, -1); return err }},
		{"mmc zero servers", func() error { _, err := MMC(1, 2, 0); return err }},
		{"mmc negative lambda", func() error { _, err := MMC(-1, 2, 2); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			require.Error(t, err)
			assert.True(t, errors.Is(err, sim.ErrInvalidParameter), "got %v", err)
		})
	}
}

func TestTheory_Unstable(t *testing.T) {
	_, err := MM1(3, 2)
	assert.ErrorIs(t, err, ErrUnstable)

	_, err = MM1(2, 2)
	assert.ErrorIs(t, err, ErrUnstable)

	_, err = MMC(10, 2, 3)
	assert.ErrorIs(t, err, ErrUnstable)
}

func TestForConfig(t *testing.T) {
	m, err := ForConfig(sim.Config{Kind: sim.KindMM1, ArrivalRate: 0.6, ServiceRate: 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, m.Rho, 1e-12)

	m, err = ForConfig(sim.Config{Kind: sim.KindMMC, ArrivalRate: 0.7, ServiceRate: 2.5, Servers: 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.0030495666, m.C, 1e-9)

	_, err = ForConfig(sim.Config{Kind: sim.KindMMK1, ArrivalRate: 0.8, ServiceRate: 2.5, Partitions: 3})
	assert.ErrorIs(t, err, ErrNoReference)
}

func TestLittlesLaw(t *testing.T) {
	tests := []struct {
		name        string
		l, lambda, w float64
		tol         float64
		want        bool
	}{
		{"exact", 0.6, 0.6, 1.0, 0.1, true},
		{"within tolerance", 0.65, 0.6, 1.0, 0.1, true},
		{"outside tolerance", 0.8, 0.6, 1.0, 0.1, false},
		{"zero lambda zero L", 0, 0, 5, 0.1, true},
		{"zero lambda nonzero L", 1, 0, 5, 0.1, false},
		{"zero W small L", 0.01, 1, 0, 0.1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LittlesLaw(tt.l, tt.lambda, tt.w, tt.tol))
		})
	}
}

func TestCompare_PerMetricVerdicts(t *testing.T) {
	ref := Metrics{Rho: 0.3, L: 0.4, Lq: 0.1, W: 0.7, Wq: 0.2}
	measured := Metrics{Rho: 0.3, L: 0.42, Lq: 0.2, W: 0.69, Wq: 0.21}

	cmp := Compare(measured, ref, 0.15)

	require.Len(t, cmp.Metrics, 5)
	assert.Equal(t, []string{"L", "Lq", "W", "Wq", "rho"}, names(cmp))
	assert.Equal(t, []string{"Lq"}, cmp.Failed())
	assert.False(t, cmp.AllOK())

	lq, ok := cmp.Get("Lq")
	require.True(t, ok)
	assert.InDelta(t, 1.0, lq.RelError, 1e-12)
	assert.Equal(t, 0.2, lq.Simulated)
	assert.Equal(t, 0.1, lq.Theory)
}

func TestCompare_ZeroReference_UsesAbsoluteError(t *testing.T) {
	cmp := Compare(Metrics{Lq: 0.05}, Metrics{}, 0.1)
	lq, _ := cmp.Get("Lq")
	assert.InDelta(t, 0.05, lq.RelError, 1e-12)
	assert.True(t, lq.OK)
}

func TestComparison_Print(t *testing.T) {
	var buf bytes.Buffer
	Compare(Metrics{L: 1, Rho: 0.5}, Metrics{L: 1, Rho: 0.5}, 0.15).Print(&buf)
	assert.Contains(t, buf.String(), "5/5 metrics within 15% tolerance")
}

func names(c Comparison) []string {
	out := make([]string, 0, len(c.Metrics))
	for _, m := range c.Metrics {
		out = append(out, m.Name)
	}
	return out
}
