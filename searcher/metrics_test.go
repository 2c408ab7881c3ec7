package searcher

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start()
	c.AddSimulation()
	c.AddSimulation()
	c.AddExpansion()
	c.AddFullPlayout()

	metric := c.Complete(5)
	require.Equal(t, 2, metric.Simulations)
	require.Equal(t, 1, metric.Expansions)
	require.Equal(t, 1, metric.FullPlayouts)
	require.Equal(t, 5, metric.StoreSize)
	require.False(t, metric.StartTime.IsZero())

	c.Start()
	require.Equal(t, 0, c.Complete(0).Simulations, "Start should reset the counters")
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPromMetrics(reg)

	rules := stonesRules{start: 10}
	mcts := newStonesSearch(t, rules, WithSimulations(150), WithMetrics(p.NewCollector()))

	_, report, err := mcts.SelectMove(context.Background())
	require.NoError(t, err)

	require.Equal(t, 150.0, testutil.ToFloat64(p.simulationsTotal))
	require.Equal(t, float64(report.Expansions), testutil.ToFloat64(p.expansionsTotal))
	require.Equal(t, float64(report.FullPlayouts), testutil.ToFloat64(p.fullPlayoutsTotal))
	require.Equal(t, float64(report.StoreSize), testutil.ToFloat64(p.storeEntries))

	count, err := testutil.GatherAndCount(reg, "mcts_search_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, _, err = mcts.SelectMove(context.Background())
	require.NoError(t, err)
	require.Equal(t, 300.0, testutil.ToFloat64(p.simulationsTotal), "Totals should accumulate across searches")

	other := newStonesSearch(t, rules, WithSimulations(50), WithMetrics(p.NewCollector()))
	_, report, err = other.SelectMove(context.Background())
	require.NoError(t, err)
	require.Equal(t, 50, report.Simulations, "Each engine counts its own searches")
	require.Equal(t, 350.0, testutil.ToFloat64(p.simulationsTotal))
}
