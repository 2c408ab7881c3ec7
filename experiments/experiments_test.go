package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"tictactoe/config"
	"tictactoe/engine"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/player"
	"tictactoe/searcher"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func arenaConfig(t *testing.T) config.ArenaConfig {
	return config.ArenaConfig{
		Games:     4,
		Parallel:  2,
		OutputDir: t.TempDir(),
		Baseline:  metrics.AgentConfig{ID: 0, Goroutines: 1, Simulations: 40},
		Challengers: []metrics.AgentConfig{
			{ID: 1, Goroutines: 1, Simulations: 40, C: 0.5},
			{ID: 2, Goroutines: 2, Simulations: 40},
			{ID: 3, Goroutines: 1, Simulations: 40, Temperature: 1},
		},
	}
}

func TestRunArena(t *testing.T) {
	cfg := arenaConfig(t)
	reg := prometheus.NewRegistry()

	outcome, err := RunArena(context.Background(), "arena", cfg, WithPromMetrics(searcher.NewPromMetrics(reg)))
	require.NoError(t, err)
	require.Len(t, outcome.Summaries, 3)

	for i, summary := range outcome.Summaries {
		require.Equal(t, 0, summary.Agent1)
		require.Equal(t, i+1, summary.Agent2)
		require.Equal(t, cfg.Games, summary.Games)
		require.Equal(t, cfg.Games, summary.Agent1Wins+summary.Agent2Wins+summary.Draws)
		require.GreaterOrEqual(t, summary.MeanMoves, 5.0, "A game needs at least five moves")
		require.LessOrEqual(t, summary.MeanMoves, 9.0)
	}

	for _, file := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv", "summary.csv"} {
		require.FileExists(t, filepath.Join(outcome.Dir, file))
	}
	require.Equal(t, cfg.OutputDir, filepath.Dir(filepath.Dir(outcome.Dir)))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families, "Searches should feed the shared metrics")
}

func TestRunArenaInvalidAgent(t *testing.T) {
	cfg := arenaConfig(t)
	cfg.Challengers[0].Simulations = 0

	_, err := RunArena(context.Background(), "arena", cfg)
	require.ErrorIs(t, err, searcher.ErrNoBudget)
}

func TestRunArenaDuplicateAgent(t *testing.T) {
	cfg := arenaConfig(t)
	cfg.Challengers[1].ID = cfg.Baseline.ID

	_, err := RunArena(context.Background(), "arena", cfg)
	require.ErrorIs(t, err, config.ErrDuplicateAgent)

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	require.Empty(t, entries, "Nothing is played or written for an invalid arena")
}

func TestRunArenaCancelled(t *testing.T) {
	cfg := arenaConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := RunArena(ctx, "arena", cfg)
	require.NoError(t, err, "Cancelled searches still return their best guess")
	require.Len(t, outcome.Summaries, 3)
}

func TestCreateComputer(t *testing.T) {
	computer, err := runner{}.createComputer(metrics.AgentConfig{ID: 1, Goroutines: 1, Simulations: 10})
	require.NoError(t, err)
	require.IsType(t, &player.Computer{}, computer)

	sampling, err := runner{}.createComputer(metrics.AgentConfig{ID: 2, Goroutines: 1, Simulations: 10, Temperature: 0.5})
	require.NoError(t, err)
	require.IsType(t, &player.Sampling{}, sampling)
	require.Equal(t, "agent 2", sampling.Name())
}

func TestMoveMetrics(t *testing.T) {
	report := &player.Report{
		Moves:       []searcher.MoveStat[game.Move]{{Move: 4, WinRate: 60}},
		Simulations: 10,
		MaxDepth:    2,
	}
	mms := moveMetrics([]engine.MoveRecord{
		{Step: 1, Player: game.PlayerX, Move: 4, Report: report},
		{Step: 2, Player: game.PlayerO, Move: 0},
	})

	require.Len(t, mms, 2)
	require.Equal(t, 10, mms[0].Simulations)
	require.Equal(t, 60.0, mms[0].WinRate)
	require.Equal(t, 2, mms[0].MaxDepth)
	require.Equal(t, 0, mms[1].Simulations)
}
