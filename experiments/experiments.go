package experiments

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tictactoe/config"
	"tictactoe/engine"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/player"
	"tictactoe/searcher"
)

type Outcome struct {
	Dir       string
	Summaries []metrics.MatchupSummary
}

type Option func(*runner)

type runner struct {
	prom *searcher.PromMetrics
}

// WithPromMetrics feeds every search of the experiment into shared Prometheus series.
func WithPromMetrics(prom *searcher.PromMetrics) Option {
	return func(r *runner) {
		r.prom = prom
	}
}

// RunArena pairs the baseline agent against every challenger. Each matchup plays
// cfg.Games games with the agents alternating who starts as X. Records are written to a
// new run directory under cfg.OutputDir.
func RunArena(ctx context.Context, name string, cfg config.ArenaConfig, options ...Option) (Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("invalid arena: %w", err)
	}

	r := runner{}
	for _, option := range options {
		option(&r)
	}

	matchUps := [][2]metrics.AgentConfig{}
	for _, challenger := range cfg.Challengers {
		matchUps = append(matchUps, [2]metrics.AgentConfig{cfg.Baseline, challenger})
	}

	collector := metrics.NewCollector()
	log.Info().Msgf("starting %s experiment with %d matchups of %d games...", name, len(matchUps), cfg.Games)

	for mi, matchUp := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), matchUp[0], matchUp[1])

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Parallel)
		for i := 0; i < cfg.Games; i++ {
			// alternate the starting agent
			agentX, agentO := matchUp[0], matchUp[1]
			if i%2 == 1 {
				agentX, agentO = agentO, agentX
			}
			g.Go(func() error {
				record, moves, err := r.runGame(gctx, agentX, agentO)
				if err != nil {
					return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
				}
				record.Matchup = [2]int{matchUp[0].ID, matchUp[1].ID}
				id := collector.AddGame(record, moves)
				log.Info().Msgf("completed matchup %d of %d game %d (record %d) with winner agent %d",
					mi+1, len(matchUps), i+1, id, record.WinnerAgent())
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Outcome{}, err
		}

		log.Info().Msgf("completed matchup %d of %d: %s", mi+1, len(matchUps), collector.Summarize(matchUp[0].ID, matchUp[1].ID))
	}

	log.Info().Msgf("completed %s experiment", name)

	summaries := make([]metrics.MatchupSummary, 0, len(matchUps))
	for _, matchUp := range matchUps {
		summaries = append(summaries, collector.Summarize(matchUp[0].ID, matchUp[1].ID))
	}

	dir, err := store(cfg, name, collector, summaries)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Dir: dir, Summaries: summaries}, nil
}

func store(cfg config.ArenaConfig, name string, collector *metrics.Collector, summaries []metrics.MatchupSummary) (string, error) {
	writer, err := metrics.NewWriter(cfg.OutputDir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(append([]metrics.AgentConfig{cfg.Baseline}, cfg.Challengers...))
	if err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(collector.GameRecords())
	if err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(collector.MoveRecords())
	if err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	err = writer.WriteSummaries(summaries)
	if err != nil {
		return "", fmt.Errorf("failed to write summaries: %w", err)
	}
	log.Info().Msgf("stored experiment %s in %s", writer.RunID(), writer.Dir())

	return writer.Dir(), nil
}

// runGame plays a single game between two agents.
func (r runner) runGame(ctx context.Context, agentX, agentO metrics.AgentConfig) (metrics.GameRecord, []metrics.MoveMetric, error) {
	x, err := r.createComputer(agentX)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}
	o, err := r.createComputer(agentO)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	result, err := engine.LocalEngine(x, o).Run(ctx)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	record := metrics.GameRecord{
		AgentX: agentX.ID,
		AgentO: agentO.ID,
		GameMetric: metrics.GameMetric{
			StartingPlayer: game.PlayerX,
			Winner:         result.Outcome.Winner,
			StartTime:      result.StartTime,
			EndTime:        result.EndTime,
			Duration:       result.Duration(),
			TotalMoves:     len(result.Moves),
		},
	}
	return record, moveMetrics(result.Moves), nil
}

func moveMetrics(moves []engine.MoveRecord) []metrics.MoveMetric {
	mms := make([]metrics.MoveMetric, 0, len(moves))
	for _, move := range moves {
		mm := metrics.MoveMetric{
			Step:   move.Step,
			Player: move.Player,
			Move:   int(move.Move),
			SearchMetric: searcher.SearchMetric{
				Duration: move.Duration,
			},
		}
		if report := move.Report; report != nil {
			mm.OnlyMove = report.OnlyMove
			mm.Simulations = report.Simulations
			mm.Expansions = report.Expansions
			mm.FullPlayouts = report.FullPlayouts
			mm.StoreSize = report.StoreSize
			mm.MaxDepth = report.MaxDepth
			if best, ok := report.Best(); ok {
				mm.WinRate = best.WinRate
			}
		}
		mms = append(mms, mm)
	}
	return mms
}

func (r runner) createComputer(agent metrics.AgentConfig) (player.Player, error) {
	options := []searcher.Option{searcher.WithConfig(agent.SearchConfig())}
	if r.prom != nil {
		options = append(options, searcher.WithMetrics(r.prom.NewCollector()))
	}
	computer, err := player.NewComputer(fmt.Sprintf("agent %d", agent.ID), options...)
	if err != nil || agent.Temperature <= 0 {
		return computer, err
	}
	return player.NewSampling(computer, agent.Temperature, 0)
}
