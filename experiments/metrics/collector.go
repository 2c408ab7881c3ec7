package metrics

import (
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"tictactoe/searcher"
)

// AgentConfig describes one computer player taking part in an experiment.
type AgentConfig struct {
	ID            int           `yaml:"id" validate:"gte=0"`
	Goroutines    int           `yaml:"goroutines" validate:"gte=1"`
	Duration      time.Duration `yaml:"duration" validate:"gte=0"`
	Simulations   int           `yaml:"simulations" validate:"gte=0"`
	C             float64       `yaml:"exploration_constant" validate:"gte=0"`
	MaxMoves      int           `yaml:"max_moves" validate:"gte=0"`
	StoreCapacity int           `yaml:"store_capacity" validate:"gte=0"`
	// Temperature, when positive, samples moves in proportion to root plays.
	Temperature   float64       `yaml:"temperature" validate:"gte=0"`
}

// SearchConfig converts the agent into engine settings, keeping engine defaults for zero
// fields other than the budget.
func (a AgentConfig) SearchConfig() searcher.Config {
	cfg := searcher.DefaultConfig()
	cfg.Time = a.Duration
	cfg.Simulations = a.Simulations
	cfg.Goroutines = a.Goroutines
	cfg.StoreCapacity = a.StoreCapacity
	if a.C > 0 {
		cfg.C = a.C
	}
	if a.MaxMoves > 0 {
		cfg.MaxMoves = a.MaxMoves
	}
	return cfg
}

type MoveMetric struct {
	Step     int
	Player   searcher.Player
	Move     int
	WinRate  float64 // percent, of the chosen move
	OnlyMove bool
	searcher.SearchMetric
	MaxDepth int
}

type GameMetric struct {
	StartingPlayer searcher.Player
	Winner         searcher.Player // NoPlayer on a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// MatchupSummary aggregates the games of one pairing from the first agent's perspective.
type MatchupSummary struct {
	Agent1, Agent2  int
	Games           int
	Agent1Wins      int
	Agent2Wins      int
	Draws           int
	MeanMoves       float64
	StdMoves        float64
	MeanSimulations float64
	StdSimulations  float64
}

func (s MatchupSummary) String() string {
	return fmt.Sprintf("agent %d vs agent %d: %d games, %d-%d with %d draws, %.1f±%.1f moves, %.0f±%.0f simulations per search",
		s.Agent1, s.Agent2, s.Games, s.Agent1Wins, s.Agent2Wins, s.Draws,
		s.MeanMoves, s.StdMoves, s.MeanSimulations, s.StdSimulations)
}

// Collector accumulates game and move records from concurrently running games.
type Collector struct {
	sync.Mutex
	games []GameRecord
	moves []MoveRecord
}

func NewCollector() *Collector {
	return &Collector{}
}

// AddGame stores a finished game and assigns its record ID.
func (c *Collector) AddGame(game GameRecord, moves []MoveMetric) int {
	c.Lock()
	defer c.Unlock()

	game.ID = len(c.games) + 1
	c.games = append(c.games, game)
	for _, mm := range moves {
		c.moves = append(c.moves, MoveRecord{Game: game.ID, MoveMetric: mm})
	}
	return game.ID
}

func (c *Collector) GameRecords() []GameRecord {
	c.Lock()
	defer c.Unlock()
	return append([]GameRecord(nil), c.games...)
}

func (c *Collector) MoveRecords() []MoveRecord {
	c.Lock()
	defer c.Unlock()
	return append([]MoveRecord(nil), c.moves...)
}

// Summarize computes one summary for the given pairing. Games are matched regardless of
// which agent started.
func (c *Collector) Summarize(agent1, agent2 int) MatchupSummary {
	c.Lock()
	defer c.Unlock()

	summary := MatchupSummary{Agent1: agent1, Agent2: agent2}
	lengths := []float64{}
	games := map[int]GameRecord{}
	for _, g := range c.games {
		if g.Matchup != [2]int{agent1, agent2} {
			continue
		}
		games[g.ID] = g
		summary.Games++
		lengths = append(lengths, float64(g.TotalMoves))
		switch g.WinnerAgent() {
		case agent1:
			summary.Agent1Wins++
		case agent2:
			summary.Agent2Wins++
		default:
			summary.Draws++
		}
	}

	simulations := []float64{}
	for _, m := range c.moves {
		if _, ok := games[m.Game]; ok && !m.OnlyMove {
			simulations = append(simulations, float64(m.Simulations))
		}
	}

	if len(lengths) > 0 {
		summary.MeanMoves, summary.StdMoves = meanStdDev(lengths)
	}
	if len(simulations) > 0 {
		summary.MeanSimulations, summary.StdSimulations = meanStdDev(simulations)
	}
	return summary
}

func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 1 {
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}
