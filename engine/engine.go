package engine

import (
	"context"
	"time"

	"tictactoe/game"
	"tictactoe/player"
	"tictactoe/searcher"
)

// MaxMoves bounds a game; tic-tac-toe cannot last longer than one move per cell.
const MaxMoves = game.Cells

type Engine interface {
	// Run plays one game until it is won, drawn or MaxMoves is reached.
	Run(ctx context.Context) (Result, error)
}

type MoveRecord struct {
	Step     int
	Player   searcher.Player
	Move     game.Move
	Report   *player.Report // nil for human moves
	Duration time.Duration
}

type Result struct {
	Outcome   searcher.Outcome
	History   []game.Board
	Moves     []MoveRecord
	StartTime time.Time
	EndTime   time.Time
}

func (r Result) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

func (r Result) Final() game.Board {
	return r.History[len(r.History)-1]
}
