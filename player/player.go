package player

import (
	"context"
	"fmt"

	"tictactoe/game"
	"tictactoe/searcher"
)

type Report = searcher.Report[game.Move]

// Player chooses moves for one side of a game.
type Player interface {
	Name() string
	// Observe is called with every board of the game, starting with the empty board.
	Observe(board game.Board)
	// FindMove returns a legal move for the last board of history. Computer players also
	// return the report of their search.
	FindMove(ctx context.Context, history []game.Board) (game.Move, *Report, error)
	// Reset prepares the player for a new game.
	Reset()
}

// Computer plays the move chosen by an MCTS search.
type Computer struct {
	name string
	mcts *searcher.MCTS[game.Board, game.Move]
}

func NewComputer(name string, options ...searcher.Option) (*Computer, error) {
	mcts, err := searcher.NewMCTS[game.Board, game.Move](game.Rules{}, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search for %s: %w", name, err)
	}
	return &Computer{name: name, mcts: mcts}, nil
}

func (c *Computer) Name() string {
	return c.name
}

func (c *Computer) Observe(board game.Board) {
	c.mcts.Update(board)
}

func (c *Computer) FindMove(ctx context.Context, _ []game.Board) (game.Move, *Report, error) {
	move, report, err := c.mcts.SelectMove(ctx)
	if err != nil {
		return 0, nil, err
	}
	return move, &report, nil
}

func (c *Computer) Reset() {
	c.mcts.Reset()
}

func (c *Computer) Config() searcher.Config {
	return c.mcts.Config()
}
