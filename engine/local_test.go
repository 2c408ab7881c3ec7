package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"tictactoe/game"
	"tictactoe/player"
	"tictactoe/searcher"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// scripted plays a fixed sequence of moves.
type scripted struct {
	name     string
	moves    []game.Move
	observed []game.Board
	resets   int
	err      error
}

func (s *scripted) Name() string { return s.name }

func (s *scripted) Observe(board game.Board) { s.observed = append(s.observed, board) }

func (s *scripted) Reset() {
	s.resets++
	s.observed = nil
}

func (s *scripted) FindMove(context.Context, []game.Board) (game.Move, *player.Report, error) {
	if s.err != nil {
		return 0, nil, s.err
	}
	move := s.moves[0]
	s.moves = s.moves[1:]
	return move, nil, nil
}

func newComputer(t *testing.T, seed uint64) *player.Computer {
	t.Helper()
	computer, err := player.NewComputer("AI",
		searcher.WithDuration(0), searcher.WithSimulations(300), searcher.WithSeed(seed))
	require.NoError(t, err)
	return computer
}

func TestLocalRun(t *testing.T) {
	t.Run("x wins", func(t *testing.T) {
		x := &scripted{name: "Alice", moves: []game.Move{0, 1, 2}}
		o := &scripted{name: "Bob", moves: []game.Move{3, 4}}
		out := &bytes.Buffer{}

		result, err := LocalEngine(x, o, WithOutput(out, game.NewRenderer(termenv.Ascii))).Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, searcher.Win(game.PlayerX), result.Outcome)
		require.Len(t, result.Moves, 5)
		require.Len(t, result.History, 6)
		require.Equal(t, game.Board{game.X, game.X, game.X, game.O, game.O}, result.Final())
		require.Equal(t, game.PlayerO, result.Moves[1].Player)
		require.Equal(t, 2, result.Moves[1].Step)
		require.False(t, result.EndTime.Before(result.StartTime))

		require.Equal(t, result.History, x.observed, "Players should observe every board")
		require.Equal(t, 1, x.resets)
		require.Contains(t, out.String(), "GAME START!")
		require.Contains(t, out.String(), "Alice played at position (0, 2)")
		require.Contains(t, out.String(), "Alice (X) WINS!")
	})

	t.Run("draw", func(t *testing.T) {
		x := &scripted{name: "X", moves: []game.Move{0, 2, 3, 7, 8}}
		o := &scripted{name: "O", moves: []game.Move{1, 4, 5, 6}}
		out := &bytes.Buffer{}

		result, err := LocalEngine(x, o, WithOutput(out, game.NewRenderer(termenv.Ascii))).Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, searcher.Draw, result.Outcome)
		require.Len(t, result.Moves, MaxMoves)
		require.Contains(t, out.String(), "IT'S A TIE!")
	})

	t.Run("player error", func(t *testing.T) {
		boom := errors.New("boom")
		x := &scripted{name: "X", err: boom}
		o := &scripted{name: "O"}

		_, err := LocalEngine(x, o).Run(context.Background())
		require.ErrorIs(t, err, boom)
	})

	t.Run("illegal move", func(t *testing.T) {
		x := &scripted{name: "X", moves: []game.Move{4}}
		o := &scripted{name: "O", moves: []game.Move{4}}

		result, err := LocalEngine(x, o).Run(context.Background())
		require.ErrorIs(t, err, game.ErrInvalidMove)
		require.Len(t, result.Moves, 1)
	})

	t.Run("computer self play", func(t *testing.T) {
		result, err := LocalEngine(newComputer(t, 1), newComputer(t, 2)).Run(context.Background())
		require.NoError(t, err)
		require.True(t, result.Outcome.Over())
		for _, record := range result.Moves {
			require.NotNil(t, record.Report)
		}
	})

	t.Run("one computer on both sides", func(t *testing.T) {
		computer := newComputer(t, 3)

		result, err := LocalEngine(computer, computer).Run(context.Background())
		require.NoError(t, err)
		require.True(t, result.Outcome.Over())
	})

	t.Run("human against computer", func(t *testing.T) {
		// taken cells are rejected and the next line is read
		out := &bytes.Buffer{}
		console := player.NewConsole(strings.NewReader("0 0\n0 1\n0 2\n1 0\n1 1\n1 2\n2 0\n2 1\n2 2\n"), out)
		human := player.NewHuman("You", console)

		result, err := LocalEngine(human, newComputer(t, 4),
			WithOutput(out, game.NewRenderer(termenv.Ascii)), WithInsights()).Run(context.Background())
		require.NoError(t, err)
		require.True(t, result.Outcome.Over())
		require.Contains(t, out.String(), "AI DECISION INSIGHTS")
	})
}

func TestWriteInsights(t *testing.T) {
	t.Run("only move", func(t *testing.T) {
		out := &bytes.Buffer{}
		WriteInsights(out, &player.Report{OnlyMove: true})
		require.Contains(t, out.String(), "Only one legal move available")
	})

	t.Run("ranked moves", func(t *testing.T) {
		out := &bytes.Buffer{}
		WriteInsights(out, &player.Report{
			Moves: []searcher.MoveStat[game.Move]{
				{Move: 4, Wins: 30, Plays: 40, WinRate: 75},
				{Move: 0, Wins: 1, Plays: 4, WinRate: 25},
			},
			Simulations:         44,
			MaxDepth:            3,
			ExplorationConstant: 1.4,
			StopReason:          searcher.StopSimulations,
		})

		text := out.String()
		require.Contains(t, text, "Simulations run: 44")
		require.Contains(t, text, "Max tree depth: 3")
		require.Contains(t, text, "Exploration constant (C): 1.4")
		require.Contains(t, text, "=> (1, 1)")
		require.Contains(t, text, "75.00%")
		require.Contains(t, text, "CHOSEN MOVE: Position (1, 1)")
		require.Less(t, strings.Index(text, "(1, 1)"), strings.Index(text, "(0, 0)"), "Best move should be listed first")
	})
}
