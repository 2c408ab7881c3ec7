package player

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"tictactoe/game"
	"tictactoe/searcher"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestConsole(t *testing.T) {
	t.Run("choose reprompts", func(t *testing.T) {
		out := &bytes.Buffer{}
		console := NewConsole(strings.NewReader("4\n\n2\n"), out)

		i, err := console.Choose("Enter 1, 2, or 3: ", []string{"1", "2", "3"})
		require.NoError(t, err)
		require.Equal(t, 1, i)
		require.Equal(t, 2, strings.Count(out.String(), "Please enter 1, 2, 3."))
	})

	t.Run("choose ignores case", func(t *testing.T) {
		console := NewConsole(strings.NewReader("HARD\n"), &bytes.Buffer{})

		i, err := console.Choose("> ", []string{"easy", "hard"})
		require.NoError(t, err)
		require.Equal(t, 1, i)
	})

	t.Run("closed input", func(t *testing.T) {
		console := NewConsole(strings.NewReader("9\n"), &bytes.Buffer{})

		_, err := console.Choose("> ", []string{"1"})
		require.ErrorIs(t, err, ErrNoInput)
	})

	t.Run("confirm", func(t *testing.T) {
		console := NewConsole(strings.NewReader("Y\nno\n"), &bytes.Buffer{})

		yes, err := console.Confirm("again? ")
		require.NoError(t, err)
		require.True(t, yes)
		yes, err = console.Confirm("again? ")
		require.NoError(t, err)
		require.False(t, yes)
	})
}

func TestHuman(t *testing.T) {
	board := game.Board{game.X, game.O, game.Empty, game.Empty, game.Empty, game.Empty, game.Empty, game.Empty, game.Empty}

	t.Run("reprompts until a legal move", func(t *testing.T) {
		out := &bytes.Buffer{}
		human := NewHuman("You", NewConsole(strings.NewReader("hello\n0 0\n3 3\n1,2\n"), out))

		move, report, err := human.FindMove(context.Background(), []game.Board{board})
		require.NoError(t, err)
		require.Equal(t, game.Move(5), move)
		require.Nil(t, report)
		require.Contains(t, out.String(), "Available positions: (0,2) (1,0)")
		require.Equal(t, 2, strings.Count(out.String(), "Invalid input!"), "Garbage and off-board input")
		require.Equal(t, 1, strings.Count(out.String(), "Invalid move!"), "Occupied cell")
	})

	t.Run("input ends", func(t *testing.T) {
		human := NewHuman("You", NewConsole(strings.NewReader(""), &bytes.Buffer{}))

		_, _, err := human.FindMove(context.Background(), []game.Board{board})
		require.ErrorIs(t, err, ErrNoInput)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		human := NewHuman("You", NewConsole(strings.NewReader("0 2\n"), &bytes.Buffer{}))

		_, _, err := human.FindMove(ctx, []game.Board{board})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestComputer(t *testing.T) {
	t.Run("invalid options", func(t *testing.T) {
		_, err := NewComputer("AI", searcher.WithDuration(0))
		require.ErrorIs(t, err, searcher.ErrNoBudget)
	})

	t.Run("finds a move after observing the game", func(t *testing.T) {
		computer, err := NewComputer("AI", searcher.WithDuration(0), searcher.WithSimulations(200), searcher.WithSeed(1))
		require.NoError(t, err)
		require.Equal(t, "AI", computer.Name())
		require.Equal(t, 200, computer.Config().Simulations)

		computer.Observe(game.Board{})
		move, report, err := computer.FindMove(context.Background(), nil)
		require.NoError(t, err)
		require.NotNil(t, report)
		require.Equal(t, 200, report.Simulations)
		require.Equal(t, report.Moves[0].Move, move)

		computer.Reset()
		_, _, err = computer.FindMove(context.Background(), nil)
		require.ErrorIs(t, err, searcher.ErrEmptyHistory)
	})
}

func TestSampling(t *testing.T) {
	t.Run("temperature", func(t *testing.T) {
		policy := adjustTemperature([]int{1, 3}, 1)
		require.InDeltaSlice(t, []float64{0.25, 0.75}, policy, 1e-9)

		sharp := adjustTemperature([]int{1, 3}, 0.5)
		require.Greater(t, sharp[1], policy[1], "Lower temperature should favour the most played move")

		require.InDeltaSlice(t, []float64{0.5, 0.5}, adjustTemperature([]int{0, 0}, 1), 1e-9)
	})

	t.Run("sample", func(t *testing.T) {
		policy := []float64{0.25, 0.75}
		require.Equal(t, 0, sample(policy, 0.1))
		require.Equal(t, 1, sample(policy, 0.5))
		require.Equal(t, 1, sample(policy, 0.9999999))
	})

	t.Run("invalid temperature", func(t *testing.T) {
		computer, err := NewComputer("AI")
		require.NoError(t, err)
		_, err = NewSampling(computer, 0, 1)
		require.Error(t, err)
	})

	t.Run("plays a legal move", func(t *testing.T) {
		computer, err := NewComputer("AI", searcher.WithDuration(0), searcher.WithSimulations(100), searcher.WithSeed(2))
		require.NoError(t, err)
		sampling, err := NewSampling(computer, 1, 3)
		require.NoError(t, err)

		board := game.Board{game.X, game.O}
		sampling.Observe(board)
		move, report, err := sampling.FindMove(context.Background(), []game.Board{board})
		require.NoError(t, err)
		require.Contains(t, report.Ranking(), move)
		require.Contains(t, game.Rules{}.LegalMoves([]game.Board{board}), move)
	})
}
