package engine

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"tictactoe/game"
	"tictactoe/player"
	"tictactoe/searcher"
)

// Local runs a game between two in-process players.
type Local struct {
	rules    game.Rules
	players  map[searcher.Player]player.Player
	out      io.Writer
	renderer game.Renderer
	insights bool
}

type Option func(*Local)

// WithOutput prints the board after every move to out.
func WithOutput(out io.Writer, renderer game.Renderer) Option {
	return func(l *Local) {
		l.out = out
		l.renderer = renderer
	}
}

// WithInsights prints the search report after every computer move. Needs WithOutput.
func WithInsights() Option {
	return func(l *Local) {
		l.insights = true
	}
}

func LocalEngine(x, o player.Player, options ...Option) *Local {
	l := &Local{
		players: map[searcher.Player]player.Player{
			game.PlayerX: x,
			game.PlayerO: o,
		},
		out:      io.Discard,
		renderer: game.NewRenderer(termenv.Ascii),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *Local) Run(ctx context.Context) (Result, error) {
	board := l.rules.Start()
	result := Result{
		History:   []game.Board{board},
		StartTime: time.Now(),
	}

	// the same player may take both sides
	participants := lo.Uniq([]player.Player{l.players[game.PlayerX], l.players[game.PlayerO]})
	for _, p := range participants {
		p.Reset()
		p.Observe(board)
	}

	log.Debug().Msgf("starting game %s (X) vs %s (O)", l.players[game.PlayerX].Name(), l.players[game.PlayerO].Name())
	fmt.Fprintf(l.out, "\n%s\nGAME START!\n%s\n", strings.Repeat("-", 60), strings.Repeat("-", 60))
	fmt.Fprint(l.out, l.renderer.Render(board))

	for step := 1; !l.rules.Result(result.History).Over() && step <= MaxMoves; step++ {
		current := l.rules.CurrentPlayer(board)
		p := l.players[current]
		fmt.Fprintf(l.out, "%s's turn (%s)\n", p.Name(), game.Symbol(current))

		started := time.Now()
		move, report, err := p.FindMove(ctx, result.History)
		if err != nil {
			return result, fmt.Errorf("%s failed to find a move: %w", p.Name(), err)
		}
		elapsed := time.Since(started)

		board, err = l.rules.Play(board, move)
		if err != nil {
			return result, fmt.Errorf("%s played an illegal move: %w", p.Name(), err)
		}
		result.History = append(result.History, board)
		for _, participant := range participants {
			participant.Observe(board)
		}
		result.Moves = append(result.Moves, MoveRecord{
			Step:     step,
			Player:   current,
			Move:     move,
			Report:   report,
			Duration: elapsed,
		})

		if report != nil && l.insights {
			WriteInsights(l.out, report)
		}
		fmt.Fprintf(l.out, "%s played at position %v\n", p.Name(), move)
		fmt.Fprint(l.out, l.renderer.Render(board))
		log.Debug().Msgf("step %d: %s played %v, board %s", step, game.Symbol(current), move, board)
	}

	result.Outcome = l.rules.Result(result.History)
	result.EndTime = time.Now()

	fmt.Fprintln(l.out, strings.Repeat("=", 60))
	switch {
	case result.Outcome.Draw:
		fmt.Fprintln(l.out, "IT'S A TIE!")
	case result.Outcome.Winner != searcher.NoPlayer:
		fmt.Fprintf(l.out, "%s (%s) WINS!\n", l.players[result.Outcome.Winner].Name(), game.Symbol(result.Outcome.Winner))
	}
	fmt.Fprintln(l.out, strings.Repeat("=", 60))

	log.Debug().Msgf("game over after %d moves in %s: winner=%d draw=%t",
		len(result.Moves), result.Duration(), result.Outcome.Winner, result.Outcome.Draw)
	return result, nil
}
