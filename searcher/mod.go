package searcher

import "errors"

// Player identifies one of the two sides of a game. The zero value means no player.
type Player int

const NoPlayer Player = 0

// Outcome is the result of a game history. A zero Outcome means the game is still going.
type Outcome struct {
	Winner Player
	Draw   bool
}

var (
	Ongoing = Outcome{}
	Draw    = Outcome{Draw: true}
)

func Win(player Player) Outcome {
	return Outcome{Winner: player}
}

// Over reports whether the game has ended, by a win or a draw.
func (o Outcome) Over() bool {
	return o.Draw || o.Winner != NoPlayer
}

// Rules is the capability a game must provide to be searched. States must be immutable
// values: Play returns a new state and never mutates its input.
//
// Rules implementations are called from every search goroutine and must be safe for
// concurrent use when the engine runs with more than one goroutine.
type Rules[S comparable, M comparable] interface {
	Start() S
	CurrentPlayer(state S) Player
	// Play applies a legal move. Illegal moves return an error.
	Play(state S, move M) (S, error)
	// LegalMoves lists the moves available from the last state in history.
	LegalMoves(history []S) []M
	Result(history []S) Outcome
}

var (
	ErrNoLegalMoves = errors.New("no legal moves in current position")
	ErrEmptyHistory = errors.New("game history is empty")
	ErrUnknownKey   = errors.New("statistics key has not been expanded")
	ErrNoBudget     = errors.New("must specify search simulations or duration")
)
