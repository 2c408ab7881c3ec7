package searcher

import (
	"time"

	"github.com/samber/lo"
)

type StopReason int

const (
	StopNone        StopReason = iota
	StopOnlyMove               // a single legal move, nothing searched
	StopDeadline               // time budget spent
	StopSimulations            // simulation count reached
	StopCancelled              // caller's context ended
)

func (sr StopReason) String() string {
	switch sr {
	case StopOnlyMove:
		return "OnlyMove"
	case StopDeadline:
		return "Deadline"
	case StopSimulations:
		return "Simulations"
	case StopCancelled:
		return "Cancelled"
	default:
		return "None"
	}
}

// MoveStat is the root statistic of one candidate move. Unvisited moves report one play
// and no wins.
type MoveStat[M comparable] struct {
	Move    M
	Wins    int
	Plays   int
	WinRate float64 // percent
}

// Report describes how a move was chosen. Moves is ranked by descending win rate.
type Report[M comparable] struct {
	Moves               []MoveStat[M]
	Simulations         int
	Expansions          int
	FullPlayouts        int
	Elapsed             time.Duration
	MaxDepth            int
	ExplorationConstant float64
	OnlyMove            bool
	StopReason          StopReason
	StoreSize           int
}

// Best returns the top ranked move statistic.
func (r Report[M]) Best() (MoveStat[M], bool) {
	if len(r.Moves) == 0 {
		return MoveStat[M]{}, false
	}
	return r.Moves[0], true
}

// Ranking lists the candidate moves in ranked order.
func (r Report[M]) Ranking() []M {
	return lo.Map(r.Moves, func(stat MoveStat[M], _ int) M {
		return stat.Move
	})
}
