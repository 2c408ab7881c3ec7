package searcher

import "math"

type uct struct {
	c   float64
	lnN float64
}

// newUCT prepares the UCT formula for a set of siblings whose plays sum to N.
func newUCT(c float64, N int) uct {
	if N <= 0 {
		panic("N must be positive")
	}
	return uct{c: c, lnN: math.Log(float64(N))}
}

func (u uct) evaluate(wins int, plays int) float64 {
	if plays <= 0 {
		panic("plays must be positive")
	}
	// UCT = w/n + c*sqrt(ln(N)/n)
	n := float64(plays)
	return float64(wins)/n + u.c*math.Sqrt(u.lnN/n)
}

// argmax returns the index of the highest UCT score. Ties go to the first maximum.
func (u uct) argmax(entries []StatEntry) int {
	best := 0
	bestScore := math.Inf(-1)
	for i, entry := range entries {
		if score := u.evaluate(entry.Wins, entry.Plays); score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}
