package player

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"

	"tictactoe/game"
)

// Sampling searches like a Computer but samples its move in proportion to root plays
// instead of always taking the best one. It gives arena games variety.
type Sampling struct {
	*Computer
	temperature float64
	rng         *rand.Rand
}

// NewSampling wraps computer. A zero seed uses the clock.
func NewSampling(computer *Computer, temperature float64, seed uint64) (*Sampling, error) {
	if temperature <= 0 {
		return nil, fmt.Errorf("temperature must be positive, got %v", temperature)
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Sampling{
		Computer:    computer,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}, nil
}

func (s *Sampling) FindMove(ctx context.Context, history []game.Board) (game.Move, *Report, error) {
	move, report, err := s.Computer.FindMove(ctx, history)
	if err != nil || report.OnlyMove {
		return move, report, err
	}

	plays := make([]int, len(report.Moves))
	for i, stat := range report.Moves {
		plays[i] = stat.Plays
	}
	policy := adjustTemperature(plays, s.temperature)
	return report.Moves[sample(policy, s.rng.Float64())].Move, report, nil
}

// adjustTemperature turns play counts into probabilities. Temperatures below one sharpen
// the distribution towards the most played move.
func adjustTemperature(plays []int, temperature float64) []float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	policy := make([]float64, len(plays))
	for i, p := range plays {
		prob := math.Pow(float64(p), exponent)
		sum += prob
		policy[i] = prob
	}
	if sum == 0 {
		for i := range policy {
			policy[i] = 1.0 / float64(len(policy))
		}
		return policy
	}
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func sample(policy []float64, sampled float64) int {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1 // rounding
}
