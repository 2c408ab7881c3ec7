package searcher

import (
	"fmt"
	"time"
)

// Config holds every search setting. Start from DefaultConfig.
type Config struct {
	// Time is the wall-clock budget per SelectMove call. Zero disables the time limit.
	Time time.Duration
	// MaxMoves bounds how many plies a single simulation may play beyond the root.
	MaxMoves int
	// C weights the exploration term of UCT.
	C float64
	// Simulations, when positive, stops the search after exactly that many simulations.
	Simulations int
	// Goroutines running simulations concurrently. One reproduces the sequential search.
	Goroutines int
	// StoreCapacity bounds the statistics store with LRU eviction. Zero means unbounded.
	StoreCapacity int
	// Seed for the random rollout policy. Zero seeds from the clock.
	Seed uint64
}

const (
	DefaultTime     = 2 * time.Second
	DefaultMaxMoves = 9
	DefaultC        = 1.4
)

func DefaultConfig() Config {
	return Config{
		Time:       DefaultTime,
		MaxMoves:   DefaultMaxMoves,
		C:          DefaultC,
		Goroutines: 1,
	}
}

// Validate reports settings NewMCTS would reject.
func (cfg Config) Validate() error {
	if cfg.Time <= 0 && cfg.Simulations <= 0 {
		return ErrNoBudget
	}
	if cfg.Time < 0 || cfg.Simulations < 0 {
		return fmt.Errorf("search budget must not be negative: time=%s simulations=%d", cfg.Time, cfg.Simulations)
	}
	if cfg.MaxMoves <= 0 {
		return fmt.Errorf("max moves must be positive, got %d", cfg.MaxMoves)
	}
	if cfg.C < 0 {
		return fmt.Errorf("exploration constant must not be negative, got %v", cfg.C)
	}
	if cfg.Goroutines <= 0 {
		return fmt.Errorf("goroutines must be positive, got %d", cfg.Goroutines)
	}
	if cfg.StoreCapacity < 0 {
		return fmt.Errorf("store capacity must not be negative, got %d", cfg.StoreCapacity)
	}
	return nil
}
