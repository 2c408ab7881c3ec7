package searcher

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

type Option func(s *settings)

type settings struct {
	Config
	metrics Collector
}

// WithConfig replaces every setting with cfg.
func WithConfig(cfg Config) Option {
	return func(s *settings) {
		s.Config = cfg
	}
}

func WithDuration(duration time.Duration) Option {
	return func(s *settings) {
		s.Time = duration
	}
}

// WithSimulations runs exactly n simulations per search instead of relying on time alone.
func WithSimulations(n int) Option {
	return func(s *settings) {
		s.Simulations = n
	}
}

func WithMaxMoves(depth int) Option {
	return func(s *settings) {
		s.MaxMoves = depth
	}
}

func WithExploration(c float64) Option {
	return func(s *settings) {
		s.C = c
	}
}

func WithGoroutines(goroutines int) Option {
	return func(s *settings) {
		s.Goroutines = goroutines
	}
}

func WithStoreCapacity(capacity int) Option {
	return func(s *settings) {
		s.StoreCapacity = capacity
	}
}

func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.Seed = seed
	}
}

func WithMetrics(collector Collector) Option {
	return func(s *settings) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

// MCTS searches a game with UCT over a flat statistics store. One MCTS follows one game:
// call Update after every ply and SelectMove on the engine's turns. Update and Reset must
// not run concurrently with SelectMove.
type MCTS[S comparable, M comparable] struct {
	rules    Rules[S, M]
	config   Config
	store    Store[S]
	history  []S
	rng      *rand.Rand
	metrics  Collector
	maxDepth atomic.Int64
}

func NewMCTS[S comparable, M comparable](rules Rules[S, M], options ...Option) (*MCTS[S, M], error) {
	s := settings{Config: DefaultConfig(), metrics: NewCollector()}
	for _, option := range options {
		option(&s)
	}
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}

	store, err := newStore[S](s.StoreCapacity)
	if err != nil {
		return nil, err
	}

	seed := s.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &MCTS[S, M]{
		rules:   rules,
		config:  s.Config,
		store:   store,
		rng:     rand.New(rand.NewSource(seed)),
		metrics: s.metrics,
	}, nil
}

func (m *MCTS[S, M]) Config() Config {
	return m.config
}

func (m *MCTS[S, M]) Store() Store[S] {
	return m.store
}

// Update appends the latest game state to the history.
func (m *MCTS[S, M]) Update(state S) {
	m.history = append(m.history, state)
}

func (m *MCTS[S, M]) History() []S {
	return slices.Clone(m.history)
}

// Reset forgets the game history and all statistics, ready for a new game.
func (m *MCTS[S, M]) Reset() {
	m.history = nil
	store, err := newStore[S](m.config.StoreCapacity)
	if err != nil {
		// capacity was validated in NewMCTS
		panic(err)
	}
	m.store = store
}

// SelectMove searches from the last state of the history and returns the move with the
// highest observed win rate for the player to move.
func (m *MCTS[S, M]) SelectMove(ctx context.Context) (M, Report[M], error) {
	var none M
	if len(m.history) == 0 {
		return none, Report[M]{}, ErrEmptyHistory
	}

	root := m.history[len(m.history)-1]
	player := m.rules.CurrentPlayer(root)
	legal := m.rules.LegalMoves(m.history)

	switch len(legal) {
	case 0:
		return none, Report[M]{}, ErrNoLegalMoves
	case 1:
		return legal[0], Report[M]{
			ExplorationConstant: m.config.C,
			OnlyMove:            true,
			StopReason:          StopOnlyMove,
			StoreSize:           m.store.Len(),
		}, nil
	}

	m.maxDepth.Store(0)
	m.metrics.Start()
	reason, err := m.search(ctx)
	if err != nil {
		return none, Report[M]{}, err
	}
	metric := m.metrics.Complete(m.store.Len())

	moves, err := m.rank(root, player, legal)
	if err != nil {
		return none, Report[M]{}, err
	}

	report := Report[M]{
		Moves:               moves,
		Simulations:         metric.Simulations,
		Expansions:          metric.Expansions,
		FullPlayouts:        metric.FullPlayouts,
		Elapsed:             metric.Duration,
		MaxDepth:            int(m.maxDepth.Load()),
		ExplorationConstant: m.config.C,
		StopReason:          reason,
		StoreSize:           metric.StoreSize,
	}

	log.Debug().Msgf("selected move %v after %d simulations in %s (max depth %d, stop %s)",
		moves[0].Move, report.Simulations, report.Elapsed, report.MaxDepth, reason)

	return moves[0].Move, report, nil
}

// search runs simulations until the budget is spent or ctx ends. Limits are only checked
// between simulations.
func (m *MCTS[S, M]) search(parent context.Context) (StopReason, error) {
	ctx := parent
	if m.config.Time > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, m.config.Time)
		defer cancel()
	}

	var started atomic.Int64
	limit := int64(m.config.Simulations)

	worker := func(rng *rand.Rand) error {
		for ctx.Err() == nil {
			if limit > 0 && started.Add(1) > limit {
				return nil
			}
			if err := m.simulate(rng); err != nil {
				return err
			}
			m.metrics.AddSimulation()
		}
		return nil
	}

	if m.config.Goroutines == 1 {
		if err := worker(m.rng); err != nil {
			return StopNone, err
		}
	} else {
		var g errgroup.Group
		for i := 0; i < m.config.Goroutines; i++ {
			rng := rand.New(rand.NewSource(m.rng.Uint64()))
			g.Go(func() error {
				return worker(rng)
			})
		}
		if err := g.Wait(); err != nil {
			return StopNone, err
		}
	}

	switch {
	case limit > 0 && started.Load() >= limit:
		return StopSimulations, nil
	case parent.Err() != nil:
		return StopCancelled, nil
	default:
		return StopDeadline, nil
	}
}

type candidate[S comparable, M comparable] struct {
	move  M
	state S
}

// simulate plays one selection, expansion, rollout and backpropagation pass.
func (m *MCTS[S, M]) simulate(rng *rand.Rand) error {
	path := slices.Clone(m.history)
	state := path[len(path)-1]
	player := m.rules.CurrentPlayer(state)

	visited := []StatKey[S]{}
	seen := map[StatKey[S]]struct{}{}
	expanded := false
	outcome := Ongoing

	for t := 1; t <= m.config.MaxMoves; t++ {
		legal := m.rules.LegalMoves(path)
		if len(legal) == 0 {
			break
		}

		candidates, err := m.expandMoves(state, legal)
		if err != nil {
			return err
		}

		state = m.choose(player, candidates, rng).state
		path = append(path, state)

		key := StatKey[S]{Player: player, State: state}
		if !expanded {
			if _, ok := m.store.Get(key); !ok {
				m.store.Ensure(key)
				expanded = true
				m.metrics.AddExpansion()
				m.observeDepth(t)
			}
		}
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			visited = append(visited, key)
		}

		player = m.rules.CurrentPlayer(state)
		outcome = m.rules.Result(path)
		if outcome.Over() {
			m.metrics.AddFullPlayout()
			break
		}
	}

	return m.backpropagate(visited, outcome)
}

func (m *MCTS[S, M]) expandMoves(state S, legal []M) ([]candidate[S, M], error) {
	candidates := make([]candidate[S, M], len(legal))
	for i, move := range legal {
		child, err := m.rules.Play(state, move)
		if err != nil {
			return nil, fmt.Errorf("failed to play move %v: %w", move, err)
		}
		candidates[i] = candidate[S, M]{move: move, state: child}
	}
	return candidates, nil
}

// choose picks a child with UCT when every child has statistics, otherwise uniformly at
// random. The random pick doubles as the expansion target and the rollout policy.
func (m *MCTS[S, M]) choose(player Player, candidates []candidate[S, M], rng *rand.Rand) candidate[S, M] {
	entries := make([]StatEntry, len(candidates))
	total := 0
	for i, c := range candidates {
		entry, ok := m.store.Get(StatKey[S]{Player: player, State: c.state})
		// an entry without plays is still being simulated by another goroutine
		if !ok || entry.Plays == 0 {
			return candidates[rng.Intn(len(candidates))]
		}
		entries[i] = entry
		total += entry.Plays
	}

	return candidates[newUCT(m.config.C, total).argmax(entries)]
}

// backpropagate credits every expanded key on the path. Keys only seen during the rollout
// have no entry and are skipped.
func (m *MCTS[S, M]) backpropagate(visited []StatKey[S], outcome Outcome) error {
	for _, key := range visited {
		won := outcome.Winner != NoPlayer && key.Player == outcome.Winner
		if err := m.store.RecordVisit(key, won); err != nil && !errors.Is(err, ErrUnknownKey) {
			return err
		}
	}
	return nil
}

func (m *MCTS[S, M]) observeDepth(depth int) {
	for {
		current := m.maxDepth.Load()
		if int64(depth) <= current || m.maxDepth.CompareAndSwap(current, int64(depth)) {
			return
		}
	}
}

// rank orders the root moves by win rate of the resulting state for the player to move.
// Ties keep the legal move order.
func (m *MCTS[S, M]) rank(root S, player Player, legal []M) ([]MoveStat[M], error) {
	stats := make([]MoveStat[M], 0, len(legal))
	for _, move := range legal {
		child, err := m.rules.Play(root, move)
		if err != nil {
			return nil, fmt.Errorf("failed to play root move %v: %w", move, err)
		}

		entry, ok := m.store.Get(StatKey[S]{Player: player, State: child})
		if !ok {
			entry = StatEntry{Plays: 1}
		}
		stats = append(stats, MoveStat[M]{
			Move:    move,
			Wins:    entry.Wins,
			Plays:   entry.Plays,
			WinRate: entry.WinRate() * 100,
		})
	}

	slices.SortStableFunc(stats, func(a, b MoveStat[M]) int {
		return cmp.Compare(b.WinRate, a.WinRate)
	})
	return stats, nil
}
