package searcher

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// StatKey identifies one statistics entry: a state as seen by the player who moved into it.
type StatKey[S comparable] struct {
	Player Player
	State  S
}

// StatEntry counts how often a key was part of a simulation and how often its player won.
// Wins never exceeds Plays.
type StatEntry struct {
	Plays int
	Wins  int
}

func (e StatEntry) WinRate() float64 {
	if e.Plays == 0 {
		return 0
	}
	return float64(e.Wins) / float64(e.Plays)
}

// Store is a flat keyed accumulator of search statistics. Identical states reached through
// different move orders share one entry.
type Store[S comparable] interface {
	// Get returns the entry for key, or false if key was never expanded.
	Get(key StatKey[S]) (StatEntry, bool)
	// Ensure creates a zero entry for key if none exists.
	Ensure(key StatKey[S])
	// RecordVisit adds one play to key, and one win if won. Returns ErrUnknownKey when
	// key has no entry.
	RecordVisit(key StatKey[S], won bool) error
	Len() int
	// Range calls fn for every entry until fn returns false.
	Range(fn func(StatKey[S], StatEntry) bool)
}

// MapStore is an unbounded Store safe for concurrent use.
type MapStore[S comparable] struct {
	sync.RWMutex
	entries map[StatKey[S]]StatEntry
}

func NewMapStore[S comparable]() *MapStore[S] {
	return &MapStore[S]{entries: make(map[StatKey[S]]StatEntry)}
}

func (s *MapStore[S]) Get(key StatKey[S]) (StatEntry, bool) {
	s.RLock()
	defer s.RUnlock()

	entry, ok := s.entries[key]
	return entry, ok
}

func (s *MapStore[S]) Ensure(key StatKey[S]) {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.entries[key]; !ok {
		s.entries[key] = StatEntry{}
	}
}

func (s *MapStore[S]) RecordVisit(key StatKey[S], won bool) error {
	s.Lock()
	defer s.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return ErrUnknownKey
	}
	s.entries[key] = entry.visited(won)
	return nil
}

func (s *MapStore[S]) Len() int {
	s.RLock()
	defer s.RUnlock()

	return len(s.entries)
}

func (s *MapStore[S]) Range(fn func(StatKey[S], StatEntry) bool) {
	s.RLock()
	defer s.RUnlock()

	for key, entry := range s.entries {
		if !fn(key, entry) {
			return
		}
	}
}

// LRUStore is a bounded Store that evicts the least recently updated entry once full.
// Get does not refresh recency; Ensure and RecordVisit do.
type LRUStore[S comparable] struct {
	sync.Mutex
	cache *lru.Cache[StatKey[S], StatEntry]
}

func NewLRUStore[S comparable](capacity int) (*LRUStore[S], error) {
	cache, err := lru.New[StatKey[S], StatEntry](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru store of capacity %d: %w", capacity, err)
	}
	return &LRUStore[S]{cache: cache}, nil
}

func (s *LRUStore[S]) Get(key StatKey[S]) (StatEntry, bool) {
	return s.cache.Peek(key)
}

func (s *LRUStore[S]) Ensure(key StatKey[S]) {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.cache.Get(key); !ok {
		s.cache.Add(key, StatEntry{})
	}
}

func (s *LRUStore[S]) RecordVisit(key StatKey[S], won bool) error {
	s.Lock()
	defer s.Unlock()

	entry, ok := s.cache.Get(key)
	if !ok {
		return ErrUnknownKey
	}
	s.cache.Add(key, entry.visited(won))
	return nil
}

func (s *LRUStore[S]) Len() int {
	return s.cache.Len()
}

func (s *LRUStore[S]) Range(fn func(StatKey[S], StatEntry) bool) {
	s.Lock()
	defer s.Unlock()

	for _, key := range s.cache.Keys() {
		entry, ok := s.cache.Peek(key)
		if !ok {
			continue
		}
		if !fn(key, entry) {
			return
		}
	}
}

func (e StatEntry) visited(won bool) StatEntry {
	e.Plays++
	if won {
		e.Wins++
	}
	return e
}

func newStore[S comparable](capacity int) (Store[S], error) {
	if capacity > 0 {
		store, err := NewLRUStore[S](capacity)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return NewMapStore[S](), nil
}
