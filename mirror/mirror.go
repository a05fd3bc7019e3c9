package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// CompletionState is the derived completion state mirrored from the
// server.
type CompletionState struct {
	ProfileProgress   int
	IsProfileComplete bool
}

// CompletionFetcher fetches the authoritative completion state for the
// current session's user.
type CompletionFetcher interface {
	FetchCompletion(ctx context.Context) (CompletionState, error)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// ErrNotLoaded is returned when no state has ever been fetched and the
// fetcher fails, so there is nothing to display.
var ErrNotLoaded = errors.New("completion state not loaded")

// defaultTTL keeps the mirror fresh on a minutes scale; any confirmed
// update refreshes it immediately.
const defaultTTL = 5 * time.Minute

// Mirror is a read-through cached copy of the server's completion
// state with explicit optimistic apply/confirm/rollback. It is scoped
// to one browser session and must be Reset on logout or user change.
type Mirror struct {
	fetcher CompletionFetcher
	clock   Clock
	ttl     time.Duration

	mu        sync.Mutex
	loaded    bool
	confirmed CompletionState
	fetchedAt time.Time
	staged    *CompletionState
}

// NewMirror creates a Mirror with the default freshness window.
func NewMirror(fetcher CompletionFetcher) *Mirror {
	return &Mirror{
		fetcher: fetcher,
		clock:   realClock{},
		ttl:     defaultTTL,
	}
}

// NewMirrorWithClock creates a Mirror with a custom clock and TTL
// (for testing).
func NewMirrorWithClock(fetcher CompletionFetcher, clock Clock, ttl time.Duration) *Mirror {
	return &Mirror{
		fetcher: fetcher,
		clock:   clock,
		ttl:     ttl,
	}
}

// Current returns the state to display: the staged optimistic value if
// one is pending, otherwise the confirmed snapshot, refetched when
// stale. A failed refetch falls back to the last-known-good snapshot;
// the displayed state never advances on error.
func (m *Mirror) Current(ctx context.Context) (CompletionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.staged != nil {
		return *m.staged, nil
	}

	if m.loaded && m.clock.Now().Before(m.fetchedAt.Add(m.ttl)) {
		return m.confirmed, nil
	}

	state, err := m.fetcher.FetchCompletion(ctx)
	if err != nil {
		if m.loaded {
			return m.confirmed, nil
		}
		return CompletionState{}, fmt.Errorf("%w: %v", ErrNotLoaded, err)
	}

	m.confirmed = state
	m.loaded = true
	m.fetchedAt = m.clock.Now()
	return m.confirmed, nil
}

// ApplyOptimistic stages a value for display while an update round
// trip is in flight. The prior confirmed snapshot is kept for
// rollback.
func (m *Mirror) ApplyOptimistic(state CompletionState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staged = &state
}

// Confirm commits the server's response after a successful update,
// discarding any staged value and resetting freshness.
func (m *Mirror) Confirm(state CompletionState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmed = state
	m.loaded = true
	m.fetchedAt = m.clock.Now()
	m.staged = nil
}

// Rollback discards the staged optimistic value after a failed update,
// restoring the prior confirmed snapshot.
func (m *Mirror) Rollback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staged = nil
}

// Reset discards all mirrored state. Must be called on logout or user
// change.
func (m *Mirror) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = false
	m.confirmed = CompletionState{}
	m.fetchedAt = time.Time{}
	m.staged = nil
}
