package mirror

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// --- Mock fetcher ---

type mockFetcher struct {
	mu    sync.Mutex
	state CompletionState
	err   error
	calls int
}

func (f *mockFetcher) FetchCompletion(ctx context.Context) (CompletionState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return CompletionState{}, f.err
	}
	return f.state, nil
}

func (f *mockFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// --- Mock clock ---

type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- Tests ---

func TestMirror_ReadThroughCache(t *testing.T) {
	fetcher := &mockFetcher{state: CompletionState{ProfileProgress: 50}}
	clock := &mockClock{now: time.Now()}
	m := NewMirrorWithClock(fetcher, clock, 5*time.Minute)
	ctx := context.Background()

	state, err := m.Current(ctx)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if state.ProfileProgress != 50 {
		t.Errorf("expected progress 50, got %d", state.ProfileProgress)
	}

	m.Current(ctx)
	if fetcher.callCount() != 1 {
		t.Errorf("expected 1 fetch (cache hit on second read), got %d", fetcher.callCount())
	}

	clock.Advance(5*time.Minute + time.Second)
	m.Current(ctx)
	if fetcher.callCount() != 2 {
		t.Errorf("expected refetch after TTL, got %d calls", fetcher.callCount())
	}
}

func TestMirror_FetchErrorKeepsLastKnownGood(t *testing.T) {
	fetcher := &mockFetcher{state: CompletionState{ProfileProgress: 68}}
	clock := &mockClock{now: time.Now()}
	m := NewMirrorWithClock(fetcher, clock, time.Minute)
	ctx := context.Background()

	if _, err := m.Current(ctx); err != nil {
		t.Fatalf("first read: %v", err)
	}

	fetcher.mu.Lock()
	fetcher.err = errors.New("gateway timeout")
	fetcher.mu.Unlock()
	clock.Advance(2 * time.Minute)

	state, err := m.Current(ctx)
	if err != nil {
		t.Fatalf("stale read should not error: %v", err)
	}
	if state.ProfileProgress != 68 {
		t.Errorf("expected last-known-good progress 68, got %d", state.ProfileProgress)
	}
}

func TestMirror_FetchErrorBeforeFirstLoad(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("gateway timeout")}
	m := NewMirror(fetcher)

	_, err := m.Current(context.Background())
	if !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestMirror_OptimisticConfirm(t *testing.T) {
	fetcher := &mockFetcher{state: CompletionState{ProfileProgress: 50}}
	clock := &mockClock{now: time.Now()}
	m := NewMirrorWithClock(fetcher, clock, time.Minute)
	ctx := context.Background()

	m.Current(ctx)

	m.ApplyOptimistic(CompletionState{ProfileProgress: 68})
	state, _ := m.Current(ctx)
	if state.ProfileProgress != 68 {
		t.Errorf("expected staged progress 68, got %d", state.ProfileProgress)
	}

	m.Confirm(CompletionState{ProfileProgress: 68})
	clock.Advance(30 * time.Second)
	state, _ = m.Current(ctx)
	if state.ProfileProgress != 68 {
		t.Errorf("expected confirmed progress 68, got %d", state.ProfileProgress)
	}
	// Confirm refreshes the snapshot; no extra fetch within the TTL.
	if fetcher.callCount() != 1 {
		t.Errorf("expected no refetch after confirm, got %d calls", fetcher.callCount())
	}
}

func TestMirror_RollbackRestoresSnapshot(t *testing.T) {
	fetcher := &mockFetcher{state: CompletionState{ProfileProgress: 50}}
	clock := &mockClock{now: time.Now()}
	m := NewMirrorWithClock(fetcher, clock, time.Minute)
	ctx := context.Background()

	m.Current(ctx)

	m.ApplyOptimistic(CompletionState{ProfileProgress: 83, IsProfileComplete: true})
	m.Rollback()

	state, _ := m.Current(ctx)
	if state.ProfileProgress != 50 || state.IsProfileComplete {
		t.Errorf("rollback did not restore snapshot: %+v", state)
	}
}

func TestMirror_ResetDiscardsEverything(t *testing.T) {
	fetcher := &mockFetcher{state: CompletionState{ProfileProgress: 90, IsProfileComplete: true}}
	clock := &mockClock{now: time.Now()}
	m := NewMirrorWithClock(fetcher, clock, time.Minute)
	ctx := context.Background()

	m.Current(ctx)
	m.Reset()

	// The next user must not see the previous user's state.
	fetcher.mu.Lock()
	fetcher.state = CompletionState{ProfileProgress: 10}
	fetcher.mu.Unlock()

	state, err := m.Current(ctx)
	if err != nil {
		t.Fatalf("read after reset: %v", err)
	}
	if state.ProfileProgress != 10 {
		t.Errorf("expected fresh fetch after reset, got progress %d", state.ProfileProgress)
	}
	if fetcher.callCount() != 2 {
		t.Errorf("expected refetch after reset, got %d calls", fetcher.callCount())
	}
}
