package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/formkeeper/spam-blocker/internal/core"
	"go.uber.org/zap"
)

type fakeFlagStore struct {
	entries map[string]time.Time
	failing bool
}

func newFakeFlagStore() *fakeFlagStore {
	return &fakeFlagStore{entries: make(map[string]time.Time)}
}

func (s *fakeFlagStore) Set(ctx context.Context, requestID string, ttl time.Duration) error {
	if s.failing {
		return errors.New("store unavailable")
	}
	s.entries[requestID] = time.Now().Add(ttl)
	return nil
}

func (s *fakeFlagStore) Get(ctx context.Context, requestID string) (bool, error) {
	if s.failing {
		return false, errors.New("store unavailable")
	}
	expiresAt, ok := s.entries[requestID]
	return ok && time.Now().Before(expiresAt), nil
}

func (s *fakeFlagStore) Clear(ctx context.Context, requestID string) error {
	if s.failing {
		return errors.New("store unavailable")
	}
	delete(s.entries, requestID)
	return nil
}

func TestTrackerMarkIsVisibleThroughEveryBacking(t *testing.T) {
	store := newFakeFlagStore()
	tracker := NewTracker(store, time.Minute, zap.NewNop())

	startedAt := time.Now()
	req := core.NewRequest(startedAt, "203.0.113.7")
	tracker.Mark(context.Background(), req)

	// Same object: instance backing
	if !tracker.IsSpam(context.Background(), req) {
		t.Error("marked request must read as spam on the same instance")
	}

	// Fresh object with the same derived identity: process-wide registry
	sameIdentity := core.NewRequest(startedAt, "203.0.113.7")
	if !tracker.IsSpam(context.Background(), sameIdentity) {
		t.Error("marked request must read as spam from an independent object")
	}

	// Fresh tracker over the same durable store: cross-process fallback
	other := NewTracker(store, time.Minute, zap.NewNop())
	if !other.IsSpam(context.Background(), core.NewRequest(startedAt, "203.0.113.7")) {
		t.Error("marked request must read as spam through the durable fallback")
	}
}

func TestTrackerIsolatesConcurrentRequests(t *testing.T) {
	tracker := NewTracker(newFakeFlagStore(), time.Minute, zap.NewNop())

	spam := core.NewRequest(time.Now(), "203.0.113.7")
	clean := core.NewRequest(time.Now().Add(time.Millisecond), "198.51.100.4")

	tracker.Mark(context.Background(), spam)

	if !tracker.IsSpam(context.Background(), spam) {
		t.Error("spam request must be flagged")
	}
	if tracker.IsSpam(context.Background(), clean) {
		t.Error("clean request must not be contaminated")
	}
}

func TestTrackerClearResetsEveryBacking(t *testing.T) {
	store := newFakeFlagStore()
	tracker := NewTracker(store, time.Minute, zap.NewNop())

	startedAt := time.Now()
	req := core.NewRequest(startedAt, "203.0.113.7")
	tracker.Mark(context.Background(), req)
	tracker.Clear(context.Background(), req)

	if tracker.IsSpam(context.Background(), req) {
		t.Error("cleared request must read as clean")
	}
	// A later request deriving the same identity must start clean
	if tracker.IsSpam(context.Background(), core.NewRequest(startedAt, "203.0.113.7")) {
		t.Error("cleared state must not leak into a request with the same identity")
	}
	if len(store.entries) != 0 {
		t.Error("durable entry must be released on clear")
	}
}

func TestTrackerDegradesWhenDurableStoreUnavailable(t *testing.T) {
	store := newFakeFlagStore()
	store.failing = true
	tracker := NewTracker(store, time.Minute, zap.NewNop())

	req := core.NewRequest(time.Now(), "203.0.113.7")
	tracker.Mark(context.Background(), req)

	// In-process backings still work
	if !tracker.IsSpam(context.Background(), req) {
		t.Error("tracker must degrade to in-process state when the store fails")
	}

	clean := core.NewRequest(time.Now().Add(time.Millisecond), "198.51.100.4")
	if tracker.IsSpam(context.Background(), clean) {
		t.Error("a failing store must not flag clean requests")
	}

	tracker.Clear(context.Background(), req)
	if tracker.IsSpam(context.Background(), req) {
		t.Error("clear must work without the durable store")
	}
}

func TestTrackerDurableEntriesExpire(t *testing.T) {
	store := newFakeFlagStore()
	tracker := NewTracker(store, -time.Second, zap.NewNop())

	startedAt := time.Now()
	req := core.NewRequest(startedAt, "203.0.113.7")
	tracker.Mark(context.Background(), req)

	// A fresh tracker sees only the durable store, whose entry is expired
	other := NewTracker(store, -time.Second, zap.NewNop())
	if other.IsSpam(context.Background(), core.NewRequest(startedAt, "203.0.113.7")) {
		t.Error("expired durable entries must not read as spam")
	}
}
