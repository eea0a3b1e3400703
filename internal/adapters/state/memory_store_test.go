package state

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore(zap.NewNop(), time.Minute)
	t.Cleanup(store.Stop)
	return store
}

func TestMemoryStoreSetAndGet(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "req-1", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	flagged, err := store.Get(ctx, "req-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !flagged {
		t.Error("expected flag to be set")
	}

	flagged, err = store.Get(ctx, "req-2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if flagged {
		t.Error("unknown request id must not be flagged")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "req-1", -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}

	flagged, err := store.Get(ctx, "req-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if flagged {
		t.Error("expired entry must not be flagged")
	}
}

func TestMemoryStoreClear(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "req-1", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Clear(ctx, "req-1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	flagged, err := store.Get(ctx, "req-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if flagged {
		t.Error("cleared entry must not be flagged")
	}

	// Clearing an absent entry is a no-op
	if err := store.Clear(ctx, "req-2"); err != nil {
		t.Errorf("Clear of unknown id: %v", err)
	}
}

func TestMemoryStoreCleanupRemovesExpiredEntries(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "expired", -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, "live", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	store.mu.RLock()
	defer store.mu.RUnlock()
	if _, ok := store.entries["expired"]; ok {
		t.Error("cleanup must remove expired entries")
	}
	if _, ok := store.entries["live"]; !ok {
		t.Error("cleanup must keep live entries")
	}
}
