package state

import (
	"context"
	"sync"
	"time"

	"github.com/formkeeper/spam-blocker/internal/core"
	"go.uber.org/zap"
)

// Tracker implements core.SpamTracker with three redundant backings: the
// request object itself, a process-wide registry keyed by request identity,
// and a short-lived durable store. Classification and suppression run in
// separately invoked callbacks that may not share an object instance (or,
// with the durable fallback, a process), so a single backing is not enough.
// When the durable store is unavailable the tracker degrades to the
// in-process backings and logs a warning.
type Tracker struct {
	store  core.FlagStore
	ttl    time.Duration
	logger *zap.Logger

	mu     sync.Mutex
	active map[string]struct{}
}

// NewTracker creates a tracker over the given durable fallback store
func NewTracker(store core.FlagStore, ttl time.Duration, logger *zap.Logger) *Tracker {
	return &Tracker{
		store:  store,
		ttl:    ttl,
		logger: logger,
		active: make(map[string]struct{}),
	}
}

// Mark flags the request as spam in every backing
func (t *Tracker) Mark(ctx context.Context, req *core.Request) {
	req.Flag()

	t.mu.Lock()
	t.active[req.ID] = struct{}{}
	t.mu.Unlock()

	if err := t.store.Set(ctx, req.ID, t.ttl); err != nil {
		t.logger.Warn("Durable flag store unavailable, relying on in-process state",
			zap.String("request_id", req.ID),
			zap.Error(err))
	}

	t.logger.Debug("Request marked as spam", zap.String("request_id", req.ID))
}

// IsSpam reports whether any backing flags the request
func (t *Tracker) IsSpam(ctx context.Context, req *core.Request) bool {
	if req.Flagged() {
		return true
	}

	t.mu.Lock()
	_, ok := t.active[req.ID]
	t.mu.Unlock()
	if ok {
		return true
	}

	flagged, err := t.store.Get(ctx, req.ID)
	if err != nil {
		t.logger.Warn("Failed to read durable flag store",
			zap.String("request_id", req.ID),
			zap.Error(err))
		return false
	}
	return flagged
}

// Clear unconditionally resets every backing for the request
func (t *Tracker) Clear(ctx context.Context, req *core.Request) {
	req.Unflag()

	t.mu.Lock()
	delete(t.active, req.ID)
	t.mu.Unlock()

	if err := t.store.Clear(ctx, req.ID); err != nil {
		t.logger.Warn("Failed to clear durable flag entry",
			zap.String("request_id", req.ID),
			zap.Error(err))
	}
}
