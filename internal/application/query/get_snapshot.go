// Package query contains the read-side operations serving leaderboard data
// to callers (HTTP handlers, bots, CLIs) outside the refresh loop.
package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/courtpulse/courtpulse/internal/domain/leaderboard"
)

// SnapshotCache is the optional read cache in front of the snapshot store.
type SnapshotCache interface {
	Get(ctx context.Context, mode leaderboard.Mode) (leaderboard.Snapshot, error)
	Set(ctx context.Context, snap leaderboard.Snapshot) error
}

// GetSnapshot asks for the current leaderboard of one mode.
type GetSnapshot struct {
	Mode leaderboard.Mode
}

// GetSnapshotHandler serves snapshots cache-first with a store fallback.
type GetSnapshotHandler struct {
	store  leaderboard.SnapshotStore
	cache  SnapshotCache // optional
	logger *slog.Logger
}

// NewGetSnapshotHandler creates the handler. cache may be nil.
func NewGetSnapshotHandler(store leaderboard.SnapshotStore, cache SnapshotCache, logger *slog.Logger) *GetSnapshotHandler {
	return &GetSnapshotHandler{store: store, cache: cache, logger: logger}
}

// Handle returns the current snapshot for the requested mode. A cache miss
// or cache error falls through to the store; the fetched snapshot then
// re-warms the cache best-effort.
func (h *GetSnapshotHandler) Handle(ctx context.Context, q GetSnapshot) (leaderboard.Snapshot, error) {
	if !q.Mode.Valid() {
		return leaderboard.Snapshot{}, fmt.Errorf("%w: %q", leaderboard.ErrUnknownMode, q.Mode)
	}

	if h.cache != nil {
		snap, err := h.cache.Get(ctx, q.Mode)
		if err == nil {
			return snap, nil
		}
	}

	snap, err := h.store.Read(ctx, q.Mode)
	if err != nil {
		return leaderboard.Snapshot{}, fmt.Errorf("read %s snapshot: %w", q.Mode, err)
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, snap); err != nil {
			h.logger.Warn("snapshot cache warm failed",
				slog.String("mode", string(q.Mode)), slog.Any("error", err))
		}
	}
	return snap, nil
}
