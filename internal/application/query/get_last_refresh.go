package query

import (
	"context"
	"fmt"
	"time"

	"github.com/courtpulse/courtpulse/internal/domain/leaderboard"
)

// GetLastRefreshHandler reports when the completed board was last rebuilt.
type GetLastRefreshHandler struct {
	store leaderboard.SnapshotStore
}

// NewGetLastRefreshHandler creates the handler.
func NewGetLastRefreshHandler(store leaderboard.SnapshotStore) *GetLastRefreshHandler {
	return &GetLastRefreshHandler{store: store}
}

// Handle returns the newest refresh-log timestamp. The zero time means no
// completed refresh has happened yet.
func (h *GetLastRefreshHandler) Handle(ctx context.Context) (time.Time, error) {
	ts, err := h.store.LastRefreshTime(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("last refresh time: %w", err)
	}
	return ts, nil
}
