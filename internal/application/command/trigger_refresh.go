// Package command contains the write-side operations callers can trigger
// outside the regular schedule.
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtpulse/courtpulse/internal/domain/leaderboard"
	"github.com/courtpulse/courtpulse/internal/infrastructure/refresher"
)

// TriggerRefresh requests an immediate refresh of one mode.
type TriggerRefresh struct {
	Mode leaderboard.Mode
}

// TriggerRefreshResult reports the outcome of a manual trigger.
type TriggerRefreshResult struct {
	// Skipped is true when a refresh for the mode was already in flight.
	Skipped bool
}

// TriggerRefreshHandler runs a refresh cycle on demand, honoring the same
// single-flight guard as the scheduled jobs.
type TriggerRefreshHandler struct {
	refresher *refresher.Refresher
}

// NewTriggerRefreshHandler creates the handler.
func NewTriggerRefreshHandler(r *refresher.Refresher) *TriggerRefreshHandler {
	return &TriggerRefreshHandler{refresher: r}
}

// Handle runs the refresh. An in-flight cycle is reported as skipped, not
// queued and not an error.
func (h *TriggerRefreshHandler) Handle(ctx context.Context, cmd TriggerRefresh) (TriggerRefreshResult, error) {
	if !cmd.Mode.Valid() {
		return TriggerRefreshResult{}, fmt.Errorf("%w: %q", leaderboard.ErrUnknownMode, cmd.Mode)
	}

	err := h.refresher.Refresh(ctx, cmd.Mode)
	if errors.Is(err, refresher.ErrAlreadyRunning) {
		return TriggerRefreshResult{Skipped: true}, nil
	}
	if err != nil {
		return TriggerRefreshResult{}, err
	}
	return TriggerRefreshResult{}, nil
}
