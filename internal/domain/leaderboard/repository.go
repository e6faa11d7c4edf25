package leaderboard

import (
	"context"
	"errors"
	"time"

	"github.com/courtpulse/courtpulse/internal/domain/stats"
)

// ErrUnknownMode is returned for a mode outside completed/live.
var ErrUnknownMode = errors.New("unknown leaderboard mode")

// SnapshotStore persists the per-mode leaderboard snapshots.
//
// Replace swaps the entire snapshot for one mode atomically; readers never
// observe a partially written board. When mode is ModeCompleted the store
// also appends a refresh-log row. Read returns the current snapshot, which
// may be empty. Clear removes all records for a mode. LastRefreshTime
// returns the newest refresh-log timestamp, or the zero time when no
// completed refresh has ever been logged.
type SnapshotStore interface {
	Replace(ctx context.Context, mode Mode, records []stats.PlayerStat) error
	Read(ctx context.Context, mode Mode) (Snapshot, error)
	Clear(ctx context.Context, mode Mode) error
	LastRefreshTime(ctx context.Context) (time.Time, error)
}
