// Package leaderboard defines the snapshot model and the storage contract
// for the per-mode player leaderboards.
package leaderboard

import (
	"time"

	"github.com/courtpulse/courtpulse/internal/domain/stats"
)

// Mode selects which leaderboard a snapshot belongs to.
type Mode string

const (
	// ModeCompleted ranks players from recently finished games.
	ModeCompleted Mode = "completed"
	// ModeLive ranks players from games currently in progress.
	ModeLive Mode = "live"
)

// Valid reports whether m is one of the two known modes.
func (m Mode) Valid() bool {
	return m == ModeCompleted || m == ModeLive
}

// Snapshot is the full leaderboard for one mode at one point in time.
// Records are already scored and ordered best-first.
type Snapshot struct {
	Mode    Mode               `json:"mode"`
	Records []stats.PlayerStat `json:"records"`
	TakenAt time.Time          `json:"taken_at"`
}

// Empty reports whether the snapshot holds no records.
func (s Snapshot) Empty() bool {
	return len(s.Records) == 0
}

// RefreshRecord is one row of the append-only refresh log. Only completed
// refreshes are logged; the live board churns too fast to be worth auditing.
type RefreshRecord struct {
	ID          string
	RefreshedAt time.Time
	RecordCount int
}
