// Package memory provides an in-memory leaderboard.SnapshotStore with the
// same semantics as the PostgreSQL implementation. It backs tests and
// database-less development runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/courtpulse/courtpulse/internal/domain/leaderboard"
	"github.com/courtpulse/courtpulse/internal/domain/stats"
)

// Store holds per-mode snapshots and the refresh log under one lock, so
// readers see either the old board or the new one, never a mix.
type Store struct {
	mu         sync.RWMutex
	snapshots  map[leaderboard.Mode]leaderboard.Snapshot
	refreshLog []leaderboard.RefreshRecord
	now        func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		snapshots: make(map[leaderboard.Mode]leaderboard.Snapshot),
		now:       time.Now,
	}
}

// Replace swaps the snapshot for one mode and logs completed refreshes.
func (s *Store) Replace(_ context.Context, mode leaderboard.Mode, records []stats.PlayerStat) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", leaderboard.ErrUnknownMode, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]stats.PlayerStat, len(records))
	copy(copied, records)

	now := s.now().UTC()
	s.snapshots[mode] = leaderboard.Snapshot{
		Mode:    mode,
		Records: copied,
		TakenAt: now,
	}
	if mode == leaderboard.ModeCompleted {
		s.refreshLog = append(s.refreshLog, leaderboard.RefreshRecord{
			ID:          uuid.NewString(),
			RefreshedAt: now,
			RecordCount: len(records),
		})
	}
	return nil
}

// Read returns the current snapshot for one mode, which may be empty.
func (s *Store) Read(_ context.Context, mode leaderboard.Mode) (leaderboard.Snapshot, error) {
	if !mode.Valid() {
		return leaderboard.Snapshot{}, fmt.Errorf("%w: %q", leaderboard.ErrUnknownMode, mode)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[mode]
	if !ok {
		return leaderboard.Snapshot{Mode: mode}, nil
	}

	copied := make([]stats.PlayerStat, len(snap.Records))
	copy(copied, snap.Records)
	snap.Records = copied
	return snap, nil
}

// Clear removes all records for one mode.
func (s *Store) Clear(_ context.Context, mode leaderboard.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", leaderboard.ErrUnknownMode, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, mode)
	return nil
}

// LastRefreshTime returns the newest refresh-log timestamp, or the zero time.
func (s *Store) LastRefreshTime(_ context.Context) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.refreshLog) == 0 {
		return time.Time{}, nil
	}
	return s.refreshLog[len(s.refreshLog)-1].RefreshedAt, nil
}

// RefreshLog returns a copy of the refresh log, oldest first.
func (s *Store) RefreshLog() []leaderboard.RefreshRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]leaderboard.RefreshRecord, len(s.refreshLog))
	copy(out, s.refreshLog)
	return out
}
