package refresher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtpulse/courtpulse/internal/domain/games"
	"github.com/courtpulse/courtpulse/internal/domain/leaderboard"
	"github.com/courtpulse/courtpulse/internal/domain/stats"
	"github.com/courtpulse/courtpulse/internal/infrastructure/persistence/memory"
	"github.com/courtpulse/courtpulse/pkg/metrics"
)

type fakeSources struct {
	mu             sync.Mutex
	completed      []games.Game
	live           []games.Game
	discoverErr    error
	rowsByGame     map[string][]stats.RawRow
	failGames      map[string]error
	fetchStarted   chan string
	releaseFetches chan struct{}
}

func (f *fakeSources) CompletedGames(context.Context) ([]games.Game, error) {
	return f.completed, f.discoverErr
}

func (f *fakeSources) LiveGames(context.Context) ([]games.Game, error) {
	return f.live, f.discoverErr
}

func (f *fakeSources) CompletedBoxscore(ctx context.Context, gameID string) ([]stats.RawRow, error) {
	return f.boxscore(ctx, gameID)
}

func (f *fakeSources) LiveBoxscore(ctx context.Context, gameID string) ([]stats.RawRow, error) {
	return f.boxscore(ctx, gameID)
}

func (f *fakeSources) boxscore(ctx context.Context, gameID string) ([]stats.RawRow, error) {
	if f.fetchStarted != nil {
		f.fetchStarted <- gameID
		select {
		case <-f.releaseFetches:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failGames[gameID]; ok {
		return nil, err
	}
	return f.rowsByGame[gameID], nil
}

func completedRawRow(name string, minutes string, points int) stats.RawRow {
	return stats.RawRow{
		Schema: stats.SchemaCompleted,
		Fields: map[string]any{
			"PLAYER_NAME":       name,
			"TEAM_ABBREVIATION": "BOS",
			"MIN":               minutes,
			"PTS":               float64(points),
		},
	}
}

func newTestRefresher(src *fakeSources, store leaderboard.SnapshotStore) *Refresher {
	return New(src, src, store, nil, metrics.NewManager(),
		slog.New(slog.NewTextHandler(io.Discard, nil)), 20)
}

func TestRefreshCompletedPersistsRankedSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	src := &fakeSources{
		completed: []games.Game{{ID: "g1", StatusText: "Final"}},
		rowsByGame: map[string][]stats.RawRow{
			"g1": {
				completedRawRow("Low Scorer", "20:00", 5),
				completedRawRow("High Scorer", "30:00", 40),
				completedRawRow("Bench", "0:00", 0),
			},
		},
	}

	require.NoError(t, newTestRefresher(src, store).Refresh(ctx, leaderboard.ModeCompleted))

	snap, err := store.Read(ctx, leaderboard.ModeCompleted)
	require.NoError(t, err)
	require.Len(t, snap.Records, 2, "zero-minute player must not rank")
	assert.Equal(t, "High Scorer", snap.Records[0].PlayerName)
	assert.Greater(t, snap.Records[0].CustomScore, snap.Records[1].CustomScore)

	last, err := store.LastRefreshTime(ctx)
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}

func TestRefreshSkipsFailingGameAndContinues(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	src := &fakeSources{
		completed: []games.Game{
			{ID: "g1", StatusText: "Final"},
			{ID: "g2", StatusText: "Final"},
			{ID: "g3", StatusText: "Final"},
		},
		failGames: map[string]error{"g2": errors.New("upstream 500")},
		rowsByGame: map[string][]stats.RawRow{
			"g1": {completedRawRow("Player One", "30:00", 20)},
			"g3": {completedRawRow("Player Three", "25:00", 15)},
		},
	}

	require.NoError(t, newTestRefresher(src, store).Refresh(ctx, leaderboard.ModeCompleted))

	snap, err := store.Read(ctx, leaderboard.ModeCompleted)
	require.NoError(t, err)
	assert.Len(t, snap.Records, 2)
}

func TestRefreshLiveClearsOnNoGames(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	// Seed a stale live board from an earlier cycle.
	require.NoError(t, store.Replace(ctx, leaderboard.ModeLive, []stats.PlayerStat{
		{PlayerName: "Stale", MinutesNumeric: 10, CustomScore: 3},
	}))

	src := &fakeSources{live: nil}
	require.NoError(t, newTestRefresher(src, store).Refresh(ctx, leaderboard.ModeLive))

	snap, err := store.Read(ctx, leaderboard.ModeLive)
	require.NoError(t, err)
	assert.True(t, snap.Empty())
}

func TestRefreshCompletedPreservesOnNoGames(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Replace(ctx, leaderboard.ModeCompleted, []stats.PlayerStat{
		{PlayerName: "Yesterday Hero", MinutesNumeric: 35, CustomScore: 12},
	}))

	src := &fakeSources{completed: nil}
	require.NoError(t, newTestRefresher(src, store).Refresh(ctx, leaderboard.ModeCompleted))

	snap, err := store.Read(ctx, leaderboard.ModeCompleted)
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "Yesterday Hero", snap.Records[0].PlayerName)
}

func TestRefreshCompletedPreservesOnNoRankableRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Replace(ctx, leaderboard.ModeCompleted, []stats.PlayerStat{
		{PlayerName: "Yesterday Hero", MinutesNumeric: 35, CustomScore: 12},
	}))

	// All rows have zero minutes, so scoring filters everything out.
	src := &fakeSources{
		completed: []games.Game{{ID: "g1", StatusText: "Final"}},
		rowsByGame: map[string][]stats.RawRow{
			"g1": {completedRawRow("DNP", "0:00", 0)},
		},
	}

	require.NoError(t, newTestRefresher(src, store).Refresh(ctx, leaderboard.ModeCompleted))

	snap, err := store.Read(ctx, leaderboard.ModeCompleted)
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)
}

func TestRefreshDiscoveryErrorFailsCycleAndPreservesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Replace(ctx, leaderboard.ModeCompleted, []stats.PlayerStat{
		{PlayerName: "Kept", MinutesNumeric: 30, CustomScore: 8},
	}))

	src := &fakeSources{discoverErr: errors.New("scoreboard down")}
	err := newTestRefresher(src, store).Refresh(ctx, leaderboard.ModeCompleted)
	require.Error(t, err)

	snap, readErr := store.Read(ctx, leaderboard.ModeCompleted)
	require.NoError(t, readErr)
	assert.Len(t, snap.Records, 1)
}

func TestRefreshSingleFlightPerMode(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	src := &fakeSources{
		completed: []games.Game{{ID: "g1", StatusText: "Final"}},
		rowsByGame: map[string][]stats.RawRow{
			"g1": {completedRawRow("Player", "30:00", 20)},
		},
		fetchStarted:   make(chan string),
		releaseFetches: make(chan struct{}),
	}
	r := newTestRefresher(src, store)

	done := make(chan error, 1)
	go func() { done <- r.Refresh(ctx, leaderboard.ModeCompleted) }()

	// Wait until the first cycle is mid-fetch, then trigger an overlap.
	<-src.fetchStarted
	err := r.Refresh(ctx, leaderboard.ModeCompleted)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(src.releaseFetches)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first refresh did not finish")
	}

	// The guard releases once the cycle ends.
	src.fetchStarted = nil
	require.NoError(t, r.Refresh(ctx, leaderboard.ModeCompleted))
}

func TestRefreshModesDoNotBlockEachOther(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	src := &fakeSources{
		completed: []games.Game{{ID: "g1", StatusText: "Final"}},
		rowsByGame: map[string][]stats.RawRow{
			"g1": {completedRawRow("Player", "30:00", 20)},
		},
		fetchStarted:   make(chan string),
		releaseFetches: make(chan struct{}),
	}
	r := newTestRefresher(src, store)

	done := make(chan error, 1)
	go func() { done <- r.Refresh(ctx, leaderboard.ModeCompleted) }()
	<-src.fetchStarted

	// A live cycle proceeds while completed is in flight (no live games, so
	// it only touches the store).
	src.fetchStarted = nil
	require.NoError(t, r.Refresh(ctx, leaderboard.ModeLive))

	close(src.releaseFetches)
	require.NoError(t, <-done)
}

func TestRefreshRejectsUnknownMode(t *testing.T) {
	r := newTestRefresher(&fakeSources{}, memory.NewStore())
	err := r.Refresh(context.Background(), leaderboard.Mode("weekly"))
	assert.ErrorIs(t, err, leaderboard.ErrUnknownMode)
}
