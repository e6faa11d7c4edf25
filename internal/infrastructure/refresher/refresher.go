// Package refresher drives the refresh pipeline for one leaderboard mode:
// discover games, fetch box scores, normalize, score, persist.
package refresher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/courtpulse/courtpulse/internal/domain/games"
	"github.com/courtpulse/courtpulse/internal/domain/leaderboard"
	"github.com/courtpulse/courtpulse/internal/domain/scoring"
	"github.com/courtpulse/courtpulse/internal/domain/stats"
	"github.com/courtpulse/courtpulse/pkg/metrics"
)

// ErrAlreadyRunning is returned when a refresh for the same mode is still in
// flight. Overlapping triggers are skipped, never queued.
var ErrAlreadyRunning = errors.New("refresher: refresh already running for mode")

// GameSource discovers the games relevant to each mode.
type GameSource interface {
	CompletedGames(ctx context.Context) ([]games.Game, error)
	LiveGames(ctx context.Context) ([]games.Game, error)
}

// BoxscoreSource fetches per-game player rows in raw, schema-tagged form.
type BoxscoreSource interface {
	CompletedBoxscore(ctx context.Context, gameID string) ([]stats.RawRow, error)
	LiveBoxscore(ctx context.Context, gameID string) ([]stats.RawRow, error)
}

// SnapshotCacher keeps the read cache in step with the snapshot store.
// Implementations are best-effort; cache failures never fail a cycle. An
// emptied board is cached as an empty snapshot rather than invalidated, so
// readers do not fall through to the store on every request.
type SnapshotCacher interface {
	Set(ctx context.Context, snap leaderboard.Snapshot) error
}

// Refresher runs the full refresh pipeline per mode with single-flight
// protection.
type Refresher struct {
	games     GameSource
	boxscores BoxscoreSource
	store     leaderboard.SnapshotStore
	cache     SnapshotCacher // optional
	metrics   *metrics.Manager
	logger    *slog.Logger
	topN      int

	mu       sync.Mutex
	inflight map[leaderboard.Mode]bool
}

// New creates a Refresher. cache may be nil when no read cache is configured.
func New(
	gameSource GameSource,
	boxscores BoxscoreSource,
	store leaderboard.SnapshotStore,
	cache SnapshotCacher,
	m *metrics.Manager,
	logger *slog.Logger,
	topN int,
) *Refresher {
	return &Refresher{
		games:     gameSource,
		boxscores: boxscores,
		store:     store,
		cache:     cache,
		metrics:   m,
		logger:    logger,
		topN:      topN,
		inflight:  make(map[leaderboard.Mode]bool),
	}
}

// Refresh runs one refresh cycle for the given mode. A concurrent call for
// the same mode returns ErrAlreadyRunning immediately; the other mode is
// unaffected.
func (r *Refresher) Refresh(ctx context.Context, mode leaderboard.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", leaderboard.ErrUnknownMode, mode)
	}

	if !r.tryAcquire(mode) {
		r.metrics.RecordSkippedTick(string(mode))
		r.logger.Info("refresh tick skipped, previous cycle still running",
			slog.String("mode", string(mode)))
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, mode)
	}
	defer r.release(mode)

	start := time.Now()
	err := r.run(ctx, mode)
	r.metrics.RecordCycle(string(mode), time.Since(start).Seconds(), err == nil)
	if err != nil {
		r.logger.Error("refresh cycle failed",
			slog.String("mode", string(mode)), slog.Any("error", err))
	}
	return err
}

func (r *Refresher) run(ctx context.Context, mode leaderboard.Mode) error {
	gameList, err := r.discover(ctx, mode)
	if err != nil {
		return err
	}
	r.metrics.RecordDiscovery(string(mode), len(gameList))

	if len(gameList) == 0 {
		return r.handleEmpty(ctx, mode, "no games discovered")
	}

	records := r.collect(ctx, mode, gameList)
	ranked := scoring.Rank(records, r.topN)
	if len(ranked) == 0 {
		return r.handleEmpty(ctx, mode, "no rankable records")
	}

	if err := r.store.Replace(ctx, mode, ranked); err != nil {
		return fmt.Errorf("persist %s snapshot: %w", mode, err)
	}
	r.metrics.RecordPersisted(string(mode), len(ranked))
	r.updateCache(ctx, leaderboard.Snapshot{Mode: mode, Records: ranked, TakenAt: time.Now().UTC()})

	r.logger.Info("refresh cycle complete",
		slog.String("mode", string(mode)),
		slog.Int("games", len(gameList)),
		slog.Int("records", len(ranked)))
	return nil
}

func (r *Refresher) discover(ctx context.Context, mode leaderboard.Mode) ([]games.Game, error) {
	if mode == leaderboard.ModeLive {
		return r.games.LiveGames(ctx)
	}
	return r.games.CompletedGames(ctx)
}

// collect fetches and normalizes box scores. A game whose fetch fails after
// client-side retries is skipped; the cycle continues with the rest.
func (r *Refresher) collect(ctx context.Context, mode leaderboard.Mode, gameList []games.Game) []stats.PlayerStat {
	var records []stats.PlayerStat
	for _, g := range gameList {
		rows, err := r.fetch(ctx, mode, g.ID)
		if err != nil {
			r.metrics.RecordSkippedGame(string(mode))
			r.logger.Warn("skipping game after failed fetch",
				slog.String("mode", string(mode)),
				slog.String("game_id", g.ID),
				slog.Any("error", err))
			continue
		}

		for _, row := range rows {
			record, err := stats.Normalize(row)
			if err != nil {
				r.metrics.RecordParseAnomaly()
				r.logger.Warn("normalization anomaly",
					slog.String("game_id", g.ID),
					slog.String("player", record.PlayerName),
					slog.Any("error", err))
			}
			records = append(records, record)
		}
	}
	return records
}

func (r *Refresher) fetch(ctx context.Context, mode leaderboard.Mode, gameID string) ([]stats.RawRow, error) {
	if mode == leaderboard.ModeLive {
		return r.boxscores.LiveBoxscore(ctx, gameID)
	}
	return r.boxscores.CompletedBoxscore(ctx, gameID)
}

// handleEmpty applies the per-mode empty-result policy: the live board is
// cleared so stale in-game numbers do not linger after games end, while the
// completed board keeps its previous snapshot until new data arrives.
func (r *Refresher) handleEmpty(ctx context.Context, mode leaderboard.Mode, reason string) error {
	if mode == leaderboard.ModeLive {
		if err := r.store.Clear(ctx, mode); err != nil {
			return fmt.Errorf("clear live snapshot: %w", err)
		}
		r.metrics.RecordPersisted(string(mode), 0)
		r.updateCache(ctx, leaderboard.Snapshot{Mode: mode, TakenAt: time.Now().UTC()})
		r.logger.Info("live snapshot cleared", slog.String("reason", reason))
		return nil
	}

	r.logger.Info("completed snapshot preserved", slog.String("reason", reason))
	return nil
}

func (r *Refresher) updateCache(ctx context.Context, snap leaderboard.Snapshot) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, snap); err != nil {
		r.logger.Warn("snapshot cache update failed",
			slog.String("mode", string(snap.Mode)), slog.Any("error", err))
	}
}

func (r *Refresher) tryAcquire(mode leaderboard.Mode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight[mode] {
		return false
	}
	r.inflight[mode] = true
	return true
}

func (r *Refresher) release(mode leaderboard.Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight[mode] = false
}
