package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/courtpulse/courtpulse/internal/domain/leaderboard"
	"github.com/courtpulse/courtpulse/internal/domain/stats"
	"github.com/courtpulse/courtpulse/pkg/retry"
)

// SnapshotRepo is the PostgreSQL implementation of leaderboard.SnapshotStore.
// Writes go through a transaction and are retried on transient contention;
// exhausting retries surfaces the error to the caller, which fails only the
// current refresh cycle.
type SnapshotRepo struct {
	conn    *Connection
	retrier *retry.Retrier
	logger  *slog.Logger
	now     func() time.Time
}

// NewSnapshotRepo creates a SnapshotRepo on the given connection.
func NewSnapshotRepo(conn *Connection, logger *slog.Logger) *SnapshotRepo {
	return &SnapshotRepo{
		conn:    conn,
		retrier: retry.DatabaseRetrier(),
		logger:  logger,
		now:     time.Now,
	}
}

const insertEntrySQL = `
	INSERT INTO leaderboard_entries (
		mode, rank, player_name, team, minutes, minutes_numeric,
		points, offensive_rebounds, defensive_rebounds, assists, steals,
		blocks, turnovers, field_goals_made, field_goal_attempts,
		three_pointers_made, three_point_attempts, personal_fouls,
		plus_minus, custom_score
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
	)`

// Replace atomically swaps the snapshot for one mode. For the completed mode
// a refresh-log row is appended in the same transaction.
func (r *SnapshotRepo) Replace(ctx context.Context, mode leaderboard.Mode, records []stats.PlayerStat) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", leaderboard.ErrUnknownMode, mode)
	}

	return r.withContentionRetry(ctx, func(ctx context.Context) error {
		return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, "DELETE FROM leaderboard_entries WHERE mode = $1", string(mode)); err != nil {
				return fmt.Errorf("delete %s entries: %w", mode, err)
			}

			batch := &pgx.Batch{}
			for i, p := range records {
				batch.Queue(insertEntrySQL,
					string(mode), i+1, p.PlayerName, p.Team, p.Minutes, p.MinutesNumeric,
					p.Points, p.OffensiveRebounds, p.DefensiveRebounds, p.Assists, p.Steals,
					p.Blocks, p.Turnovers, p.FieldGoalsMade, p.FieldGoalAttempts,
					p.ThreePointersMade, p.ThreePointAttempts, p.PersonalFouls,
					p.PlusMinus, p.CustomScore,
				)
			}
			if mode == leaderboard.ModeCompleted {
				batch.Queue(
					"INSERT INTO refresh_log (id, refreshed_at, record_count) VALUES ($1, $2, $3)",
					uuid.NewString(), r.now().UTC(), len(records),
				)
			}

			results := tx.SendBatch(ctx, batch)
			defer results.Close()
			for i := 0; i < batch.Len(); i++ {
				if _, err := results.Exec(); err != nil {
					return fmt.Errorf("insert %s entry batch: %w", mode, err)
				}
			}
			return nil
		})
	})
}

// Read returns the current snapshot for one mode, ordered by rank.
func (r *SnapshotRepo) Read(ctx context.Context, mode leaderboard.Mode) (leaderboard.Snapshot, error) {
	if !mode.Valid() {
		return leaderboard.Snapshot{}, fmt.Errorf("%w: %q", leaderboard.ErrUnknownMode, mode)
	}

	rows, err := r.conn.Query(ctx, `
		SELECT player_name, team, minutes, minutes_numeric,
		       points, offensive_rebounds, defensive_rebounds, assists, steals,
		       blocks, turnovers, field_goals_made, field_goal_attempts,
		       three_pointers_made, three_point_attempts, personal_fouls,
		       plus_minus, custom_score, created_at
		FROM leaderboard_entries
		WHERE mode = $1
		ORDER BY rank`, string(mode))
	if err != nil {
		return leaderboard.Snapshot{}, fmt.Errorf("read %s snapshot: %w", mode, err)
	}
	defer rows.Close()

	snapshot := leaderboard.Snapshot{Mode: mode}
	for rows.Next() {
		var p stats.PlayerStat
		var createdAt time.Time
		if err := rows.Scan(
			&p.PlayerName, &p.Team, &p.Minutes, &p.MinutesNumeric,
			&p.Points, &p.OffensiveRebounds, &p.DefensiveRebounds, &p.Assists, &p.Steals,
			&p.Blocks, &p.Turnovers, &p.FieldGoalsMade, &p.FieldGoalAttempts,
			&p.ThreePointersMade, &p.ThreePointAttempts, &p.PersonalFouls,
			&p.PlusMinus, &p.CustomScore, &createdAt,
		); err != nil {
			return leaderboard.Snapshot{}, fmt.Errorf("scan %s entry: %w", mode, err)
		}
		snapshot.Records = append(snapshot.Records, p)
		if createdAt.After(snapshot.TakenAt) {
			snapshot.TakenAt = createdAt
		}
	}
	if err := rows.Err(); err != nil {
		return leaderboard.Snapshot{}, fmt.Errorf("read %s snapshot: %w", mode, err)
	}
	return snapshot, nil
}

// Clear removes all entries for one mode.
func (r *SnapshotRepo) Clear(ctx context.Context, mode leaderboard.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", leaderboard.ErrUnknownMode, mode)
	}

	return r.withContentionRetry(ctx, func(ctx context.Context) error {
		_, err := r.conn.Exec(ctx, "DELETE FROM leaderboard_entries WHERE mode = $1", string(mode))
		if err != nil {
			return fmt.Errorf("clear %s entries: %w", mode, err)
		}
		return nil
	})
}

// LastRefreshTime returns the newest refresh-log timestamp, or the zero time
// when no completed refresh has been logged yet.
func (r *SnapshotRepo) LastRefreshTime(ctx context.Context) (time.Time, error) {
	var ts time.Time
	err := r.conn.QueryRow(ctx,
		"SELECT refreshed_at FROM refresh_log ORDER BY refreshed_at DESC LIMIT 1",
	).Scan(&ts)
	if IsNoRows(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("last refresh time: %w", err)
	}
	return ts, nil
}

// withContentionRetry retries fn on transient Postgres contention.
func (r *SnapshotRepo) withContentionRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.retrier.Do(ctx, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if IsTransientContention(err) {
			r.logger.Warn("snapshot write hit contention, retrying", slog.Any("error", err))
			return retry.Retryable(err)
		}
		return retry.Permanent(err)
	})
}
