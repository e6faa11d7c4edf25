// Package postgres implements the PostgreSQL persistence layer for CourtPulse.
package postgres

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_leaderboards",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_refresh_log",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE LEADERBOARDS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create leaderboard tables
-- Version: 001

-- One row per player per mode; the whole mode is rewritten on every refresh.
CREATE TABLE IF NOT EXISTS leaderboard_entries (
    id SERIAL PRIMARY KEY,
    mode VARCHAR(20) NOT NULL,
    rank INTEGER NOT NULL,
    player_name VARCHAR(100) NOT NULL,
    team VARCHAR(10) NOT NULL,
    minutes VARCHAR(10) NOT NULL,
    minutes_numeric DECIMAL(6,2) NOT NULL,
    points INTEGER NOT NULL DEFAULT 0,
    offensive_rebounds INTEGER NOT NULL DEFAULT 0,
    defensive_rebounds INTEGER NOT NULL DEFAULT 0,
    assists INTEGER NOT NULL DEFAULT 0,
    steals INTEGER NOT NULL DEFAULT 0,
    blocks INTEGER NOT NULL DEFAULT 0,
    turnovers INTEGER NOT NULL DEFAULT 0,
    field_goals_made INTEGER NOT NULL DEFAULT 0,
    field_goal_attempts INTEGER NOT NULL DEFAULT 0,
    three_pointers_made INTEGER NOT NULL DEFAULT 0,
    three_point_attempts INTEGER NOT NULL DEFAULT 0,
    personal_fouls INTEGER NOT NULL DEFAULT 0,
    plus_minus INTEGER NOT NULL DEFAULT 0,
    custom_score DECIMAL(8,2) NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_mode CHECK (mode IN ('completed', 'live'))
);

CREATE INDEX IF NOT EXISTS idx_leaderboard_entries_mode ON leaderboard_entries(mode);
CREATE INDEX IF NOT EXISTS idx_leaderboard_entries_mode_rank ON leaderboard_entries(mode, rank);
`

const migration001Down = `
DROP TABLE IF EXISTS leaderboard_entries;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE REFRESH LOG
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create refresh log
-- Version: 002
-- Append-only audit of completed-board refreshes.

CREATE TABLE IF NOT EXISTS refresh_log (
    id UUID PRIMARY KEY,
    refreshed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    record_count INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_refresh_log_refreshed_at ON refresh_log(refreshed_at DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS refresh_log;
`
