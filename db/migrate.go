package db

import (
	"context"
	"database/sql"
	"fmt"
)

// The five collections are flat tables linked by plain string columns. There
// are intentionally no foreign-key constraints: the schema mirrors the
// document layout it replaces, including its ability to accumulate orphans
// and missing back-references, which the repair service heals after the fact.
// goals.tournament_id is nullable because rows written before the column was
// introduced have no value for it.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tournaments (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		date          TEXT NOT NULL,
		status        TEXT NOT NULL,
		rounds        INTEGER NOT NULL DEFAULT 1,
		team_size     INTEGER NOT NULL DEFAULT 2,
		has_half_time BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id            TEXT PRIMARY KEY,
		tournament_id TEXT NOT NULL,
		name          TEXT NOT NULL,
		stats         JSONB NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS teams_tournament_id_idx ON teams (tournament_id)`,
	`CREATE TABLE IF NOT EXISTS players (
		id      TEXT PRIMARY KEY,
		team_id TEXT NOT NULL,
		name    TEXT NOT NULL,
		alias   TEXT NOT NULL DEFAULT '',
		hat     TEXT NOT NULL DEFAULT 'first',
		goals   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS players_team_id_idx ON players (team_id)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id            TEXT PRIMARY KEY,
		tournament_id TEXT NOT NULL,
		team1_id      TEXT NOT NULL,
		team1_name    TEXT NOT NULL,
		team2_id      TEXT NOT NULL,
		team2_name    TEXT NOT NULL,
		score1        INTEGER NOT NULL DEFAULT 0,
		score2        INTEGER NOT NULL DEFAULT 0,
		status        TEXT NOT NULL,
		round         INTEGER NOT NULL DEFAULT 1,
		duration      INTEGER NOT NULL DEFAULT 0,
		comments      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS matches_tournament_id_idx ON matches (tournament_id)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id            TEXT PRIMARY KEY,
		match_id      TEXT NOT NULL,
		tournament_id TEXT,
		player_id     TEXT NOT NULL,
		player_name   TEXT NOT NULL DEFAULT '',
		team_id       TEXT NOT NULL,
		minute        INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS goals_match_id_idx ON goals (match_id)`,
	`CREATE INDEX IF NOT EXISTS goals_tournament_id_idx ON goals (tournament_id)`,
}

// Migrate creates the collection tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
