package repository

import (
	"database/sql"
	"fmt"
)

// Migrate создает схему базы данных, если её ещё нет.
// Выполняется один раз на старте сервера, идемпотентно.
func Migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			fixture_id BIGINT PRIMARY KEY,
			league     TEXT NOT NULL DEFAULT '',
			home_team  TEXT NOT NULL,
			away_team  TEXT NOT NULL,
			home_goals INT NOT NULL DEFAULT 0,
			away_goals INT NOT NULL DEFAULT 0,
			status     TEXT NOT NULL DEFAULT '',
			elapsed    INT NOT NULL DEFAULT 0,
			kickoff_at TIMESTAMPTZ,
			raw        JSONB,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS analytics (
			id         BIGSERIAL PRIMARY KEY,
			fixture_id BIGINT NOT NULL,
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_fixture ON analytics (fixture_id, created_at DESC)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id         BIGSERIAL PRIMARY KEY,
			fixture_id BIGINT NOT NULL,
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_fixture ON predictions (fixture_id, created_at DESC)`,

		`CREATE TABLE IF NOT EXISTS bet_decisions (
			id          BIGSERIAL PRIMARY KEY,
			probability DOUBLE PRECISION NOT NULL,
			odds        DOUBLE PRECISION NOT NULL,
			approved    BOOLEAN NOT NULL,
			stake       DOUBLE PRECISION NOT NULL,
			reason      TEXT NOT NULL DEFAULT '',
			messages    JSONB,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bet_decisions_created ON bet_decisions (created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
