package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"livebet/internal/models"
)

// Ошибки репозитория матчей
var (
	ErrMatchNotFound = errors.New("match not found")
)

// MatchRepository - работа с таблицей matches
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository создает новый экземпляр репозитория
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Upsert сохраняет снимок матча, заменяя предыдущий по fixture_id
func (r *MatchRepository) Upsert(ctx context.Context, m models.MatchSnapshot) error {
	query := `
		INSERT INTO matches (fixture_id, league, home_team, away_team, home_goals, away_goals, status, elapsed, kickoff_at, raw, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (fixture_id) DO UPDATE SET
			league = EXCLUDED.league,
			home_goals = EXCLUDED.home_goals,
			away_goals = EXCLUDED.away_goals,
			status = EXCLUDED.status,
			elapsed = EXCLUDED.elapsed,
			raw = EXCLUDED.raw,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		m.FixtureID,
		m.League,
		m.HomeTeam,
		m.AwayTeam,
		m.HomeGoals,
		m.AwayGoals,
		m.Status,
		m.Elapsed,
		m.KickoffAt,
		[]byte(m.Raw),
		time.Now(),
	)
	return err
}

// GetByID возвращает последний сохранённый снимок матча
func (r *MatchRepository) GetByID(ctx context.Context, fixtureID int) (*models.MatchSnapshot, error) {
	query := `
		SELECT fixture_id, league, home_team, away_team, home_goals, away_goals, status, elapsed, kickoff_at, raw
		FROM matches
		WHERE fixture_id = $1`

	m := &models.MatchSnapshot{}
	var kickoff sql.NullTime
	var raw []byte
	err := r.db.QueryRowContext(ctx, query, fixtureID).Scan(
		&m.FixtureID,
		&m.League,
		&m.HomeTeam,
		&m.AwayTeam,
		&m.HomeGoals,
		&m.AwayGoals,
		&m.Status,
		&m.Elapsed,
		&kickoff,
		&raw,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if kickoff.Valid {
		m.KickoffAt = kickoff.Time
	}
	m.Raw = raw
	return m, nil
}

// ListRecent возвращает последние сохранённые матчи
func (r *MatchRepository) ListRecent(ctx context.Context, limit int) ([]models.MatchSnapshot, error) {
	query := `
		SELECT fixture_id, league, home_team, away_team, home_goals, away_goals, status, elapsed, kickoff_at, raw
		FROM matches
		ORDER BY updated_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MatchSnapshot
	for rows.Next() {
		var m models.MatchSnapshot
		var kickoff sql.NullTime
		var raw []byte
		if err := rows.Scan(
			&m.FixtureID,
			&m.League,
			&m.HomeTeam,
			&m.AwayTeam,
			&m.HomeGoals,
			&m.AwayGoals,
			&m.Status,
			&m.Elapsed,
			&kickoff,
			&raw,
		); err != nil {
			return nil, err
		}
		if kickoff.Valid {
			m.KickoffAt = kickoff.Time
		}
		m.Raw = raw
		out = append(out, m)
	}
	return out, rows.Err()
}
