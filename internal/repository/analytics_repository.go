package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"livebet/internal/models"
)

// Ошибки репозитория аналитики
var (
	ErrAnalyticsNotFound = errors.New("analytics not found")
)

// AnalyticsRepository - работа с таблицами analytics и predictions
type AnalyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository создает новый экземпляр репозитория
func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// SaveAnalytics сохраняет текст live-аналитики по матчу
func (r *AnalyticsRepository) SaveAnalytics(ctx context.Context, fixtureID int, text string) error {
	query := `
		INSERT INTO analytics (fixture_id, content, created_at)
		VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, fixtureID, text, time.Now())
	return err
}

// LatestAnalytics возвращает последний текст аналитики по матчу
func (r *AnalyticsRepository) LatestAnalytics(ctx context.Context, fixtureID int) (*models.AnalyticsRecord, error) {
	query := `
		SELECT id, fixture_id, content, created_at
		FROM analytics
		WHERE fixture_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	return r.scanOne(ctx, query, fixtureID)
}

// SavePrediction сохраняет текст предматчевого прогноза
func (r *AnalyticsRepository) SavePrediction(ctx context.Context, fixtureID int, text string) error {
	query := `
		INSERT INTO predictions (fixture_id, content, created_at)
		VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, fixtureID, text, time.Now())
	return err
}

// LatestPrediction возвращает последний прогноз по матчу
func (r *AnalyticsRepository) LatestPrediction(ctx context.Context, fixtureID int) (*models.AnalyticsRecord, error) {
	query := `
		SELECT id, fixture_id, content, created_at
		FROM predictions
		WHERE fixture_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	return r.scanOne(ctx, query, fixtureID)
}

func (r *AnalyticsRepository) scanOne(ctx context.Context, query string, fixtureID int) (*models.AnalyticsRecord, error) {
	rec := &models.AnalyticsRecord{}
	err := r.db.QueryRowContext(ctx, query, fixtureID).Scan(
		&rec.ID,
		&rec.FixtureID,
		&rec.Content,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAnalyticsNotFound
		}
		return nil, err
	}
	return rec, nil
}
