package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"livebet/internal/models"
)

// BetRepository - работа с таблицей bet_decisions.
// Каждый вызов Evaluate оставляет здесь аудит-запись независимо от исхода.
type BetRepository struct {
	db *sql.DB
}

// NewBetRepository создает новый экземпляр репозитория
func NewBetRepository(db *sql.DB) *BetRepository {
	return &BetRepository{db: db}
}

// Save сохраняет решение по ставке и возвращает его id
func (r *BetRepository) Save(ctx context.Context, rec *models.BetDecisionRecord) error {
	messagesJSON, err := json.Marshal(rec.Messages)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bet_decisions (probability, odds, approved, stake, reason, messages, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	rec.CreatedAt = time.Now()
	return r.db.QueryRowContext(ctx, query,
		rec.Probability,
		rec.Odds,
		rec.Approved,
		rec.Stake,
		rec.Reason,
		messagesJSON,
		rec.CreatedAt,
	).Scan(&rec.ID)
}

// ListRecent возвращает последние решения по ставкам
func (r *BetRepository) ListRecent(ctx context.Context, limit int) ([]models.BetDecisionRecord, error) {
	query := `
		SELECT id, probability, odds, approved, stake, reason, messages, created_at
		FROM bet_decisions
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.BetDecisionRecord
	for rows.Next() {
		var rec models.BetDecisionRecord
		var messagesJSON []byte
		if err := rows.Scan(
			&rec.ID,
			&rec.Probability,
			&rec.Odds,
			&rec.Approved,
			&rec.Stake,
			&rec.Reason,
			&messagesJSON,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(messagesJSON) > 0 {
			if err := json.Unmarshal(messagesJSON, &rec.Messages); err != nil {
				return nil, err
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
