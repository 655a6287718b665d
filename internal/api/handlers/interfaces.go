package handlers

import (
	"context"
	"encoding/json"

	"livebet/internal/models"
)

// MatchServiceInterface определяет интерфейс сервиса матчей
type MatchServiceInterface interface {
	Live(ctx context.Context) ([]models.MatchSnapshot, error)
	Today(ctx context.Context) ([]models.MatchSnapshot, error)
	GetByID(ctx context.Context, fixtureID int) (models.MatchSnapshot, error)
	Statistics(ctx context.Context, fixtureID int) ([]models.TeamStatistics, error)
	Events(ctx context.Context, fixtureID int) ([]json.RawMessage, error)
	Odds(ctx context.Context, fixtureID int) ([]json.RawMessage, error)
	Analytics(ctx context.Context, fixtureID int) (*models.AnalyticsRecord, error)
	GeneratePrediction(ctx context.Context, fixtureID int) (string, error)
}

// BetServiceInterface определяет интерфейс сервиса ставок и банкролла
type BetServiceInterface interface {
	EvaluateBet(ctx context.Context, probability, odds float64) models.StakeDecision
	Decisions(ctx context.Context, limit int) ([]models.BetDecisionRecord, error)
	Bankroll() models.Bankroll
	RegisterLoss(ctx context.Context, amount float64) (models.Bankroll, error)
	ResetDay() models.Bankroll
}
