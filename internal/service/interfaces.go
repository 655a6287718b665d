package service

import (
	"context"
	"encoding/json"

	"livebet/internal/models"
)

// MatchGateway определяет интерфейс шлюза к API-Football
type MatchGateway interface {
	FetchLive(ctx context.Context) ([]models.MatchSnapshot, error)
	FetchToday(ctx context.Context) ([]models.MatchSnapshot, error)
	FetchByID(ctx context.Context, fixtureID int) (models.MatchSnapshot, error)
	FetchStatistics(ctx context.Context, fixtureID int) ([]models.TeamStatistics, error)
	FetchEvents(ctx context.Context, fixtureID int) ([]json.RawMessage, error)
	FetchOdds(ctx context.Context, fixtureID int) ([]json.RawMessage, error)
}

// MatchRepositoryInterface определяет интерфейс репозитория матчей
type MatchRepositoryInterface interface {
	Upsert(ctx context.Context, m models.MatchSnapshot) error
	GetByID(ctx context.Context, fixtureID int) (*models.MatchSnapshot, error)
	ListRecent(ctx context.Context, limit int) ([]models.MatchSnapshot, error)
}

// AnalyticsRepositoryInterface определяет интерфейс репозитория аналитики
type AnalyticsRepositoryInterface interface {
	SaveAnalytics(ctx context.Context, fixtureID int, text string) error
	LatestAnalytics(ctx context.Context, fixtureID int) (*models.AnalyticsRecord, error)
	SavePrediction(ctx context.Context, fixtureID int, text string) error
	LatestPrediction(ctx context.Context, fixtureID int) (*models.AnalyticsRecord, error)
}

// BetRepositoryInterface определяет интерфейс журнала решений по ставкам
type BetRepositoryInterface interface {
	Save(ctx context.Context, rec *models.BetDecisionRecord) error
	ListRecent(ctx context.Context, limit int) ([]models.BetDecisionRecord, error)
}

// Predictor определяет интерфейс AI-генерации прогнозов
type Predictor interface {
	Predict(ctx context.Context, match models.MatchSnapshot) string
}

// PredictionNotifier определяет интерфейс telegram-уведомлений о прогнозах
type PredictionNotifier interface {
	NotifyPrediction(ctx context.Context, match models.MatchSnapshot, prediction string) error
}

// StopLossNotifier определяет интерфейс telegram-уведомлений о стоп-лоссе
type StopLossNotifier interface {
	NotifyStopLoss(ctx context.Context, state models.Bankroll) error
}

// BetBroadcaster определяет интерфейс рассылки решений по ставкам через WebSocket
type BetBroadcaster interface {
	BroadcastBetDecision(decision models.StakeDecision)
	BroadcastNotification(notif *models.Notification)
}
