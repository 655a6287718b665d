package models

import "time"

// Notification представляет событие для журнала и real-time рассылки
type Notification struct {
	ID        int                    `json:"id" db:"id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	Type      string                 `json:"type" db:"type"`         // GOAL, ANALYTICS, PREDICTION, BET, STOP_LOSS, ERROR
	Severity  string                 `json:"severity" db:"severity"` // info, warn, error
	FixtureID *int                   `json:"fixture_id,omitempty" db:"fixture_id"`
	Message   string                 `json:"message" db:"message"`
	Meta      map[string]interface{} `json:"meta,omitempty" db:"meta"` // дополнительные данные (JSON в БД)
}

// Типы уведомлений
const (
	NotificationTypeGoal       = "GOAL"       // изменение счёта в live-матче
	NotificationTypeAnalytics  = "ANALYTICS"  // сгенерирована live-аналитика
	NotificationTypePrediction = "PREDICTION" // сгенерирован прогноз на матч
	NotificationTypeBet        = "BET"        // оценена предложенная ставка
	NotificationTypeStopLoss   = "STOP_LOSS"  // дневной stop-loss достигнут
	NotificationTypeError      = "ERROR"      // ошибка upstream API / sink'а
)

// Уровни важности
const (
	SeverityInfo  = "info"
	SeverityWarn  = "warn"
	SeverityError = "error"
)
