package websocket

import (
	"time"

	"livebet/internal/models"
)

// MessageType определяет тип WebSocket сообщения
type MessageType string

// Типы WebSocket сообщений
const (
	// MessageTypeMatchUpdate - изменение счёта одного матча
	// Отправляется при каждом обнаруженном ChangeEvent
	MessageTypeMatchUpdate MessageType = "match_update"

	// MessageTypeLiveMatches - полный список текущих live-матчей
	// Отправляется в конце каждого успешного тика опроса
	MessageTypeLiveMatches MessageType = "live_matches"

	// MessageTypeAnalytics - текст AI-аналитики по матчу
	MessageTypeAnalytics MessageType = "analytics_update"

	// MessageTypeNotification - служебное уведомление
	MessageTypeNotification MessageType = "notification"

	// MessageTypeBetDecision - результат оценки ставки
	MessageTypeBetDecision MessageType = "bet_decision"
)

// BaseMessage - базовая структура для всех WebSocket сообщений
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// MatchUpdateMessage - сообщение об изменении счёта
//
// Несёт оба снапшота: frontend показывает и новый счёт, и то,
// с какого он изменился (анимация гола, откат после VAR).
type MatchUpdateMessage struct {
	BaseMessage
	FixtureID int                  `json:"fixture_id"`
	Kind      models.ChangeKind    `json:"kind"`
	Previous  models.MatchSnapshot `json:"previous"`
	Current   models.MatchSnapshot `json:"current"`
}

// LiveMatchesMessage - полный список live-матчей
type LiveMatchesMessage struct {
	BaseMessage
	Matches []models.MatchSnapshot `json:"matches"`
}

// AnalyticsMessage - текст аналитики по матчу
type AnalyticsMessage struct {
	BaseMessage
	FixtureID int    `json:"fixture_id"`
	Analytics string `json:"analytics"`
}

// NotificationMessage - служебное уведомление
type NotificationMessage struct {
	BaseMessage
	Data *models.Notification `json:"data"`
}

// BetDecisionMessage - результат оценки ставки
type BetDecisionMessage struct {
	BaseMessage
	Decision models.StakeDecision `json:"decision"`
}

// ============ Фабричные функции для создания сообщений ============

// NewMatchUpdateMessage создает сообщение об изменении счёта
func NewMatchUpdateMessage(event models.ChangeEvent) *MatchUpdateMessage {
	return &MatchUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeMatchUpdate,
			Timestamp: time.Now(),
		},
		FixtureID: event.FixtureID,
		Kind:      event.Kind,
		Previous:  event.Previous,
		Current:   event.Current,
	}
}

// NewLiveMatchesMessage создает сообщение с полным списком матчей
func NewLiveMatchesMessage(matches []models.MatchSnapshot) *LiveMatchesMessage {
	if matches == nil {
		matches = []models.MatchSnapshot{}
	}
	return &LiveMatchesMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeLiveMatches,
			Timestamp: time.Now(),
		},
		Matches: matches,
	}
}

// NewAnalyticsMessage создает сообщение с текстом аналитики
func NewAnalyticsMessage(fixtureID int, analytics string) *AnalyticsMessage {
	return &AnalyticsMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeAnalytics,
			Timestamp: time.Now(),
		},
		FixtureID: fixtureID,
		Analytics: analytics,
	}
}

// NewNotificationMessage создает сообщение уведомления
func NewNotificationMessage(notif *models.Notification) *NotificationMessage {
	return &NotificationMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeNotification,
			Timestamp: time.Now(),
		},
		Data: notif,
	}
}

// NewBetDecisionMessage создает сообщение с решением по ставке
func NewBetDecisionMessage(decision models.StakeDecision) *BetDecisionMessage {
	return &BetDecisionMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeBetDecision,
			Timestamp: time.Now(),
		},
		Decision: decision,
	}
}
