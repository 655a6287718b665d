package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"livebet/internal/models"
	"livebet/internal/risk"
)

// Ошибки сервиса ставок
var (
	ErrInvalidLossAmount = errors.New("loss amount must be greater than 0")
	ErrInvalidLimit      = errors.New("limit must be between 1 and 200")
)

// DefaultDecisionsLimit - лимит журнала решений по умолчанию
const DefaultDecisionsLimit = 50

// MaxDecisionsLimit - максимальный лимит журнала решений
const MaxDecisionsLimit = 200

// BetService - оценка ставок поверх риск-движка.
//
// Каждое решение попадает в журнал аудита и рассылается WebSocket
// клиентам; сбои журнала и рассылки не влияют на само решение.
type BetService struct {
	bankroll *risk.BankrollStore
	betRepo  BetRepositoryInterface
	hub      BetBroadcaster
	notifier StopLossNotifier
	log      *zap.Logger
}

// NewBetService создает новый экземпляр сервиса ставок
func NewBetService(
	bankroll *risk.BankrollStore,
	betRepo BetRepositoryInterface,
	hub BetBroadcaster,
	notifier StopLossNotifier,
	log *zap.Logger,
) *BetService {
	return &BetService{
		bankroll: bankroll,
		betRepo:  betRepo,
		hub:      hub,
		notifier: notifier,
		log:      log,
	}
}

// EvaluateBet оценивает предложенную ставку.
// Выполняет:
// 1. Оценку через риск-движок (стоп-лосс, quarter-Kelly, лимиты)
// 2. Запись решения в журнал аудита
// 3. Рассылку решения WebSocket клиентам
// О самом срабатывании стоп-лосса уведомляет RegisterLoss - один раз,
// на переходе через порог; повторные отказы здесь не дублируют его
func (s *BetService) EvaluateBet(ctx context.Context, probability, odds float64) models.StakeDecision {
	decision := s.bankroll.Evaluate(probability, odds)

	risk.BetEvaluations.WithLabelValues(outcomeLabel(decision)).Inc()

	if s.betRepo != nil {
		rec := &models.BetDecisionRecord{
			Probability: probability,
			Odds:        odds,
			Approved:    decision.Approved,
			Stake:       decision.Stake,
			Reason:      decision.Reason,
			Messages:    decision.Messages,
		}
		if err := s.betRepo.Save(ctx, rec); err != nil {
			s.log.Warn("bet decision persistence failed", zap.Error(err))
		}
	}

	if s.hub != nil {
		s.hub.BroadcastBetDecision(decision)
	}

	return decision
}

// Decisions возвращает последние решения из журнала аудита
func (s *BetService) Decisions(ctx context.Context, limit int) ([]models.BetDecisionRecord, error) {
	if limit == 0 {
		limit = DefaultDecisionsLimit
	}
	if limit < 0 || limit > MaxDecisionsLimit {
		return nil, ErrInvalidLimit
	}
	return s.betRepo.ListRecent(ctx, limit)
}

// Bankroll возвращает текущее состояние банкролла
func (s *BetService) Bankroll() models.Bankroll {
	return s.bankroll.State()
}

// RegisterLoss фиксирует реализованный убыток от фида расчётов.
// При достижении дневного стоп-лосса уведомляет Telegram и WebSocket
// клиентов - один раз, на переходе через порог.
func (s *BetService) RegisterLoss(ctx context.Context, amount float64) (models.Bankroll, error) {
	if amount <= 0 {
		return models.Bankroll{}, ErrInvalidLossAmount
	}

	engagedBefore := s.bankroll.StopLossEngaged()
	state := s.bankroll.RegisterLoss(amount)

	if !engagedBefore && s.bankroll.StopLossEngaged() {
		if s.hub != nil {
			s.hub.BroadcastNotification(stopLossNotification(state))
		}
		if s.notifier != nil {
			if err := s.notifier.NotifyStopLoss(ctx, state); err != nil {
				s.log.Warn("stop-loss notification failed", zap.Error(err))
			}
		}
	}

	return state, nil
}

// stopLossNotification формирует служебное WS-уведомление о стоп-лоссе
func stopLossNotification(state models.Bankroll) *models.Notification {
	return &models.Notification{
		Timestamp: time.Now(),
		Type:      models.NotificationTypeStopLoss,
		Severity:  models.SeverityWarn,
		Message: fmt.Sprintf("daily stop-loss reached: %.2f lost, approvals suspended",
			state.DailyLoss),
	}
}

// ResetDay обнуляет дневной счётчик убытков
func (s *BetService) ResetDay() models.Bankroll {
	return s.bankroll.ResetDay()
}

// outcomeLabel переводит решение в метку метрики
func outcomeLabel(d models.StakeDecision) string {
	if d.Approved {
		return "approved"
	}
	return strings.ToLower(d.Reason)
}
