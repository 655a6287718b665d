package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"livebet/internal/models"
)

// Ошибки сервиса матчей
var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrInvalidFixtureID    = errors.New("fixture id must be positive")
	ErrUpstreamUnavailable = errors.New("match data source unavailable")
)

// MatchService - бизнес-логика работы с матчами.
//
// Живые данные идут напрямую из API-Football; репозиторий служит
// резервом на случай недоступности источника и хранилищем истории.
type MatchService struct {
	gateway       MatchGateway
	matchRepo     MatchRepositoryInterface
	analyticsRepo AnalyticsRepositoryInterface
	predictor     Predictor
	notifier      PredictionNotifier
	log           *zap.Logger
}

// NewMatchService создает новый экземпляр сервиса матчей
func NewMatchService(
	gateway MatchGateway,
	matchRepo MatchRepositoryInterface,
	analyticsRepo AnalyticsRepositoryInterface,
	predictor Predictor,
	notifier PredictionNotifier,
	log *zap.Logger,
) *MatchService {
	return &MatchService{
		gateway:       gateway,
		matchRepo:     matchRepo,
		analyticsRepo: analyticsRepo,
		predictor:     predictor,
		notifier:      notifier,
		log:           log,
	}
}

// Live возвращает текущие live-матчи
func (s *MatchService) Live(ctx context.Context) ([]models.MatchSnapshot, error) {
	matches, err := s.gateway.FetchLive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return matches, nil
}

// Today возвращает матчи на сегодня
func (s *MatchService) Today(ctx context.Context) ([]models.MatchSnapshot, error) {
	matches, err := s.gateway.FetchToday(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return matches, nil
}

// GetByID возвращает матч по идентификатору фикстуры.
// Сначала пробует источник; при его недоступности отдаёт
// последний сохранённый снимок из БД.
func (s *MatchService) GetByID(ctx context.Context, fixtureID int) (models.MatchSnapshot, error) {
	if fixtureID <= 0 {
		return models.MatchSnapshot{}, ErrInvalidFixtureID
	}

	match, err := s.gateway.FetchByID(ctx, fixtureID)
	if err == nil {
		return match, nil
	}

	s.log.Warn("upstream fetch failed, falling back to stored snapshot",
		zap.Int("fixture_id", fixtureID),
		zap.Error(err))

	stored, repoErr := s.matchRepo.GetByID(ctx, fixtureID)
	if repoErr != nil {
		return models.MatchSnapshot{}, ErrMatchNotFound
	}
	return *stored, nil
}

// Statistics возвращает статистику команд по матчу
func (s *MatchService) Statistics(ctx context.Context, fixtureID int) ([]models.TeamStatistics, error) {
	if fixtureID <= 0 {
		return nil, ErrInvalidFixtureID
	}
	stats, err := s.gateway.FetchStatistics(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return stats, nil
}

// Events возвращает события матча (голы, карточки, замены)
func (s *MatchService) Events(ctx context.Context, fixtureID int) ([]json.RawMessage, error) {
	if fixtureID <= 0 {
		return nil, ErrInvalidFixtureID
	}
	events, err := s.gateway.FetchEvents(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return events, nil
}

// Odds возвращает котировки букмекеров по матчу
func (s *MatchService) Odds(ctx context.Context, fixtureID int) ([]json.RawMessage, error) {
	if fixtureID <= 0 {
		return nil, ErrInvalidFixtureID
	}
	odds, err := s.gateway.FetchOdds(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return odds, nil
}

// Analytics возвращает последний сохранённый текст аналитики по матчу
func (s *MatchService) Analytics(ctx context.Context, fixtureID int) (*models.AnalyticsRecord, error) {
	if fixtureID <= 0 {
		return nil, ErrInvalidFixtureID
	}
	return s.analyticsRepo.LatestAnalytics(ctx, fixtureID)
}

// GeneratePrediction генерирует AI-прогноз на матч.
// Выполняет:
// 1. Получение данных матча из источника
// 2. Генерацию текста прогноза (fallback при любой ошибке AI)
// 3. Сохранение прогноза в БД
// 4. Отправку прогноза в Telegram
// Ошибки сохранения и отправки логируются, но не прерывают ответ.
func (s *MatchService) GeneratePrediction(ctx context.Context, fixtureID int) (string, error) {
	if fixtureID <= 0 {
		return "", ErrInvalidFixtureID
	}

	match, err := s.gateway.FetchByID(ctx, fixtureID)
	if err != nil {
		return "", ErrMatchNotFound
	}

	prediction := s.predictor.Predict(ctx, match)

	if err := s.analyticsRepo.SavePrediction(ctx, fixtureID, prediction); err != nil {
		s.log.Warn("prediction persistence failed",
			zap.Int("fixture_id", fixtureID),
			zap.Error(err))
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyPrediction(ctx, match, prediction); err != nil {
			s.log.Warn("prediction notification failed",
				zap.Int("fixture_id", fixtureID),
				zap.Error(err))
		}
	}

	return prediction, nil
}
