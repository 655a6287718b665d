package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"livebet/internal/models"
	"livebet/internal/repository"
	"livebet/internal/service"
)

// ErrMockUpstream имитация недоступности источника данных
var ErrMockUpstream = errors.New("mock upstream error")

// ============ Mock MatchService ============

type MockMatchService struct {
	live       []models.MatchSnapshot
	today      []models.MatchSnapshot
	byID       map[int]models.MatchSnapshot
	stats      []models.TeamStatistics
	events     []json.RawMessage
	odds       []json.RawMessage
	analytics  map[int]string
	prediction string
	err        error
}

func NewMockMatchService() *MockMatchService {
	return &MockMatchService{
		byID:      make(map[int]models.MatchSnapshot),
		analytics: make(map[int]string),
	}
}

func (m *MockMatchService) Live(ctx context.Context) ([]models.MatchSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.live, nil
}

func (m *MockMatchService) Today(ctx context.Context) ([]models.MatchSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.today, nil
}

func (m *MockMatchService) GetByID(ctx context.Context, fixtureID int) (models.MatchSnapshot, error) {
	if m.err != nil {
		return models.MatchSnapshot{}, m.err
	}
	match, ok := m.byID[fixtureID]
	if !ok {
		return models.MatchSnapshot{}, service.ErrMatchNotFound
	}
	return match, nil
}

func (m *MockMatchService) Statistics(ctx context.Context, fixtureID int) ([]models.TeamStatistics, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

func (m *MockMatchService) Events(ctx context.Context, fixtureID int) ([]json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

func (m *MockMatchService) Odds(ctx context.Context, fixtureID int) ([]json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.odds, nil
}

func (m *MockMatchService) Analytics(ctx context.Context, fixtureID int) (*models.AnalyticsRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	text, ok := m.analytics[fixtureID]
	if !ok {
		return nil, repository.ErrAnalyticsNotFound
	}
	return &models.AnalyticsRecord{FixtureID: fixtureID, Content: text}, nil
}

func (m *MockMatchService) GeneratePrediction(ctx context.Context, fixtureID int) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if _, ok := m.byID[fixtureID]; !ok {
		return "", service.ErrMatchNotFound
	}
	return m.prediction, nil
}

// ============ Mock BetService ============

type MockBetService struct {
	decision    models.StakeDecision
	journal     []models.BetDecisionRecord
	bankroll    models.Bankroll
	lastEval    *EvaluateBetRequest
	journalErr  error
	lossErr     error
	registered  []float64
	resetCalled bool
}

func NewMockBetService() *MockBetService {
	return &MockBetService{
		bankroll: models.Bankroll{Total: 1000, Current: 1000},
	}
}

func (m *MockBetService) EvaluateBet(ctx context.Context, probability, odds float64) models.StakeDecision {
	m.lastEval = &EvaluateBetRequest{Probability: probability, Odds: odds}
	return m.decision
}

func (m *MockBetService) Decisions(ctx context.Context, limit int) ([]models.BetDecisionRecord, error) {
	if m.journalErr != nil {
		return nil, m.journalErr
	}
	return m.journal, nil
}

func (m *MockBetService) Bankroll() models.Bankroll {
	return m.bankroll
}

func (m *MockBetService) RegisterLoss(ctx context.Context, amount float64) (models.Bankroll, error) {
	if amount <= 0 {
		return models.Bankroll{}, service.ErrInvalidLossAmount
	}
	if m.lossErr != nil {
		return models.Bankroll{}, m.lossErr
	}
	m.registered = append(m.registered, amount)
	m.bankroll.DailyLoss += amount
	m.bankroll.Current -= amount
	return m.bankroll, nil
}

func (m *MockBetService) ResetDay() models.Bankroll {
	m.resetCalled = true
	m.bankroll.DailyLoss = 0
	return m.bankroll
}
