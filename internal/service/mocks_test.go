package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"livebet/internal/models"
	"livebet/internal/repository"
)

// ============ Mock MatchGateway ============

type MockMatchGateway struct {
	live     []models.MatchSnapshot
	today    []models.MatchSnapshot
	byID     map[int]models.MatchSnapshot
	stats    []models.TeamStatistics
	events   []json.RawMessage
	odds     []json.RawMessage
	fetchErr error
}

func NewMockMatchGateway() *MockMatchGateway {
	return &MockMatchGateway{byID: make(map[int]models.MatchSnapshot)}
}

func (m *MockMatchGateway) FetchLive(ctx context.Context) ([]models.MatchSnapshot, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.live, nil
}

func (m *MockMatchGateway) FetchToday(ctx context.Context) ([]models.MatchSnapshot, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.today, nil
}

func (m *MockMatchGateway) FetchByID(ctx context.Context, fixtureID int) (models.MatchSnapshot, error) {
	if m.fetchErr != nil {
		return models.MatchSnapshot{}, m.fetchErr
	}
	match, ok := m.byID[fixtureID]
	if !ok {
		return models.MatchSnapshot{}, repository.ErrMatchNotFound
	}
	return match, nil
}

func (m *MockMatchGateway) FetchStatistics(ctx context.Context, fixtureID int) ([]models.TeamStatistics, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.stats, nil
}

func (m *MockMatchGateway) FetchEvents(ctx context.Context, fixtureID int) ([]json.RawMessage, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.events, nil
}

func (m *MockMatchGateway) FetchOdds(ctx context.Context, fixtureID int) ([]json.RawMessage, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.odds, nil
}

// ============ Mock MatchRepository ============

type MockMatchRepository struct {
	stored  map[int]models.MatchSnapshot
	getErr  error
	saveErr error
}

func NewMockMatchRepository() *MockMatchRepository {
	return &MockMatchRepository{stored: make(map[int]models.MatchSnapshot)}
}

func (m *MockMatchRepository) Upsert(ctx context.Context, snap models.MatchSnapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored[snap.FixtureID] = snap
	return nil
}

func (m *MockMatchRepository) GetByID(ctx context.Context, fixtureID int) (*models.MatchSnapshot, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	snap, ok := m.stored[fixtureID]
	if !ok {
		return nil, repository.ErrMatchNotFound
	}
	return &snap, nil
}

func (m *MockMatchRepository) ListRecent(ctx context.Context, limit int) ([]models.MatchSnapshot, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	result := make([]models.MatchSnapshot, 0, len(m.stored))
	for _, snap := range m.stored {
		result = append(result, snap)
	}
	return result, nil
}

// ============ Mock AnalyticsRepository ============

type MockAnalyticsRepository struct {
	analytics   map[int]string
	predictions map[int]string
	saveErr     error
	getErr      error
}

func NewMockAnalyticsRepository() *MockAnalyticsRepository {
	return &MockAnalyticsRepository{
		analytics:   make(map[int]string),
		predictions: make(map[int]string),
	}
}

func (m *MockAnalyticsRepository) SaveAnalytics(ctx context.Context, fixtureID int, text string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.analytics[fixtureID] = text
	return nil
}

func (m *MockAnalyticsRepository) LatestAnalytics(ctx context.Context, fixtureID int) (*models.AnalyticsRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	text, ok := m.analytics[fixtureID]
	if !ok {
		return nil, repository.ErrAnalyticsNotFound
	}
	return &models.AnalyticsRecord{FixtureID: fixtureID, Content: text, CreatedAt: time.Now()}, nil
}

func (m *MockAnalyticsRepository) SavePrediction(ctx context.Context, fixtureID int, text string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.predictions[fixtureID] = text
	return nil
}

func (m *MockAnalyticsRepository) LatestPrediction(ctx context.Context, fixtureID int) (*models.AnalyticsRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	text, ok := m.predictions[fixtureID]
	if !ok {
		return nil, repository.ErrAnalyticsNotFound
	}
	return &models.AnalyticsRecord{FixtureID: fixtureID, Content: text, CreatedAt: time.Now()}, nil
}

// ============ Mock BetRepository ============

type MockBetRepository struct {
	mu      sync.Mutex
	records []models.BetDecisionRecord
	saveErr error
	listErr error
	nextID  int
}

func NewMockBetRepository() *MockBetRepository {
	return &MockBetRepository{nextID: 1}
}

func (m *MockBetRepository) Save(ctx context.Context, rec *models.BetDecisionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	rec.ID = m.nextID
	m.nextID++
	rec.CreatedAt = time.Now()
	m.records = append(m.records, *rec)
	return nil
}

func (m *MockBetRepository) ListRecent(ctx context.Context, limit int) ([]models.BetDecisionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit > len(m.records) {
		limit = len(m.records)
	}
	result := make([]models.BetDecisionRecord, limit)
	copy(result, m.records[len(m.records)-limit:])
	return result, nil
}

func (m *MockBetRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// ============ Mock Predictor ============

type MockPredictor struct {
	text string
}

func (m *MockPredictor) Predict(ctx context.Context, match models.MatchSnapshot) string {
	return m.text
}

// ============ Mock Notifiers ============

type MockPredictionNotifier struct {
	sent    []string
	sendErr error
}

func (m *MockPredictionNotifier) NotifyPrediction(ctx context.Context, match models.MatchSnapshot, prediction string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, prediction)
	return nil
}

type MockStopLossNotifier struct {
	mu      sync.Mutex
	calls   int
	sendErr error
}

func (m *MockStopLossNotifier) NotifyStopLoss(ctx context.Context, state models.Bankroll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.sendErr
}

func (m *MockStopLossNotifier) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// ============ Mock BetBroadcaster ============

type MockBetBroadcaster struct {
	mu            sync.Mutex
	decisions     []models.StakeDecision
	notifications []*models.Notification
}

func (m *MockBetBroadcaster) BroadcastBetDecision(decision models.StakeDecision) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, decision)
}

func (m *MockBetBroadcaster) BroadcastNotification(notif *models.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, notif)
}

func (m *MockBetBroadcaster) decisionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.decisions)
}

func (m *MockBetBroadcaster) notificationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notifications)
}
