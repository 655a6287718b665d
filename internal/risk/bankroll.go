package risk

import (
	"sync"

	"livebet/internal/config"
	"livebet/internal/models"
	"livebet/pkg/utils"
)

// BankrollStore - единственный владелец состояния банкролла процесса.
//
// Все чтения и изменения идут через mutex: Evaluate под блокировкой
// гарантирует, что конкурирующие запросы видят согласованный снимок
// счётчиков и две параллельные ставки не проскочат мимо стоп-лосса
// с одним и тем же "дневным убытком".
//
// На одобрении ставки дебета нет: банкролл меняется только явными
// вызовами RegisterLoss / ResetDay от фида расчётов.
type BankrollStore struct {
	mu     sync.Mutex
	state  models.Bankroll
	engine *Engine
}

// NewBankrollStore создает хранилище с начальным банкроллом из конфигурации
func NewBankrollStore(cfg config.RiskConfig) *BankrollStore {
	return &BankrollStore{
		state: models.Bankroll{
			Total:     cfg.BankrollTotal,
			Current:   cfg.BankrollTotal,
			DailyLoss: 0,
		},
		engine: NewEngine(cfg),
	}
}

// Evaluate оценивает ставку на текущем состоянии банкролла
func (s *BankrollStore) Evaluate(probability, odds float64) models.StakeDecision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Evaluate(probability, odds, s.state)
}

// RegisterLoss фиксирует реализованный убыток торгового дня.
// Отрицательные значения игнорируются: дневной убыток монотонно растёт
// до следующего ResetDay.
func (s *BankrollStore) RegisterLoss(amount float64) models.Bankroll {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount > 0 {
		s.state.DailyLoss = utils.Round2(s.state.DailyLoss + amount)
		s.state.Current = utils.Round2(s.state.Current - amount)
		if s.state.DailyLoss >= s.state.Total*s.engine.cfg.StopLossPct {
			StopLossActive.Set(1)
		}
	}
	return s.state
}

// ResetDay обнуляет дневной счётчик убытков (внешний дневной rollover)
func (s *BankrollStore) ResetDay() models.Bankroll {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.DailyLoss = 0
	StopLossActive.Set(0)
	return s.state
}

// State возвращает копию текущего состояния банкролла
func (s *BankrollStore) State() models.Bankroll {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StopLossEngaged сообщает, достигнут ли дневной стоп-лосс
func (s *BankrollStore) StopLossEngaged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DailyLoss >= s.state.Total*s.engine.cfg.StopLossPct
}
