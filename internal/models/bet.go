package models

import "time"

// Bankroll - снимок состояния банка на момент оценки ставки
//
// Total задаётся конфигурацией и в рамках ядра не меняется.
// Current - информационное поле: дебет по одобренной ставке не проводится,
// его обновляет внешний settlement-процесс через API.
// DailyLoss - накопленный убыток текущего торгового дня; монотонно
// не убывает до внешнего daily-rollover триггера. Только эта величина
// сравнивается с порогом stop-loss.
type Bankroll struct {
	Total     float64 `json:"total" db:"total"`
	Current   float64 `json:"current" db:"current"`
	DailyLoss float64 `json:"daily_loss" db:"daily_loss"`
}

// Коды причин блокировки ставки
const (
	ReasonStopLoss      = "STOP_LOSS"      // дневной stop-loss достигнут
	ReasonLowConfidence = "LOW_CONFIDENCE" // вероятность ниже минимального порога
	ReasonInvalidInput  = "INVALID_INPUT"  // вырожденные входные данные (odds <= 1, NaN/Inf)
)

// StakeDecision - результат оценки предложенной ставки
//
// Immutable после конструирования: вызывающая сторона трактует его как
// audit record одной оценки. Messages - упорядоченный список
// человекочитаемых пояснений (порядок проверок значим).
//
// Reason пустой для одобренных ставок; для заблокированных содержит
// один из кодов Reason*.
type StakeDecision struct {
	Approved bool     `json:"approved"`
	Stake    float64  `json:"stake"`
	Messages []string `json:"messages"`
	Reason   string   `json:"reason,omitempty"`
}

// BetDecisionRecord - строка журнала оценок ставок в БД
//
// Хранит входы вместе с решением, чтобы журнал был самодостаточным
// для последующего аудита.
type BetDecisionRecord struct {
	ID          int       `json:"id" db:"id"`
	Probability float64   `json:"probability" db:"probability"`
	Odds        float64   `json:"odds" db:"odds"`
	Approved    bool      `json:"approved" db:"approved"`
	Stake       float64   `json:"stake" db:"stake"`
	Reason      string    `json:"reason,omitempty" db:"reason"`
	Messages    []string  `json:"messages" db:"messages"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
