package risk

import (
	"fmt"

	"livebet/internal/config"
	"livebet/internal/models"
	"livebet/pkg/utils"
)

// Engine - детерминированный расчёт размера ставки по критерию Келли
// с защитными ограничениями банкролла.
//
// Evaluate - чистая функция: никакого I/O, никаких блокировок, никакого
// скрытого состояния. Всё состояние банкролла приходит аргументом, все
// пороги - из конфигурации. Это позволяет вызывать движок из любого
// обработчика (REST, WebSocket, бот) с одинаковой семантикой.
type Engine struct {
	cfg config.RiskConfig
}

// NewEngine создает движок с порогами из конфигурации
func NewEngine(cfg config.RiskConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Evaluate оценивает ставку и возвращает решение.
//
// Порядок проверок фиксирован и значим:
//  1. Дневной стоп-лосс - блокирует всё остальное, вероятность и
//     коэффициент даже не рассматриваются
//  2. Вырожденный вход (odds <= 1, NaN/Inf) - безопасный нулевой результат,
//     NaN никогда не попадает в решение
//  3. Дробный Келли: (p*odds - 1) / (odds - 1) * fraction * bankrollCurrent
//  4. Ограничение: [MinStake, MaxStakePct * bankrollTotal]
//  5. Порог уверенности - может наложить вето ПОСЛЕ расчёта ставки,
//     поэтому заблокированное решение всё равно несёт рассчитанную сумму
func (e *Engine) Evaluate(probability, odds float64, state models.Bankroll) models.StakeDecision {
	// 1. Стоп-лосс
	if state.DailyLoss >= state.Total*e.cfg.StopLossPct {
		return models.StakeDecision{
			Approved: false,
			Stake:    0,
			Reason:   models.ReasonStopLoss,
			Messages: []string{"daily stop-loss reached"},
		}
	}

	// 2. Вырожденный вход: формула Келли не определена при odds <= 1,
	// не-конечные входы дали бы NaN в каждой ветке ниже
	if utils.ValidateProbability(probability) != nil || utils.ValidateOdds(odds) != nil {
		return models.StakeDecision{
			Approved: false,
			Stake:    0,
			Reason:   models.ReasonInvalidInput,
			Messages: []string{"invalid probability or odds"},
		}
	}

	// 3. Дробный Келли
	kellyFraction := (probability*odds - 1) / (odds - 1)
	rawStake := kellyFraction * e.cfg.KellyFraction * state.Current

	// 4. Ограничение: нижняя граница даёт действенную рекомендацию
	// вместо пыли, верхняя - жёсткий потолок на одну ставку
	maxStake := state.Total * e.cfg.MaxStakePct
	stake := utils.Round2(utils.Clamp(rawStake, e.cfg.MinStake, maxStake))

	var messages []string
	if rawStake > maxStake {
		messages = append(messages,
			fmt.Sprintf("stake capped: %.2f -> %.2f", rawStake, maxStake))
	}

	// 5. Вето по уверенности: ставка уже рассчитана и остаётся в решении
	// для аудита
	if probability < e.cfg.MinProbability {
		return models.StakeDecision{
			Approved: false,
			Stake:    stake,
			Reason:   models.ReasonLowConfidence,
			Messages: append(messages, "probability below minimum confidence"),
		}
	}

	return models.StakeDecision{
		Approved: true,
		Stake:    stake,
		Messages: append(messages, "approved"),
	}
}
