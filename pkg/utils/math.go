package utils

import (
	"math"
)

// math.go - математические утилиты для расчёта ставок
//
// Назначение:
// Вспомогательные функции для работы с вероятностями, коэффициентами
// и денежными суммами. Все функции являются чистыми (pure functions)
// без побочных эффектов.
//
// Функции:
// - Round2: округление денежной суммы до копеек
// - ImpliedProbability: вероятность, заложенная в коэффициент
// - FairOdds: справедливый коэффициент для вероятности
// - Clamp / Min / Max / Abs: примитивы ограничения диапазонов
// - IsFinite: защита от NaN/Inf во входных данных

// Round2 округляет денежную сумму до двух знаков после запятой.
//
// Используется для рекомендуемых ставок и журнала решений:
// наружу никогда не отдаётся сумма с хвостом плавающей точки.
//
// Примеры:
//   - Round2(53.125) = 53.13
//   - Round2(10.004) = 10.0
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// ImpliedProbability возвращает вероятность, заложенную букмекером
// в десятичный коэффициент.
//
// implied = 1 / odds
//
// Для odds <= 1 коэффициент вырожден - возвращается 0.
func ImpliedProbability(odds float64) float64 {
	if odds <= 1 || !IsFinite(odds) {
		return 0
	}
	return 1 / odds
}

// FairOdds возвращает справедливый десятичный коэффициент
// для заданной вероятности.
//
// Для вероятности вне (0, 1] возвращается 0.
func FairOdds(probability float64) float64 {
	if probability <= 0 || probability > 1 || !IsFinite(probability) {
		return 0
	}
	return 1 / probability
}

// IsFinite сообщает, является ли значение конечным числом.
//
// NaN и ±Inf из арифметики с вырожденными коэффициентами не должны
// просачиваться в решения по ставкам.
func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// Abs возвращает абсолютное значение
func Abs(x float64) float64 {
	return math.Abs(x)
}

// Min возвращает меньшее из двух значений
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max возвращает большее из двух значений
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Clamp ограничивает значение диапазоном [min, max]
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
