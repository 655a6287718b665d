package utils

import (
	"errors"
	"fmt"
)

// validator.go - валидация входных данных
//
// Назначение:
// Проверка корректности данных, приходящих с внешних поверхностей
// (REST API, чат-боты), до того как они попадут в риск-движок.
//
// Возвращает error с описанием проблемы или nil.

// Ошибки валидации
var (
	ErrProbabilityNotFinite = errors.New("probability must be a finite number")
	ErrProbabilityRange     = errors.New("probability must be in [0, 1]")
	ErrOddsNotFinite        = errors.New("odds must be a finite number")
	ErrOddsRange            = errors.New("odds must be greater than 1")
	ErrFixtureID            = errors.New("fixture id must be positive")
)

// ValidateProbability проверяет вероятность исхода.
//
// Допустимый диапазон [0, 1]; NaN/Inf отклоняются.
func ValidateProbability(probability float64) error {
	if !IsFinite(probability) {
		return ErrProbabilityNotFinite
	}
	if probability < 0 || probability > 1 {
		return fmt.Errorf("%w, got %v", ErrProbabilityRange, probability)
	}
	return nil
}

// ValidateOdds проверяет десятичный коэффициент.
//
// Коэффициент должен быть конечным и строго больше 1:
// при odds <= 1 формула Kelly вырождается.
func ValidateOdds(odds float64) error {
	if !IsFinite(odds) {
		return ErrOddsNotFinite
	}
	if odds <= 1 {
		return fmt.Errorf("%w, got %v", ErrOddsRange, odds)
	}
	return nil
}

// ValidateFixtureID проверяет идентификатор матча
func ValidateFixtureID(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w, got %d", ErrFixtureID, id)
	}
	return nil
}
