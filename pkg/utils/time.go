package utils

import (
	"fmt"
	"time"
)

// time.go - утилиты для работы со временем
//
// Назначение:
// Границы торгового дня для daily rollover счётчика убытков
// и форматирование длительностей для уведомлений.
//
// Торговый день считается в UTC: stop-loss счётчик сбрасывается
// внешним триггером на границе дня.

// GetDayStart возвращает начало текущего торгового дня (00:00:00 UTC)
func GetDayStart() time.Time {
	return GetDayStartFrom(time.Now().UTC())
}

// GetDayStartFrom возвращает начало торгового дня для указанного времени
func GetDayStartFrom(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetDayEnd возвращает конец текущего торгового дня (23:59:59.999999999 UTC)
func GetDayEnd() time.Time {
	return GetDayEndFrom(time.Now().UTC())
}

// GetDayEndFrom возвращает конец торгового дня для указанного времени
func GetDayEndFrom(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, time.UTC)
}

// NextDayStartFrom возвращает начало следующего торгового дня.
//
// Используется для планирования автоматического daily rollover.
func NextDayStartFrom(t time.Time) time.Time {
	return GetDayStartFrom(t).Add(24 * time.Hour)
}

// SameTradingDay сообщает, относятся ли два момента к одному торговому дню
func SameTradingDay(a, b time.Time) bool {
	return GetDayStartFrom(a).Equal(GetDayStartFrom(b))
}

// FormatDuration форматирует длительность в человекочитаемый вид
// для уведомлений и логов.
//
// Примеры:
//   - 45s   -> "45s"
//   - 150s  -> "2m30s"
//   - 7320s -> "2h2m"
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%dm", h, m)
}
