package models

import (
	"encoding/json"
	"time"
)

// MatchSnapshot - состояние одного live-матча на момент опроса провайдера
//
// Immutable value: создаётся gateway'ем один раз за tick и дальше
// не изменяется. Сравнивается структурно (по счёту), никогда не мутируется.
//
// Ядро интерпретирует только фиксированное подмножество полей
// (id, счёт, статус, минута); всё остальное от провайдера проносится
// как opaque blob в Raw, чтобы кэш и детектор не зависели от формы
// payload конкретного upstream'а.
type MatchSnapshot struct {
	FixtureID int    `json:"fixture_id" db:"fixture_id"`
	League    string `json:"league" db:"league"`
	HomeTeam  string `json:"home_team" db:"home_team"`
	AwayTeam  string `json:"away_team" db:"away_team"`
	HomeGoals int    `json:"home_goals" db:"home_goals"`
	AwayGoals int    `json:"away_goals" db:"away_goals"`

	// Status - короткий код статуса провайдера (1H, HT, 2H, ET, FT, ...)
	Status string `json:"status" db:"status"`

	// Elapsed - игровая минута (0 если матч ещё не начался)
	Elapsed int `json:"elapsed" db:"elapsed"`

	// KickoffAt - запланированное время начала матча
	KickoffAt time.Time `json:"kickoff_at" db:"kickoff_at"`

	// Raw - полный payload провайдера без интерпретации.
	// Нужен фронтенду и аналитике, ядро в него не заглядывает.
	Raw json.RawMessage `json:"raw,omitempty" db:"raw"`
}

// Короткие коды статусов API-Football, после которых матч считается
// завершённым и его запись в кэше подлежит вытеснению
const (
	StatusFullTime    = "FT"   // основное время завершено
	StatusExtraTime   = "AET"  // завершён после дополнительного времени
	StatusPenalties   = "PEN"  // завершён по пенальти
	StatusCancelled   = "CANC" // отменён
	StatusAbandoned   = "ABD"  // прерван
	StatusAwarded     = "AWD"  // техническое решение
	StatusWalkover    = "WO"   // неявка
)

// terminalStatuses - статусы, после которых новых снапшотов не будет
var terminalStatuses = map[string]bool{
	StatusFullTime:  true,
	StatusExtraTime: true,
	StatusPenalties: true,
	StatusCancelled: true,
	StatusAbandoned: true,
	StatusAwarded:   true,
	StatusWalkover:  true,
}

// IsFinished сообщает, находится ли матч в терминальном статусе
func (s MatchSnapshot) IsFinished() bool {
	return terminalStatuses[s.Status]
}

// ChangeKind - тип обнаруженного перехода между снапшотами
type ChangeKind string

const (
	// ChangeKindScore - изменился счёт (гол у любой из команд).
	// Единственный notification-worthy переход: статус и минута
	// меняются каждый опрос и затопили бы все sink'и.
	ChangeKindScore ChangeKind = "score_change"
)

// ChangeEvent - notification-worthy переход между двумя последовательными
// снапшотами одного матча
//
// Инвариант: конструируется только когда для fixture есть и предыдущий,
// и текущий снапшот. Первое наблюдение нового матча события не производит -
// нет baseline для сравнения.
//
// Ephemeral: живёт в пределах одного tick'а, нигде не сохраняется.
type ChangeEvent struct {
	FixtureID int           `json:"fixture_id"`
	Kind      ChangeKind    `json:"kind"`
	Previous  MatchSnapshot `json:"previous"`
	Current   MatchSnapshot `json:"current"`
}

// TeamStatistics - статистика одной команды в матче (от провайдера)
//
// Используется как вход для AI-аналитики; ядро значения не интерпретирует.
type TeamStatistics struct {
	TeamName   string            `json:"team_name"`
	Statistics map[string]string `json:"statistics"`
}

// AnalyticsRecord - сохранённый текст аналитики или прогноза по матчу
type AnalyticsRecord struct {
	ID        int64     `json:"id" db:"id"`
	FixtureID int       `json:"fixture_id" db:"fixture_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
