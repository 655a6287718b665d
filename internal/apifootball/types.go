package apifootball

import (
	"encoding/json"
	"fmt"
	"time"

	"livebet/internal/models"
)

// types.go - структуры payload'ов API-Football v3
//
// Провайдер возвращает обёртку {response: [...]} с массивом fixture-объектов.
// Ядро интерпретирует только фиксированное подмножество полей; исходный
// JSON элемента проносится в MatchSnapshot.Raw без изменений.

// envelope - общая обёртка ответов API-Football
type envelope struct {
	Results  int               `json:"results"`
	Errors   json.RawMessage   `json:"errors"`
	Response []json.RawMessage `json:"response"`
}

// fixtureItem - один элемент response массива /fixtures
type fixtureItem struct {
	Fixture struct {
		ID     int    `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short   string `json:"short"`
			Long    string `json:"long"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

// statisticsItem - один элемент response массива /fixtures/statistics
type statisticsItem struct {
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
	Statistics []struct {
		Type  string      `json:"type"`
		Value interface{} `json:"value"`
	} `json:"statistics"`
}

// toSnapshot преобразует fixture провайдера в снапшот ядра.
//
// raw - исходный JSON элемента, проносится как opaque blob.
// nil-поля провайдера (матч не начался) сводятся к нулям.
func (f fixtureItem) toSnapshot(raw json.RawMessage) models.MatchSnapshot {
	snap := models.MatchSnapshot{
		FixtureID: f.Fixture.ID,
		League:    f.League.Name,
		HomeTeam:  f.Teams.Home.Name,
		AwayTeam:  f.Teams.Away.Name,
		Status:    f.Fixture.Status.Short,
		Raw:       raw,
	}

	if f.Goals.Home != nil {
		snap.HomeGoals = *f.Goals.Home
	}
	if f.Goals.Away != nil {
		snap.AwayGoals = *f.Goals.Away
	}
	if f.Fixture.Status.Elapsed != nil {
		snap.Elapsed = *f.Fixture.Status.Elapsed
	}

	if f.Fixture.Date != "" {
		if t, err := time.Parse(time.RFC3339, f.Fixture.Date); err == nil {
			snap.KickoffAt = t
		}
	}

	return snap
}

// toStatistics преобразует статистику провайдера в модель ядра.
//
// Значения провайдера неоднородны (числа, проценты строками, null) -
// нормализуются в строки, интерпретация остаётся за аналитикой.
func (s statisticsItem) toStatistics() models.TeamStatistics {
	out := models.TeamStatistics{
		TeamName:   s.Team.Name,
		Statistics: make(map[string]string, len(s.Statistics)),
	}

	for _, st := range s.Statistics {
		if st.Value == nil {
			continue
		}
		out.Statistics[st.Type] = fmt.Sprintf("%v", st.Value)
	}

	return out
}
