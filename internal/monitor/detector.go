package monitor

import "livebet/internal/models"

// DetectChange сравнивает предыдущий и текущий снимки одного матча
// и возвращает событие, если изменился счёт.
//
// Сравниваются ТОЛЬКО голы: изменения минуты, статуса и прочих полей
// событием не считаются. Уменьшение счёта (отмена гола после VAR) -
// тоже изменение, клиенты должны узнать об откате.
func DetectChange(prev, curr models.MatchSnapshot) (models.ChangeEvent, bool) {
	if prev.HomeGoals == curr.HomeGoals && prev.AwayGoals == curr.AwayGoals {
		return models.ChangeEvent{}, false
	}

	return models.ChangeEvent{
		FixtureID: curr.FixtureID,
		Kind:      models.ChangeKindScore,
		Previous:  prev,
		Current:   curr,
	}, true
}
