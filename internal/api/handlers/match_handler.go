package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"livebet/internal/models"
	"livebet/internal/repository"
	"livebet/internal/service"
	"livebet/pkg/utils"
)

// MatchHandler отвечает за выдачу данных о матчах
//
// Endpoints:
// - GET  /api/v1/matches/live              - текущие live-матчи
// - GET  /api/v1/matches/today             - матчи на сегодня
// - GET  /api/v1/matches/{id}              - матч по id фикстуры
// - GET  /api/v1/matches/{id}/statistics   - статистика команд
// - GET  /api/v1/matches/{id}/events       - события матча
// - GET  /api/v1/matches/{id}/odds         - котировки букмекеров
// - GET  /api/v1/matches/{id}/analytics    - сохранённая аналитика
// - POST /api/v1/matches/{id}/prediction   - генерация AI-прогноза
type MatchHandler struct {
	matchService MatchServiceInterface
}

// NewMatchHandler создает новый MatchHandler с внедрением зависимостей
func NewMatchHandler(matchService MatchServiceInterface) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

// matchListResponse структура ответа со списком матчей
type matchListResponse struct {
	Matches []models.MatchSnapshot `json:"matches"`
	Total   int                    `json:"total"`
}

// GetLive возвращает текущие live-матчи
// GET /api/v1/matches/live
func (h *MatchHandler) GetLive(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchService.Live(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "live matches unavailable")
		return
	}
	if matches == nil {
		matches = []models.MatchSnapshot{}
	}
	respondJSON(w, http.StatusOK, matchListResponse{Matches: matches, Total: len(matches)})
}

// GetToday возвращает матчи на сегодня
// GET /api/v1/matches/today
func (h *MatchHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchService.Today(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "today matches unavailable")
		return
	}
	if matches == nil {
		matches = []models.MatchSnapshot{}
	}
	respondJSON(w, http.StatusOK, matchListResponse{Matches: matches, Total: len(matches)})
}

// GetMatch возвращает матч по идентификатору фикстуры
// GET /api/v1/matches/{id}
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	fixtureID, ok := fixtureIDFromRequest(w, r)
	if !ok {
		return
	}

	match, err := h.matchService.GetByID(r.Context(), fixtureID)
	if err != nil {
		if errors.Is(err, service.ErrMatchNotFound) {
			respondError(w, http.StatusNotFound, "match not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, match)
}

// GetStatistics возвращает статистику команд по матчу
// GET /api/v1/matches/{id}/statistics
func (h *MatchHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	fixtureID, ok := fixtureIDFromRequest(w, r)
	if !ok {
		return
	}

	stats, err := h.matchService.Statistics(r.Context(), fixtureID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "statistics unavailable")
		return
	}
	if stats == nil {
		stats = []models.TeamStatistics{}
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetEvents возвращает события матча (голы, карточки, замены)
// GET /api/v1/matches/{id}/events
func (h *MatchHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	fixtureID, ok := fixtureIDFromRequest(w, r)
	if !ok {
		return
	}

	events, err := h.matchService.Events(r.Context(), fixtureID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "events unavailable")
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// GetOdds возвращает котировки букмекеров по матчу
// GET /api/v1/matches/{id}/odds
func (h *MatchHandler) GetOdds(w http.ResponseWriter, r *http.Request) {
	fixtureID, ok := fixtureIDFromRequest(w, r)
	if !ok {
		return
	}

	odds, err := h.matchService.Odds(r.Context(), fixtureID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "odds unavailable")
		return
	}
	respondJSON(w, http.StatusOK, odds)
}

// GetAnalytics возвращает последнюю сохранённую аналитику по матчу
// GET /api/v1/matches/{id}/analytics
func (h *MatchHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	fixtureID, ok := fixtureIDFromRequest(w, r)
	if !ok {
		return
	}

	rec, err := h.matchService.Analytics(r.Context(), fixtureID)
	if err != nil {
		if errors.Is(err, repository.ErrAnalyticsNotFound) {
			respondError(w, http.StatusNotFound, "no analytics for this match")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// GeneratePrediction генерирует AI-прогноз на матч
// POST /api/v1/matches/{id}/prediction
func (h *MatchHandler) GeneratePrediction(w http.ResponseWriter, r *http.Request) {
	fixtureID, ok := fixtureIDFromRequest(w, r)
	if !ok {
		return
	}

	prediction, err := h.matchService.GeneratePrediction(r.Context(), fixtureID)
	if err != nil {
		if errors.Is(err, service.ErrMatchNotFound) {
			respondError(w, http.StatusNotFound, "match not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fixture_id": fixtureID,
		"prediction": prediction,
	})
}

// fixtureIDFromRequest извлекает и валидирует id фикстуры из URL
func fixtureIDFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	fixtureID, err := strconv.Atoi(vars["id"])
	if err != nil || utils.ValidateFixtureID(fixtureID) != nil {
		respondError(w, http.StatusBadRequest, "invalid fixture id")
		return 0, false
	}
	return fixtureID, true
}
