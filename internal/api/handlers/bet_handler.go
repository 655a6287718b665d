package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"livebet/internal/models"
	"livebet/internal/service"
)

// BetHandler отвечает за оценку ставок
//
// Endpoints:
// - POST /api/v1/bets/evaluate  - оценка ставки риск-движком
// - GET  /api/v1/bets/decisions - журнал принятых решений
type BetHandler struct {
	betService BetServiceInterface
}

// NewBetHandler создает новый BetHandler с внедрением зависимостей
func NewBetHandler(betService BetServiceInterface) *BetHandler {
	return &BetHandler{
		betService: betService,
	}
}

// EvaluateBetRequest структура запроса на оценку ставки
type EvaluateBetRequest struct {
	Probability float64 `json:"probability"` // оценка вероятности исхода [0..1]
	Odds        float64 `json:"odds"`        // десятичный коэффициент
}

// EvaluateBet оценивает предложенную ставку
// POST /api/v1/bets/evaluate
//
// Некорректные числа не отклоняются на уровне HTTP: риск-движок
// возвращает для них структурированный отказ с нулевой ставкой.
func (h *BetHandler) EvaluateBet(w http.ResponseWriter, r *http.Request) {
	var req EvaluateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decision := h.betService.EvaluateBet(r.Context(), req.Probability, req.Odds)
	respondJSON(w, http.StatusOK, decision)
}

// decisionsResponse структура ответа с журналом решений
type decisionsResponse struct {
	Decisions []models.BetDecisionRecord `json:"decisions"`
	Total     int                        `json:"total"`
}

// GetDecisions возвращает последние решения из журнала аудита
// GET /api/v1/bets/decisions?limit=N
func (h *BetHandler) GetDecisions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	decisions, err := h.betService.Decisions(r.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLimit) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if decisions == nil {
		decisions = []models.BetDecisionRecord{}
	}
	respondJSON(w, http.StatusOK, decisionsResponse{Decisions: decisions, Total: len(decisions)})
}
