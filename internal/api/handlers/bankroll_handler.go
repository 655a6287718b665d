package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"livebet/internal/service"
)

// BankrollHandler отвечает за состояние банкролла
//
// Endpoints:
// - GET  /api/v1/bankroll           - текущее состояние
// - POST /api/v1/bankroll/loss      - фиксация убытка от фида расчётов
// - POST /api/v1/bankroll/reset-day - дневной rollover
type BankrollHandler struct {
	betService BetServiceInterface
}

// NewBankrollHandler создает новый BankrollHandler с внедрением зависимостей
func NewBankrollHandler(betService BetServiceInterface) *BankrollHandler {
	return &BankrollHandler{
		betService: betService,
	}
}

// GetBankroll возвращает текущее состояние банкролла
// GET /api/v1/bankroll
func (h *BankrollHandler) GetBankroll(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.betService.Bankroll())
}

// RegisterLossRequest структура запроса на фиксацию убытка
type RegisterLossRequest struct {
	Amount float64 `json:"amount"`
}

// RegisterLoss фиксирует реализованный убыток торгового дня
// POST /api/v1/bankroll/loss
func (h *BankrollHandler) RegisterLoss(w http.ResponseWriter, r *http.Request) {
	var req RegisterLossRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.betService.RegisterLoss(r.Context(), req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLossAmount) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// ResetDay обнуляет дневной счётчик убытков
// POST /api/v1/bankroll/reset-day
func (h *BankrollHandler) ResetDay(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.betService.ResetDay())
}
