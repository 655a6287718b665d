package api

import (
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"livebet/internal/api/handlers"
	"livebet/internal/api/middleware"
	"livebet/internal/service"
	"livebet/internal/websocket"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	MatchService *service.MatchService
	BetService   *service.BetService
	Hub          *websocket.Hub
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Структура маршрутов:
//
// /api/v1/
//
//	├── /matches/
//	│   ├── GET /live              - текущие live-матчи
//	│   ├── GET /today             - матчи на сегодня
//	│   ├── GET /{id}              - матч по id фикстуры
//	│   ├── GET /{id}/statistics   - статистика команд
//	│   ├── GET /{id}/events       - события матча
//	│   ├── GET /{id}/odds         - котировки букмекеров
//	│   ├── GET /{id}/analytics    - сохранённая аналитика
//	│   └── POST /{id}/prediction  - генерация AI-прогноза
//	├── /bets/
//	│   ├── POST /evaluate         - оценка ставки риск-движком
//	│   └── GET /decisions         - журнал решений
//	└── /bankroll/
//	    ├── GET /                  - состояние банкролла
//	    ├── POST /loss             - фиксация убытка
//	    └── POST /reset-day        - дневной rollover
//
// /ws/stream  - WebSocket для real-time обновлений
// /health     - health check
// /metrics    - Prometheus метрики
// /debug/     - pprof (за DebugAuth)
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
// 4. DebugAuth (только для /debug)
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Match routes
	if deps != nil && deps.MatchService != nil {
		matchHandler := handlers.NewMatchHandler(deps.MatchService)
		api.HandleFunc("/matches/live", matchHandler.GetLive).Methods("GET")
		api.HandleFunc("/matches/today", matchHandler.GetToday).Methods("GET")
		api.HandleFunc("/matches/{id}", matchHandler.GetMatch).Methods("GET")
		api.HandleFunc("/matches/{id}/statistics", matchHandler.GetStatistics).Methods("GET")
		api.HandleFunc("/matches/{id}/events", matchHandler.GetEvents).Methods("GET")
		api.HandleFunc("/matches/{id}/odds", matchHandler.GetOdds).Methods("GET")
		api.HandleFunc("/matches/{id}/analytics", matchHandler.GetAnalytics).Methods("GET")
		api.HandleFunc("/matches/{id}/prediction", matchHandler.GeneratePrediction).Methods("POST")
	}

	// Bet and bankroll routes
	if deps != nil && deps.BetService != nil {
		betHandler := handlers.NewBetHandler(deps.BetService)
		api.HandleFunc("/bets/evaluate", betHandler.EvaluateBet).Methods("POST")
		api.HandleFunc("/bets/decisions", betHandler.GetDecisions).Methods("GET")

		bankrollHandler := handlers.NewBankrollHandler(deps.BetService)
		api.HandleFunc("/bankroll", bankrollHandler.GetBankroll).Methods("GET")
		api.HandleFunc("/bankroll/loss", bankrollHandler.RegisterLoss).Methods("POST")
		api.HandleFunc("/bankroll/reset-day", bankrollHandler.ResetDay).Methods("POST")
	}

	// WebSocket route
	if deps != nil && deps.Hub != nil {
		hub := deps.Hub
		router.HandleFunc("/ws/stream", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(hub, w, r)
		})
	}

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Prometheus метрики
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// pprof за basic auth
	debug := router.PathPrefix("/debug").Subrouter()
	debug.Use(middleware.DebugAuth)
	debug.HandleFunc("/pprof/", pprof.Index)
	debug.HandleFunc("/pprof/cmdline", pprof.Cmdline)
	debug.HandleFunc("/pprof/profile", pprof.Profile)
	debug.HandleFunc("/pprof/symbol", pprof.Symbol)
	debug.HandleFunc("/pprof/trace", pprof.Trace)
	debug.PathPrefix("/pprof/").Handler(http.HandlerFunc(pprof.Index))

	return router
}
