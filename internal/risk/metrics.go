package risk

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики ставочного движка
// ============================================================

// BetEvaluations - результаты оценки ставок
var BetEvaluations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "livebet",
		Subsystem: "risk",
		Name:      "bet_evaluations_total",
		Help:      "Total number of stake evaluations by outcome",
	},
	[]string{"outcome"}, // approved, stop_loss, low_confidence, invalid_input
)

// StopLossActive - флаг активного дневного стоп-лосса
var StopLossActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "livebet",
		Subsystem: "risk",
		Name:      "stop_loss_active",
		Help:      "Whether the daily stop-loss is currently engaged (1=engaged)",
	},
)
