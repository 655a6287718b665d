package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики мониторинга live-матчей
// ============================================================
//
// Использование:
// - Grafana дашборды (частота тиков, латентность рассылки)
// - Alertmanager: алерты на рост fetch_errors_total и sink_errors_total

// ============ Счётчики цикла опроса ============

// TicksTotal - количество выполненных тиков опроса
var TicksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "livebet",
		Subsystem: "monitor",
		Name:      "ticks_total",
		Help:      "Total number of completed poll ticks",
	},
)

// TicksSkipped - тики, пропущенные из-за незавершённого предыдущего
var TicksSkipped = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "livebet",
		Subsystem: "monitor",
		Name:      "ticks_skipped_total",
		Help:      "Number of poll ticks skipped because the previous tick was still running",
	},
)

// FetchErrors - ошибки запросов к провайдеру данных
var FetchErrors = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "livebet",
		Subsystem: "monitor",
		Name:      "fetch_errors_total",
		Help:      "Total number of failed live fixtures fetches",
	},
)

// ============ Счётчики изменений ============

// ChangesDetected - обнаруженные изменения по типам
var ChangesDetected = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "livebet",
		Subsystem: "monitor",
		Name:      "changes_detected_total",
		Help:      "Total number of detected match changes",
	},
	[]string{"kind"}, // score_change
)

// SinkErrors - ошибки доставки в приёмники (не прерывают рассылку)
var SinkErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "livebet",
		Subsystem: "monitor",
		Name:      "sink_errors_total",
		Help:      "Number of sink delivery failures by sink name",
	},
	[]string{"sink"}, // websocket, telegram, analytics, repository
)

// DispatchLatency - время полной рассылки одного изменения
var DispatchLatency = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "livebet",
		Subsystem: "monitor",
		Name:      "dispatch_latency_seconds",
		Help:      "Time to deliver one change event to all sinks",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
	},
)

// ============ Метрики состояния ============

// TrackedMatches - количество матчей в кэше состояний
var TrackedMatches = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "livebet",
		Subsystem: "monitor",
		Name:      "tracked_matches",
		Help:      "Current number of matches in the snapshot cache",
	},
)

// CacheEvictions - вытеснения из кэша по причинам
var CacheEvictions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "livebet",
		Subsystem: "monitor",
		Name:      "cache_evictions_total",
		Help:      "Number of snapshot cache evictions",
	},
	[]string{"reason"}, // finished, ttl
)
