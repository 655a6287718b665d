package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"livebet/internal/models"
)

// Broadcaster - интерфейс рассылки обновлений WebSocket клиентам
//
// Реализуется пакетом internal/websocket/Hub
type Broadcaster interface {
	// BroadcastMatchUpdate отправляет изменение одного матча
	BroadcastMatchUpdate(event models.ChangeEvent)

	// BroadcastLiveMatches отправляет полный список live-матчей
	BroadcastLiveMatches(snapshots []models.MatchSnapshot)

	// BroadcastAnalytics отправляет текст аналитики по матчу
	BroadcastAnalytics(fixtureID int, text string)
}

// Notifier - интерфейс внешних уведомлений (Telegram)
type Notifier interface {
	NotifyGoal(ctx context.Context, event models.ChangeEvent) error
	NotifyAnalytics(ctx context.Context, match models.MatchSnapshot, analytics string) error
}

// Analyzer - интерфейс генерации аналитики по событию
type Analyzer interface {
	// AnalyzeChange возвращает текст аналитики; при любой ошибке
	// реализация обязана вернуть запасной текст, а не пустую строку
	AnalyzeChange(ctx context.Context, event models.ChangeEvent, stats []models.TeamStatistics) string
}

// StatsSource - источник статистики матча для аналитики
type StatsSource interface {
	FetchStatistics(ctx context.Context, fixtureID int) ([]models.TeamStatistics, error)
}

// EventStore - персистентное хранилище снимков матчей и текстов аналитики
type EventStore interface {
	UpsertMatch(ctx context.Context, m models.MatchSnapshot) error
	SaveAnalytics(ctx context.Context, fixtureID int, text string) error
}

// Dispatcher - веерная рассылка события изменения по приёмникам.
//
// Гарантии:
// - каждый приёмник получает событие ровно один раз за вызов Dispatch
// - приёмники работают параллельно, ошибка одного не трогает остальных
// - Dispatch возвращается только после завершения всех приёмников
type Dispatcher struct {
	broadcaster Broadcaster
	notifier    Notifier
	analyzer    Analyzer
	stats       StatsSource
	store       EventStore
	timeout     time.Duration
	log         *zap.Logger
}

// NewDispatcher создает диспетчер событий.
// Любой приёмник может быть nil - тогда соответствующая ветка пропускается.
func NewDispatcher(
	broadcaster Broadcaster,
	notifier Notifier,
	analyzer Analyzer,
	stats StatsSource,
	store EventStore,
	timeout time.Duration,
	log *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		broadcaster: broadcaster,
		notifier:    notifier,
		analyzer:    analyzer,
		stats:       stats,
		store:       store,
		timeout:     timeout,
		log:         log,
	}
}

// Dispatch доставляет событие всем приёмникам и ждёт их завершения
func (d *Dispatcher) Dispatch(ctx context.Context, event models.ChangeEvent) {
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var wg sync.WaitGroup

	// WebSocket рассылка (синхронная внутри hub, ошибок не возвращает)
	if d.broadcaster != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.broadcaster.BroadcastMatchUpdate(event)
		}()
	}

	// Telegram уведомление
	if d.notifier != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.notifier.NotifyGoal(ctx, event); err != nil {
				SinkErrors.WithLabelValues("telegram").Inc()
				d.log.Warn("telegram notification failed",
					zap.Int("fixture_id", event.FixtureID),
					zap.Error(err))
			}
		}()
	}

	// Сохранение текущего снимка
	if d.store != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.store.UpsertMatch(ctx, event.Current); err != nil {
				SinkErrors.WithLabelValues("repository").Inc()
				d.log.Warn("snapshot persistence failed",
					zap.Int("fixture_id", event.FixtureID),
					zap.Error(err))
			}
		}()
	}

	// Цепочка аналитики: статистика → генерация → рассылка → Telegram → сохранение.
	// Отдельные шаги деградируют, цепочка не прерывается.
	if d.analyzer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.runAnalytics(ctx, event)
		}()
	}

	wg.Wait()
	DispatchLatency.Observe(time.Since(started).Seconds())
}

// runAnalytics выполняет аналитическую цепочку для одного события
func (d *Dispatcher) runAnalytics(ctx context.Context, event models.ChangeEvent) {
	var stats []models.TeamStatistics
	if d.stats != nil {
		fetched, err := d.stats.FetchStatistics(ctx, event.FixtureID)
		if err != nil {
			// аналитика пойдёт без статистики
			d.log.Warn("statistics fetch failed",
				zap.Int("fixture_id", event.FixtureID),
				zap.Error(err))
		} else {
			stats = fetched
		}
	}

	text := d.analyzer.AnalyzeChange(ctx, event, stats)
	if text == "" {
		return
	}

	if d.broadcaster != nil {
		d.broadcaster.BroadcastAnalytics(event.FixtureID, text)
	}

	if d.notifier != nil {
		if err := d.notifier.NotifyAnalytics(ctx, event.Current, text); err != nil {
			SinkErrors.WithLabelValues("telegram").Inc()
			d.log.Warn("analytics notification failed",
				zap.Int("fixture_id", event.FixtureID),
				zap.Error(err))
		}
	}

	if d.store != nil {
		if err := d.store.SaveAnalytics(ctx, event.FixtureID, text); err != nil {
			SinkErrors.WithLabelValues("repository").Inc()
			d.log.Warn("analytics persistence failed",
				zap.Int("fixture_id", event.FixtureID),
				zap.Error(err))
		}
	}
}
