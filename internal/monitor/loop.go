package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"livebet/internal/config"
	"livebet/internal/models"
)

// LiveSource - источник live-снимков матчей
//
// Реализуется пакетом internal/apifootball/Client
type LiveSource interface {
	FetchLive(ctx context.Context) ([]models.MatchSnapshot, error)
}

// Monitor - цикл наблюдения за live-матчами.
//
// Каждые PollInterval секунд запрашивает текущие матчи, сравнивает со
// снимками из кэша и веером рассылает обнаруженные изменения счёта.
//
// Гарантии цикла:
// - тики не накладываются: если предыдущий не завершён, новый пропускается
// - ошибка запроса пропускает тик целиком, кэш остаётся нетронутым
// - завершённые матчи вытесняются из кэша сразу после финального тика
// - после всех индивидуальных событий клиентам уходит полный список матчей
type Monitor struct {
	source     LiveSource
	cache      *SnapshotCache
	dispatcher *Dispatcher

	pollInterval  time.Duration
	fetchTimeout  time.Duration
	sweepInterval time.Duration

	// 1 = тик выполняется прямо сейчас
	tickInFlight int32

	shutdown chan struct{}
	stopped  int32

	log *zap.Logger
}

// NewMonitor создает монитор с параметрами из конфигурации
func NewMonitor(cfg config.MonitorConfig, source LiveSource, dispatcher *Dispatcher, log *zap.Logger) *Monitor {
	return &Monitor{
		source:        source,
		cache:         NewSnapshotCache(cfg.CacheTTL),
		dispatcher:    dispatcher,
		pollInterval:  cfg.PollInterval,
		fetchTimeout:  cfg.FetchTimeout,
		sweepInterval: cfg.CacheTTL / 2,
		shutdown:      make(chan struct{}),
		log:           log,
	}
}

// Run запускает цикл опроса. Блокирует до Stop() или отмены контекста.
// Первый тик выполняется сразу, не дожидаясь первого срабатывания тикера.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info("live monitor started",
		zap.Duration("poll_interval", m.pollInterval),
		zap.Duration("fetch_timeout", m.fetchTimeout))

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	sweeper := time.NewTicker(m.sweepInterval)
	defer sweeper.Stop()

	m.runTick(ctx)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("live monitor stopped", zap.String("reason", "context cancelled"))
			return ctx.Err()
		case <-m.shutdown:
			m.log.Info("live monitor stopped", zap.String("reason", "shutdown requested"))
			return nil
		case <-ticker.C:
			m.runTick(ctx)
		case <-sweeper.C:
			if evicted := m.cache.Sweep(); evicted > 0 {
				CacheEvictions.WithLabelValues("ttl").Add(float64(evicted))
				TrackedMatches.Set(float64(m.cache.Len()))
				m.log.Info("stale snapshots evicted", zap.Int("count", evicted))
			}
		}
	}
}

// Stop останавливает цикл. Не блокирует: выполняющийся тик завершается сам.
// Повторные вызовы безопасны.
func (m *Monitor) Stop() {
	if atomic.CompareAndSwapInt32(&m.stopped, 0, 1) {
		close(m.shutdown)
	}
}

// runTick выполняет один тик опроса, если предыдущий уже завершён
func (m *Monitor) runTick(ctx context.Context) {
	// Защита от наложения тиков: медленный тик не ставит следующие в
	// очередь, они просто пропускаются
	if !atomic.CompareAndSwapInt32(&m.tickInFlight, 0, 1) {
		TicksSkipped.Inc()
		m.log.Warn("poll tick skipped, previous still running")
		return
	}
	defer atomic.StoreInt32(&m.tickInFlight, 0)

	fetchCtx, cancel := context.WithTimeout(ctx, m.fetchTimeout)
	snapshots, err := m.source.FetchLive(fetchCtx)
	cancel()

	if err != nil {
		// Тик пропускается целиком: кэш не трогаем, чтобы после
		// восстановления провайдера не разослать дубли
		FetchErrors.Inc()
		m.log.Error("live fixtures fetch failed", zap.Error(err))
		return
	}

	TicksTotal.Inc()

	for _, curr := range snapshots {
		m.processSnapshot(ctx, curr)
	}

	TrackedMatches.Set(float64(m.cache.Len()))

	// Полное обновление после индивидуальных событий: клиент, собравший
	// оба типа сообщений, никогда не видит список старше последнего события.
	// Уходит список этого тика в порядке ответа провайдера, без завершённых
	if m.dispatcher != nil && m.dispatcher.broadcaster != nil {
		live := make([]models.MatchSnapshot, 0, len(snapshots))
		for _, s := range snapshots {
			if !s.IsFinished() {
				live = append(live, s)
			}
		}
		m.dispatcher.broadcaster.BroadcastLiveMatches(live)
	}
}

// processSnapshot сравнивает снимок с кэшем и рассылает изменение
func (m *Monitor) processSnapshot(ctx context.Context, curr models.MatchSnapshot) {
	prev, known := m.cache.Get(curr.FixtureID)

	// Первое появление матча - базовая линия, событие не создаётся:
	// иначе каждый рестарт сервиса рассылал бы "гол" за уже известный счёт
	if known {
		if event, changed := DetectChange(prev, curr); changed {
			ChangesDetected.WithLabelValues(string(event.Kind)).Inc()
			m.log.Info("score change detected",
				zap.Int("fixture_id", curr.FixtureID),
				zap.String("match", curr.HomeTeam+" - "+curr.AwayTeam),
				zap.Int("home_goals", curr.HomeGoals),
				zap.Int("away_goals", curr.AwayGoals))

			if m.dispatcher != nil {
				// Доставка отвязана от контекста цикла: остановка
				// сервиса не обрывает уже начатые рассылки, их
				// ограничивает собственный таймаут диспетчера
				m.dispatcher.Dispatch(context.WithoutCancel(ctx), event)
			}
		}
	}

	if curr.IsFinished() {
		// Финальный тик обработан - матч больше не отслеживается
		m.cache.Delete(curr.FixtureID)
		CacheEvictions.WithLabelValues("finished").Inc()
		return
	}

	m.cache.Put(curr)
}

// LiveSnapshots возвращает текущее содержимое кэша (для REST и WS-подключений)
func (m *Monitor) LiveSnapshots() []models.MatchSnapshot {
	return m.cache.Snapshots()
}
