package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"livebet/internal/analytics"
	"livebet/internal/api"
	"livebet/internal/apifootball"
	"livebet/internal/config"
	"livebet/internal/models"
	"livebet/internal/monitor"
	"livebet/internal/notifier"
	"livebet/internal/repository"
	"livebet/internal/risk"
	"livebet/internal/service"
	"livebet/internal/websocket"
	"livebet/pkg/utils"

	_ "github.com/lib/pq"
)

func main() {
	started := time.Now()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, err := utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Инициализация базы данных
	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := repository.Migrate(db); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}
	logger.Info("connected to database", zap.String("dsn", cfg.Database.DSNWithoutPassword()))

	// Инициализация репозиториев
	matchRepo := repository.NewMatchRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	betRepo := repository.NewBetRepository(db)

	// WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Внешние сервисы
	gateway := apifootball.NewClient(cfg.Upstream, logger)
	perplexity := analytics.NewPerplexityClient(cfg.Upstream, logger)
	telegram := notifier.NewTelegramNotifier(cfg.Upstream, logger)

	// Ненастроенный Telegram не подключаем как приёмник,
	// чтобы не засорять логи ошибками на каждом событии
	var goalNotifier monitor.Notifier
	var predNotifier service.PredictionNotifier
	var stopLossNotifier service.StopLossNotifier
	if cfg.Upstream.TelegramToken != "" && cfg.Upstream.TelegramChatID != "" {
		goalNotifier = telegram
		predNotifier = telegram
		stopLossNotifier = telegram
	} else {
		logger.Warn("telegram is not configured, chat notifications disabled")
	}

	// Мониторинг live-матчей
	store := &eventStore{matches: matchRepo, analytics: analyticsRepo}
	dispatcher := monitor.NewDispatcher(hub, goalNotifier, perplexity, gateway, store, cfg.Monitor.DispatchTimeout, logger)
	mon := monitor.NewMonitor(cfg.Monitor, gateway, dispatcher, logger)

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())
	defer cancelMonitor()
	go func() {
		if err := mon.Run(monitorCtx); err != nil {
			logger.Error("monitor stopped", zap.Error(err))
		}
	}()

	// Риск-движок и сервисы
	bankroll := risk.NewBankrollStore(cfg.Risk)
	matchService := service.NewMatchService(gateway, matchRepo, analyticsRepo, perplexity, predNotifier, logger)
	betService := service.NewBetService(bankroll, betRepo, hub, stopLossNotifier, logger)

	// Автоматический rollover на границе торгового дня (UTC).
	// Ручной POST /bankroll/reset-day остаётся для внеплановых сбросов.
	go func() {
		for {
			wait := time.Until(utils.NextDayStartFrom(time.Now()))
			select {
			case <-monitorCtx.Done():
				return
			case <-time.After(wait):
				state := betService.ResetDay()
				logger.Info("trading day rolled over",
					zap.Float64("bankroll", state.Current))
			}
		}
	}()

	// Настройка HTTP роутера
	router := api.SetupRoutes(&api.Dependencies{
		MatchService: matchService,
		BetService:   betService,
		Hub:          hub,
	})

	// HTTP сервер
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск сервера в отдельной горутине
	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr))
		if cfg.Server.UseHTTPS {
			if err := server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile); err != nil && err != http.ErrServerClosed {
				logger.Fatal("server failed", zap.Error(err))
			}
		} else {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("server failed", zap.Error(err))
			}
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Останавливаем опрос первым: текущий tick дорассылает свои события,
	// поэтому контекст монитора здесь не отменяется
	mon.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	hub.Stop()

	logger.Info("server exited", zap.String("uptime", utils.FormatDuration(time.Since(started))))
}

// eventStore собирает репозитории в один приёмник для диспетчера
type eventStore struct {
	matches   *repository.MatchRepository
	analytics *repository.AnalyticsRepository
}

func (s *eventStore) UpsertMatch(ctx context.Context, m models.MatchSnapshot) error {
	return s.matches.Upsert(ctx, m)
}

func (s *eventStore) SaveAnalytics(ctx context.Context, fixtureID int, text string) error {
	return s.analytics.SaveAnalytics(ctx, fixtureID, text)
}

// initDatabase создает подключение к базе данных
func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
