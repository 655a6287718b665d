// Package integration contains integration tests for the livebet server.
//
// These tests verify the correct interaction between components:
// - API integration tests: full HTTP request cycle
// - WebSocket tests: connection, broadcast messaging
// - Database tests: migrations, repositories
//
// Tests skip automatically when the test database is unavailable.
// Configure via TEST_DB_* environment variables.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"livebet/internal/api"
	"livebet/internal/apifootball"
	"livebet/internal/config"
	"livebet/internal/models"
	"livebet/internal/repository"
	"livebet/internal/risk"
	"livebet/internal/service"
	"livebet/internal/websocket"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
)

// stubPredictor заменяет Perplexity в интеграционных тестах
type stubPredictor struct{}

func (stubPredictor) Predict(ctx context.Context, match models.MatchSnapshot) string {
	return "test prediction"
}

// TestConfig contains configuration for integration tests
type TestConfig struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

// TestServer encapsulates all components needed for integration testing
type TestServer struct {
	DB       *sql.DB
	Router   *mux.Router
	Server   *httptest.Server
	Hub      *websocket.Hub
	Bankroll *risk.BankrollStore
	Repos    *TestRepositories
	Cleanup  func()
}

// TestRepositories contains all repository instances for testing
type TestRepositories struct {
	Match     *repository.MatchRepository
	Analytics *repository.AnalyticsRepository
	Bet       *repository.BetRepository
}

// getTestConfig returns configuration from environment variables or defaults
func getTestConfig() TestConfig {
	return TestConfig{
		DBDriver:   getEnv("TEST_DB_DRIVER", "postgres"),
		DBHost:     getEnv("TEST_DB_HOST", "localhost"),
		DBPort:     getEnv("TEST_DB_PORT", "5432"),
		DBName:     getEnv("TEST_DB_NAME", "livebet_test"),
		DBUser:     getEnv("TEST_DB_USER", "postgres"),
		DBPassword: getEnv("TEST_DB_PASSWORD", "postgres"),
		DBSSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
	}
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SetupTestDB creates a test database connection
func SetupTestDB(t *testing.T) (*sql.DB, func()) {
	cfg := getTestConfig()

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)

	db, err := sql.Open(cfg.DBDriver, connStr)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to database: %v", err)
		return nil, func() {}
	}

	if err := db.Ping(); err != nil {
		t.Skipf("Skipping integration test: cannot ping database: %v", err)
		return nil, func() {}
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}

	return db, cleanup
}

// truncateTables clears test data between tests
func truncateTables(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, table := range []string{"bet_decisions", "analytics", "predictions", "matches"} {
		if _, err := db.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE"); err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}

// SetupTestServer builds a full server wired against the test database.
//
// The API-Football gateway is intentionally left unconfigured: match
// endpoints exercise the stored-snapshot fallback path instead of
// calling the real upstream.
func SetupTestServer(t *testing.T) *TestServer {
	db, dbCleanup := SetupTestDB(t)
	if db == nil {
		return nil
	}

	if err := repository.Migrate(db); err != nil {
		dbCleanup()
		t.Fatalf("migrations failed: %v", err)
	}
	truncateTables(t, db)

	logger := zap.NewNop()

	repos := &TestRepositories{
		Match:     repository.NewMatchRepository(db),
		Analytics: repository.NewAnalyticsRepository(db),
		Bet:       repository.NewBetRepository(db),
	}

	hub := websocket.NewHub()
	go hub.Run()

	gateway := apifootball.NewClient(config.UpstreamConfig{
		APIFootballBaseURL: "http://127.0.0.1:0", // недоступен: форсируем fallback
		APIFootballRate:    100,
	}, logger)

	bankroll := risk.NewBankrollStore(config.RiskConfig{
		BankrollTotal:  1000,
		KellyFraction:  0.25,
		StopLossPct:    0.12,
		MaxStakePct:    0.05,
		MinProbability: 0.40,
		MinStake:       10,
	})

	matchService := service.NewMatchService(gateway, repos.Match, repos.Analytics, stubPredictor{}, nil, logger)
	betService := service.NewBetService(bankroll, repos.Bet, hub, nil, logger)

	router := api.SetupRoutes(&api.Dependencies{
		MatchService: matchService,
		BetService:   betService,
		Hub:          hub,
	})

	server := httptest.NewServer(router)

	cleanup := func() {
		server.Close()
		hub.Stop()
		dbCleanup()
	}

	return &TestServer{
		DB:       db,
		Router:   router,
		Server:   server,
		Hub:      hub,
		Bankroll: bankroll,
		Repos:    repos,
		Cleanup:  cleanup,
	}
}
