package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upstream UpstreamConfig
	Monitor  MonitorConfig
	Risk     RiskConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port     int
	Host     string
	UseHTTPS bool
	CertFile string
	KeyFile  string
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// UpstreamConfig - настройки внешних сервисов
//
// API-Football: источник live-снапшотов и статистики матчей.
// Perplexity: генерация текстовой аналитики и прогнозов (LLM).
// Telegram: доставка chat-уведомлений операторам.
type UpstreamConfig struct {
	APIFootballKey     string
	APIFootballBaseURL string
	APIFootballHost    string
	APIFootballRate    float64 // запросов в секунду к API-Football

	PerplexityKey   string
	PerplexityURL   string
	PerplexityModel string

	TelegramToken  string
	TelegramChatID string
}

// MonitorConfig - настройки цикла мониторинга live-матчей
type MonitorConfig struct {
	// PollInterval - фиксированный период опроса провайдера.
	// Цикл не адаптирует период под нагрузку или латентность fetch'а.
	PollInterval time.Duration

	// FetchTimeout - таймаут одного запроса к провайдеру.
	// Таймаут трактуется как ошибка fetch'а: tick пропускается.
	FetchTimeout time.Duration

	// DispatchTimeout - таймаут всех sink-вызовов одного события
	DispatchTimeout time.Duration

	// CacheTTL - срок жизни записи кэша, которую провайдер перестал
	// возвращать (матч пропал из live-списка без терминального статуса)
	CacheTTL time.Duration
}

// RiskConfig - параметры защиты банка
//
// Все пороги внешне инжектируются, чтобы движок был тестируем
// с произвольными банками.
type RiskConfig struct {
	BankrollTotal  float64 // стартовый банк, у.е.
	KellyFraction  float64 // доля от полного Kelly (quarter-Kelly по умолчанию)
	StopLossPct    float64 // дневной stop-loss как доля от банка
	MaxStakePct    float64 // жёсткий потолок одной ставки как доля от банка
	MinProbability float64 // минимальная вероятность для одобрения
	MinStake       float64 // минимальная рекомендуемая ставка, у.е.
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:     getEnvAsInt("SERVER_PORT", 8080),
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			UseHTTPS: getEnvAsBool("USE_HTTPS", false),
			CertFile: getEnv("CERT_FILE", ""),
			KeyFile:  getEnv("KEY_FILE", ""),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "livebet"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Upstream: UpstreamConfig{
			APIFootballKey:     getEnv("API_FOOTBALL_KEY", ""),
			APIFootballBaseURL: getEnv("API_FOOTBALL_BASE_URL", "https://api-football-v1.p.rapidapi.com/v3"),
			APIFootballHost:    getEnv("API_FOOTBALL_HOST", "api-football-v1.p.rapidapi.com"),
			APIFootballRate:    getEnvAsFloat("API_FOOTBALL_RATE", 5),

			PerplexityKey:   getEnv("PERPLEXITY_API_KEY", ""),
			PerplexityURL:   getEnv("PERPLEXITY_API_URL", "https://api.perplexity.ai/chat/completions"),
			PerplexityModel: getEnv("PERPLEXITY_MODEL", "llama-3.1-sonar-small-128k-online"),

			TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
			TelegramChatID: getEnv("TELEGRAM_CHAT_ID", ""),
		},
		Monitor: MonitorConfig{
			PollInterval:    getEnvAsDuration("POLL_INTERVAL", 30*time.Second),
			FetchTimeout:    getEnvAsDuration("FETCH_TIMEOUT", 10*time.Second),
			DispatchTimeout: getEnvAsDuration("DISPATCH_TIMEOUT", 60*time.Second),
			CacheTTL:        getEnvAsDuration("CACHE_TTL", 3*time.Hour),
		},
		Risk: RiskConfig{
			BankrollTotal:  getEnvAsFloat("BANKROLL_TOTAL", 1000),
			KellyFraction:  getEnvAsFloat("KELLY_FRACTION", 0.25),
			StopLossPct:    getEnvAsFloat("STOP_LOSS_PCT", 0.12),
			MaxStakePct:    getEnvAsFloat("MAX_STAKE_PCT", 0.05),
			MinProbability: getEnvAsFloat("MIN_PROBABILITY", 0.40),
			MinStake:       getEnvAsFloat("MIN_STAKE", 10),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Валидация обязательных параметров upstream'ов
	if err := cfg.validateUpstream(); err != nil {
		return nil, err
	}

	// Валидация числовых диапазонов
	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateUpstream проверяет параметры внешних сервисов
func (c *Config) validateUpstream() error {
	// API_FOOTBALL_KEY обязателен - без него мониторинг бесполезен
	if c.Upstream.APIFootballKey == "" {
		return fmt.Errorf("API_FOOTBALL_KEY is required for live match monitoring")
	}

	// Telegram и Perplexity опциональны: соответствующие sink'и
	// деградируют до no-op/fallback, но сервер должен стартовать
	if c.Upstream.APIFootballRate <= 0 {
		return fmt.Errorf("API_FOOTBALL_RATE must be positive, got %v", c.Upstream.APIFootballRate)
	}

	return nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	// Валидация портов
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", c.Database.Port)
	}

	// Валидация параметров мониторинга
	if c.Monitor.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %v", c.Monitor.PollInterval)
	}

	if c.Monitor.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %v", c.Monitor.FetchTimeout)
	}

	if c.Monitor.FetchTimeout >= c.Monitor.PollInterval {
		return fmt.Errorf("FETCH_TIMEOUT (%v) must be less than POLL_INTERVAL (%v)",
			c.Monitor.FetchTimeout, c.Monitor.PollInterval)
	}

	// Валидация риск-параметров
	if c.Risk.BankrollTotal <= 0 {
		return fmt.Errorf("BANKROLL_TOTAL must be positive, got %v", c.Risk.BankrollTotal)
	}

	if c.Risk.KellyFraction <= 0 || c.Risk.KellyFraction > 1 {
		return fmt.Errorf("KELLY_FRACTION must be in (0, 1], got %v", c.Risk.KellyFraction)
	}

	if c.Risk.StopLossPct <= 0 || c.Risk.StopLossPct >= 1 {
		return fmt.Errorf("STOP_LOSS_PCT must be in (0, 1), got %v", c.Risk.StopLossPct)
	}

	if c.Risk.MaxStakePct <= 0 || c.Risk.MaxStakePct >= 1 {
		return fmt.Errorf("MAX_STAKE_PCT must be in (0, 1), got %v", c.Risk.MaxStakePct)
	}

	if c.Risk.MinProbability < 0 || c.Risk.MinProbability > 1 {
		return fmt.Errorf("MIN_PROBABILITY must be in [0, 1], got %v", c.Risk.MinProbability)
	}

	if c.Risk.MinStake < 0 {
		return fmt.Errorf("MIN_STAKE cannot be negative, got %v", c.Risk.MinStake)
	}

	return nil
}

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// DSNWithoutPassword возвращает строку подключения без пароля (для логирования)
func (d DatabaseConfig) DSNWithoutPassword() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
