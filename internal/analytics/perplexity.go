package analytics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"livebet/internal/config"
	"livebet/internal/models"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Запасные тексты: любая ошибка генерации даёт осмысленный текст,
// а не пустую строку - потребители на них не различают причины отказа
const (
	FallbackNotConfigured  = "AI analytics not available. Please configure Perplexity API key."
	FallbackAnalyticsError = "Unable to generate analytics at this time."
	FallbackPrediction     = "Unable to generate prediction at this time."
)

// PerplexityClient - генератор текстовой аналитики по live-матчам.
//
// Клиент best-effort: методы НИКОГДА не возвращают ошибку наружу,
// при любой проблеме (ключ не настроен, сеть, таймаут, пустой ответ)
// возвращается фиксированный запасной текст. Аналитика - вспомогательный
// приёмник, её отказ не должен влиять на пайплайн мониторинга.
type PerplexityClient struct {
	apiKey string
	apiURL string
	model  string
	http   *http.Client
	log    *zap.Logger
}

// NewPerplexityClient создает клиент аналитики
func NewPerplexityClient(cfg config.UpstreamConfig, log *zap.Logger) *PerplexityClient {
	if cfg.PerplexityKey == "" {
		log.Warn("perplexity API key not configured, analytics degraded to fallback text")
	}
	return &PerplexityClient{
		apiKey: cfg.PerplexityKey,
		apiURL: cfg.PerplexityURL,
		model:  cfg.PerplexityModel,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// ============ Структуры chat-completions API ============

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ============ Публичные методы ============

// AnalyzeChange генерирует аналитику по изменению счёта live-матча
func (c *PerplexityClient) AnalyzeChange(ctx context.Context, event models.ChangeEvent, stats []models.TeamStatistics) string {
	if c.apiKey == "" {
		return FallbackNotConfigured
	}

	curr := event.Current
	prompt := fmt.Sprintf(`Analyze this live soccer match for betting opportunities:

Match: %s %d - %d %s
Status: %s
Elapsed: %d'

Statistics:
%s

Provide:
1. Live betting opportunities
2. Expected final score
3. Next goal probability
4. Corners/Cards predictions
5. Value bets to consider

Keep it brief and actionable.`,
		curr.HomeTeam, curr.HomeGoals, curr.AwayGoals, curr.AwayTeam,
		curr.Status, curr.Elapsed, formatStatistics(stats))

	text, err := c.complete(ctx,
		"You are a live sports betting analyst. Analyze ongoing matches and suggest betting opportunities.",
		prompt, 400)
	if err != nil {
		c.log.Warn("analytics generation failed",
			zap.Int("fixture_id", event.FixtureID),
			zap.Error(err))
		return FallbackAnalyticsError
	}

	c.log.Info("analytics generated", zap.Int("fixture_id", event.FixtureID))
	return text
}

// Predict генерирует предматчевый прогноз
func (c *PerplexityClient) Predict(ctx context.Context, match models.MatchSnapshot) string {
	if c.apiKey == "" {
		return FallbackNotConfigured
	}

	prompt := fmt.Sprintf(`Analyze this soccer match and provide a betting prediction:

Match: %s vs %s
League: %s
Date: %s

Provide:
1. Predicted winner
2. Expected score
3. Key factors influencing the prediction
4. Betting recommendations (Over/Under goals, Both teams to score)
5. Confidence level (Low/Medium/High)

Keep the response concise and focused on betting analytics.`,
		match.HomeTeam, match.AwayTeam, leagueOrUnknown(match.League),
		match.KickoffAt.Format(time.RFC3339))

	text, err := c.complete(ctx,
		"You are a sports betting analyst specializing in soccer matches. Provide data-driven predictions.",
		prompt, 500)
	if err != nil {
		c.log.Warn("prediction generation failed",
			zap.Int("fixture_id", match.FixtureID),
			zap.Error(err))
		return FallbackPrediction
	}

	c.log.Info("prediction generated", zap.Int("fixture_id", match.FixtureID))
	return text
}

// ============ Внутренности ============

// complete выполняет один запрос chat-completions
func (c *PerplexityClient) complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	payload, err := jsonAPI.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("perplexity request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("perplexity status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := jsonAPI.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty completion")
	}

	return parsed.Choices[0].Message.Content, nil
}

// formatStatistics сводит статистику команд в текст для промпта
func formatStatistics(stats []models.TeamStatistics) string {
	if len(stats) == 0 {
		return "No statistics available"
	}

	var b strings.Builder
	for _, team := range stats {
		b.WriteString(team.TeamName)
		b.WriteString(": ")
		first := true
		for name, value := range team.Statistics {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(name)
			b.WriteString("=")
			b.WriteString(value)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func leagueOrUnknown(league string) string {
	if league == "" {
		return "Unknown"
	}
	return league
}
