package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"livebet/internal/config"
	"livebet/internal/models"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotConfigured - токен или chat id не заданы, уведомления отключены
var ErrNotConfigured = errors.New("telegram: bot token or chat id not configured")

// TelegramNotifier - отправка уведомлений в Telegram-канал.
//
// Приёмник best-effort: ошибка отправки логируется и возвращается
// вызывающему (диспетчер её считает и глотает), повторные попытки
// внутри одного события не делаются.
type TelegramNotifier struct {
	token  string
	chatID string
	apiURL string
	http   *http.Client
	log    *zap.Logger
}

// NewTelegramNotifier создает нотификатор.
// Без токена возвращается рабочий объект, каждый вызов которого
// завершается ErrNotConfigured - сервис стартует в деградированном режиме.
func NewTelegramNotifier(cfg config.UpstreamConfig, log *zap.Logger) *TelegramNotifier {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
		log.Warn("telegram not configured, goal notifications disabled")
	}
	return &TelegramNotifier{
		token:  cfg.TelegramToken,
		chatID: cfg.TelegramChatID,
		apiURL: "https://api.telegram.org",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// NotifyGoal отправляет уведомление об изменении счёта
func (n *TelegramNotifier) NotifyGoal(ctx context.Context, event models.ChangeEvent) error {
	curr := event.Current
	message := fmt.Sprintf(
		"⚽ *GOOOOAL!* ⚽\n\n*%s* %d - %d *%s*\n\n⏱ %d'\n🏆 %s",
		curr.HomeTeam, curr.HomeGoals, curr.AwayGoals, curr.AwayTeam,
		curr.Elapsed, leagueOrNA(curr.League))

	return n.send(ctx, message)
}

// NotifyPrediction отправляет текст предматчевого прогноза
func (n *TelegramNotifier) NotifyPrediction(ctx context.Context, match models.MatchSnapshot, prediction string) error {
	message := fmt.Sprintf(
		"🤖 *AI PREDICTION* 🤖\n\nMatch: *%s* vs *%s*\n🏆 %s\n\n%s",
		match.HomeTeam, match.AwayTeam, leagueOrNA(match.League), prediction)

	return n.send(ctx, message)
}

// NotifyAnalytics отправляет текст live-аналитики
func (n *TelegramNotifier) NotifyAnalytics(ctx context.Context, match models.MatchSnapshot, analytics string) error {
	message := fmt.Sprintf(
		"📊 *BETTING ANALYTICS* 📊\n\nMatch: *%s* vs *%s*\n\n%s",
		match.HomeTeam, match.AwayTeam, analytics)

	return n.send(ctx, message)
}

// NotifyStopLoss отправляет предупреждение о срабатывании дневного стоп-лосса
func (n *TelegramNotifier) NotifyStopLoss(ctx context.Context, state models.Bankroll) error {
	message := fmt.Sprintf(
		"🚫 *DAILY STOP-LOSS REACHED* 🚫\n\nDaily loss: %.2f\nBankroll: %.2f / %.2f\n\nAll stake approvals are suspended until the daily reset.",
		state.DailyLoss, state.Current, state.Total)

	return n.send(ctx, message)
}

// ============ Отправка ============

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// send выполняет sendMessage с parse_mode=Markdown
func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	if n.token == "" || n.chatID == "" {
		return ErrNotConfigured
	}

	payload, err := jsonAPI.Marshal(sendMessageRequest{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var parsed sendMessageResponse
	if err := jsonAPI.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("telegram status %d: decode response: %w", resp.StatusCode, err)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, parsed.Description)
	}

	n.log.Info("telegram notification sent")
	return nil
}

func leagueOrNA(league string) string {
	if league == "" {
		return "N/A"
	}
	return league
}
