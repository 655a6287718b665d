// Package apifootball предоставляет клиент к API-Football (RapidAPI) -
// источнику live-снапшотов, статистики и коэффициентов.
package apifootball

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"livebet/internal/config"
	"livebet/internal/models"
	"livebet/pkg/ratelimit"
	"livebet/pkg/retry"
)

// jsonAPI - быстрый декодер для горячего пути (live-список каждые 30с
// содержит десятки fixture-объектов по несколько КБ)
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Ошибки клиента
var (
	ErrNotConfigured   = errors.New("api-football: API key not configured")
	ErrFixtureNotFound = errors.New("api-football: fixture not found")
)

// Client - HTTP клиент к API-Football
//
// Все вызовы:
// - проходят через token-bucket rate limiter (лимиты тарифного плана)
// - ограничены таймаутом переданного контекста
// - классифицируют ошибки: 5xx/сеть = Temporary, 4xx = Permanent
//
// Таймаут трактуется вызывающей стороной как ошибка fetch'а:
// монитор пропускает tick, кэш остаётся нетронутым.
type Client struct {
	cfg     config.UpstreamConfig
	http    *http.Client
	limiter *ratelimit.RateLimiter
	log     *zap.Logger
}

// NewClient создаёт клиент API-Football
func NewClient(cfg config.UpstreamConfig, log *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			// Общий потолок; реальный дедлайн задаёт контекст вызова
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: ratelimit.NewRateLimiter(cfg.APIFootballRate, cfg.APIFootballRate*2),
		log:     log,
	}
}

// FetchLive возвращает снапшоты всех матчей, идущих прямо сейчас
//
// Контракт SourceGateway: должен вернуться в пределах таймаута контекста;
// таймаут = ошибка fetch'а. Порядок снапшотов определяется провайдером
// и не пересортировывается.
func (c *Client) FetchLive(ctx context.Context) ([]models.MatchSnapshot, error) {
	items, err := c.fetchFixtures(ctx, url.Values{"live": {"all"}})
	if err != nil {
		return nil, err
	}

	c.log.Debug("fetched live fixtures", zap.Int("count", len(items)))
	return items, nil
}

// FetchByDate возвращает все матчи на указанную дату (YYYY-MM-DD)
func (c *Client) FetchByDate(ctx context.Context, date string) ([]models.MatchSnapshot, error) {
	return c.fetchFixtures(ctx, url.Values{"date": {date}})
}

// FetchToday возвращает все матчи на сегодня (UTC)
func (c *Client) FetchToday(ctx context.Context) ([]models.MatchSnapshot, error) {
	return c.FetchByDate(ctx, time.Now().UTC().Format("2006-01-02"))
}

// FetchByID возвращает снапшот одного матча
func (c *Client) FetchByID(ctx context.Context, fixtureID int) (models.MatchSnapshot, error) {
	items, err := c.fetchFixtures(ctx, url.Values{"id": {fmt.Sprint(fixtureID)}})
	if err != nil {
		return models.MatchSnapshot{}, err
	}
	if len(items) == 0 {
		return models.MatchSnapshot{}, ErrFixtureNotFound
	}
	return items[0], nil
}

// FetchStatistics возвращает статистику обеих команд матча.
//
// Вызывается диспетчером перед генерацией аналитики; retry'ится
// с backoff'ом - одна неудача не должна лишать sink аналитики.
func (c *Client) FetchStatistics(ctx context.Context, fixtureID int) ([]models.TeamStatistics, error) {
	return retry.DoWithResult(ctx, func() ([]models.TeamStatistics, error) {
		raw, err := c.get(ctx, "/fixtures/statistics", url.Values{"fixture": {fmt.Sprint(fixtureID)}})
		if err != nil {
			return nil, err
		}

		stats := make([]models.TeamStatistics, 0, len(raw))
		for _, item := range raw {
			var si statisticsItem
			if err := jsonAPI.Unmarshal(item, &si); err != nil {
				return nil, retry.Permanent(fmt.Errorf("decode statistics: %w", err))
			}
			stats = append(stats, si.toStatistics())
		}
		return stats, nil
	}, retry.DefaultConfig())
}

// FetchEvents возвращает события матча (голы, карточки, замены)
// как opaque JSON для REST passthrough
func (c *Client) FetchEvents(ctx context.Context, fixtureID int) ([]json.RawMessage, error) {
	return c.get(ctx, "/fixtures/events", url.Values{"fixture": {fmt.Sprint(fixtureID)}})
}

// FetchOdds возвращает коэффициенты матча как opaque JSON
func (c *Client) FetchOdds(ctx context.Context, fixtureID int) ([]json.RawMessage, error) {
	return c.get(ctx, "/odds", url.Values{"fixture": {fmt.Sprint(fixtureID)}})
}

// fetchFixtures выполняет запрос к /fixtures и маппит элементы в снапшоты
func (c *Client) fetchFixtures(ctx context.Context, params url.Values) ([]models.MatchSnapshot, error) {
	raw, err := c.get(ctx, "/fixtures", params)
	if err != nil {
		return nil, err
	}

	snaps := make([]models.MatchSnapshot, 0, len(raw))
	for _, item := range raw {
		var fi fixtureItem
		if err := jsonAPI.Unmarshal(item, &fi); err != nil {
			// Один битый элемент не должен ронять весь tick
			c.log.Warn("skipping malformed fixture item", zap.Error(err))
			continue
		}
		snaps = append(snaps, fi.toSnapshot(item))
	}

	return snaps, nil
}

// get выполняет GET запрос к API-Football и возвращает response массив
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]json.RawMessage, error) {
	if c.cfg.APIFootballKey == "" {
		return nil, ErrNotConfigured
	}

	// Rate limit до запроса: при исчерпании токенов ждём или
	// отваливаемся по контексту (= таймаут fetch'а)
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, retry.Temporary(fmt.Errorf("rate limit wait: %w", err))
	}

	reqURL := c.cfg.APIFootballBaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("x-rapidapi-key", c.cfg.APIFootballKey)
	req.Header.Set("x-rapidapi-host", c.cfg.APIFootballHost)

	resp, err := c.http.Do(req)
	if err != nil {
		// Сетевые ошибки и таймауты - временные
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
			return nil, retry.Temporary(fmt.Errorf("api-football request: %w", err))
		}
		return nil, fmt.Errorf("api-football request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20)) // 10MB потолок
	if err != nil {
		return nil, retry.Temporary(fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, retry.Temporary(fmt.Errorf("api-football status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, retry.Permanent(fmt.Errorf("api-football status %d: %s", resp.StatusCode, truncate(body, 200)))
	}

	var env envelope
	if err := jsonAPI.Unmarshal(body, &env); err != nil {
		return nil, retry.Permanent(fmt.Errorf("decode envelope: %w", err))
	}

	return env.Response, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
