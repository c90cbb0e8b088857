package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const userAgent = "physevents/1.0 (+rss scraper)"

// HTTPFetcher загружает документы лент по HTTP.
// Обрабатывает сетевые ошибки, таймауты и не-2xx статусы; ошибка одной
// ленты остается локальной для нее.
type HTTPFetcher struct {
	client *http.Client
	log    *slog.Logger
}

// NewHTTPFetcher создает загрузчик с заданным таймаутом на запрос.
func NewHTTPFetcher(timeout time.Duration, log *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Fetch выполняет GET-запрос по указанному URL.
// Возвращает тело ответа как io.ReadCloser, которое должно быть закрыто
// после использования.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	log := f.log.With(slog.String("url", url))
	log.Debug("Fetching URL")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("Failed to create HTTP request", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create request for url %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		log.Error(
			"HTTP request failed",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to fetch url %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		log.Error(
			"Unexpected status code",
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("unexpected status code: %d for url %s", resp.StatusCode, url)
	}
	log.Debug("Successfully fetched URL")
	return resp.Body, nil
}
