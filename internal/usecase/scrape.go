package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"physevents/internal/domain"
)

// Window ограничивает выборку событий по дате начала.
// Нулевое значение означает отсутствие ограничения.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Contains сообщает, попадает ли момент времени в окно.
// События без даты начала в окно не попадают.
func (w Window) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// RunResult - итог одного прохода по всем лентам.
// Seen - объединение переданного множества с идентификаторами,
// встреченными в этом проходе; сохраняется вызывающей стороной
// только после завершения прохода.
type RunResult struct {
	NewEvents []domain.Event
	Seen      map[string]struct{}
	Feeds     []domain.FeedResult
	Added     int
}

// ScrapeUseCase реализует основной цикл скрейпера: загрузка лент,
// парсинг, дедупликация по сохраненному множеству и отбор новых событий.
type ScrapeUseCase struct {
	fetcher     FeedFetcher
	parser      FeedParser
	enricher    EventEnricher
	log         *slog.Logger
	feedNames   map[string]string
	window      Window
	feedTimeout time.Duration
}

// NewScrapeUseCase создает UseCase скрейпинга. Обогатитель может быть nil,
// тогда события остаются с полями из ленты.
func NewScrapeUseCase(
	fetcher FeedFetcher,
	parser FeedParser,
	enricher EventEnricher,
	log *slog.Logger,
	feedNames map[string]string,
	window Window,
	feedTimeout time.Duration,
) *ScrapeUseCase {
	if feedTimeout <= 0 {
		feedTimeout = 30 * time.Second
	}
	return &ScrapeUseCase{
		fetcher:     fetcher,
		parser:      parser,
		enricher:    enricher,
		log:         log,
		feedNames:   feedNames,
		window:      window,
		feedTimeout: feedTimeout,
	}
}

// Run выполняет один проход: ленты загружаются и парсятся параллельно с
// изолированными ошибками, затем события фильтруются по множеству seen
// последовательно, в порядке конфигурации лент. Переданное множество не
// мутируется; объединение возвращается в результате.
func (uc *ScrapeUseCase) Run(ctx context.Context, urls []string, seen map[string]struct{}) *RunResult {
	start := time.Now()
	uc.log.Info("Scrape run started",
		slog.String("component", "scraper"),
		slog.Int("feed_count", len(urls)),
		slog.Int("seen_count", len(seen)),
	)

	results := make([]domain.FeedResult, len(urls))
	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			opCtx, opCancel := context.WithTimeout(ctx, uc.feedTimeout)
			defer opCancel()
			results[i] = uc.fetchFeed(opCtx, u)
		}(i, url)
	}
	wg.Wait()

	union := make(map[string]struct{}, len(seen))
	for id := range seen {
		union[id] = struct{}{}
	}

	result := &RunResult{
		Seen:  union,
		Feeds: results,
	}
	errorCount := 0
	for _, res := range results {
		if res.Err != nil {
			errorCount++
			continue
		}
		for _, ev := range res.Feed.Events {
			if _, ok := union[ev.ID]; ok {
				continue
			}
			union[ev.ID] = struct{}{}
			result.Added++
			// Событие вне окна считается увиденным, но не выводится.
			if !uc.window.IsZero() && !uc.window.Contains(ev.Starts) {
				continue
			}
			ev.FeedName = res.Name
			if uc.enricher != nil {
				uc.enricher.Enrich(ctx, &ev)
			}
			result.NewEvents = append(result.NewEvents, ev)
		}
	}

	uc.log.Info("Scrape run completed",
		slog.String("component", "scraper"),
		slog.Int("new_events", len(result.NewEvents)),
		slog.Int("ids_added", result.Added),
		slog.Int("feed_errors", errorCount),
		slog.Duration("duration", time.Since(start)),
	)
	return result
}

// fetchFeed выполняет загрузку и парсинг одной ленты.
// Любая ошибка остается внутри результата этой ленты.
func (uc *ScrapeUseCase) fetchFeed(ctx context.Context, url string) domain.FeedResult {
	feedName := uc.extractFeedName(url)
	log := uc.log.With(
		slog.String("component", "scraper"),
		slog.String("feed", feedName),
		slog.String("url", url),
	)
	result := domain.FeedResult{URL: url, Name: feedName}

	reader, err := uc.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Error("Feed fetch failed",
			slog.String("stage", "fetch"),
			slog.Any("error", err),
		)
		result.Err = fmt.Errorf("fetch failed for %s: %w", feedName, err)
		return result
	}
	defer reader.Close()

	feed, err := uc.parser.Parse(ctx, reader)
	if err != nil {
		log.Error("Feed parsing failed",
			slog.String("stage", "parse"),
			slog.Any("error", err),
		)
		result.Err = fmt.Errorf("parse failed for %s: %w", feedName, err)
		return result
	}

	log.Debug("Feed parsed successfully",
		slog.String("stage", "parse"),
		slog.Int("items_parsed", len(feed.Events)),
	)
	result.Feed = feed
	return result
}

// extractFeedName извлекает читаемое имя ленты из URL.
// Использует предопределенный маппинг или домен из URL как fallback.
func (uc *ScrapeUseCase) extractFeedName(url string) string {
	if name, ok := uc.feedNames[url]; ok {
		return name
	}
	parts := strings.Split(url, "/")
	if len(parts) >= 3 {
		host := parts[2]
		if strings.HasPrefix(host, "www.") {
			host = host[4:]
		}
		return host
	}
	return "Unknown"
}
