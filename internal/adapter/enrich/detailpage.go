package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"physevents/internal/domain"
)

var youtubeRe = regexp.MustCompile(`https://(?:www\.)?youtu\.be/[^\s<"]*`)

// DetailScraper дополняет событие данными со страницы события:
// имя докладчика, уточненное место проведения и ссылка на трансляцию.
// Ошибки здесь мягкие: событие без деталей остается с полями из ленты.
type DetailScraper struct {
	client *http.Client
	log    *slog.Logger
}

func NewDetailScraper(timeout time.Duration, log *slog.Logger) *DetailScraper {
	return &DetailScraper{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Enrich загружает страницу события и переносит найденные детали в событие.
func (s *DetailScraper) Enrich(ctx context.Context, ev *domain.Event) {
	if ev.Link == "" {
		return
	}
	doc, err := s.fetchDocument(ctx, ev.Link)
	if err != nil {
		s.log.Debug("Detail page fetch failed, keeping feed fields",
			slog.String("component", "enrich"),
			slog.String("url", ev.Link),
			slog.Any("error", err),
		)
		return
	}
	if speaker := nodeText(doc, "div.pageTitle div.subtitle"); speaker != "" {
		ev.Speaker = speaker
	}
	if place := nodeText(doc, "div.event-detail-float div.place"); place != "" {
		ev.Location = place
	}
	description := doc.Find("div.event-detail-wrap div.description-wrap").Text()
	if link := youtubeRe.FindString(description); link != "" {
		ev.YouTubeURL = link
	}
}

func (s *DetailScraper) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code: %d for %s", resp.StatusCode, url)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html from %s: %w", url, err)
	}
	return doc, nil
}

func nodeText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}
