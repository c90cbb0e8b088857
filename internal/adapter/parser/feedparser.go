package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"physevents/internal/domain"
)

// FeedParser преобразует документ RSS/Atom в доменную модель Feed.
// Поверх стандартных полей извлекает расширение событийного неймспейса
// (ev:startdate, ev:enddate, ev:location, ev:organizer, ev:type).
type FeedParser struct {
	log *slog.Logger
	fp  *gofeed.Parser
}

func NewFeedParser(log *slog.Logger) *FeedParser {
	return &FeedParser{
		log: log,
		fp:  gofeed.NewParser(),
	}
}

// Parse реализует метод интерфейса FeedParser.
func (p *FeedParser) Parse(ctx context.Context, reader io.Reader) (*domain.Feed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := p.fp.Parse(reader)
	if err != nil {
		p.log.Error(
			"Error parsing feed document",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	feed := domain.Feed{
		Title:       src.Title,
		Link:        src.Link,
		Description: src.Description,
		Events:      make([]domain.Event, 0, len(src.Items)),
	}
	for _, item := range src.Items {
		feed.Events = append(feed.Events, p.toEvent(item))
	}
	return &feed, nil
}

func (p *FeedParser) toEvent(item *gofeed.Item) domain.Event {
	var published time.Time
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.Published != "" {
		if t, err := parsePubDate(item.Published); err == nil {
			published = t
		} else {
			p.log.Warn(
				"could not parse item pubDate",
				slog.String("pubDate", item.Published),
				slog.String("item_title", item.Title),
			)
		}
	}

	// Канонический URL страницы события строится из числовой части GUID,
	// ссылка из ленты используется как запасной вариант.
	link := domain.EventPageURL(domain.GUIDNumber(item.GUID))
	if link == "" {
		link = item.Link
	}

	description := cleanDescription(item.Description)
	title := titlecase(cleanTitle(item.Title))

	ev := domain.Event{
		ID:          domain.EntryID(item.GUID, link, title, published),
		Title:       title,
		Link:        link,
		Description: description,
		Published:   published,
		Starts:      parseEventTime(p.extension(item, "startdate")),
		Ends:        parseEventTime(p.extension(item, "enddate")),
		Location:    p.extension(item, "location"),
		Organizer:   p.extension(item, "organizer"),
		EventType:   p.extension(item, "type"),
		ZoomURL:     extractZoomURL(description),
	}
	if len(item.Categories) > 0 {
		ev.Category = item.Categories[0]
	}
	if ev.Location == "" {
		ev.Location = extractLocation(description)
	}
	return ev
}

// extension возвращает значение поля событийного неймспейса ev:.
func (p *FeedParser) extension(item *gofeed.Item, name string) string {
	fields, ok := item.Extensions["ev"]
	if !ok {
		return ""
	}
	values, ok := fields[name]
	if !ok || len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0].Value)
}

// parseEventTime парсит ISO 8601 метку времени события, с зоной или без.
func parseEventTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, strings.TrimSpace(value)); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parsePubDate - вспомогательная функция для парсинга даты в разных форматах.
func parsePubDate(dateStr string) (time.Time, error) {
	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		time.RFC822Z,
		time.RFC822,
		"Mon, 2 Jan 2006 15:04:05 -0700",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, strings.TrimSpace(dateStr)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date in any known format: %q", dateStr)
}
