package sink

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"physevents/internal/domain"
)

const digestBaseName = "Physics Seminars & Colloquia"

const calendarDayURL = "https://lsa.umich.edu/physics/news-events/all-events.html#date=%s&view=day"

var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; font-size: 10pt; color: black;">
<h1>{{.Title}}</h1>
{{range .Days}}<div style="margin-bottom: 5px;"><a href="{{.URL}}" style="color: #0b769f; font-weight: bold; text-decoration: underline;" target="_blank">{{.Date}}</a></div>
{{range .Events}}<div style="margin-bottom: 20px;">
<div>{{.TimeRange}}</div>
<div style="font-weight: bold;"><a href="{{.Link}}" style="color: black; text-decoration: underline;" target="_blank">{{.Title}}</a></div>
{{if .Speaker}}<div style="font-style: italic;">{{.Speaker}}</div>
{{end}}{{if .Location}}<div style="font-weight: bold;">{{.Location}}</div>
{{end}}{{if .ZoomURL}}<div>Event will be on Zoom: <a href="{{.ZoomURL}}" target="_blank">{{.ZoomURL}}</a></div>
{{end}}{{if .YouTubeURL}}<div>The event will be livestreamed: <a href="{{.YouTubeURL}}" target="_blank">{{.YouTubeURL}}</a></div>
{{end}}</div>
{{end}}{{end}}</body>
</html>
`))

type digestPage struct {
	Title string
	Days  []digestDay
}

type digestDay struct {
	Date   string
	URL    string
	Events []digestEvent
}

type digestEvent struct {
	TimeRange  string
	Title      string
	Link       string
	Speaker    string
	Location   string
	ZoomURL    string
	YouTubeURL string
}

// HTMLDigestSink пишет HTML-дайджест новых событий, сгруппированных по
// дням, в файл с диапазоном дат в имени. События без даты в дайджест
// не попадают.
type HTMLDigestSink struct {
	dir string
	log *slog.Logger
}

func NewHTMLDigestSink(dir string, log *slog.Logger) *HTMLDigestSink {
	return &HTMLDigestSink{dir: dir, log: log}
}

func (s *HTMLDigestSink) Name() string { return "html" }

func (s *HTMLDigestSink) Emit(ctx context.Context, events []domain.Event) error {
	first, last := dateRange(events)
	if first.IsZero() {
		s.log.Info("No dated events, skipping HTML digest",
			slog.String("component", "sink"),
		)
		return nil
	}
	page := digestPage{
		Title: fmt.Sprintf("%s | %s - %s",
			digestBaseName,
			first.Format("01/02/2006"),
			last.Format("01/02/2006"),
		),
	}
	for _, group := range groupByDay(events) {
		if group.Day.IsZero() {
			continue
		}
		day := digestDay{
			Date: group.Day.Format("Monday, January 02, 2006"),
			URL:  fmt.Sprintf(calendarDayURL, group.Day.Format("2006-01-02")),
		}
		for _, ev := range group.Events {
			day.Events = append(day.Events, digestEvent{
				TimeRange:  timeRange(ev),
				Title:      ev.Title,
				Link:       ev.Link,
				Speaker:    ev.Speaker,
				Location:   ev.Location,
				ZoomURL:    ev.ZoomURL,
				YouTubeURL: ev.YouTubeURL,
			})
		}
		page.Days = append(page.Days, day)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir %s: %w", s.dir, err)
	}
	name := sanitizeFilename(fmt.Sprintf("%s | %s - %s.html",
		digestBaseName,
		first.Format("01-02-2006"),
		last.Format("01-02-2006"),
	))
	path := filepath.Join(s.dir, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create digest file %s: %w", path, err)
	}
	defer file.Close()
	if err := digestTemplate.Execute(file, page); err != nil {
		return fmt.Errorf("failed to render digest: %w", err)
	}
	s.log.Info("HTML digest written",
		slog.String("component", "sink"),
		slog.String("path", path),
		slog.Int("count", len(events)),
	)
	return nil
}
