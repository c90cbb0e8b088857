package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"physevents/internal/domain"
)

var calendarHeader = []string{
	"Subject",
	"Start Date",
	"Start Time",
	"End Date",
	"End Time",
	"Description",
	"Location",
	"Speaker",
}

// CalendarCSVSink пишет CSV для импорта в Google Calendar.
// События без даты начала пропускаются - календарю нечего с ними делать.
type CalendarCSVSink struct {
	dir string
	log *slog.Logger
}

func NewCalendarCSVSink(dir string, log *slog.Logger) *CalendarCSVSink {
	return &CalendarCSVSink{dir: dir, log: log}
}

func (s *CalendarCSVSink) Name() string { return "csv" }

func (s *CalendarCSVSink) Emit(ctx context.Context, events []domain.Event) error {
	first, last := dateRange(events)
	if first.IsZero() {
		s.log.Info("No dated events, skipping calendar CSV",
			slog.String("component", "sink"),
		)
		return nil
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir %s: %w", s.dir, err)
	}
	name := sanitizeFilename(fmt.Sprintf("%s | %s - %s.csv",
		digestBaseName,
		first.Format("01-02-2006"),
		last.Format("01-02-2006"),
	))
	path := filepath.Join(s.dir, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(calendarHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	written := 0
	for _, group := range groupByDay(events) {
		for _, ev := range group.Events {
			if ev.Starts.IsZero() {
				continue
			}
			if err := writer.Write(calendarRow(ev)); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
			written++
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	s.log.Info("Calendar CSV written",
		slog.String("component", "sink"),
		slog.String("path", path),
		slog.Int("count", written),
	)
	return nil
}

func calendarRow(ev domain.Event) []string {
	endDate := ev.Starts.Format("01/02/2006")
	endTime := ""
	if !ev.Ends.IsZero() {
		endDate = ev.Ends.Format("01/02/2006")
		endTime = ev.Ends.Format("3:04 PM")
	}
	var description []string
	if ev.Speaker != "" {
		description = append(description, "Speaker: "+ev.Speaker)
	}
	if ev.Link != "" {
		description = append(description, "Event page: "+ev.Link)
	}
	if ev.ZoomURL != "" {
		description = append(description, "Zoom: "+ev.ZoomURL)
	}
	if ev.YouTubeURL != "" {
		description = append(description, "YouTube: "+ev.YouTubeURL)
	}
	return []string{
		ev.Title,
		ev.Starts.Format("01/02/2006"),
		ev.Starts.Format("3:04 PM"),
		endDate,
		endTime,
		strings.Join(description, "\n"),
		ev.Location,
		ev.Speaker,
	}
}
