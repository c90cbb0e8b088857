package sink

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"physevents/internal/domain"
)

var (
	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0969DA")).
			Bold(true).
			Underline(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#39D353")).
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8250DF")).
			Italic(true)

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA657")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A371F7"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#58A6FF")).
			Underline(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E7681"))
)

// ConsoleSink печатает новые события в терминал, сгруппированные по дням.
type ConsoleSink struct {
	w   io.Writer
	log *slog.Logger
}

func NewConsoleSink(w io.Writer, log *slog.Logger) *ConsoleSink {
	return &ConsoleSink{w: w, log: log}
}

func (s *ConsoleSink) Name() string { return "console" }

func (s *ConsoleSink) Emit(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(s.w, dimStyle.Render("No new events."))
		return err
	}
	for _, group := range groupByDay(events) {
		header := "Undated"
		if !group.Day.IsZero() {
			header = group.Day.Format("Monday, January 2, 2006")
		}
		if _, err := fmt.Fprintln(s.w, dayStyle.Render(header)); err != nil {
			return err
		}
		for _, ev := range group.Events {
			if err := s.printEvent(ev); err != nil {
				return err
			}
		}
	}
	s.log.Debug("Console output written",
		slog.String("component", "sink"),
		slog.Int("count", len(events)),
	)
	return nil
}

func (s *ConsoleSink) printEvent(ev domain.Event) error {
	if tr := timeRange(ev); tr != "" {
		fmt.Fprintln(s.w, "  "+timeStyle.Render(tr))
	}
	fmt.Fprintln(s.w, "  "+titleStyle.Render(ev.Title))
	if ev.Speaker != "" {
		fmt.Fprintln(s.w, "  "+speakerStyle.Render(ev.Speaker))
	}
	if ev.Location != "" {
		fmt.Fprintln(s.w, "  "+locationStyle.Render(ev.Location))
	}
	if ev.ZoomURL != "" {
		fmt.Fprintln(s.w, "  Zoom: "+linkStyle.Render(ev.ZoomURL))
	}
	if ev.YouTubeURL != "" {
		fmt.Fprintln(s.w, "  Livestream: "+linkStyle.Render(ev.YouTubeURL))
	}
	if ev.Link != "" {
		fmt.Fprintln(s.w, "  "+dimStyle.Render(ev.Link))
	}
	_, err := fmt.Fprintln(s.w)
	return err
}
