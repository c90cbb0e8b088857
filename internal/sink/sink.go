package sink

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"physevents/internal/domain"
)

// Sink определяет интерфейс для вывода новых событий.
// Ошибка вывода не прерывает запуск и не мешает сохранению состояния.
type Sink interface {
	Name() string
	Emit(ctx context.Context, events []domain.Event) error
}

type dayGroup struct {
	Day    time.Time
	Events []domain.Event
}

// eventDay возвращает календарный день события: дата начала,
// при её отсутствии - дата публикации.
func eventDay(ev domain.Event) time.Time {
	t := ev.Starts
	if t.IsZero() {
		t = ev.Published
	}
	if t.IsZero() {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// groupByDay группирует события по дням и сортирует внутри дня
// по времени начала. События без даты попадают в нулевую группу.
func groupByDay(events []domain.Event) []dayGroup {
	byDay := make(map[time.Time][]domain.Event)
	for _, ev := range events {
		day := eventDay(ev)
		byDay[day] = append(byDay[day], ev)
	}
	groups := make([]dayGroup, 0, len(byDay))
	for day, evs := range byDay {
		sort.SliceStable(evs, func(i, j int) bool {
			return evs[i].Starts.Before(evs[j].Starts)
		})
		groups = append(groups, dayGroup{Day: day, Events: evs})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Day.Before(groups[j].Day)
	})
	return groups
}

// timeRange форматирует время проведения вида "12:00 PM-1:00 PM".
func timeRange(ev domain.Event) string {
	if ev.Starts.IsZero() {
		return ""
	}
	r := ev.Starts.Format("3:04 PM")
	if !ev.Ends.IsZero() {
		r += "-" + ev.Ends.Format("3:04 PM")
	}
	return r
}

// dateRange возвращает первый и последний день среди датированных событий.
func dateRange(events []domain.Event) (time.Time, time.Time) {
	var first, last time.Time
	for _, ev := range events {
		day := eventDay(ev)
		if day.IsZero() {
			continue
		}
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}
	return first, last
}

var (
	invalidFilenameRe = regexp.MustCompile(`[<>:"/\\|?*]`)
	spaceRunRe        = regexp.MustCompile(`[\s-]+`)
)

// sanitizeFilename приводит имя файла к безопасному для Windows виду:
// заменяет недопустимые символы, схлопывает пробелы и дефисы, обрезает
// хвостовые точки и пробелы, ограничивает длину.
func sanitizeFilename(name string) string {
	const maxLength = 200
	safe := invalidFilenameRe.ReplaceAllString(name, "-")
	safe = strings.TrimSpace(spaceRunRe.ReplaceAllString(safe, " "))
	safe = strings.TrimRight(safe, " .")
	if len(safe) > maxLength {
		safe = safe[:maxLength]
	}
	return safe
}
