package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Event представляет одно событие из RSS-ленты физического факультета.
// Значение неизменяемо после парсинга; поля Speaker, Location и YouTubeURL
// могут быть дополнены со страницы события.
type Event struct {
	ID          string
	Title       string
	Link        string
	Description string
	Category    string
	Published   time.Time
	Starts      time.Time
	Ends        time.Time
	Location    string
	Organizer   string
	EventType   string
	Speaker     string
	YouTubeURL  string
	ZoomURL     string
	FeedName    string
}

// Feed представляет полную ленту с метаданными и списком событий.
type Feed struct {
	Title       string
	Link        string
	Description string
	Events      []Event
}

// FeedResult - результат обработки одной ленты. Ошибка получения или
// парсинга остается внутри результата и не затрагивает другие ленты.
type FeedResult struct {
	URL  string
	Name string
	Feed *Feed
	Err  error
}

const eventPageFormat = "https://lsa.umich.edu/physics/news-events/all-events.detail.html/"

// EntryID возвращает стабильный идентификатор события для дедупликации
// между запусками. Приоритет: GUID без хостовой части, затем ссылка,
// затем SHA-256 от заголовка и даты публикации.
func EntryID(guid, link, title string, published time.Time) string {
	if g := NormalizeGUID(guid); g != "" {
		return g
	}
	if link != "" {
		return link
	}
	sum := sha256.Sum256([]byte(title + "|" + published.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(sum[:])
}

// NormalizeGUID отбрасывает хостовую часть GUID вида "12345@events.umich.edu".
func NormalizeGUID(guid string) string {
	guid = strings.TrimSpace(guid)
	if i := strings.IndexByte(guid, '@'); i >= 0 {
		return guid[:i]
	}
	return guid
}

// GUIDNumber возвращает числовую часть составного GUID.
// Для GUID без разделителя "@" возвращает пустую строку.
func GUIDNumber(guid string) string {
	guid = strings.TrimSpace(guid)
	if i := strings.IndexByte(guid, '@'); i >= 0 {
		return guid[:i]
	}
	return ""
}

// EventPageURL строит канонический URL страницы события по числовой части GUID.
func EventPageURL(guidNumber string) string {
	if guidNumber == "" {
		return ""
	}
	return eventPageFormat + guidNumber + ".html"
}
