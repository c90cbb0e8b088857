package enrich

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"physevents/internal/domain"
)

const detailPageHTML = `<html><body>
<div class="pageTitle">
  <h1>Quantum Matter Seminar</h1>
  <div class="subtitle">Jane Doe (MIT)</div>
</div>
<div class="event-detail-float">
  <div class="place">West Hall, Room 340</div>
</div>
<div class="event-detail-wrap">
  <div class="description-wrap">
    The event will be livestreamed: https://youtu.be/dQw4w9WgXcQ
  </div>
</div>
</body></html>`

func TestDetailScraper_Enrich(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(detailPageHTML))
	}))
	defer testServer.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scraper := NewDetailScraper(5*time.Second, logger)

	ev := domain.Event{Link: testServer.URL, Location: "West Hall"}
	scraper.Enrich(context.Background(), &ev)

	assert.Equal(t, "Jane Doe (MIT)", ev.Speaker)
	assert.Equal(t, "West Hall, Room 340", ev.Location)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", ev.YouTubeURL)
}

func TestDetailScraper_Enrich_FetchFailureKeepsFeedFields(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer testServer.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scraper := NewDetailScraper(5*time.Second, logger)

	ev := domain.Event{Link: testServer.URL, Location: "West Hall", Speaker: ""}
	scraper.Enrich(context.Background(), &ev)

	assert.Equal(t, "West Hall", ev.Location)
	assert.Equal(t, "", ev.Speaker)
}

func TestDetailScraper_Enrich_NoLinkIsNoop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scraper := NewDetailScraper(5*time.Second, logger)

	ev := domain.Event{}
	scraper.Enrich(context.Background(), &ev)

	assert.Equal(t, domain.Event{}, ev)
}
