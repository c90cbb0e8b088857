package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryID_PrefersGUID(t *testing.T) {
	id := EntryID("128533@events.umich.edu", "https://example.com/e/1", "Colloquium", time.Now())
	assert.Equal(t, "128533", id)
}

func TestEntryID_FallsBackToLink(t *testing.T) {
	id := EntryID("", "https://example.com/e/1", "Colloquium", time.Now())
	assert.Equal(t, "https://example.com/e/1", id)
}

func TestEntryID_HashFallbackIsDeterministic(t *testing.T) {
	ts := time.Date(2025, 12, 17, 12, 0, 0, 0, time.UTC)
	first := EntryID("", "", "Colloquium", ts)
	second := EntryID("", "", "Colloquium", ts)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, EntryID("", "", "Seminar", ts))
}

func TestGUIDNumber(t *testing.T) {
	assert.Equal(t, "128533", GUIDNumber("128533@events.umich.edu"))
	assert.Equal(t, "", GUIDNumber("no-host-part"))
	assert.Equal(t, "", GUIDNumber(""))
}

func TestEventPageURL(t *testing.T) {
	assert.Equal(t,
		"https://lsa.umich.edu/physics/news-events/all-events.detail.html/128533.html",
		EventPageURL("128533"),
	)
	assert.Equal(t, "", EventPageURL(""))
}
