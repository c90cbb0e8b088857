package parser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:ev="http://purl.org/rss/1.0/modules/event/">
<channel>
<title>Physics Events</title>
<link>https://events.umich.edu</link>
<description>Department event feed</description>
<item>
<title>quantum matter seminar (December 17, 2025 12:00pm)</title>
<link>https://events.umich.edu/event/128533</link>
<guid>128533@events.umich.edu</guid>
<category>Lecture / Discussion</category>
<description><![CDATA[<p>Jane Doe (MIT)</p><p>In-person: West Hall, Room 340</p><p>Zoom: https://umich.zoom.us/j/123456</p>]]></description>
<pubDate>Mon, 01 Dec 2025 09:00:00 GMT</pubDate>
<ev:startdate>2025-12-17T12:00:00-05:00</ev:startdate>
<ev:enddate>2025-12-17T13:00:00-05:00</ev:enddate>
<ev:location>West Hall</ev:location>
<ev:organizer>Department of Physics</ev:organizer>
<ev:type>Seminar</ev:type>
</item>
<item>
<title>Colloquium on cosmology</title>
<link>https://events.umich.edu/event/128600</link>
<guid>128600@events.umich.edu</guid>
<description>A talk.</description>
<pubDate>Tue, 02 Dec 2025 09:00:00 GMT</pubDate>
</item>
</channel>
</rss>`

func TestFeedParser_Parse_Success(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parser := NewFeedParser(logger)

	ctx := context.Background()
	feed, err := parser.Parse(ctx, strings.NewReader(eventFeedXML))

	require.NoError(t, err)
	require.NotNil(t, feed)

	assert.Equal(t, "Physics Events", feed.Title)
	assert.Equal(t, "https://events.umich.edu", feed.Link)
	require.Len(t, feed.Events, 2)

	ev := feed.Events[0]
	assert.Equal(t, "128533", ev.ID)
	assert.Equal(t, "Quantum Matter Seminar", ev.Title)
	assert.Equal(t, "https://lsa.umich.edu/physics/news-events/all-events.detail.html/128533.html", ev.Link)
	assert.Equal(t, "Lecture / Discussion", ev.Category)
	assert.Equal(t, "West Hall", ev.Location)
	assert.Equal(t, "Department of Physics", ev.Organizer)
	assert.Equal(t, "Seminar", ev.EventType)
	assert.Equal(t, "https://umich.zoom.us/j/123456", ev.ZoomURL)
	assert.NotContains(t, ev.Description, "<p>")

	wantStart := time.Date(2025, 12, 17, 12, 0, 0, 0, time.FixedZone("", -5*3600))
	assert.True(t, ev.Starts.Equal(wantStart))
	assert.True(t, ev.Ends.Equal(wantStart.Add(time.Hour)))

	second := feed.Events[1]
	assert.Equal(t, "128600", second.ID)
	assert.True(t, second.Starts.IsZero())
	assert.Equal(t, "", second.Location)
}

func TestFeedParser_Parse_LocationFallsBackToDescription(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parser := NewFeedParser(logger)

	feedXML := `<?xml version="1.0"?>
<rss version="2.0">
<channel>
<title>Feed</title>
<item>
<title>Talk</title>
<link>https://example.com/talk</link>
<description>In-person: Randall Lab, Room 1224</description>
</item>
</channel>
</rss>`

	feed, err := parser.Parse(context.Background(), strings.NewReader(feedXML))

	require.NoError(t, err)
	require.Len(t, feed.Events, 1)
	assert.Equal(t, "Randall Lab", feed.Events[0].Location)
	// Без GUID идентификатором становится ссылка.
	assert.Equal(t, "https://example.com/talk", feed.Events[0].ID)
}

func TestFeedParser_Parse_Atom(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parser := NewFeedParser(logger)

	atom := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>Atom Events</title>
<entry>
<title>Atom Talk</title>
<id>urn:event:42</id>
<link href="https://example.com/atom/42"/>
<updated>2025-12-01T09:00:00Z</updated>
</entry>
</feed>`

	feed, err := parser.Parse(context.Background(), strings.NewReader(atom))

	require.NoError(t, err)
	assert.Equal(t, "Atom Events", feed.Title)
	require.Len(t, feed.Events, 1)
	assert.Equal(t, "Atom Talk", feed.Events[0].Title)
	assert.Equal(t, "urn:event:42", feed.Events[0].ID)
}

func TestFeedParser_Parse_InvalidDocument(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parser := NewFeedParser(logger)

	feed, err := parser.Parse(context.Background(), strings.NewReader("this is not a feed"))

	assert.Error(t, err)
	assert.Nil(t, feed)
	assert.Contains(t, err.Error(), "failed to parse feed")
}

func TestFeedParser_Parse_ContextCancelled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parser := NewFeedParser(logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	feed, err := parser.Parse(ctx, strings.NewReader(eventFeedXML))

	assert.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, feed)
}
