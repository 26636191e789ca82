package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestTitleHash(t *testing.T) {
	assert.Len(t, TitleHash("Bitcoin hits new high"), 12)
	assert.Equal(t, TitleHash("Bitcoin hits new high"), TitleHash("  BITCOIN HITS NEW HIGH  "))
	assert.NotEqual(t, TitleHash("Bitcoin hits new high"), TitleHash("Ethereum hits new high"))
}

func rssServer(t *testing.T, titles ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>test</title>`)
		for i, title := range titles {
			fmt.Fprintf(w, `<item><title>%s</title><link>http://example.com/%d</link><pubDate>Mon, 02 Jan 2006 15:04:0%d GMT</pubDate></item>`, title, i, i)
		}
		fmt.Fprint(w, `</channel></rss>`)
	}))
}

func TestHeadlinesDedupesAcrossSources(t *testing.T) {
	srv1 := rssServer(t, "Fed cuts rates", "Election polls tighten")
	defer srv1.Close()
	srv2 := rssServer(t, "Fed Cuts Rates", "Bitcoin rallies")
	defer srv2.Close()

	fetcher := NewFetcher(Config{
		Feeds: map[string]string{"a": srv1.URL, "b": srv2.URL},
	}, zaptest.NewLogger(t))

	items, err := fetcher.Headlines(context.Background())
	require.NoError(t, err)

	titles := make(map[string]int)
	for _, item := range items {
		titles[TitleHash(item.Title)]++
	}
	assert.Len(t, titles, 3)
	for hash, count := range titles {
		assert.Equal(t, 1, count, hash)
	}
}

func TestHeadlinesSkipsProcessed(t *testing.T) {
	srv := rssServer(t, "Fed cuts rates", "Bitcoin rallies")
	defer srv.Close()

	fetcher := NewFetcher(Config{
		Feeds: map[string]string{"a": srv.URL},
	}, zaptest.NewLogger(t))

	fetcher.MarkProcessed(TitleHash("Fed cuts rates"))

	items, err := fetcher.Headlines(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bitcoin rallies", items[0].Title)
}

func TestHeadlinesSurvivesBrokenFeed(t *testing.T) {
	good := rssServer(t, "Fed cuts rates")
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	fetcher := NewFetcher(Config{
		Feeds: map[string]string{"good": good.URL, "bad": bad.URL},
	}, zaptest.NewLogger(t))

	items, err := fetcher.Headlines(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Fed cuts rates", items[0].Title)
}

func TestProcessedResets(t *testing.T) {
	fetcher := NewFetcher(Config{Feeds: map[string]string{}}, zaptest.NewLogger(t))
	fetcher.conf.Feeds = map[string]string{}

	hash := TitleHash("stale headline")
	fetcher.MarkProcessed(hash)
	fetcher.lastReset = time.Now().Add(-2 * time.Hour)

	fetcher.maybeResetProcessed()

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	assert.Empty(t, fetcher.processed)
}
