package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/nouvelles/nouvelles/app/config"
)

func newTestHub(fetcher Fetcher) *Hub {
	feeds := []config.Feed{
		{Name: "Feed A", URL: "https://a.example.com/rss", Category: config.CategoryBusiness},
	}
	return NewHub(NewAggregator(fetcher, NewParser()), feeds, time.Hour)
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	fetcher := &stubFetcher{
		responses: map[string][]byte{
			"https://a.example.com/rss": rssWithItems(`
    <item>
      <title>Item</title>
      <link>https://a.example.com/item</link>
      <pubDate>Tue, 02 Jan 2024 09:00:00 GMT</pubDate>
    </item>`),
		},
	}

	hub := newTestHub(fetcher)
	defer hub.Stop()

	if len(hub.Snapshot().Articles) != 0 {
		t.Fatal("Expected empty snapshot before first refresh")
	}

	if !hub.Refresh(false) {
		t.Fatal("Expected refresh to run")
	}

	snapshot := hub.Snapshot()
	if len(snapshot.Articles) != 1 {
		t.Fatalf("Expected 1 article after refresh, got: %d", len(snapshot.Articles))
	}
	if len(snapshot.Statuses) != 1 || !snapshot.Statuses[0].OK {
		t.Fatalf("Expected ok status, got: %+v", snapshot.Statuses)
	}

	// A later failing cycle fully supersedes the earlier state.
	fetcher.failures = map[string]error{"https://a.example.com/rss": fmt.Errorf("boom")}
	fetcher.responses = nil

	hub.Refresh(false)

	snapshot = hub.Snapshot()
	if len(snapshot.Articles) != 0 {
		t.Errorf("Expected no articles after failing cycle, got: %d", len(snapshot.Articles))
	}
	if snapshot.GlobalError == "" {
		t.Error("Expected global error after total failure")
	}
}

func TestAutomaticRefreshSkippedWhileInFlight(t *testing.T) {
	hub := newTestHub(&stubFetcher{})
	defer hub.Stop()

	hub.inFlight.Store(true)

	if hub.Refresh(false) {
		t.Error("Expected automatic refresh to be skipped while a cycle is in flight")
	}
	if !hub.Refresh(true) {
		t.Error("Expected manual refresh to run even while a cycle is in flight")
	}
}

func TestStopDiscardsLateResults(t *testing.T) {
	fetcher := &stubFetcher{
		responses: map[string][]byte{
			"https://a.example.com/rss": rssWithItems(`
    <item>
      <title>Late Item</title>
      <link>https://a.example.com/late</link>
    </item>`),
		},
	}

	hub := newTestHub(fetcher)
	hub.cancel()
	hub.runCycle()

	if len(hub.Snapshot().Articles) != 0 {
		t.Error("Expected result arriving after teardown to be discarded")
	}
}

func TestArticleLookup(t *testing.T) {
	fetcher := &stubFetcher{
		responses: map[string][]byte{
			"https://a.example.com/rss": rssWithItems(`
    <item>
      <title>Findable</title>
      <link>https://a.example.com/findable</link>
    </item>`),
		},
	}

	hub := newTestHub(fetcher)
	defer hub.Stop()
	hub.Refresh(true)

	article, ok := hub.Article("https://a.example.com/findable")
	if !ok {
		t.Fatal("Expected article to be found by ID")
	}
	if article.Title != "Findable" {
		t.Errorf("Expected title 'Findable', got: %s", article.Title)
	}

	if _, ok := hub.Article("https://a.example.com/missing"); ok {
		t.Error("Expected lookup miss for unknown ID")
	}
}
