package feed

import (
	"context"
	"fmt"
	"testing"

	"github.com/nouvelles/nouvelles/app/config"
)

// stubFetcher serves canned responses per target URL.
type stubFetcher struct {
	responses map[string][]byte
	failures  map[string]error
}

func (s *stubFetcher) Get(_ context.Context, targetURL string) ([]byte, error) {
	if err, ok := s.failures[targetURL]; ok {
		return nil, err
	}
	if data, ok := s.responses[targetURL]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("no stub for %s", targetURL)
}

func rssWithItems(items string) []byte {
	return []byte(`<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Stub Feed</title>
` + items + `
  </channel>
</rss>`)
}

func TestRunMergesAndSorts(t *testing.T) {
	feeds := []config.Feed{
		{Name: "Feed A", URL: "https://a.example.com/rss", Category: config.CategoryBusiness},
		{Name: "Feed B", URL: "https://b.example.com/rss", Category: config.CategorySports},
		{Name: "Feed C", URL: "https://c.example.com/rss", Category: config.CategoryWorld},
	}

	fetcher := &stubFetcher{
		responses: map[string][]byte{
			"https://a.example.com/rss": rssWithItems(`
    <item>
      <title>A Item Old</title>
      <link>https://a.example.com/old</link>
      <pubDate>Mon, 01 Jan 2024 09:00:00 GMT</pubDate>
    </item>
    <item>
      <title>A Item New</title>
      <link>https://a.example.com/new</link>
      <pubDate>Tue, 02 Jan 2024 09:00:00 GMT</pubDate>
    </item>`),
			"https://c.example.com/rss": rssWithItems(`
    <item>
      <title>C Item Dateless</title>
      <link>https://c.example.com/dateless</link>
      <pubDate>not a date</pubDate>
    </item>`),
		},
		failures: map[string]error{
			"https://b.example.com/rss": fmt.Errorf("connection refused"),
		},
	}

	snapshot := NewAggregator(fetcher, NewParser()).Run(context.Background(), feeds)

	if len(snapshot.Articles) != 3 {
		t.Fatalf("Expected 3 articles, got: %d", len(snapshot.Articles))
	}
	if snapshot.Articles[0].Title != "A Item New" {
		t.Errorf("Expected newest article first, got: %s", snapshot.Articles[0].Title)
	}
	if snapshot.Articles[1].Title != "A Item Old" {
		t.Errorf("Expected older article second, got: %s", snapshot.Articles[1].Title)
	}
	// A dateless article compares as epoch and sinks to the bottom.
	if snapshot.Articles[2].Title != "C Item Dateless" {
		t.Errorf("Expected dateless article last, got: %s", snapshot.Articles[2].Title)
	}

	if len(snapshot.Statuses) != 3 {
		t.Fatalf("Expected 3 statuses, got: %d", len(snapshot.Statuses))
	}
	if !snapshot.Statuses[0].OK {
		t.Error("Expected Feed A status ok")
	}
	if snapshot.Statuses[1].OK {
		t.Error("Expected Feed B status error")
	}
	if snapshot.Statuses[1].ErrorMessage == "" {
		t.Error("Expected Feed B error message")
	}
	if !snapshot.Statuses[2].OK {
		t.Error("Expected Feed C status ok")
	}

	// One feed failing transport-wise does not set the global error.
	if snapshot.GlobalError != "" {
		t.Errorf("Expected no global error on partial failure, got: %s", snapshot.GlobalError)
	}
	if snapshot.UpdatedAt.IsZero() {
		t.Error("Expected snapshot timestamp to be set")
	}
}

func TestRunDeduplicatesLastWins(t *testing.T) {
	feeds := []config.Feed{
		{Name: "Feed A", URL: "https://a.example.com/rss", Category: config.CategoryBusiness},
		{Name: "Feed B", URL: "https://b.example.com/rss", Category: config.CategorySports},
	}

	fetcher := &stubFetcher{
		responses: map[string][]byte{
			"https://a.example.com/rss": rssWithItems(`
    <item>
      <title>First Title</title>
      <link>https://x.com/a</link>
      <pubDate>Tue, 02 Jan 2024 09:00:00 GMT</pubDate>
    </item>`),
			"https://b.example.com/rss": rssWithItems(`
    <item>
      <title>Second Title</title>
      <link>https://x.com/a</link>
      <pubDate>Tue, 02 Jan 2024 09:00:00 GMT</pubDate>
    </item>`),
		},
	}

	snapshot := NewAggregator(fetcher, NewParser()).Run(context.Background(), feeds)

	if len(snapshot.Articles) != 1 {
		t.Fatalf("Expected 1 article after dedup, got: %d", len(snapshot.Articles))
	}
	if snapshot.Articles[0].Title != "Second Title" {
		t.Errorf("Expected the later-encountered duplicate to win, got: %s", snapshot.Articles[0].Title)
	}
	if snapshot.Articles[0].SourceName != "Feed B" {
		t.Errorf("Expected the winning article to carry Feed B's source, got: %s", snapshot.Articles[0].SourceName)
	}
}

func TestRunTotalFailure(t *testing.T) {
	feeds := []config.Feed{
		{Name: "Feed A", URL: "https://a.example.com/rss", Category: config.CategoryBusiness},
		{Name: "Feed B", URL: "https://b.example.com/rss", Category: config.CategorySports},
	}

	fetcher := &stubFetcher{
		failures: map[string]error{
			"https://a.example.com/rss": fmt.Errorf("timeout"),
			"https://b.example.com/rss": fmt.Errorf("dns failure"),
		},
	}

	snapshot := NewAggregator(fetcher, NewParser()).Run(context.Background(), feeds)

	if len(snapshot.Articles) != 0 {
		t.Errorf("Expected no articles, got: %d", len(snapshot.Articles))
	}
	if snapshot.GlobalError == "" {
		t.Error("Expected global error when every feed rejected")
	}
	for _, status := range snapshot.Statuses {
		if status.OK {
			t.Errorf("Expected error status for %s", status.FeedName)
		}
	}
}

func TestRunMalformedFeedReportsHealthy(t *testing.T) {
	feeds := []config.Feed{
		{Name: "Broken XML", URL: "https://broken.example.com/rss", Category: config.CategoryWorld},
	}

	fetcher := &stubFetcher{
		responses: map[string][]byte{
			"https://broken.example.com/rss": []byte("<<< definitely not a feed >>>"),
		},
	}

	snapshot := NewAggregator(fetcher, NewParser()).Run(context.Background(), feeds)

	// A malformed document is indistinguishable from an empty-but-healthy
	// feed: zero items, status ok, and no global error.
	if len(snapshot.Articles) != 0 {
		t.Errorf("Expected no articles, got: %d", len(snapshot.Articles))
	}
	if len(snapshot.Statuses) != 1 || !snapshot.Statuses[0].OK {
		t.Fatalf("Expected ok status for malformed feed, got: %+v", snapshot.Statuses)
	}
	if snapshot.GlobalError != "" {
		t.Errorf("Expected no global error, got: %s", snapshot.GlobalError)
	}
}
