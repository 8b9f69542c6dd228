package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFeedsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feeds.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write feeds file: %v", err)
	}
	return path
}

func TestLoadFeeds(t *testing.T) {
	path := writeFeedsFile(t, `feeds:
  - name: CNBC Top Business
    url: https://www.cnbc.com/id/10001147/device/rss/rss.html
    category: business
  - name: BBC Sport
    url: https://feeds.bbci.co.uk/sport/rss.xml
    category: sports
  - name: BBC News World
    url: https://feeds.bbci.co.uk/news/rss.xml
    category: world
`)

	feeds, err := NewLoader(path).LoadFeeds()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(feeds) != 3 {
		t.Fatalf("Expected 3 feeds, got: %d", len(feeds))
	}
	if feeds[0].Name != "CNBC Top Business" {
		t.Errorf("Expected name 'CNBC Top Business', got: %s", feeds[0].Name)
	}
	if feeds[0].Category != CategoryBusiness {
		t.Errorf("Expected category business, got: %s", feeds[0].Category)
	}
	if feeds[2].Category != CategoryWorld {
		t.Errorf("Expected category world, got: %s", feeds[2].Category)
	}
}

func TestLoadFeedsUnknownCategory(t *testing.T) {
	path := writeFeedsFile(t, `feeds:
  - name: Some Feed
    url: https://example.com/rss
    category: technology
`)

	_, err := NewLoader(path).LoadFeeds()
	if err == nil {
		t.Fatal("Expected error for unknown category, got nil")
	}
}

func TestLoadFeedsMissingURL(t *testing.T) {
	path := writeFeedsFile(t, `feeds:
  - name: Some Feed
    category: business
`)

	_, err := NewLoader(path).LoadFeeds()
	if err == nil {
		t.Fatal("Expected error for missing URL, got nil")
	}
}

func TestLoadFeedsInvalidURLScheme(t *testing.T) {
	path := writeFeedsFile(t, `feeds:
  - name: Some Feed
    url: ftp://example.com/rss
    category: business
`)

	_, err := NewLoader(path).LoadFeeds()
	if err == nil {
		t.Fatal("Expected error for non-http URL, got nil")
	}
}

func TestLoadFeedsDuplicateName(t *testing.T) {
	path := writeFeedsFile(t, `feeds:
  - name: Same Name
    url: https://example.com/a
    category: business
  - name: Same Name
    url: https://example.com/b
    category: sports
`)

	_, err := NewLoader(path).LoadFeeds()
	if err == nil {
		t.Fatal("Expected error for duplicate feed name, got nil")
	}
}

func TestLoadFeedsEmpty(t *testing.T) {
	path := writeFeedsFile(t, `feeds: []`)

	_, err := NewLoader(path).LoadFeeds()
	if err == nil {
		t.Fatal("Expected error for empty feed list, got nil")
	}
}

func TestLoadFeedsMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.yml")).LoadFeeds()
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}
