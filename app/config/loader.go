package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads the feed list from a YAML file.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// LoadFeeds parses and validates the configured feed list. An empty feed list
// is an error: the aggregator has nothing to do without sources.
func (l *Loader) LoadFeeds() ([]Feed, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file: %w", err)
	}

	var file fileFormat
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file: %w", err)
	}

	if len(file.Feeds) == 0 {
		return nil, fmt.Errorf("no feeds defined in %s", l.path)
	}

	seen := make(map[string]bool, len(file.Feeds))
	for i, feed := range file.Feeds {
		if err := l.validate(feed); err != nil {
			return nil, fmt.Errorf("invalid feed at index %d: %w", i, err)
		}
		if seen[feed.Name] {
			return nil, fmt.Errorf("duplicate feed name %q", feed.Name)
		}
		seen[feed.Name] = true
	}

	return file.Feeds, nil
}

func (l *Loader) validate(feed Feed) error {
	if feed.Name == "" {
		return fmt.Errorf("feed name is required")
	}
	if feed.URL == "" {
		return fmt.Errorf("feed URL is required")
	}
	parsed, err := url.Parse(feed.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("feed URL %q is not a valid http(s) URL", feed.URL)
	}
	if !feed.Category.Valid() {
		return fmt.Errorf("feed category is required")
	}
	return nil
}
