package feed

import (
	"time"

	"github.com/nouvelles/nouvelles/app/config"
)

// Article is the normalized unit produced by the parser. ID doubles as the
// deduplication key across the merged set.
type Article struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Link         string          `json:"link"`
	Description  string          `json:"description"`
	RawPubDate   string          `json:"pub_date,omitempty"`
	PublishedAt  *time.Time      `json:"published_at,omitempty"`
	ThumbnailURL string          `json:"thumbnail_url,omitempty"`
	SourceName   string          `json:"source_name"`
	Category     config.Category `json:"category"`
	Author       string          `json:"author,omitempty"`
}

// Status reports one feed's outcome for a single aggregation cycle. Only
// transport-level failures set OK to false; a malformed document still counts
// as a healthy feed with zero items.
type Status struct {
	FeedName     string `json:"feed_name"`
	OK           bool   `json:"ok"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Snapshot is the atomic result of one aggregation cycle. It fully replaces
// the previous cycle's state.
type Snapshot struct {
	Articles    []Article `json:"articles"`
	Statuses    []Status  `json:"statuses"`
	GlobalError string    `json:"global_error,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
