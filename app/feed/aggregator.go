package feed

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/nouvelles/nouvelles/app/config"
)

// GlobalErrorMessage is the one user-facing error, shown only when every feed
// failed at the transport level and nothing could be merged.
const GlobalErrorMessage = "Failed to load any news feeds. Please check your internet connection or try again later."

// Fetcher retrieves the raw bytes of a URL, typically through the relay.
type Fetcher interface {
	Get(ctx context.Context, targetURL string) ([]byte, error)
}

type Aggregator struct {
	fetcher Fetcher
	parser  *Parser
}

func NewAggregator(fetcher Fetcher, parser *Parser) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		parser:  parser,
	}
}

type fetchOutcome struct {
	articles []Article
	err      error
}

// Run executes one aggregation cycle: every feed is fetched and parsed
// concurrently, and the cycle completes only once all feeds have settled.
// Transport failures become per-feed error statuses; parse failures surface
// as a healthy feed with zero items.
func (a *Aggregator) Run(ctx context.Context, feeds []config.Feed) Snapshot {
	start := time.Now()
	outcomes := make([]fetchOutcome, len(feeds))

	var wg sync.WaitGroup
	for i, fd := range feeds {
		wg.Add(1)
		go func(i int, fd config.Feed) {
			defer wg.Done()
			data, err := a.fetcher.Get(ctx, fd.URL)
			if err != nil {
				outcomes[i] = fetchOutcome{err: err}
				return
			}
			outcomes[i] = fetchOutcome{articles: a.parser.Run(data, fd)}
		}(i, fd)
	}
	wg.Wait()

	statuses := make([]Status, len(feeds))
	var merged []Article
	failedCount := 0

	for i, fd := range feeds {
		if outcomes[i].err != nil {
			slog.Warn("Feed fetch failed", "feed", fd.Name, "error", outcomes[i].err)
			statuses[i] = Status{FeedName: fd.Name, OK: false, ErrorMessage: outcomes[i].err.Error()}
			failedCount++
			continue
		}
		statuses[i] = Status{FeedName: fd.Name, OK: true}
		merged = append(merged, outcomes[i].articles...)
	}

	articles := dedupeAndSort(merged)

	snapshot := Snapshot{
		Articles:  articles,
		Statuses:  statuses,
		UpdatedAt: time.Now().UTC(),
	}
	if failedCount == len(feeds) && len(articles) == 0 {
		snapshot.GlobalError = GlobalErrorMessage
	}

	slog.Info("Aggregation cycle completed",
		"feeds", len(feeds),
		"failed", failedCount,
		"articles", len(articles),
		"duration", time.Since(start))

	return snapshot
}

// dedupeAndSort collapses articles sharing an ID (keeping the first
// occurrence's position but the last occurrence's value) and orders the
// result newest first. Articles without a parsed date compare as epoch and
// sink to the bottom.
func dedupeAndSort(articles []Article) []Article {
	position := make(map[string]int, len(articles))
	unique := make([]Article, 0, len(articles))

	for _, article := range articles {
		if at, seen := position[article.ID]; seen {
			unique[at] = article
			continue
		}
		position[article.ID] = len(unique)
		unique = append(unique, article)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return sortKey(unique[i]) > sortKey(unique[j])
	})

	return unique
}

func sortKey(article Article) int64 {
	if article.PublishedAt == nil {
		return 0
	}
	return article.PublishedAt.UnixMilli()
}
