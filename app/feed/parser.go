package feed

import (
	"bytes"
	"cmp"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/nouvelles/nouvelles/app/config"
)

const descriptionLimit = 200

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run extracts normalized articles from raw RSS/Atom bytes. It never returns
// an error: an unparseable document yields an empty result and is only
// surfaced as a log entry, so one broken feed cannot poison a cycle.
func (p *Parser) Run(data []byte, source config.Feed) []Article {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to parse feed document", "feed", source.Name, "error", err)
		return []Article{}
	}

	articles := make([]Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		article, ok := p.normalizeItem(item, source)
		if !ok {
			// Deliberate filter, not a failure: entries without a title or a
			// resolvable link are unusable downstream.
			continue
		}
		articles = append(articles, article)
	}

	return articles
}

func (p *Parser) normalizeItem(item *gofeed.Item, source config.Feed) (Article, bool) {
	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		return Article{}, false
	}

	rawDescription := cmp.Or(strings.TrimSpace(item.Description), strings.TrimSpace(item.Content))
	rawPubDate := strings.TrimSpace(item.Published)

	article := Article{
		ID:           cmp.Or(link, title+rawPubDate),
		Title:        title,
		Link:         link,
		Description:  truncate(stripHTML(rawDescription), descriptionLimit),
		RawPubDate:   rawPubDate,
		PublishedAt:  parsePubDate(item, rawPubDate),
		ThumbnailURL: extractThumbnail(item, rawDescription),
		SourceName:   source.Name,
		Category:     source.Category,
		Author:       cmp.Or(extractAuthor(item), source.Name),
	}

	return article, true
}

// parsePubDate returns nil when the raw string cannot be interpreted; callers
// treat a missing date as earliest-possible when sorting.
func parsePubDate(item *gofeed.Item, raw string) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	if raw == "" {
		return nil
	}
	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}
	return &parsed
}

func extractAuthor(item *gofeed.Item) string {
	for _, author := range item.Authors {
		if author != nil && strings.TrimSpace(author.Name) != "" {
			return strings.TrimSpace(author.Name)
		}
	}
	if item.DublinCoreExt != nil {
		for _, creator := range item.DublinCoreExt.Creator {
			if strings.TrimSpace(creator) != "" {
				return strings.TrimSpace(creator)
			}
		}
	}
	return ""
}

// extractThumbnail walks the candidate sources in priority order:
// media:thumbnail, media:content with medium="image", an image enclosure,
// then the first absolute http(s) <img> inside the description HTML.
func extractThumbnail(item *gofeed.Item, description string) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, thumbnail := range media["thumbnail"] {
			if url := thumbnail.Attrs["url"]; url != "" {
				return url
			}
		}
		for _, content := range media["content"] {
			if content.Attrs["medium"] == "image" && content.Attrs["url"] != "" {
				return content.Attrs["url"]
			}
		}
	}

	for _, enclosure := range item.Enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") && enclosure.URL != "" {
			return enclosure.URL
		}
	}

	if description != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
		if err == nil {
			if src, ok := doc.Find("img").First().Attr("src"); ok {
				if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
					return src
				}
			}
		}
	}

	return ""
}

// stripHTML reduces an HTML fragment to its text content. Unparseable input
// falls back to the raw string rather than dropping the description.
func stripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
