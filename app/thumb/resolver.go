package thumb

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nouvelles/nouvelles/app/feed"
)

// Fetcher retrieves the raw bytes of a URL, typically through the relay.
type Fetcher interface {
	Get(ctx context.Context, targetURL string) ([]byte, error)
}

type Resolver struct {
	fetcher Fetcher
}

func NewResolver(fetcher Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

type bodyCandidate struct {
	src       string
	area      int
	plausible bool
}

// Resolve decides the image URL to display for an article. It trusts a
// feed-declared thumbnail unless it looks low-quality, otherwise scrapes the
// article page, and always lands on the deterministic placeholder when
// nothing acceptable is found. Network failures degrade silently.
func (r *Resolver) Resolve(ctx context.Context, article feed.Article) string {
	if article.ThumbnailURL != "" && !IsLowQualityURL(article.ThumbnailURL) {
		return article.ThumbnailURL
	}

	if article.Link == "" {
		return PlaceholderURL(article.ID)
	}

	data, err := r.fetcher.Get(ctx, article.Link)
	if err != nil {
		slog.Debug("Article page fetch failed", "link", article.Link, "error", err)
		return PlaceholderURL(article.ID)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return PlaceholderURL(article.ID)
	}

	base, err := url.Parse(article.Link)
	if err != nil {
		return PlaceholderURL(article.ID)
	}

	if src := r.pickBodyImage(doc, base); src != "" {
		return src
	}
	if src := r.pickMetaImage(doc, base); src != "" {
		return src
	}

	return PlaceholderURL(article.ID)
}

// pickBodyImage ranks every embedded image, plausible candidates first and
// larger areas ahead of smaller, and accepts the top one only if it is
// plausible with a known positive area.
func (r *Resolver) pickBodyImage(doc *goquery.Document, base *url.URL) string {
	var candidates []bodyCandidate

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src := imageSource(sel)
		if src == "" || strings.HasPrefix(src, "data:image/") || len(src) <= 10 {
			return
		}

		absolute, err := resolveAgainst(base, src)
		if err != nil {
			return
		}

		width := parseDimension(sel.AttrOr("width", ""))
		height := parseDimension(sel.AttrOr("height", ""))
		area := 0
		if width > 0 && height > 0 {
			area = width * height
		}

		plausible := IsPlausibleContentImage(absolute, sel.AttrOr("alt", ""), width, height, collectAncestors(sel))
		candidates = append(candidates, bodyCandidate{src: absolute, area: area, plausible: plausible})
	})

	if len(candidates) == 0 {
		return ""
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].plausible != candidates[j].plausible {
			return candidates[i].plausible
		}
		return candidates[i].area > candidates[j].area
	})

	top := candidates[0]
	if top.plausible && top.area > 0 {
		return top.src
	}
	return ""
}

// pickMetaImage falls back to page meta tags: Open Graph first, then a
// Twitter card, then rel="image_src". The first URL passing the low-quality
// filter wins; the first low-quality match is kept as a last resort.
func (r *Resolver) pickMetaImage(doc *goquery.Document, base *url.URL) string {
	selectors := []struct {
		query, attr string
	}{
		{`meta[property="og:image"]`, "content"},
		{`meta[name="twitter:image"]`, "content"},
		{`link[rel="image_src"]`, "href"},
	}

	lastResort := ""
	for _, meta := range selectors {
		raw, ok := doc.Find(meta.query).First().Attr(meta.attr)
		if !ok || raw == "" {
			continue
		}
		absolute, err := resolveAgainst(base, raw)
		if err != nil {
			continue
		}
		if !IsLowQualityURL(absolute) {
			return absolute
		}
		if lastResort == "" {
			lastResort = absolute
		}
	}

	return lastResort
}

// imageSource reads src with the usual lazy-loading attribute fallbacks.
func imageSource(sel *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src", "data-lazy-src", "data-original"} {
		if value, ok := sel.Attr(attr); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func resolveAgainst(base *url.URL, raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// collectAncestors summarizes up to 5 enclosing elements, innermost first.
func collectAncestors(sel *goquery.Selection) []Ancestor {
	var ancestors []Ancestor
	parent := sel.Parent()
	for i := 0; i < 5 && parent.Length() > 0; i++ {
		node := parent.Get(0)
		if node.Data == "" || node.Data == "html" {
			break
		}
		ancestors = append(ancestors, Ancestor{
			Tag:   strings.ToLower(node.Data),
			Class: parent.AttrOr("class", ""),
			ID:    parent.AttrOr("id", ""),
			Role:  parent.AttrOr("role", ""),
		})
		parent = parent.Parent()
	}
	return ancestors
}

// parseDimension reads the leading integer of a dimension attribute, so both
// "300" and "300px" yield 300. Anything else counts as unknown.
func parseDimension(value string) int {
	value = strings.TrimSpace(value)
	n := 0
	ok := false
	for _, r := range value {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		ok = true
	}
	if !ok {
		return 0
	}
	return n
}
