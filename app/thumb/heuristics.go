// Package thumb picks a representative image for an article: the
// feed-declared thumbnail when it looks like real content, otherwise the most
// plausible image scraped from the article page, otherwise a deterministic
// placeholder.
package thumb

import (
	"regexp"
	"strings"
)

// lowQualityKeywords flag URLs of decorative or non-content imagery.
var lowQualityKeywords = []string{
	"logo", "icon", "avatar", "placeholder", "default", "spinner",
	"transparent.gif", "spacer.gif", "blank.gif", "loading.gif",
	"gradient", "pattern", "bg.", "captcha", "badge", "feed", "rss", "sprite",
}

// implausibleKeywords extend the low-quality families with ad, social,
// navigation, byline and widget terms for in-page images.
var implausibleKeywords = []string{
	"ad", "banner", "pixel", "tracker", "default-image", "profile-", "avatar",
	"author", "user", "comment", "gravatar", "share", "social", "button",
	"icon", "logo", "spinner", "loading", "transparent", "empty", "spacer",
	"placeholder", "cover-default", "thumb-default", "sprite", "captcha",
	"badge", "award", "rating", "star", "rss", "feed", "widget", "navigation",
	"nav-", "menu", "breadcrumb", "bg-", "background", "pattern", "bullet",
	"arrow", "disclosure",
}

// nonContentIndicators mark ancestor elements of structural page regions that
// never hold the lead image.
var nonContentIndicators = []string{
	"header", "footer", "nav", "aside", "sidebar", "menu", "toolbar", "banner",
	"masthead", "topbar", "ad", "ads", "advertisement", "promo", "share",
	"social", "logo", "authorbox", "user-profile", "avatar", "profile", "bio",
	"meta", "timestamp", "byline", "comments", "related-posts", "pagination",
	"carousel-controls", "modal", "popup", "dropdown", "tooltip", "breadcrumb",
	"search", "form", "survey", "widget", "figcaption", "caption", "credit",
	"source", "tag", "category-links", "breadcrumbs",
}

// Tiny explicit dimensions encoded in a URL, e.g. /32x32/, _16x16. or w=24.
var (
	tinyPathPattern   = regexp.MustCompile(`/\d{1,2}x\d{1,2}/`)
	tinySuffixPattern = regexp.MustCompile(`_\d{1,2}x\d{1,2}\.`)
	tinyQueryPattern  = regexp.MustCompile(`[?&](w|width|h|height)=\d{1,2}(&|$)`)
)

const (
	minDimension = 120
	// Slightly relaxed from minDimension squared: an image whose both
	// dimensions individually clear the minimum is allowed a smaller area.
	minArea           = minDimension * minDimension * 8 / 10
	skewAreaThreshold = 100000
	maxAspectRatio    = 4.0
)

// IsLowQualityURL reports whether a candidate thumbnail URL likely points to
// decorative, non-content imagery. Pure function of the string content.
func IsLowQualityURL(imageURL string) bool {
	if imageURL == "" {
		return true
	}
	lower := strings.ToLower(imageURL)
	for _, keyword := range lowQualityKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return hasTinyDimensionPattern(lower)
}

// Ancestor summarizes one enclosing element of an in-page image, as far as
// the plausibility check cares about it.
type Ancestor struct {
	Tag   string
	Class string
	ID    string
	Role  string
}

func (a Ancestor) nonContent() bool {
	if a.Tag == "figure" {
		// A figure wrapper itself is fine; only its surroundings disqualify.
		return false
	}
	class := strings.ToLower(a.Class)
	id := strings.ToLower(a.ID)
	role := strings.ToLower(a.Role)
	for _, indicator := range nonContentIndicators {
		if a.Tag == indicator ||
			strings.Contains(class, indicator) ||
			strings.Contains(id, indicator) ||
			strings.Contains(role, indicator) {
			return true
		}
	}
	return false
}

// IsPlausibleContentImage judges whether a scraped <img> could be the
// article's lead image. width and height are the declared dimensions; zero
// means unknown, and an image with unknown dimensions is never plausible.
// ancestors holds up to 5 enclosing elements, innermost first.
func IsPlausibleContentImage(src, alt string, width, height int, ancestors []Ancestor) bool {
	lowerSrc := strings.ToLower(src)
	lowerAlt := strings.ToLower(alt)
	for _, keyword := range implausibleKeywords {
		if strings.Contains(lowerSrc, keyword) || (lowerAlt != "" && strings.Contains(lowerAlt, keyword)) {
			return false
		}
	}

	limit := len(ancestors)
	if limit > 5 {
		limit = 5
	}
	for _, ancestor := range ancestors[:limit] {
		if ancestor.nonContent() {
			return false
		}
	}

	if (width > 0 && width < minDimension) || (height > 0 && height < minDimension) {
		return false
	}
	if width*height < minArea {
		return false
	}

	if width > 0 && height > 0 {
		ratio := float64(width) / float64(height)
		if (ratio > maxAspectRatio || ratio < 1/maxAspectRatio) && width*height < skewAreaThreshold {
			return false
		}
	} else {
		return false
	}

	return !hasTinyDimensionPattern(lowerSrc)
}

func hasTinyDimensionPattern(lowerURL string) bool {
	return tinyPathPattern.MatchString(lowerURL) ||
		tinySuffixPattern.MatchString(lowerURL) ||
		tinyQueryPattern.MatchString(lowerURL)
}
