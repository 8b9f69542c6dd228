package thumb

import "regexp"

// DefaultPlaceholderURL is the final fixed fallback when even the seeded
// placeholder fails to render.
const DefaultPlaceholderURL = "https://picsum.photos/seed/newsfallback/400/200"

var seedSanitizer = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// PlaceholderURL builds a deterministic placeholder image URL for an article,
// so the same article always renders the same stand-in across sessions.
func PlaceholderURL(articleID string) string {
	seed := seedSanitizer.ReplaceAllString(articleID, "_")
	if len(seed) > 30 {
		seed = seed[:30]
	}
	if seed == "" {
		seed = "placeholder_seed"
	}
	return "https://picsum.photos/seed/" + seed + "/400/200"
}
