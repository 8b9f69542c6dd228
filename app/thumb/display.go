package thumb

// Display tracks the per-article degradation chain for runtime image load
// failures: the resolved URL first, then the seeded placeholder, then the
// fixed default. Each step is taken at most once per display instance.
type Display struct {
	articleID string
	current   string
}

func NewDisplay(articleID, resolvedURL string) *Display {
	return &Display{articleID: articleID, current: resolvedURL}
}

func (d *Display) Current() string {
	return d.current
}

// OnError advances to the next fallback after the current URL failed to
// render. It returns false once no further fallback remains.
func (d *Display) OnError() bool {
	seeded := PlaceholderURL(d.articleID)
	switch {
	case d.current != seeded && d.current != DefaultPlaceholderURL:
		d.current = seeded
		return true
	case d.current != DefaultPlaceholderURL:
		d.current = DefaultPlaceholderURL
		return true
	default:
		return false
	}
}
