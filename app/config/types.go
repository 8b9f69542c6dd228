package config

import "fmt"

// Category classifies a feed. The "all" meta-category used by clients for
// filtering is deliberately not representable here.
type Category string

const (
	CategoryBusiness Category = "business"
	CategorySports   Category = "sports"
	CategoryWorld    Category = "world"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryBusiness, CategorySports, CategoryWorld:
		return true
	}
	return false
}

// UnmarshalYAML rejects unknown categories at load time rather than letting
// them leak into parsed articles.
func (c *Category) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed := Category(raw)
	if !parsed.Valid() {
		return fmt.Errorf("unknown category %q (expected business, sports or world)", raw)
	}
	*c = parsed
	return nil
}

// Feed describes one configured RSS/Atom source. Immutable after load.
type Feed struct {
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	Category Category `yaml:"category"`
}

type fileFormat struct {
	Feeds []Feed `yaml:"feeds"`
}
