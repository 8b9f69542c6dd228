package cfg

type Cfg struct {
	// Application configuration
	Port           string
	FeedsFile      string
	ProxyURL       string
	UpdateInterval int
	FetchTimeout   int

	// AI configuration
	GeminiAPIKey string
	GeminiModel  string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
