package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	Port           string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	FeedsFile      string `long:"feeds-file" env:"FEEDS_FILE" default:"./feeds.yml" description:"YAML file listing the RSS/Atom feeds to aggregate"`
	ProxyURL       string `long:"proxy-url" env:"PROXY_URL" default:"https://api.allorigins.win/raw?url=" description:"CORS-bypassing relay prefix for outbound fetches"`
	UpdateInterval int    `long:"update-interval" env:"UPDATE_INTERVAL" default:"1800" description:"Automatic refresh interval in seconds"`
	FetchTimeout   int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Timeout in seconds for a single outbound fetch"`

	// AI configuration
	GeminiAPIKey string `long:"gemini-api-key" env:"API_KEY" description:"Gemini API key (AI question answering is disabled when unset)"`
	GeminiModel  string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-2.5-flash-preview-04-17" description:"Gemini model name"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Nouvelles/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:           raw.Port,
		FeedsFile:      raw.FeedsFile,
		ProxyURL:       raw.ProxyURL,
		UpdateInterval: raw.UpdateInterval,
		FetchTimeout:   raw.FetchTimeout,
		GeminiAPIKey:   raw.GeminiAPIKey,
		GeminiModel:    raw.GeminiModel,
		UserAgent:      raw.UserAgent,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
