package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"

	"github.com/buzzcrank/crankfeed/internal/domain"
)

type Config struct {
	Server     Server     `yaml:"server"`
	Airtable   Airtable   `yaml:"airtable"`
	Feed       Feed       `yaml:"feed"`
	NowPlaying NowPlaying `yaml:"nowPlaying"`
	Dashboard  Dashboard  `yaml:"dashboard"`
	Widgets    Widgets    `yaml:"widgets"`
}

type Server struct {
	Listen        string        `yaml:"listen"`
	ReadTimeout   time.Duration `yaml:"readTimeout"`
	WriteTimeout  time.Duration `yaml:"writeTimeout"`
	EnableTrace   bool          `yaml:"enableTrace"`
	TraceEndpoint string        `yaml:"traceEndpoint"`
}

type Airtable struct {
	APIKey       string        `yaml:"apiKey"`
	BaseID       string        `yaml:"baseID"`
	BaseURL      string        `yaml:"baseURL"`
	EventsTable  string        `yaml:"eventsTable"`
	ArtistsTable string        `yaml:"artistsTable"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"userAgent"`
}

type Feed struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`

	// CacheTTL keeps a successful feed body for reuse; zero disables caching.
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

type NowPlaying struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type Dashboard struct {
	FilterMode domain.FilterMode `yaml:"filterMode"` // server, local

	// Formula overrides for the event buckets. Empty keeps the built-in predicate.
	ApprovedFilter string `yaml:"approvedFilter"`
	PendingFilter  string `yaml:"pendingFilter"`
	SponsorFilter  string `yaml:"sponsorFilter"`
}

type Widgets struct {
	BaseURL        string        `yaml:"baseURL"`
	EventsPath     string        `yaml:"eventsPath"`
	BlogURL        string        `yaml:"blogURL"` // defaults to BaseURL + /api/blog
	NowPlayingPath string        `yaml:"nowPlayingPath"`
	BlogHome       string        `yaml:"blogHome"`
	EventsHome     string        `yaml:"eventsHome"`
	PollInterval   time.Duration `yaml:"pollInterval"`
	SnippetBudget  int           `yaml:"snippetBudget"`
	MaxPosts       int           `yaml:"maxPosts"`
}

const (
	DefaultAirtableBaseURL = "https://api.airtable.com/v0"
	DefaultFeedURL         = "https://buzzcrank.blogspot.com/feeds/posts/default?alt=json&max-results=3"
	DefaultBlogHome        = "https://buzzcrank.blogspot.com/"
	// DefaultUpstreamTimeout applies to every upstream client left unset. A
	// negative timeout disables the client limit.
	DefaultUpstreamTimeout = 10 * time.Second
)

// Load reads the YAML file at path (a missing file is not an error), applies
// environment overrides and fills defaults. It never validates credentials:
// absent ones surface per request as a domain.ConfigurationError.
func Load(path string) (Config, error) {
	var config Config

	if path != "" {
		file, err := os.Open(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrap(err, "open config")
		}
		if err == nil {
			defer file.Close()
			err = yaml.NewDecoder(file).Decode(&config)
			if err != nil {
				return Config{}, errors.Wrapf(err, "decode config %s", path)
			}
		}
	}

	config.applyEnvOverrides()
	config.applyDefaults()
	return config, nil
}

func (c *Config) applyEnvOverrides() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Airtable.APIKey, "AIRTABLE_API_KEY")
	set(&c.Airtable.BaseID, "AIRTABLE_BASE_ID")
	set(&c.Airtable.EventsTable, "AIRTABLE_EVENTS_TABLE")
	set(&c.Airtable.ArtistsTable, "AIRTABLE_ARTISTS_TABLE")
	set(&c.Feed.URL, "BLOGGER_FEED_URL")
	set(&c.NowPlaying.URL, "AZURACAST_NOWPLAYING_URL")
	set(&c.Server.Listen, "CRANKFEED_LISTEN")
}

func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Airtable.BaseURL == "" {
		c.Airtable.BaseURL = DefaultAirtableBaseURL
	}
	if c.Airtable.EventsTable == "" {
		c.Airtable.EventsTable = "Events"
	}
	if c.Airtable.ArtistsTable == "" {
		c.Airtable.ArtistsTable = "Artists"
	}
	for _, timeout := range []*time.Duration{&c.Airtable.Timeout, &c.Feed.Timeout, &c.NowPlaying.Timeout} {
		if *timeout == 0 {
			*timeout = DefaultUpstreamTimeout
		}
	}
	if c.Feed.URL == "" {
		c.Feed.URL = DefaultFeedURL
	}
	if c.Dashboard.FilterMode == "" {
		c.Dashboard.FilterMode = domain.FilterModeServer
	}
	if c.Widgets.BaseURL == "" {
		c.Widgets.BaseURL = "http://localhost" + c.Server.Listen
	}
	if c.Widgets.EventsPath == "" {
		c.Widgets.EventsPath = "/api/events"
	}
	if c.Widgets.BlogURL == "" {
		c.Widgets.BlogURL = strings.TrimRight(c.Widgets.BaseURL, "/") + "/api/blog"
	}
	if c.Widgets.NowPlayingPath == "" {
		c.Widgets.NowPlayingPath = "/api/nowplaying"
	}
	if c.Widgets.BlogHome == "" {
		c.Widgets.BlogHome = DefaultBlogHome
	}
	if c.Widgets.EventsHome == "" {
		c.Widgets.EventsHome = c.Widgets.BlogHome
	}
	if c.Widgets.PollInterval == 0 {
		c.Widgets.PollInterval = 30 * time.Second
	}
	if c.Widgets.SnippetBudget == 0 {
		c.Widgets.SnippetBudget = 220
	}
	if c.Widgets.MaxPosts == 0 {
		c.Widgets.MaxPosts = 3
	}
}

// Validate reports the tabular backend settings that are missing.
func (a Airtable) Validate() error {
	var missing []string
	if strings.TrimSpace(a.APIKey) == "" {
		missing = append(missing, "AIRTABLE_API_KEY")
	}
	if strings.TrimSpace(a.BaseID) == "" {
		missing = append(missing, "AIRTABLE_BASE_ID")
	}
	if len(missing) > 0 {
		return domain.ConfigurationError{Missing: missing}
	}
	return nil
}

func (n NowPlaying) Validate() error {
	if strings.TrimSpace(n.URL) == "" {
		return domain.ConfigurationError{Missing: []string{"AZURACAST_NOWPLAYING_URL"}}
	}
	return nil
}

func (f Feed) Validate() error {
	if strings.TrimSpace(f.URL) == "" {
		return domain.ConfigurationError{Missing: []string{"BLOGGER_FEED_URL"}}
	}
	return nil
}
