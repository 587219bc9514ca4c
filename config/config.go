package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
)

// RegionPlaceholder is replaced by the région code in OutputPath.
const RegionPlaceholder = "{}"

type Config struct {
	PoolSize         int           `envconfig:"POOL_SIZE" default:"15"`
	OutputPath       string        `envconfig:"OUTPUT_PATH" default:"data/output/{}.json"`
	BlockedThreshold int           `envconfig:"BLOCKED_THRESHOLD" default:"10"`
	TimeZone         string        `envconfig:"TIMEZONE" default:"Europe/Paris"`
	RequestTimeout   time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	PlatformRPS      float64       `envconfig:"PLATFORM_RPS" default:"5"`
	PlatformBurst    int           `envconfig:"PLATFORM_BURST" default:"5"`

	Sources  SourcesConfig
	Browser  BrowserConfig
	Platform PlatformConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

type SourcesConfig struct {
	CentersFeedURL      string `envconfig:"CENTERS_FEED_URL" default:"https://www.data.gouv.fr/fr/datasets/r/5cb21a85-b0b0-4a65-a249-806a040ec372"`
	DoctolibCentersURL  string `envconfig:"DOCTOLIB_CENTERS_URL" default:"https://raw.githubusercontent.com/CovidTrackerFr/vitemadose/data-auto/data/output/doctolib-centers.json"`
	DoctolibCentersPath string `envconfig:"DOCTOLIB_CENTERS_PATH" default:"data/output/doctolib-centers.json"`
	MaiiaCentersURL     string `envconfig:"MAIIA_CENTERS_URL" default:"https://raw.githubusercontent.com/CovidTrackerFr/vitemadose/data-auto/data/output/maiia_centers.json"`
	MaiiaCentersPath    string `envconfig:"MAIIA_CENTERS_PATH" default:"data/output/maiia_centers.json"`
	OrdoclicEnabled     bool   `envconfig:"ORDOCLIC_CENTERS_ENABLED" default:"true"`
}

type BrowserConfig struct {
	Headless bool          `envconfig:"HEADLESS" default:"true"`
	Timeout  time.Duration `envconfig:"BROWSER_TIMEOUT" default:"60s"`
}

type PlatformConfig struct {
	DoctolibURL string `envconfig:"DOCTOLIB_API_URL" default:"https://partners.doctolib.fr"`
	MaiiaURL    string `envconfig:"MAIIA_API_URL" default:"https://www.maiia.com"`
	KeldocURL   string `envconfig:"KELDOC_API_URL" default:"https://booking.keldoc.com"`
	OrdoclicURL string `envconfig:"ORDOCLIC_API_URL" default:"https://api.ordoclic.fr"`
}

type PostgresConfig struct {
	DSN string `envconfig:"PG_DSN"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	Prefix   string `envconfig:"REDIS_PREFIX" default:"vaccine:"`
}

type MetricsConfig struct {
	PushgatewayURL string `envconfig:"PUSHGATEWAY_URL"`
	Job            string `envconfig:"PUSHGATEWAY_JOB" default:"vaccine_slot_scraper"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.PoolSize < 1 {
		return errors.Newf("POOL_SIZE must be at least 1, got %d", c.PoolSize)
	}
	if strings.Count(c.OutputPath, RegionPlaceholder) != 1 {
		return errors.Newf("OUTPUT_PATH must contain exactly one %q placeholder: %q", RegionPlaceholder, c.OutputPath)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return errors.Wrapf(err, "unknown TIMEZONE %q", c.TimeZone)
	}
	return nil
}

// Location resolves TimeZone; Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func DefaultConfig() *Config {
	return &Config{
		PoolSize:         15,
		OutputPath:       "data/output/{}.json",
		BlockedThreshold: 10,
		TimeZone:         "Europe/Paris",
		RequestTimeout:   30 * time.Second,
		PlatformRPS:      5,
		PlatformBurst:    5,
		Sources: SourcesConfig{
			CentersFeedURL:      "https://www.data.gouv.fr/fr/datasets/r/5cb21a85-b0b0-4a65-a249-806a040ec372",
			DoctolibCentersURL:  "https://raw.githubusercontent.com/CovidTrackerFr/vitemadose/data-auto/data/output/doctolib-centers.json",
			DoctolibCentersPath: "data/output/doctolib-centers.json",
			MaiiaCentersURL:     "https://raw.githubusercontent.com/CovidTrackerFr/vitemadose/data-auto/data/output/maiia_centers.json",
			MaiiaCentersPath:    "data/output/maiia_centers.json",
			OrdoclicEnabled:     true,
		},
		Browser: BrowserConfig{
			Headless: true,
			Timeout:  60 * time.Second,
		},
		Platform: PlatformConfig{
			DoctolibURL: "https://partners.doctolib.fr",
			MaiiaURL:    "https://www.maiia.com",
			KeldocURL:   "https://booking.keldoc.com",
			OrdoclicURL: "https://api.ordoclic.fr",
		},
		Redis: RedisConfig{
			Prefix: "vaccine:",
		},
		Metrics: MetricsConfig{
			Job: "vaccine_slot_scraper",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
