package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cchummer/sec-api/pkg/edgar/internalerr"
)

// Duration wraps time.Duration so YAML values like "500ms" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// RequestHeaders is the fixed identification header set required by the
// archive's access policy on every outbound request.
type RequestHeaders struct {
	UserAgent      string `yaml:"user_agent"`
	AcceptEncoding string `yaml:"accept_encoding"`
	Host           string `yaml:"host"`
}

// Config holds the pipeline configuration
type Config struct {
	ArchiveBaseURL string         `yaml:"archive_base_url"`
	RateLimit      int            `yaml:"rate_limit"` // requests per second
	MaxRetries     int            `yaml:"max_retries"`
	BackoffBase    Duration       `yaml:"backoff_base"`
	Workers        int            `yaml:"workers"`
	Headers        RequestHeaders `yaml:"headers"`
	TargetTypes    []string       `yaml:"target_types"`
	DatabasePath   string         `yaml:"database_path"`
	FetchCacheSize int            `yaml:"fetch_cache_size"`
}

// Default returns the baseline configuration
func Default() Config {
	return Config{
		ArchiveBaseURL: "https://www.sec.gov/Archives/",
		RateLimit:      10,
		MaxRetries:     3,
		BackoffBase:    Duration(time.Second),
		Workers:        5,
		Headers: RequestHeaders{
			UserAgent:      "Scholarly Research Project securedhummer@gmail.com",
			AcceptEncoding: "gzip, deflate",
			Host:           "www.sec.gov",
		},
		TargetTypes: []string{
			"10-q", "10-k", "8-k", "s-1", "s-3", "def 14a",
			"sec staff action", "13f-hr", "13f-nt", "sc 13d", "sc 13g",
		},
		DatabasePath:   "data/filings.db",
		FetchCacheSize: 256,
	}
}

// Load reads a YAML config file and overlays it onto the defaults
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if c.RateLimit <= 0 {
		return fmt.Errorf("%w: rate_limit must be positive", internalerr.ErrInvalidConfig)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("%w: max_retries must be positive", internalerr.ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", internalerr.ErrInvalidConfig)
	}
	if c.Headers.UserAgent == "" {
		return fmt.Errorf("%w: a user agent with contact information is required", internalerr.ErrInvalidConfig)
	}
	return nil
}
