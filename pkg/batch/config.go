// Package batch processes lists of bill URLs: each URL is fetched,
// parsed into its NDJSON records, and filed in a catalogue. Documents
// already catalogued are skipped, so interrupted runs can be restarted.
package batch

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds batch run settings, loadable from a YAML file.
type Config struct {
	// URLsFile is a text file with one bill URL per line.
	URLsFile string `yaml:"urls_file"`

	// CatalogueDir is where parsed documents and the manifest are stored.
	CatalogueDir string `yaml:"catalogue_dir"`

	// CacheDir enables on-disk caching of fetched pages when non-empty.
	CacheDir string `yaml:"cache_dir"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"user_agent"`

	// RateLimitMS is the minimum interval between requests, in milliseconds.
	RateLimitMS int `yaml:"rate_limit_ms"`

	// TimeoutSec is the per-request timeout, in seconds.
	TimeoutSec int `yaml:"timeout_sec"`

	// Ordered prefixes document IDs with their position in the URL list,
	// used when the list traces one bill through successive readings.
	Ordered bool `yaml:"ordered"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CatalogueDir: "catalogue",
		RateLimitMS:  500,
		TimeoutSec:   30,
	}
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

// RateLimit returns the rate limit as a duration.
func (c Config) RateLimit() time.Duration {
	return time.Duration(c.RateLimitMS) * time.Millisecond
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}
