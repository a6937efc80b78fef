package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/userdir/internal/logging"
)

const (
	DefaultAPIBaseURL     = "http://localhost:8080/api"
	DefaultRequestTimeout = 10 * time.Second
	DefaultLocale         = "en"
	DefaultLogLevel       = "warn"
	DefaultEnvFile        = ".env"
)

// Config holds runtime settings for the userdir CLI.
//
// Fields:
//   - APIBaseURL: root of the REST API; "/users" is appended to it.
//   - RequestTimeout: upper bound for a single HTTP request.
//   - Locale: BCP 47 (or POSIX) locale used for timestamps and numbers.
//   - LogLevel: diagnostic log level on stderr.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	Locale         string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.RequestTimeout = DefaultRequestTimeout
	c.Locale = DefaultLocale
	c.LogLevel = DefaultLogLevel
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("api base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api base url %q: must be an absolute http(s) URL", c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if a file is given), the environment, and flags that were set. Later
// sources take precedence over earlier ones.
//
// A nil f behaves like no flags at all.
func LoadConfig(f *Flags) (*Config, error) {
	if f == nil {
		f = &Flags{}
	}

	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, f.ConfigPath); err != nil {
		return nil, err
	}

	envFile := f.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := parseEnv(cfg, envFile); err != nil {
		return nil, err
	}

	f.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
