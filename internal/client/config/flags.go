package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags are the command-line overrides. Only flags the user actually set
// are applied on top of the other sources.
type Flags struct {
	ConfigPath string
	EnvFile    string

	APIBaseURL     string
	RequestTimeout time.Duration
	Locale         string
	LogLevel       string

	fs *pflag.FlagSet
}

// Register adds the flags to fs, typically a cobra command's persistent
// flag set.
func (f *Flags) Register(fs *pflag.FlagSet) {
	f.fs = fs
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to JSON config file")
	fs.StringVar(&f.EnvFile, "env-file", DefaultEnvFile, "path to dotenv file")
	fs.StringVarP(&f.APIBaseURL, "api-url", "a", DefaultAPIBaseURL, "base URL of the user API")
	fs.DurationVarP(&f.RequestTimeout, "timeout", "t", DefaultRequestTimeout, "per-request timeout")
	fs.StringVarP(&f.Locale, "locale", "l", DefaultLocale, "locale for dates and numbers")
	fs.StringVar(&f.LogLevel, "log-level", DefaultLogLevel, "log level: debug, info, warn, error")
}

func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

func (f *Flags) apply(cfg *Config) {
	if f.changed("api-url") {
		cfg.APIBaseURL = f.APIBaseURL
	}
	if f.changed("timeout") {
		cfg.RequestTimeout = f.RequestTimeout
	}
	if f.changed("locale") {
		cfg.Locale = f.Locale
	}
	if f.changed("log-level") {
		cfg.LogLevel = f.LogLevel
	}
}
