package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. The timeout
// is a Go duration string such as "3s". Empty fields leave the current
// value alone.
type JsonConfig struct {
	APIBaseURL     string `json:"api_base_url"`
	RequestTimeout string `json:"request_timeout"`
	Locale         string `json:"locale"`
	LogLevel       string `json:"log_level"`
}

// parseJson overlays cfg with values read from path. An empty path is a
// no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout != "" {
		d, err := time.ParseDuration(jc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("parse config %s: request_timeout: %w", path, err)
		}
		cfg.RequestTimeout = d
	}
	if jc.Locale != "" {
		cfg.Locale = jc.Locale
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
