package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvAPIBaseURL = "USERDIR_API_BASE_URL"
	EnvTimeout    = "USERDIR_TIMEOUT"
	EnvLocale     = "USERDIR_LOCALE"
	EnvLogLevel   = "USERDIR_LOG_LEVEL"
)

// parseEnv overlays cfg with environment variables. Variables missing or
// empty in the process environment are looked up in envFile, which may not
// exist.
func parseEnv(cfg *Config, envFile string) error {
	fileEnv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read env file %s: %w", envFile, err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}

	if v, ok := lookup(EnvAPIBaseURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := lookup(EnvLocale); ok && v != "" {
		cfg.Locale = v
	} else if v, ok := lookup("LANG"); ok {
		if loc := localeFromLang(v); loc != "" {
			cfg.Locale = loc
		}
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// localeFromLang turns a POSIX LANG value such as "zh_CN.UTF-8" into
// "zh-CN". C and POSIX locales yield "".
func localeFromLang(lang string) string {
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "" || lang == "C" || lang == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(lang, "_", "-")
}
