package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv_MissingFileIsFine(t *testing.T) {
	envFile := clearEnv(t)
	cfg := &Config{}
	cfg.LoadDefaults()

	require.NoError(t, parseEnv(cfg, envFile))
	assert.Equal(t, DefaultLocale, cfg.Locale)
}

func Test_parseEnv_ReadsDotenv(t *testing.T) {
	envFile := clearEnv(t)
	writeFile(t, envFile, "# local backend\nUSERDIR_API_BASE_URL=http://127.0.0.1:9090/api\nUSERDIR_TIMEOUT=2s\nUSERDIR_LOG_LEVEL=debug\n")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg, envFile))

	assert.Equal(t, "http://127.0.0.1:9090/api", cfg.APIBaseURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func Test_parseEnv_EmptyProcessValueFallsBackToDotenv(t *testing.T) {
	envFile := clearEnv(t)
	t.Setenv(EnvAPIBaseURL, "")
	writeFile(t, envFile, "USERDIR_API_BASE_URL=http://dotenv:9/api\n")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg, envFile))
	assert.Equal(t, "http://dotenv:9/api", cfg.APIBaseURL)
}

func Test_parseEnv_ProcessBeatsDotenv(t *testing.T) {
	envFile := clearEnv(t)
	t.Setenv(EnvLogLevel, "error")
	writeFile(t, envFile, "USERDIR_LOG_LEVEL=debug\n")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg, envFile))
	assert.Equal(t, "error", cfg.LogLevel)
}

func Test_parseEnv_BadTimeout(t *testing.T) {
	envFile := clearEnv(t)
	t.Setenv(EnvTimeout, "ten")

	err := parseEnv(&Config{}, envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTimeout)
}

func Test_parseEnv_LocaleFallsBackToLang(t *testing.T) {
	envFile := clearEnv(t)
	t.Setenv("LANG", "zh_CN.UTF-8")

	cfg := &Config{Locale: DefaultLocale}
	require.NoError(t, parseEnv(cfg, envFile))
	assert.Equal(t, "zh-CN", cfg.Locale)

	t.Setenv(EnvLocale, "de")
	require.NoError(t, parseEnv(cfg, envFile))
	assert.Equal(t, "de", cfg.Locale)
}

func Test_localeFromLang(t *testing.T) {
	tests := map[string]string{
		"zh_CN.UTF-8":    "zh-CN",
		"en_GB":          "en-GB",
		"de_DE@euro":     "de-DE",
		"C":              "",
		"POSIX":          "",
		"C.UTF-8":        "",
		"":               "",
		"ja_JP.eucJP@xx": "ja-JP",
	}
	for in, want := range tests {
		assert.Equal(t, want, localeFromLang(in), in)
	}
}
