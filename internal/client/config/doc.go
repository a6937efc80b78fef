// Package config loads runtime configuration for the userdir CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config/-c (see parseJson).
//  3. Environment variables, with an optional dotenv file (default ".env")
//     filling in variables the process environment does not set
//     (see parseEnv).
//  4. Command-line flags that were explicitly set (see Flags).
//
// Supported flags
//
//	-a, --api-url string     base URL of the user API
//	-t, --timeout duration   per-request timeout
//	-l, --locale string      BCP 47 locale for dates and numbers
//	    --log-level string   debug, info, warn or error
//	-c, --config string      JSON config file
//	    --env-file string    dotenv file
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:8080/api",
//	  "request_timeout": "10s",
//	  "locale": "zh-CN",
//	  "log_level": "warn"
//	}
//
// # Environment
//
//	USERDIR_API_BASE_URL, USERDIR_TIMEOUT, USERDIR_LOCALE (falls back to
//	LANG), USERDIR_LOG_LEVEL
package config
