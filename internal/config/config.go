// Package config loads bfhl settings from defaults, an optional YAML file,
// a .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvAPIURL       = "BFHL_API_URL"
	EnvLegacyAPIURL = "REACT_APP_API_URL"
	EnvAddr         = "BFHL_ADDR"
	EnvTheme        = "BFHL_THEME"
	EnvTimeout      = "BFHL_REQUEST_TIMEOUT"
	EnvSessionTTL   = "BFHL_SESSION_TTL"
	EnvLogLevel     = "BFHL_LOG_LEVEL"
	EnvLogFormat    = "BFHL_LOG_FORMAT"
)

// ErrMissingAPIURL is returned by RequireAPIURL when no endpoint is set.
var ErrMissingAPIURL = errors.New("config: api url is not set (" + EnvAPIURL + ")")

// Config holds all bfhl configuration.
type Config struct {
	APIURL  string        `yaml:"api_url"`
	Server  ServerConfig  `yaml:"server"`
	Client  ClientConfig  `yaml:"client"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the web surface.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	ShutdownGrace string `yaml:"shutdown_grace"`
	SessionTTL    string `yaml:"session_ttl"`
	Theme         string `yaml:"theme"` // light or dark
}

// ClientConfig configures outbound requests. An empty or zero timeout
// disables it.
type ClientConfig struct {
	Timeout string `yaml:"timeout"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// DefaultConfig returns the defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			ShutdownGrace: "10s",
			SessionTTL:    "30m",
			Theme:         "light",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Options controls where Load reads from.
type Options struct {
	// Path is an optional YAML file. Missing files are an error only when
	// Path was set explicitly.
	Path string
	// EnvFile is read with godotenv. Missing files are ignored.
	EnvFile string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load builds the configuration.
func Load(opts Options) (*Config, error) {
	cfg := DefaultConfig()

	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", opts.Path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", opts.Path, err)
		}
	}

	dotenv := map[string]string{}
	if opts.EnvFile != "" {
		values, err := godotenv.Read(opts.EnvFile)
		switch {
		case err == nil:
			dotenv = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", opts.EnvFile, err)
		}
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	sources := []lookupFunc{
		lookup,
		func(key string) (string, bool) {
			v, ok := dotenv[key]
			return v, ok
		},
	}
	cfg.applyEnv(sources)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

// get returns the first non blank value for key, in source order.
func get(sources []lookupFunc, key string) (string, bool) {
	for _, lookup := range sources {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// apiURL resolves the endpoint one source at a time, so the legacy variable
// in the environment still beats BFHL_API_URL from the .env file.
func apiURL(sources []lookupFunc) (string, bool) {
	for _, lookup := range sources {
		if v, ok := get([]lookupFunc{lookup}, EnvAPIURL); ok {
			return v, true
		}
		if v, ok := get([]lookupFunc{lookup}, EnvLegacyAPIURL); ok {
			return v, true
		}
	}
	return "", false
}

func (c *Config) applyEnv(sources []lookupFunc) {
	env := func(key string) (string, bool) { return get(sources, key) }
	if v, ok := apiURL(sources); ok {
		c.APIURL = v
	}
	if v, ok := env(EnvAddr); ok {
		c.Server.Addr = v
	}
	if v, ok := env(EnvTheme); ok {
		c.Server.Theme = v
	}
	if v, ok := env(EnvSessionTTL); ok {
		c.Server.SessionTTL = v
	}
	if v, ok := env(EnvTimeout); ok {
		c.Client.Timeout = v
	}
	if v, ok := env(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := env(EnvLogFormat); ok {
		c.Logging.Format = v
	}
}

// Validate checks durations and enumerations. The API URL is checked by
// RequireAPIURL since not every command needs it.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"server.shutdown_grace": c.Server.ShutdownGrace,
		"server.session_ttl":    c.Server.SessionTTL,
		"client.timeout":        c.Client.Timeout,
	} {
		if _, err := parseDuration(raw); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Server.Theme) {
	case "", "light", "dark":
	default:
		return fmt.Errorf("config: server.theme must be light or dark, got %q", c.Server.Theme)
	}
	return nil
}

// RequireAPIURL returns the endpoint or an error when it is missing or not
// an absolute http(s) URL.
func (c *Config) RequireAPIURL() (string, error) {
	raw := strings.TrimSpace(c.APIURL)
	if raw == "" {
		return "", ErrMissingAPIURL
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("config: api url %q must be an absolute http(s) URL", raw)
	}
	return raw, nil
}

// RequestTimeout returns the outbound timeout; zero means none.
func (c *Config) RequestTimeout() time.Duration {
	d, _ := parseDuration(c.Client.Timeout)
	return d
}

// ShutdownGrace returns how long serve waits for in-flight requests.
func (c *Config) ShutdownGrace() time.Duration {
	d, err := parseDuration(c.Server.ShutdownGrace)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// SessionTTL returns the idle session lifetime.
func (c *Config) SessionTTL() time.Duration {
	d, err := parseDuration(c.Server.SessionTTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", raw)
	}
	return d, nil
}
