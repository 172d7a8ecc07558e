package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(Options{LookupEnv: envMap(nil)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if _, err := cfg.RequireAPIURL(); !errors.Is(err, ErrMissingAPIURL) {
		t.Fatalf("expected ErrMissingAPIURL, got %v", err)
	}
	if cfg.RequestTimeout() != 0 {
		t.Fatalf("expected no timeout by default")
	}
}

func TestLayering(t *testing.T) {
	yamlPath := writeFile(t, "bfhl.yaml", `
api_url: http://from-yaml/bfhl
server:
  addr: ":9000"
  theme: dark
client:
  timeout: 5s
logging:
  level: debug
`)
	envPath := writeFile(t, ".env", "BFHL_ADDR=:9100\nBFHL_LOG_FORMAT=json\nBFHL_API_URL=http://from-dotenv/bfhl\n")

	cfg, err := Load(Options{
		Path:    yamlPath,
		EnvFile: envPath,
		LookupEnv: envMap(map[string]string{
			EnvAPIURL: "http://from-env/bfhl",
		}),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.APIURL != "http://from-env/bfhl" {
		t.Fatalf("process env must win, got %s", cfg.APIURL)
	}
	if cfg.Server.Addr != ":9100" {
		t.Fatalf(".env must override yaml, got %s", cfg.Server.Addr)
	}
	if cfg.Server.Theme != "dark" || cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected merged config %+v", cfg)
	}
	if cfg.RequestTimeout() != 5*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.RequestTimeout())
	}
}

func TestLegacyAPIURLFallback(t *testing.T) {
	cfg, err := Load(Options{LookupEnv: envMap(map[string]string{
		EnvLegacyAPIURL: "https://api.example.com/bfhl",
	})})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := cfg.RequireAPIURL()
	if err != nil || got != "https://api.example.com/bfhl" {
		t.Fatalf("unexpected api url %q err=%v", got, err)
	}

	cfg, _ = Load(Options{LookupEnv: envMap(map[string]string{
		EnvLegacyAPIURL: "https://legacy.example.com",
		EnvAPIURL:       "https://primary.example.com",
	})})
	if cfg.APIURL != "https://primary.example.com" {
		t.Fatalf("primary variable must win, got %s", cfg.APIURL)
	}
}

func TestLegacyAPIURLInEnvironmentBeatsDotenv(t *testing.T) {
	envPath := writeFile(t, ".env", "BFHL_API_URL=http://from-dotenv/bfhl\n")
	cfg, err := Load(Options{
		EnvFile: envPath,
		LookupEnv: envMap(map[string]string{
			EnvLegacyAPIURL: "https://from-env.example.com/bfhl",
		}),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "https://from-env.example.com/bfhl" {
		t.Fatalf("environment must win over .env, got %s", cfg.APIURL)
	}

	cfg, err = Load(Options{
		EnvFile:   writeFile(t, ".env", "REACT_APP_API_URL=http://legacy-dotenv/bfhl\n"),
		LookupEnv: envMap(nil),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://legacy-dotenv/bfhl" {
		t.Fatalf("expected legacy .env fallback, got %s", cfg.APIURL)
	}
}

func TestMissingEnvFileIgnored(t *testing.T) {
	if _, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), ".env"), LookupEnv: envMap(nil)}); err != nil {
		t.Fatalf("missing .env must be ignored: %v", err)
	}
}

func TestMissingConfigFileFails(t *testing.T) {
	if _, err := Load(Options{Path: filepath.Join(t.TempDir(), "nope.yaml"), LookupEnv: envMap(nil)}); err == nil {
		t.Fatalf("expected error for explicit missing config file")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"bad duration": func(c *Config) { c.Client.Timeout = "soon" },
		"negative":     func(c *Config) { c.Server.SessionTTL = "-1m" },
		"bad format":   func(c *Config) { c.Logging.Format = "xml" },
		"bad theme":    func(c *Config) { c.Server.Theme = "sepia" },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestRequireAPIURLRejectsRelative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIURL = "/bfhl"
	if _, err := cfg.RequireAPIURL(); err == nil {
		t.Fatalf("expected error for relative url")
	}
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.ShutdownGrace = ""
	cfg.Server.SessionTTL = "0"
	if cfg.ShutdownGrace() != 10*time.Second || cfg.SessionTTL() != 30*time.Minute {
		t.Fatalf("unexpected fallbacks %v %v", cfg.ShutdownGrace(), cfg.SessionTTL())
	}
}
