package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{keyAPIURL, keyPollInterval, keyRequestTimeout, keyPageSize, keyLogFile, keySubmitRate} {
		t.Setenv(envName(key), "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PollInterval != 5*time.Second || cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("intervals = %s/%s, want 5s/10s", cfg.PollInterval, cfg.RequestTimeout)
	}
	if cfg.PageSize != 10 {
		t.Fatalf("PageSize = %d, want 10", cfg.PageSize)
	}
	if cfg.LogFile != DefaultLogPath() {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, DefaultLogPath())
	}
}

func TestLoad_DefaultPathUsesXDGConfigHome(t *testing.T) {
	clearEnv(t)
	configHome := t.TempDir()
	// Registered first so it runs after the environment is restored.
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", configHome)
	xdg.Reload()

	dir := filepath.Join(configHome, AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`page_size = 25`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PageSize != 25 {
		t.Fatalf("PageSize = %d, want 25", cfg.PageSize)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_url = "  http://10.0.0.5:9999  "
poll_interval = "2s"
request_timeout = " 3s "
page_size = 20
log_file = "  ~/logs/crawlboard.log  "
submit_rate = -1.0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:9999" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "http://10.0.0.5:9999")
	}
	if cfg.PollInterval != 2*time.Second || cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("intervals = %s/%s, want 2s/3s", cfg.PollInterval, cfg.RequestTimeout)
	}
	if cfg.PageSize != 20 {
		t.Fatalf("PageSize = %d, want 20", cfg.PageSize)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.SubmitRate != -1 {
		t.Fatalf("SubmitRate = %v, want -1", cfg.SubmitRate)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api_url = "   "
poll_interval = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %s, want %s", cfg.PollInterval, defaultPollInterval)
	}
	if cfg.SubmitRate != defaultSubmitRate {
		t.Fatalf("SubmitRate = %v, want %v", cfg.SubmitRate, defaultSubmitRate)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api_url = "http://file:1"
page_size = 20
`)
	t.Setenv("CRAWLBOARD_API_URL", "http://env:2")
	t.Setenv("CRAWLBOARD_POLL_INTERVAL", "750ms")
	t.Setenv("CRAWLBOARD_PAGE_SIZE", "15")
	t.Setenv("CRAWLBOARD_SUBMIT_RATE", "0.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://env:2" {
		t.Fatalf("APIURL = %q, want env override", cfg.APIURL)
	}
	if cfg.PollInterval != 750*time.Millisecond {
		t.Fatalf("PollInterval = %s, want 750ms", cfg.PollInterval)
	}
	if cfg.PageSize != 15 {
		t.Fatalf("PageSize = %d, want 15", cfg.PageSize)
	}
	if cfg.SubmitRate != 0.5 {
		t.Fatalf("SubmitRate = %v, want 0.5", cfg.SubmitRate)
	}
}

func TestLoad_InvalidEnvironmentFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("CRAWLBOARD_PAGE_SIZE", "ten")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "CRAWLBOARD_PAGE_SIZE") {
		t.Fatalf("Load error = %v, want it to name CRAWLBOARD_PAGE_SIZE", err)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `api_url = [`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidDurationFails(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `poll_interval = "soon"`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "poll_interval") {
		t.Fatalf("Load error = %v, want poll_interval parse error", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty api url", func(c *Config) { c.APIURL = " " }},
		{"zero poll", func(c *Config) { c.PollInterval = 0 }},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }},
		{"zero page size", func(c *Config) { c.PageSize = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("Validate returned nil, want error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
