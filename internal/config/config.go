package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// AppName names the XDG subdirectories and the environment prefix.
const AppName = "crawlboard"

// Config holds the settings crawlboard runs with.
type Config struct {
	APIURL         string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	PageSize       int
	LogFile        string
	SubmitRate     float64 // Mutating requests per second; negative disables limiting
}

const (
	defaultAPIURL         = "http://127.0.0.1:8080"
	defaultPollInterval   = 5 * time.Second
	defaultRequestTimeout = 10 * time.Second
	defaultPageSize       = 10
	defaultSubmitRate     = 2.0
)

// Environment keys, bound as CRAWLBOARD_<KEY>.
const (
	keyAPIURL         = "api_url"
	keyPollInterval   = "poll_interval"
	keyRequestTimeout = "request_timeout"
	keyPageSize       = "page_size"
	keyLogFile        = "log_file"
	keySubmitRate     = "submit_rate"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		PollInterval:   defaultPollInterval,
		RequestTimeout: defaultRequestTimeout,
		PageSize:       defaultPageSize,
		LogFile:        DefaultLogPath(),
		SubmitRate:     defaultSubmitRate,
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// DefaultLogPath is the log file used when none is configured.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

// Load reads the TOML config at path (or DefaultPath), falling back to
// defaults when the file is missing, then applies CRAWLBOARD_* environment
// overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := readFile(resolved, &cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string   `toml:"api_url"`
		PollInterval   string   `toml:"poll_interval"`
		RequestTimeout string   `toml:"request_timeout"`
		PageSize       int      `toml:"page_size"`
		LogFile        string   `toml:"log_file"`
		SubmitRate     *float64 `toml:"submit_rate"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.PollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if raw.PageSize != 0 {
		cfg.PageSize = raw.PageSize
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if raw.SubmitRate != nil {
		cfg.SubmitRate = *raw.SubmitRate
	}
	return nil
}

func applyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(AppName)
	for _, key := range []string{keyAPIURL, keyPollInterval, keyRequestTimeout, keyPageSize, keyLogFile, keySubmitRate} {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if s := strings.TrimSpace(v.GetString(keyAPIURL)); s != "" {
		cfg.APIURL = s
	}
	if s := strings.TrimSpace(v.GetString(keyPollInterval)); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse %s: %w", envName(keyPollInterval), err)
		}
		cfg.PollInterval = d
	}
	if s := strings.TrimSpace(v.GetString(keyRequestTimeout)); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse %s: %w", envName(keyRequestTimeout), err)
		}
		cfg.RequestTimeout = d
	}
	if s := strings.TrimSpace(v.GetString(keyPageSize)); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("parse %s: %w", envName(keyPageSize), err)
		}
		cfg.PageSize = n
	}
	if s := strings.TrimSpace(v.GetString(keyLogFile)); s != "" {
		cfg.LogFile = mustExpand(s)
	}
	if s := strings.TrimSpace(v.GetString(keySubmitRate)); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parse %s: %w", envName(keySubmitRate), err)
		}
		cfg.SubmitRate = f
	}
	return nil
}

func envName(key string) string {
	return strings.ToUpper(AppName + "_" + key)
}

// Validate rejects settings the poller and table cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url must not be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPath(), nil
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
