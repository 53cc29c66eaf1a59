// Package config loads booksite.yaml: which snapshot to emit, where the
// content lives, and how the chapter review talks to the chat model.
package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/booksite/internal/fileutil"
	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/logfields"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "booksite.yaml"

// Config represents the application configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Review  ReviewConfig  `yaml:"review"`
	Watch   WatchConfig   `yaml:"watch"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// SiteConfig selects the snapshot and the locations it is checked against and written to.
type SiteConfig struct {
	Snapshot string `yaml:"snapshot,omitempty"` // empty selects the latest
	DocsRoot string `yaml:"docs_root"`
	Format   string `yaml:"format"`
	Manifest string `yaml:"manifest"`
	DistDir  string `yaml:"dist_dir"`
	GitInfo  bool   `yaml:"git_info"`
}

// ReviewConfig configures the chapter review and its chat model.
type ReviewConfig struct {
	TaskList    string      `yaml:"task_list"`
	BaseURL     string      `yaml:"base_url"`
	Model       string      `yaml:"model"`
	Temperature float64     `yaml:"temperature"`
	Stream      bool        `yaml:"stream"`
	Timeout     string      `yaml:"timeout"`
	APIKeyEnv   string      `yaml:"api_key_env"`
	Retry       RetryConfig `yaml:"retry"`

	// APIKey is resolved from the environment, never from the file.
	APIKey string `yaml:"-"`
}

// RetryConfig holds the raw backoff settings for chat requests.
type RetryConfig struct {
	Backoff    string `yaml:"backoff"`
	Initial    string `yaml:"initial"`
	Max        string `yaml:"max"`
	MaxRetries int    `yaml:"max_retries"`
}

type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// MetricsConfig names a Prometheus textfile-collector file; empty disables it.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Load reads the configuration at path. A missing file yields the defaults
// so the tool works in a bare checkout. Environment variables in the file
// are expanded after .env files are loaded.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		slog.Debug("No configuration file, using defaults", logfields.Path(path))
	case err != nil:
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read configuration").WithContext("path", path).Build()
	default:
		dec := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.WrapError(err, errors.CategoryConfig, "parse configuration").WithContext("path", path).Build()
		}
	}

	cfg.Review.APIKey = resolveAPIKey(cfg.Review.APIKeyEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads .env then .env.local. Variables already set in the
// process environment win.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Could not load env file", logfields.Path(name), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(name))
	}
}

// resolveAPIKey prefers the configured variable and falls back to API_KEY.
func resolveAPIKey(name string) string {
	if name != "" {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return os.Getenv("API_KEY")
}

// Duration parses a duration field, returning fallback when raw is empty.
func Duration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	return d, nil
}

// Init writes the default configuration to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").WithContext("path", path).Build()
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "marshal default configuration").Build()
	}
	header := "# booksite configuration. The chat API key is read from the environment\n# variable named by review.api_key_env (or API_KEY), e.g. via .env.\n"
	return fileutil.WriteFileAtomic(path, append([]byte(header), data...), fileutil.FileMode(path, 0o644))
}
