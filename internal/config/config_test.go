package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/retry"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "booksite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("booksite.yaml")
	require.NoError(t, err)
	require.Equal(t, "docs", cfg.Site.DocsRoot)
	require.Equal(t, "mts", cfg.Site.Format)
	require.Equal(t, DefaultBaseURL, cfg.Review.BaseURL)
	require.Equal(t, "qwen3-max", cfg.Review.Model)
	require.InDelta(t, 0.7, cfg.Review.Temperature, 1e-9)
	require.True(t, cfg.Review.Stream)
	require.Equal(t, 300*time.Millisecond, cfg.Watch.DebounceInterval())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOOKSITE_DOCS", "content")
	path := writeConfig(t, `
site:
  snapshot: v1
  docs_root: ${BOOKSITE_DOCS}
  format: json
review:
  model: qwen-plus
  temperature: 0.2
  stream: false
  retry:
    backoff: fixed
    initial: 500ms
    max: 1s
    max_retries: 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "v1", cfg.Site.Snapshot)
	require.Equal(t, "content", cfg.Site.DocsRoot)
	require.Equal(t, "json", cfg.Site.Format)
	require.Equal(t, "qwen-plus", cfg.Review.Model)
	require.False(t, cfg.Review.Stream)
	require.Equal(t, DefaultBaseURL, cfg.Review.BaseURL)

	p := cfg.Review.RetryPolicy()
	require.Equal(t, retry.BackoffFixed, p.Mode)
	require.Equal(t, 500*time.Millisecond, p.Initial)
	require.Equal(t, 1, p.MaxRetries)
}

func TestLoadRejects(t *testing.T) {
	t.Chdir(t.TempDir())
	cases := map[string]string{
		"unknown field":  "site:\n  colour: blue\n",
		"snapshot":       "site:\n  snapshot: v9\n",
		"format":         "site:\n  format: toml\n",
		"base url":       "review:\n  base_url: ftp://example.com\n",
		"temperature":    "review:\n  temperature: 3\n",
		"duration":       "watch:\n  debounce: soon\n",
		"backoff":        "review:\n  retry:\n    backoff: random\n",
		"negative retry": "review:\n  retry:\n    max_retries: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryConfig), err.Error())
		})
	}
}

func TestAPIKeyFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BOOKSITE_TEST_KEY=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("BOOKSITE_TEST_KEY") })

	cfg, err := Load(writeConfig(t, "review:\n  api_key_env: BOOKSITE_TEST_KEY\n"))
	require.NoError(t, err)
	require.Equal(t, "from-dotenv", cfg.Review.APIKey)
}

func TestAPIKeyFallback(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOOKSITE_API_KEY", "")
	t.Setenv("API_KEY", "generic")
	cfg, err := Load("missing.yaml")
	require.NoError(t, err)
	require.Equal(t, "generic", cfg.Review.APIKey)

	t.Setenv("BOOKSITE_API_KEY", "specific")
	cfg, err = Load("missing.yaml")
	require.NoError(t, err)
	require.Equal(t, "specific", cfg.Review.APIKey)
}

func TestInit(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "booksite.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default().Site, cfg.Site)

	err = Init(path, false)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, os.Chmod(path, 0o600))
	require.NoError(t, Init(path, true))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
