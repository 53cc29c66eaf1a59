package config

import (
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/booksite/internal/retry"
)

// Default values. The chat endpoint defaults to DashScope's OpenAI-compatible mode.
const (
	DefaultDocsRoot    = "docs"
	DefaultFormat      = "mts"
	DefaultManifest    = "site-manifest.json"
	DefaultTaskList    = "document-review/docs_list.json"
	DefaultBaseURL     = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	DefaultModel       = "qwen3-max"
	DefaultTemperature = 0.7
	DefaultTimeout     = 10 * time.Minute
	DefaultDebounce    = 300 * time.Millisecond
	DefaultAPIKeyEnv   = "BOOKSITE_API_KEY"
)

// Default returns a configuration with every field at its default.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			DocsRoot: DefaultDocsRoot,
			Format:   DefaultFormat,
			Manifest: DefaultManifest,
			DistDir:  filepath.Join(DefaultDocsRoot, ".vitepress", "dist"),
			GitInfo:  true,
		},
		Review: ReviewConfig{
			TaskList:    DefaultTaskList,
			BaseURL:     DefaultBaseURL,
			Model:       DefaultModel,
			Temperature: DefaultTemperature,
			Stream:      true,
			Timeout:     DefaultTimeout.String(),
			APIKeyEnv:   DefaultAPIKeyEnv,
			Retry: RetryConfig{
				Backoff:    string(retry.BackoffExponential),
				Initial:    "2s",
				Max:        "30s",
				MaxRetries: 3,
			},
		},
		Watch: WatchConfig{Debounce: DefaultDebounce.String()},
	}
}

// RetryPolicy converts the raw retry settings, falling back to defaults for
// empty or unparsable durations.
func (r ReviewConfig) RetryPolicy() retry.Policy {
	initial, err := Duration(r.Retry.Initial, 0)
	if err != nil {
		initial = 0
	}
	maxDelay, err := Duration(r.Retry.Max, 0)
	if err != nil {
		maxDelay = 0
	}
	return retry.NewPolicy(retry.NormalizeBackoff(r.Retry.Backoff), initial, maxDelay, r.Retry.MaxRetries)
}

// RequestTimeout is the per-request timeout for chat calls.
func (r ReviewConfig) RequestTimeout() time.Duration {
	d, err := Duration(r.Timeout, DefaultTimeout)
	if err != nil {
		return DefaultTimeout
	}
	return d
}

// DebounceInterval is the quiet period before the watcher rebuilds.
func (w WatchConfig) DebounceInterval() time.Duration {
	d, err := Duration(w.Debounce, DefaultDebounce)
	if err != nil {
		return DefaultDebounce
	}
	return d
}
