package config

import (
	"net/url"
	"slices"
	"strings"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/retry"
	"git.home.luguber.info/inful/booksite/internal/site"
)

var validFormats = []string{"mts", "json", "yaml"}

// Validate checks the configuration after defaults and overrides.
func (c *Config) Validate() error {
	if c.Site.Snapshot != "" && !slices.Contains(site.SnapshotNames(), c.Site.Snapshot) {
		return errors.ConfigError("unknown snapshot").
			WithContext("snapshot", c.Site.Snapshot).
			WithContext("available", site.SnapshotNames()).
			Build()
	}
	if strings.TrimSpace(c.Site.DocsRoot) == "" {
		return errors.ConfigError("site.docs_root cannot be empty").Build()
	}
	if !slices.Contains(validFormats, c.Site.Format) {
		return errors.ConfigError("unsupported site.format").
			WithContext("format", c.Site.Format).
			WithContext("supported", validFormats).
			Build()
	}

	u, err := url.Parse(c.Review.BaseURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return errors.ConfigError("review.base_url must be an http(s) URL").WithContext("base_url", c.Review.BaseURL).Build()
	}
	if c.Review.Model == "" {
		return errors.ConfigError("review.model cannot be empty").Build()
	}
	if c.Review.Temperature < 0 || c.Review.Temperature > 2 {
		return errors.ConfigError("review.temperature must be within 0..2").WithContext("temperature", c.Review.Temperature).Build()
	}
	if c.Review.TaskList == "" {
		return errors.ConfigError("review.task_list cannot be empty").Build()
	}
	for field, raw := range map[string]string{
		"review.timeout":       c.Review.Timeout,
		"review.retry.initial": c.Review.Retry.Initial,
		"review.retry.max":     c.Review.Retry.Max,
		"watch.debounce":       c.Watch.Debounce,
	} {
		if _, err := Duration(raw, 0); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid duration").WithContext("field", field).Build()
		}
	}
	if c.Review.Retry.Backoff != "" && retry.NormalizeBackoff(c.Review.Retry.Backoff) == "" {
		return errors.ConfigError("unknown review.retry.backoff").WithContext("backoff", c.Review.Retry.Backoff).Build()
	}
	if c.Review.Retry.MaxRetries < 0 {
		return errors.ConfigError("review.retry.max_retries cannot be negative").Build()
	}
	return nil
}
