// Package llm is a small client for OpenAI-compatible chat completion
// endpoints, streaming or not.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/logfields"
	"git.home.luguber.info/inful/booksite/internal/retry"
	"git.home.luguber.info/inful/booksite/internal/version"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Stream      bool
	// Timeout bounds one request including the streamed body. Zero means none.
	Timeout time.Duration
	Retry   retry.Policy
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
	// OnRetry is called before every retry attempt.
	OnRetry func()
}

// Client sends chat completion requests.
type Client struct {
	opts       Options
	endpoint   string
	httpClient *http.Client
}

// New validates opts and builds a client.
func New(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.AuthError("chat API key is not set").
			WithContext("hint", "set BOOKSITE_API_KEY or API_KEY, e.g. in .env").
			Build()
	}
	if opts.Model == "" {
		return nil, errors.ConfigError("chat model is not set").Build()
	}
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Host == "" {
		return nil, errors.ConfigError("invalid chat base URL").WithCause(err).WithContext("base_url", opts.BaseURL).Build()
	}
	u.Path = path.Join(strings.TrimSuffix(u.Path, "/"), "chat/completions")

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if opts.Retry.Initial <= 0 {
		opts.Retry = retry.DefaultPolicy()
	}
	return &Client{opts: opts, endpoint: u.String(), httpClient: hc}, nil
}

// Model is the model name requests are sent for.
func (c *Client) Model() string { return c.opts.Model }

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		Delta        Message `json:"delta"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Complete sends messages and returns the assistant's reply. Transient
// failures are retried per the configured policy.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	var reply string
	attempt := 0
	err := c.opts.Retry.Do(ctx, "chat completion", func(ctx context.Context) error {
		if attempt > 0 && c.opts.OnRetry != nil {
			c.opts.OnRetry()
		}
		attempt++
		out, err := c.completeOnce(ctx, messages)
		if err != nil {
			return err
		}
		reply = out
		return nil
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (c *Client) completeOnce(ctx context.Context, messages []Message) (string, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.opts.Model,
		Messages:    messages,
		Temperature: c.opts.Temperature,
		Stream:      c.opts.Stream,
	})
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "encode chat request").Build()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "create chat request").Build()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	req.Header.Set("User-Agent", "booksite/"+version.Version)
	if c.opts.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil && ctx.Err() != context.DeadlineExceeded {
			return "", errors.WrapError(err, errors.CategoryRuntime, "chat request canceled").Build()
		}
		return "", errors.WrapError(err, errors.CategoryNetwork, "chat request failed").
			Retryable().
			WithContext("target", c.endpoint).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return "", statusError(resp)
	}

	var reply string
	if c.opts.Stream {
		reply, err = readStream(resp.Body)
	} else {
		reply, err = readJSON(resp.Body)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", errors.ModelError("model returned an empty reply").WithContext("model", c.opts.Model).Build()
	}
	slog.Debug("Chat completion finished",
		logfields.Model(c.opts.Model),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())),
		logfields.Count(len(reply)))
	return reply, nil
}

func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := strings.TrimSpace(string(data))
	var ae apiError
	if json.Unmarshal(data, &ae) == nil && ae.Error.Message != "" {
		msg = ae.Error.Message
	}

	var b *errors.ErrorBuilder
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		b = errors.AuthError("chat API rejected the credentials")
	case resp.StatusCode == http.StatusTooManyRequests:
		b = errors.ModelError("chat API rate limit").RateLimit()
	case resp.StatusCode >= 500:
		b = errors.ModelError("chat API server error").Retryable()
	default:
		b = errors.ModelError("chat API request rejected")
	}
	return b.WithContext("status", resp.StatusCode).WithContext("detail", msg).Build()
}

func readJSON(r io.Reader) (string, error) {
	var out chatResponse
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return "", errors.WrapError(err, errors.CategoryModel, "decode chat response").Retryable().Build()
	}
	if len(out.Choices) == 0 {
		return "", errors.ModelError("chat response has no choices").Build()
	}
	return out.Choices[0].Message.Content, nil
}
