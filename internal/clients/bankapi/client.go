// Package bankapi is the console's client for the banking REST API. Every
// call goes through one request helper that applies the API's conventions:
// JSON bodies, bearer authentication, a {data, message} success envelope and
// an {error} failure body.
package bankapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yungbote/bankadmin/internal/observability"
	"github.com/yungbote/bankadmin/internal/platform/apierr"
	"github.com/yungbote/bankadmin/internal/platform/logger"
)

const (
	CodeUpstream    = "upstream_error"
	CodeUnavailable = "upstream_unavailable"

	msgOK        = "Request successful"
	msgNoContent = "Request successful (no content)"

	maxErrorBody = 64 << 10
)

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type Client struct {
	log       *logger.Logger
	metrics   *observability.Metrics
	base      *url.URL
	http      *http.Client
	userAgent string
}

type Option func(*Client)

// WithHTTPClient replaces the default instrumented client. Tests use it to
// point at an httptest server without tracing.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func New(log *logger.Logger, cfg Config, opts ...Option) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("bank api base url required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse bank api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("bank api base url must be http(s), got %q", raw)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "bankadmin"
	}
	c := &Client{
		log:  log.With("client", "BankAPI"),
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		userAgent: ua,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request describes one API call. endpoint is the path template used for
// logging and metrics so account ids do not explode label cardinality.
type request struct {
	method   string
	path     string
	endpoint string
	token    string
	body     any
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) Get(ctx context.Context, path, token string, out any) (string, error) {
	return c.do(ctx, request{method: http.MethodGet, path: path, endpoint: path, token: token}, out)
}

func (c *Client) Post(ctx context.Context, path, token string, body, out any) (string, error) {
	return c.do(ctx, request{method: http.MethodPost, path: path, endpoint: path, token: token, body: body}, out)
}

func (c *Client) Put(ctx context.Context, path, token string, body, out any) (string, error) {
	return c.do(ctx, request{method: http.MethodPut, path: path, endpoint: path, token: token, body: body}, out)
}

func (c *Client) Patch(ctx context.Context, path, token string, body, out any) (string, error) {
	return c.do(ctx, request{method: http.MethodPatch, path: path, endpoint: path, token: token, body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path, token string, out any) (string, error) {
	return c.do(ctx, request{method: http.MethodDelete, path: path, endpoint: path, token: token}, out)
}

// do performs the call and returns the envelope message. On success the
// envelope's data is decoded into out (when out is non-nil). Failures are
// always *apierr.Error carrying the upstream status and message.
func (c *Client) do(ctx context.Context, r request, out any) (string, error) {
	start := time.Now()
	resp, err := c.send(ctx, r)
	if err != nil {
		c.metrics.ObserveUpstream(r.method, r.endpoint, 0, time.Since(start))
		c.log.Warn("bank api call failed", "method", r.method, "endpoint", r.endpoint, "error", err)
		return "", apierr.New(0, CodeUnavailable, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(r.method, r.endpoint, resp.StatusCode, time.Since(start))
	c.log.Debug("bank api call",
		"method", r.method,
		"endpoint", r.endpoint,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apierr.New(resp.StatusCode, CodeUpstream, errors.New(errorMessage(resp, isJSON)))
	}
	if !isJSON {
		_, _ = io.Copy(io.Discard, resp.Body)
		return msgNoContent, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return msgNoContent, nil
		}
		return "", apierr.New(http.StatusBadGateway, CodeUpstream, fmt.Errorf("decode %s response: %w", r.endpoint, err))
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", apierr.New(http.StatusBadGateway, CodeUpstream, fmt.Errorf("decode %s data: %w", r.endpoint, err))
		}
	}
	if env.Message == "" {
		return msgOK, nil
	}
	return env.Message, nil
}

func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	target := c.base.JoinPath(r.path)

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", r.endpoint, err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	return c.http.Do(req)
}

// errorMessage extracts the failure reason: the JSON "error" field, the plain
// text body, or the status text, in that order.
func errorMessage(resp *http.Response, isJSON bool) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	statusText := http.StatusText(resp.StatusCode)
	if statusText == "" {
		statusText = resp.Status
	}
	if isJSON {
		var eb errorBody
		if err := json.Unmarshal(raw, &eb); err == nil && strings.TrimSpace(eb.Error) != "" {
			return eb.Error
		}
		return statusText
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return statusText
}
