// Package syncclient pushes evidence to the external audit-management API.
//
// Every call is paced by a process-local minimum interval, bounded by a timeout,
// validated against the expected response shape and sanitized before errors leave
// the package.
package syncclient

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

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"complyhub/internal/apperr"
	"complyhub/internal/config"
	"complyhub/internal/ratelimit"
)

const (
	uploadPath       = "/api/v1/evidence"
	maxResponseBytes = 1 << 20
	redacted         = "[redacted]"
)

// Config configures a Client.
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MinInterval time.Duration
	MaxRetries  int
	// Production replaces timeout details with a generic retry message.
	Production bool
}

// FromAppConfig derives a client config from the application settings.
func FromAppConfig(cfg *config.AppConfig) Config {
	return Config{
		BaseURL:     cfg.Sync.BaseURL,
		APIKey:      cfg.Sync.APIKey,
		Timeout:     cfg.Sync.Timeout,
		MinInterval: cfg.Sync.MinInterval,
		MaxRetries:  cfg.Sync.MaxRetries,
		Production:  cfg.IsProduction(),
	}
}

// Client is safe for concurrent use; calls are serialized by its pacer.
type Client struct {
	cfg     Config
	base    *url.URL
	http    *http.Client
	pacer   *ratelimit.Pacer
	metrics *Metrics
	log     logrus.FieldLogger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is still traced.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithPacer shares a pacer between clients.
func WithPacer(p *ratelimit.Pacer) Option {
	return func(c *Client) { c.pacer = p }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// New validates cfg without any network I/O. A non-https base URL is a configuration error.
func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := requireHTTPS(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperr.Configuration("sync api key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MinInterval < 0 {
		cfg.MinInterval = 0
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	c := &Client{
		cfg:  cfg,
		base: base,
		http: &http.Client{},
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pacer == nil {
		c.pacer = ratelimit.NewPacer(cfg.MinInterval)
	}
	transport := c.http.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	c.http.Transport = otelhttp.NewTransport(transport)
	c.log = c.log.WithField("component", "syncclient")
	return c, nil
}

func requireHTTPS(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return nil, apperr.Configuration("sync base url is not a valid absolute url")
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return nil, apperr.Configuration("sync base url must use https")
	}
	return u, nil
}

// Upload pushes one item, retrying transient upstream failures. Each attempt waits for the pacer.
func (c *Client) Upload(ctx context.Context, tenantID string, item UploadItem) (string, error) {
	if _, err := requireHTTPS(c.base.String()); err != nil {
		return "", err
	}

	body, err := json.Marshal(item)
	if err != nil {
		return "", apperr.Internal("encode upload item", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 2 * time.Second
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.cfg.MaxRetries)), ctx)

	id, err := backoff.RetryNotifyWithData(func() (string, error) {
		return c.attempt(ctx, tenantID, body)
	}, b, func(err error, wait time.Duration) {
		c.log.WithFields(logrus.Fields{
			"event":     "sync_retry",
			"tenant_id": tenantID,
			"wait_ms":   wait.Milliseconds(),
		}).Warn(c.sanitize(err.Error()))
	})
	if err != nil {
		return "", c.surface(ctx, err)
	}
	return id, nil
}

// attempt returns a transient error to retry, or a backoff.Permanent one to stop.
func (c *Client) attempt(ctx context.Context, tenantID string, body []byte) (string, error) {
	release, err := c.pacer.Acquire(ctx)
	if err != nil {
		return "", backoff.Permanent(err)
	}
	defer release()

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	id, err := c.send(callCtx, tenantID, body)
	c.metrics.observe(outcomeOf(err), time.Since(start))
	if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return "", backoff.Permanent(errTimeout)
	}
	return id, err
}

var (
	errTimeout   = errors.New("request timed out")
	errTransient = errors.New("transient upstream failure")
)

func (c *Client) send(ctx context.Context, tenantID string, body []byte) (string, error) {
	endpoint := c.base.JoinPath(uploadPath).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Tenant-ID", tenantID)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", backoff.Permanent(err)
		}
		return "", fmt.Errorf("%w: %v", errTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", errTransient, err)
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return "", fmt.Errorf("%w: status %d", errTransient, resp.StatusCode)
	}

	return parseResponse(resp.StatusCode, raw)
}

// parseResponse validates the body shape; any mismatch is a protocol error.
func parseResponse(status int, raw []byte) (string, error) {
	var parsed uploadResponse
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&parsed); err != nil {
		return "", backoff.Permanent(apperr.Protocol(fmt.Sprintf("unexpected response body (status %d)", status), nil))
	}
	if parsed.Success == nil {
		return "", backoff.Permanent(apperr.Protocol("response is missing the success flag", nil))
	}
	if *parsed.Success {
		if status < 200 || status >= 300 {
			return "", backoff.Permanent(apperr.Protocol(fmt.Sprintf("success reported with status %d", status), nil))
		}
		if parsed.ExternalItemID == nil || strings.TrimSpace(*parsed.ExternalItemID) == "" {
			return "", backoff.Permanent(apperr.Protocol("response is missing external_item_id", nil))
		}
		return *parsed.ExternalItemID, nil
	}
	if parsed.Error == nil || strings.TrimSpace(*parsed.Error) == "" {
		return "", backoff.Permanent(apperr.Protocol("failure response is missing error", nil))
	}
	return "", backoff.Permanent(&RejectedError{Reason: *parsed.Error})
}

// surface turns an internal failure into the typed, sanitized error callers see.
func (c *Client) surface(ctx context.Context, err error) error {
	var rejected *RejectedError
	switch {
	case errors.Is(err, errTimeout):
		if c.cfg.Production {
			return apperr.Timeout("the audit service did not respond in time, please retry", nil)
		}
		return apperr.Timeout(fmt.Sprintf("no response within %s", c.cfg.Timeout), nil)
	case errors.As(err, &rejected):
		return &RejectedError{Reason: c.sanitize(rejected.Reason)}
	}
	if e, ok := apperr.As(err); ok {
		return e
	}
	if ctx.Err() != nil {
		return apperr.Internal("sync call cancelled", ctx.Err())
	}
	return apperr.Internal(c.sanitize(err.Error()), nil)
}

// sanitize strips credential material from text that may reach callers or logs.
func (c *Client) sanitize(s string) string {
	if c.cfg.APIKey == "" {
		return s
	}
	return strings.ReplaceAll(s, c.cfg.APIKey, redacted)
}

func outcomeOf(err error) string {
	var rejected *RejectedError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, errTransient):
		return "transient"
	case errors.As(err, &rejected):
		return "rejected"
	case apperr.Is(err, apperr.KindProtocol):
		return "protocol"
	default:
		return "error"
	}
}
