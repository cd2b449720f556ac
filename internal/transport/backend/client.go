// Package backend is the HTTP client for the content backend: it attaches the
// bearer credential to every request and normalizes error responses.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/seoscribe/internal/domain"
	"github.com/kailas-cloud/seoscribe/internal/metrics"
	"github.com/kailas-cloud/seoscribe/internal/version"
)

const (
	// DefaultAPIBase is the API path prefix used when none is configured.
	DefaultAPIBase = "/api"
	// DefaultAuthBase is the auth path prefix used when none is configured.
	DefaultAuthBase = "/auth"

	maxBodyBytes = 16 << 20
)

// HeaderSource supplies request headers carrying the bearer credential.
type HeaderSource interface {
	AuthorizationHeader(ctx context.Context, extra http.Header) http.Header
}

// Config holds the backend client settings.
type Config struct {
	// Origin resolves relative bases, e.g. "https://app.example.com".
	Origin   string
	APIBase  string
	AuthBase string
	// Timeout bounds one request. Zero leaves requests bounded by ctx only.
	Timeout    time.Duration
	HTTPClient *http.Client
	Headers    HeaderSource
	Logger     *zap.Logger
}

// Client issues requests against the backend's API and auth prefixes.
type Client struct {
	apiBase  string
	authBase string
	http     *http.Client
	headers  HeaderSource
	logger   *zap.Logger
}

// New creates a backend client.
func New(cfg Config) (*Client, error) {
	apiBase, err := resolveBase(cfg.Origin, cfg.APIBase, DefaultAPIBase)
	if err != nil {
		return nil, fmt.Errorf("api base: %w", err)
	}
	authBase, err := resolveBase(cfg.Origin, cfg.AuthBase, DefaultAuthBase)
	if err != nil {
		return nil, fmt.Errorf("auth base: %w", err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiBase:  apiBase,
		authBase: authBase,
		http:     hc,
		headers:  cfg.Headers,
		logger:   logger,
	}, nil
}

// resolveBase turns a base (absolute URL or path prefix) into an absolute URL
// without a trailing slash.
func resolveBase(origin, base, def string) (string, error) {
	if base == "" {
		base = def
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", base, err)
	}
	if u.IsAbs() {
		return strings.TrimRight(base, "/"), nil
	}

	if origin == "" {
		return "", fmt.Errorf("relative base %q needs an origin", base)
	}
	o, err := url.Parse(origin)
	if err != nil || !o.IsAbs() {
		return "", fmt.Errorf("origin %q must be an absolute URL", origin)
	}
	return strings.TrimRight(origin, "/") + "/" + strings.Trim(base, "/"), nil
}

// APIBase returns the resolved API base URL.
func (c *Client) APIBase() string { return c.apiBase }

// AuthBase returns the resolved auth base URL.
func (c *Client) AuthBase() string { return c.authBase }

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded when non-nil.
	Body any
	// Endpoint labels metrics and logs; defaults to Path.
	Endpoint string
}

// Response is a successful backend response.
type Response struct {
	Status int
	JSON   bool
	Body   []byte
}

// Decode unmarshals a JSON response into v.
func (r Response) Decode(v any) error {
	if !r.JSON {
		return errors.New("response is not JSON")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Text returns the raw response body.
func (r Response) Text() string { return string(r.Body) }

// Value returns the parsed JSON value for JSON responses and the raw text otherwise.
func (r Response) Value() (any, error) {
	if !r.JSON {
		return r.Text(), nil
	}
	var v any
	if err := r.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Do issues a request against the API base.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	return c.do(ctx, c.apiBase, req)
}

// DoAuth issues a request against the auth base.
func (c *Client) DoAuth(ctx context.Context, req Request) (Response, error) {
	return c.do(ctx, c.authBase, req)
}

func (c *Client) do(ctx context.Context, base string, req Request) (_ Response, err error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = req.Path
	}

	start := time.Now()
	status := "transport_error"
	defer func() {
		dur := time.Since(start)
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, status).Inc()
		metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(dur.Seconds())
		if err != nil {
			c.logger.Debug("backend request failed",
				zap.String("method", method),
				zap.String("endpoint", endpoint),
				zap.String("status", status),
				zap.Duration("latency", dur),
				zap.Error(err),
			)
		}
	}()

	body := io.Reader(http.NoBody)
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			status = "encode_error"
			return Response{}, fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	target := base + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Response{}, fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	httpReq.Header = c.header(ctx)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("%s %s: %w: %w", method, endpoint, domain.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("read %s %s: %w: %w", method, endpoint, domain.ErrBackendUnavailable, err)
	}

	status = strconv.Itoa(resp.StatusCode)
	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "json")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, newAPIError(resp.StatusCode, data, isJSON)
	}
	return Response{Status: resp.StatusCode, JSON: isJSON, Body: data}, nil
}

func (c *Client) header(ctx context.Context) http.Header {
	base := http.Header{}
	base.Set("Accept", "application/json")
	base.Set("User-Agent", version.UserAgent())
	if c.headers == nil {
		base.Set("Content-Type", "application/json")
		return base
	}
	return c.headers.AuthorizationHeader(ctx, base)
}

// doJSON sends in (may be nil) and decodes a JSON response into out (may be nil).
func (c *Client) doJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}
