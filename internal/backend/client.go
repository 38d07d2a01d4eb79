package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"finitefield.org/folio-web/internal/observability"
)

const (
	defaultTimeout    = 8 * time.Second
	idempotencyHeader = "Idempotency-Key"
	maxBodyBytes      = 4 << 20
)

var tracer = otel.Tracer("finitefield.org/folio-web/internal/backend")

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. "https://api.example.com/api/v1/".
	// Empty serves built-in fixtures instead of calling out.
	BaseURL string
	Timeout time.Duration
	// RetryMax bounds retries of idempotent lookups. List pages are never retried.
	RetryMax int
	Logger   *zap.Logger
}

// Client talks to the portfolio REST API.
type Client struct {
	baseURL string
	// once never retries; lists and writes go through it.
	once *retryablehttp.Client
	// retrying is used for detail, tag and resume lookups.
	retrying *retryablehttp.Client
	log      *zap.Logger
	fake     *fixtures
}

// NewClient constructs an API client. When BaseURL is empty, the client serves fixtures.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		once:     newHTTPClient(timeout, 0, logger),
		retrying: newHTTPClient(timeout, opts.RetryMax, logger),
		log:      logger.Named("backend"),
	}
	if c.baseURL == "" {
		c.fake = newFixtures()
	}
	return c
}

func newHTTPClient(timeout time.Duration, retryMax int, logger *zap.Logger) *retryablehttp.Client {
	if retryMax < 0 {
		retryMax = 0
	}
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = timeout
	rc.RetryMax = retryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = observability.NewPrintfAdapter(logger.Named("retry"))
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc
}

// Offline reports whether the client serves fixtures.
func (c *Client) Offline() bool { return c == nil || c.fake != nil }

type call struct {
	hc      *retryablehttp.Client
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
}

// do issues the request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, in call) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "backend "+in.method+" "+in.path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", in.method),
		attribute.String("url.path", in.path),
	)

	endpoint, err := url.JoinPath(c.baseURL, in.path)
	if err != nil {
		return nil, err
	}
	if len(in.query) > 0 {
		endpoint += "?" + in.query.Encode()
	}

	var reader io.Reader
	if in.body != nil {
		payload, err := json.Marshal(in.body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, in.method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range in.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := in.hc.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.log.Warn("backend request failed",
			zap.String("method", in.method),
			zap.String("path", in.path),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return nil, &NetworkError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		nerr := &NetworkError{Status: resp.StatusCode, Message: drainError(resp.Body)}
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		c.log.Warn("backend request rejected",
			zap.String("method", in.method),
			zap.String("path", in.path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("latency", time.Since(start)),
		)
		return nil, nerr
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		span.RecordError(err)
		return nil, &NetworkError{Status: resp.StatusCode, Message: "read body", Err: err}
	}
	span.SetStatus(codes.Ok, "")
	c.log.Debug("backend request completed",
		zap.String("method", in.method),
		zap.String("path", in.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	return b, nil
}

func (c *Client) getJSON(ctx context.Context, hc *retryablehttp.Client, path string, query url.Values, resource string, out any) error {
	b, err := c.do(ctx, call{hc: hc, method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return &DecodeError{Resource: resource, Err: err}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, resource string, out any) error {
	b, err := c.do(ctx, call{
		hc:      c.once,
		method:  http.MethodPost,
		path:    path,
		body:    body,
		headers: map[string]string{idempotencyHeader: newIdempotencyKey()},
	})
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return &DecodeError{Resource: resource, Err: err}
	}
	return nil
}

func newIdempotencyKey() string {
	return ulid.Make().String()
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}

func itemPath(collection string, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, "/?#") {
		return "", fmt.Errorf("backend: invalid %s id %q: %w", collection, id, ErrNotFound)
	}
	return collection + "/" + url.PathEscape(id) + "/", nil
}
