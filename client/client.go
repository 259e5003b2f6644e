package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/buzzcrank/crankfeed/internal/domain"
)

var tracer = otel.Tracer("client")

const (
	DefaultUserAgent = "crankfeed/1.0"
	maxErrorBody     = 4 << 10
)

// Client performs upstream GETs. A non-2xx status comes back as a
// domain.UpstreamError carrying the status and response body.
type Client struct {
	client    *http.Client
	transport http.RoundTripper
	userAgent string
	metrics   *Metrics
}

type Options struct {
	// Timeout bounds a whole request. Zero or negative leaves only the
	// caller's context.
	Timeout   time.Duration
	UserAgent string
	Transport http.RoundTripper
	Metrics   *Metrics
}

func New(opts Options) *Client {
	c := &Client{
		transport: opts.Transport,
		userAgent: opts.UserAgent,
		metrics:   opts.Metrics,
	}
	if c.transport == nil {
		c.transport = http.DefaultTransport
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	timeout := opts.Timeout
	if timeout < 0 {
		timeout = 0
	}
	c.client = &http.Client{
		Timeout:   timeout,
		Transport: c,
	}
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	return c.transport.RoundTrip(req)
}

// Get fetches url and returns the raw body of a 2xx response.
func (c *Client) Get(ctx context.Context, upstream, url string, header http.Header) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Client.Get")
	defer span.End()
	span.SetAttributes(attribute.String("upstream", upstream))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to create request")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.observe(upstream, "error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.UpstreamError{Upstream: upstream, Err: err}
	}
	defer resp.Body.Close()
	c.metrics.observe(upstream, strconv.Itoa(resp.StatusCode), time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := domain.UpstreamError{Upstream: upstream, StatusCode: resp.StatusCode, Body: string(body)}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, domain.UpstreamError{Upstream: upstream, Err: errors.Wrap(err, "failed to read response body")}
	}
	return body, nil
}

// GetJSON fetches url and decodes the body into response.
func (c *Client) GetJSON(ctx context.Context, upstream, url string, header http.Header, response any) error {
	body, err := c.Get(ctx, upstream, url, header)
	if err != nil {
		return err
	}

	err = json.Unmarshal(body, response)
	if err != nil {
		return domain.UpstreamError{Upstream: upstream, Err: errors.Wrap(err, "failed to decode response")}
	}
	return nil
}
