package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/santeconnect/careconnect/internal/domain/providers"
	apperrors "github.com/santeconnect/careconnect/pkg/errors"
)

const (
	// DefaultURL is the public Overpass interpreter endpoint
	DefaultURL = "https://overpass-api.de/api/interpreter"

	defaultRequestsPerSecond = 2
	defaultBurst             = 4
	userAgent                = "careconnect-bff/1.0"
)

// Client implements providers.GeoQueryProvider against an Overpass interpreter.
// The HTTP client carries no deadline of its own: queries embed a [timeout:N]
// hint and callers bound a request with their context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (used for tests)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithRateLimit caps outgoing queries. A non-positive rps disables the limiter.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a new Overpass client
func NewClient(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(defaultRequestsPerSecond, defaultBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type interpreterResponse struct {
	Elements []providers.GeoElement `json:"elements"`
	Remark   string                 `json:"remark,omitempty"`
}

// Interpret runs an Overpass QL query and returns its elements.
// Non-2xx responses are returned as EXTERNAL errors carrying the status code;
// transport and decoding failures are EXTERNAL errors without one.
func (c *Client) Interpret(ctx context.Context, query string) ([]providers.GeoElement, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apperrors.NewExternalError("overpass rate limiter", err)
		}
	}

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, url.Values{"data": []string{query}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build overpass request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("overpass request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewUpstreamStatusError("overpass", resp.StatusCode)
	}

	var payload interpreterResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewExternalError("failed to decode overpass response", err)
	}

	if payload.Elements == nil {
		return []providers.GeoElement{}, nil
	}
	return payload.Elements, nil
}

var _ providers.GeoQueryProvider = (*Client)(nil)
