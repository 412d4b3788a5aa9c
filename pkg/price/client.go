// Package price looks up NFT collection floor prices from the CoinGecko API.
package price

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"nftfavorites/pkg/errs"
)

const (
	// DefaultBaseURL is the CoinGecko v3 API root.
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	// DefaultMaxResponseBytes bounds the upstream body size.
	DefaultMaxResponseBytes = 5_000
	// CallBudget is the fixed cost budget attached to every outbound call.
	CallBudget uint64 = 90_000_000
)

// Expected failures. Compare with errors.Is.
var (
	ErrUpstream = errs.Upstream("Failed to get coin price")
	ErrNotFound = errs.NotFound("Nft not found")
)

var (
	lookupCounter   metric.Int64Counter
	lookupCounterMu sync.Once
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=price_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Lookup returns a formatted price message for an NFT collection id.
type Lookup interface {
	GetPrice(ctx context.Context, itemID string) (string, error)
}

// Client queries the pricing API.
type Client struct {
	baseURL          string
	httpClient       HTTPClient
	header           http.Header
	maxResponseBytes int64
	transform        Transform
	limiter          *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client used for outbound calls.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader adds headers sent with each request.
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithMaxResponseBytes bounds the accepted body size. Non-positive values keep the default.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResponseBytes = n
		}
	}
}

// WithTransform replaces the response transform. A nil transform keeps responses as received.
func WithTransform(t Transform) Option {
	return func(c *Client) {
		c.transform = t
	}
}

// WithLimiter throttles outbound calls. Callers wait for a token; nothing is retried.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a Client. By default it calls DefaultBaseURL with
// http.DefaultClient and strips response headers.
func NewClient(options ...Option) *Client {
	c := &Client{
		baseURL:          DefaultBaseURL,
		httpClient:       http.DefaultClient,
		header:           http.Header{"Accept": []string{"application/json"}},
		maxResponseBytes: DefaultMaxResponseBytes,
		transform:        StripHeaders,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Normalize lowercases an NFT collection id.
func Normalize(itemID string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(itemID))
}

// Fetch issues the GET for the normalized id and returns the transformed response.
// Only transport failures are returned as errors; any status is a valid Response.
func (c *Client) Fetch(ctx context.Context, nft string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	endpoint := c.baseURL + "/nfts/" + url.PathEscape(nft)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxResponseBytes {
		return nil, errs.Upstream(ErrUpstream.Message,
			errs.WithHTTP(resp.StatusCode),
			errs.WithCause(fmt.Errorf("response exceeds %d bytes", c.maxResponseBytes)))
	}

	out := &Response{Status: resp.StatusCode, Headers: resp.Header.Clone(), Body: body}
	if c.transform != nil {
		out = c.transform(out)
	}
	if out == nil {
		return nil, errs.Upstream(ErrUpstream.Message, errs.WithCause(errors.New("transform dropped the response")))
	}
	return out, nil
}

type nftPayload struct {
	FloorPrice json.RawMessage `json:"floor_price"`
}

type floorPrice struct {
	USD *decimal.Decimal `json:"usd"`
}

// GetPrice returns "The price of <id> is $ <usd>" for the collection's floor price.
func (c *Client) GetPrice(ctx context.Context, itemID string) (string, error) {
	nft := Normalize(itemID)

	ctx, span := otel.Tracer("nftfavorites/price").Start(ctx, "price.GetPrice")
	defer span.End()
	span.SetAttributes(
		attribute.String("nft.id", nft),
		attribute.Int64("price.call_budget", int64(CallBudget)),
	)

	msg, err := c.getPrice(ctx, nft)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	record(ctx, err)
	return msg, err
}

func (c *Client) getPrice(ctx context.Context, nft string) (string, error) {
	resp, err := c.Fetch(ctx, nft)
	if err != nil {
		return "", err
	}
	if resp.Status != http.StatusOK {
		return "", errs.Upstream(ErrUpstream.Message, errs.WithHTTP(resp.Status))
	}

	var payload nftPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return "", errs.Upstream(ErrUpstream.Message, errs.WithHTTP(resp.Status), errs.WithCause(err))
	}
	// Anything but an object (absent, null, 0, false, "") means no floor price.
	raw := bytes.TrimSpace(payload.FloorPrice)
	if len(raw) == 0 || raw[0] != '{' {
		return "", errs.NotFound(ErrNotFound.Message, errs.WithHTTP(resp.Status))
	}
	var floor floorPrice
	if err := json.Unmarshal(raw, &floor); err != nil {
		return "", errs.Upstream(ErrUpstream.Message, errs.WithHTTP(resp.Status), errs.WithCause(err))
	}
	if floor.USD == nil {
		return "", errs.NotFound(ErrNotFound.Message, errs.WithHTTP(resp.Status))
	}
	return fmt.Sprintf("The price of %s is $ %s", nft, floor.USD.String()), nil
}

func record(ctx context.Context, err error) {
	lookupCounterMu.Do(func() {
		counter, cerr := otel.Meter("nftfavorites/price").Int64Counter("price_lookups_total",
			metric.WithDescription("Price lookups by outcome"),
			metric.WithUnit("{lookup}"))
		if cerr == nil {
			lookupCounter = counter
		}
	})
	if lookupCounter == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(errs.KindOf(err))
		if errors.Is(err, context.Canceled) {
			outcome = "canceled"
		}
	}
	lookupCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", outcome)))
}
