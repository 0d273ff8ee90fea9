// Package tcgapi is a minimal client for the Pokémon TCG API card lookup
// endpoint, used to enrich local card sets with tcgplayer market prices.
package tcgapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/donaldgifford/card-price-catalog/internal/metrics"
	domain "github.com/donaldgifford/card-price-catalog/pkg/types"
)

// DefaultBaseURL is the public Pokémon TCG API v2 endpoint.
const DefaultBaseURL = "https://api.pokemontcg.io/v2"

// ErrCardNotFound is returned when the API has no card with the requested id.
var ErrCardNotFound = errors.New("card not found")

// CardFetcher looks up a single card by id.
type CardFetcher interface {
	GetCard(ctx context.Context, id string) (domain.Card, error)
}

// Client implements CardFetcher against the Pokémon TCG API.
type Client struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	rateLimiter *RateLimiter
	cache       *lru.Cache[string, domain.Card]
}

// Option configures the Client.
type Option func(*Client) error

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) error {
		c.baseURL = strings.TrimRight(u, "/")
		return nil
	}
}

// WithAPIKey sets the X-Api-Key header value. Without a key the API still
// answers, with a lower rate limit.
func WithAPIKey(key string) Option {
	return func(c *Client) error {
		c.apiKey = key
		return nil
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.client = hc
		return nil
	}
}

// WithRateLimiter makes every uncached request wait on r first.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) error {
		c.rateLimiter = r
		return nil
	}
}

// WithCacheSize keeps up to size fetched cards in memory so an id repeated
// across set files is requested once. A size of 0 disables the cache.
func WithCacheSize(size int) Option {
	return func(c *Client) error {
		if size <= 0 {
			c.cache = nil
			return nil
		}
		cache, err := lru.New[string, domain.Card](size)
		if err != nil {
			return fmt.Errorf("creating card cache: %w", err)
		}
		c.cache = cache
		return nil
	}
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type cardResponse struct {
	Data domain.Card `json:"data"`
}

// GetCard fetches GET {base}/cards/{id} and returns the response's data
// object. A 404 is ErrCardNotFound.
func (c *Client) GetCard(ctx context.Context, id string) (domain.Card, error) {
	if id == "" {
		return nil, errors.New("card id is required")
	}

	if c.cache != nil {
		if card, ok := c.cache.Get(id); ok {
			metrics.APICacheHitsTotal.Inc()
			return card, nil
		}
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			metrics.APIErrorsTotal.WithLabelValues("rate_limit").Inc()
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	card, err := c.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Add(id, card)
	}
	return card, nil
}

func (c *Client) fetch(ctx context.Context, id string) (domain.Card, error) {
	u := c.baseURL + "/cards/" + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	metrics.APICallsTotal.Inc()
	resp, err := c.client.Do(req)
	metrics.APIRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIErrorsTotal.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("fetching card %s: %w", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.APIErrorsTotal.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		metrics.APIErrorsTotal.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	default:
		metrics.APIErrorsTotal.WithLabelValues("status").Inc()
		return nil, fmt.Errorf(
			"pokemon tcg API error (status %d): %s",
			resp.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}

	var cr cardResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		metrics.APIErrorsTotal.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("parsing card response: %w", err)
	}
	if cr.Data == nil {
		cr.Data = domain.Card{}
	}
	return cr.Data, nil
}
