// Package pricing fetches market statistics for creator keys and aggregates
// them across an address's assets.
package pricing

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

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/luckyturtle/nftape.me/internal/domain"
)

// ErrNoListings is returned when a creator key has no active listings.
var ErrNoListings = errors.New("no listings")

// StatsSource fetches current market statistics for a creator/collection key.
type StatsSource interface {
	FetchStats(ctx context.Context, key string) (*domain.PriceStats, error)
}

// Default configuration values.
const (
	DefaultStatsTimeout    = 15 * time.Second
	DefaultStatsMaxRetries = 2
	DefaultStatsRetryDelay = 500 * time.Millisecond
)

// HTTPStatsSource computes stats from the listings endpoint of a marketplace API:
//
//	GET {base}/listings?creator={key}  ->  {"listings":[{"price":1.5}, ...]}
type HTTPStatsSource struct {
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	now        func() time.Time
}

// StatsOption configures HTTPStatsSource.
type StatsOption func(*HTTPStatsSource)

// WithStatsTimeout sets HTTP client timeout.
func WithStatsTimeout(d time.Duration) StatsOption {
	return func(s *HTTPStatsSource) {
		s.client.Timeout = d
	}
}

// WithStatsHTTPClient sets custom http.Client.
func WithStatsHTTPClient(client *http.Client) StatsOption {
	return func(s *HTTPStatsSource) {
		s.client = client
	}
}

// WithStatsRateLimit caps requests per second. A non-positive rps disables limiting.
func WithStatsRateLimit(rps float64) StatsOption {
	return func(s *HTTPStatsSource) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithStatsRetries sets retry attempts and initial backoff delay.
func WithStatsRetries(n int, delay time.Duration) StatsOption {
	return func(s *HTTPStatsSource) {
		s.maxRetries = n
		s.retryDelay = delay
	}
}

// NewHTTPStatsSource creates a stats source for the API at baseURL.
func NewHTTPStatsSource(baseURL string, opts ...StatsOption) *HTTPStatsSource {
	s := &HTTPStatsSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: DefaultStatsTimeout},
		maxRetries: DefaultStatsMaxRetries,
		retryDelay: DefaultStatsRetryDelay,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type listingsResponse struct {
	Listings []struct {
		Price decimal.Decimal `json:"price"`
	} `json:"listings"`
}

// FetchStats fetches listings for key and computes mean, median and floor.
func (s *HTTPStatsSource) FetchStats(ctx context.Context, key string) (*domain.PriceStats, error) {
	endpoint := fmt.Sprintf("%s/listings?creator=%s", s.baseURL, url.QueryEscape(key))

	body, err := s.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, ErrNoListings
	}

	var resp listingsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal listings: %w", err)
	}

	prices := make([]decimal.Decimal, 0, len(resp.Listings))
	for _, l := range resp.Listings {
		if l.Price.IsPositive() {
			prices = append(prices, l.Price)
		}
	}

	stats := Compute(key, prices, s.now())
	if stats == nil {
		return nil, ErrNoListings
	}
	return stats, nil
}

// get fetches endpoint with retries. A 404 returns nil, nil.
func (s *HTTPStatsSource) get(ctx context.Context, endpoint string) ([]byte, error) {
	delay := s.retryDelay
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
			continue
		default:
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

var _ StatsSource = (*HTTPStatsSource)(nil)
