package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Client defaults.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = time.Second
	DefaultMaxDelay    = 30 * time.Second
	DefaultBackoffMult = 2.0
)

// HTTPClient talks JSON-RPC 2.0 to a Solana node over HTTP.
type HTTPClient struct {
	endpoint    string
	client      *http.Client
	limiter     *rate.Limiter
	requestID   atomic.Uint64
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout bounds each HTTP attempt.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithMaxRetries sets how many times a failed request is retried.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) { c.maxRetries = n }
}

// WithRetryDelay sets the first backoff delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) { c.retryDelay = d }
}

// WithMaxDelay caps the backoff delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) { c.maxDelay = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) { c.client = hc }
}

// WithRateLimit caps outgoing HTTP requests (retries included) to rps with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// NewHTTPClient creates a client for the node at endpoint.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSignaturesForAddress lists one page of an address's signatures, newest first.
func (c *HTTPClient) GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error) {
	params := []interface{}{address}
	if opts != nil {
		cfg := map[string]interface{}{}
		if opts.Before != "" {
			cfg["before"] = opts.Before
		}
		if opts.Until != "" {
			cfg["until"] = opts.Until
		}
		if opts.Limit > 0 {
			cfg["limit"] = opts.Limit
		}
		if len(cfg) > 0 {
			params = append(params, cfg)
		}
	}

	var page []rawSignature
	if err := c.call(ctx, "getSignaturesForAddress", params, &page); err != nil {
		return nil, err
	}

	out := make([]SignatureInfo, len(page))
	for i, s := range page {
		out[i] = SignatureInfo(s)
	}
	return out, nil
}

// GetTransactions resolves signatures with one batched getTransaction request.
func (c *HTTPClient) GetTransactions(ctx context.Context, signatures []string) ([]*Transaction, error) {
	if len(signatures) == 0 {
		return nil, nil
	}

	opts := map[string]interface{}{
		"encoding":                       "jsonParsed",
		"commitment":                     "confirmed",
		"maxSupportedTransactionVersion": 0,
	}
	params := make([][]interface{}, len(signatures))
	for i, sig := range signatures {
		params[i] = []interface{}{sig, opts}
	}

	results, err := c.callBatch(ctx, "getTransaction", params)
	if err != nil {
		return nil, err
	}

	txs := make([]*Transaction, len(signatures))
	for i, r := range results {
		if len(r) == 0 || string(r) == "null" {
			continue
		}
		var raw rawTransaction
		if err := json.Unmarshal(r, &raw); err != nil {
			return nil, fmt.Errorf("decode transaction %s: %w", signatures[i], err)
		}
		txs[i] = raw.convert(signatures[i])
	}
	return txs, nil
}

// GetAccountInfo fetches an account with base64 encoding and decodes its data.
// Unknown accounts yield nil, nil.
func (c *HTTPClient) GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error) {
	params := []interface{}{pubkey, map[string]interface{}{"encoding": "base64"}}

	var raw rawAccount
	if err := c.call(ctx, "getAccountInfo", params, &raw); err != nil {
		return nil, err
	}
	v := raw.Value
	if v == nil {
		return nil, nil
	}

	info := &AccountInfo{
		Lamports:   v.Lamports,
		Owner:      v.Owner,
		Executable: v.Executable,
		RentEpoch:  v.RentEpoch,
	}
	if len(v.Data) > 0 && v.Data[0] != "" {
		data, err := base64.StdEncoding.DecodeString(v.Data[0])
		if err != nil {
			return nil, fmt.Errorf("decode account %s data: %w", pubkey, err)
		}
		info.Data = data
	}
	return info, nil
}

var _ RPCClient = (*HTTPClient)(nil)
