package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/luckyturtle/nftape.me/internal/observability"
)

type jsonrpcRequest struct {
	Version string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
}

// RPCError is an error object returned by the node. It is never retried.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *HTTPClient) newRequest(method string, params []interface{}) jsonrpcRequest {
	return jsonrpcRequest{Version: "2.0", ID: c.requestID.Add(1), Method: method, Params: params}
}

// retryable reports whether an HTTP status is worth another attempt.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// post sends body and returns the response payload. Transport failures,
// 429 and 5xx are retried with exponential backoff capped at maxDelay.
func (c *HTTPClient) post(ctx context.Context, method string, body []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		observability.RecordRPCLatency(method, time.Since(start).Seconds())
	}()

	wait := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			wait = c.backoff(wait)
		}

		payload, status, err := c.roundTrip(ctx, body)
		switch {
		case err != nil:
			lastErr = err
			continue
		case status == http.StatusOK:
			return payload, nil
		case retryable(status):
			lastErr = fmt.Errorf("%s: status %d", method, status)
			continue
		default:
			observability.RecordRPCError(method)
			return nil, fmt.Errorf("%s: status %d: %s", method, status, truncate(payload, 256))
		}
	}

	observability.RecordRPCError(method)
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *HTTPClient) backoff(d time.Duration) time.Duration {
	next := time.Duration(float64(d) * c.backoffMult)
	if next > c.maxDelay {
		return c.maxDelay
	}
	return next
}

func (c *HTTPClient) roundTrip(ctx context.Context, body []byte) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return payload, resp.StatusCode, nil
}

// call performs one JSON-RPC call and decodes its result into out.
func (c *HTTPClient) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	body, err := json.Marshal(c.newRequest(method, params))
	if err != nil {
		return fmt.Errorf("marshal %s: %w", method, err)
	}

	payload, err := c.post(ctx, method, body)
	if err != nil {
		return err
	}

	var resp jsonrpcResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if resp.Error != nil {
		return resp.Error
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

// callBatch sends one JSON-RPC batch of the same method and returns the raw
// results in request order. Nodes may answer out of order, so entries are
// matched back by ID.
func (c *HTTPClient) callBatch(ctx context.Context, method string, params [][]interface{}) ([]json.RawMessage, error) {
	reqs := make([]jsonrpcRequest, len(params))
	index := make(map[uint64]int, len(params))
	for i, p := range params {
		reqs[i] = c.newRequest(method, p)
		index[reqs[i].ID] = i
	}

	body, err := json.Marshal(reqs)
	if err != nil {
		return nil, fmt.Errorf("marshal %s batch: %w", method, err)
	}

	payload, err := c.post(ctx, method, body)
	if err != nil {
		return nil, err
	}

	var resps []jsonrpcResponse
	if err := json.Unmarshal(payload, &resps); err != nil {
		// Nodes that reject the whole batch answer with a single error object.
		var single jsonrpcResponse
		if json.Unmarshal(payload, &single) == nil && single.Error != nil {
			return nil, single.Error
		}
		return nil, fmt.Errorf("decode %s batch response: %w", method, err)
	}

	results := make([]json.RawMessage, len(params))
	for _, r := range resps {
		if r.Error != nil {
			return nil, r.Error
		}
		i, ok := index[r.ID]
		if !ok {
			return nil, fmt.Errorf("%s batch: unknown response id %d", method, r.ID)
		}
		results[i] = r.Result
	}
	return results, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
