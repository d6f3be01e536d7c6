package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckyturtle/nftape.me/internal/analysis"
	"github.com/luckyturtle/nftape.me/internal/domain"
	"github.com/luckyturtle/nftape.me/internal/portfolio"
)

const testAddress = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

type fakeAnalyzer struct {
	err        error
	gotAddress string
	gotMethod  domain.PriceMethod
	panics     bool
}

func (f *fakeAnalyzer) Method() domain.PriceMethod { return domain.PriceMethodMedian }

func (f *fakeAnalyzer) AnalyzeWithMethod(_ context.Context, address string, method domain.PriceMethod) (*analysis.Report, error) {
	if f.panics {
		panic("boom")
	}
	f.gotAddress = address
	f.gotMethod = method
	if f.err != nil {
		return nil, f.err
	}
	if err := analysis.ValidateAddress(address); err != nil {
		return nil, err
	}

	l := portfolio.NewLedger()
	l.Apply(domain.TradeEvent{Mint: "mintA", Amount: decimal.NewFromInt(2), Kind: domain.EventBuy, Exchange: "solanart"})
	return &analysis.Report{
		RunID:   "run-1",
		Address: address,
		Method:  method,
		State:   l.State(),
		Summary: analysis.Summary{Spent: decimal.NewFromInt(2), Profit: decimal.NewFromInt(-2), Holdings: 1, Assets: 1, Unclassified: 1},
	}, nil
}

func newTestServer(a Analyzer) *httptest.Server {
	return httptest.NewServer(NewServer(Options{Analyzer: a}).Handler())
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalysis_JSON(t *testing.T) {
	a := &fakeAnalyzer{}
	srv := newTestServer(a)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/addresses/" + testAddress + "/analysis?method=floor")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, testAddress, a.gotAddress)
	assert.Equal(t, domain.PriceMethodFloor, a.gotMethod)

	var doc map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "floor", doc["method"])
	assert.Equal(t, []interface{}{"mintA"}, doc["holdings"])
}

func TestAnalysis_DefaultMethod(t *testing.T) {
	a := &fakeAnalyzer{}
	srv := newTestServer(a)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/addresses/" + testAddress + "/analysis")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.PriceMethodMedian, a.gotMethod)
}

func TestAnalysis_Markdown(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/addresses/" + testAddress + "/analysis.md")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "# Paperhands Report")
}

func TestAnalysis_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		err      error
		wantCode int
		wantErr  string
	}{
		{
			name:     "invalid address",
			path:     "/v1/addresses/not-a-key/analysis",
			wantCode: http.StatusBadRequest,
			wantErr:  ErrCodeInvalidInput,
		},
		{
			name:     "unknown method",
			path:     "/v1/addresses/" + testAddress + "/analysis?method=vwap",
			wantCode: http.StatusBadRequest,
			wantErr:  ErrCodeInvalidInput,
		},
		{
			name:     "collaborator failure",
			path:     "/v1/addresses/" + testAddress + "/analysis",
			err:      domain.NewCollaboratorError(domain.CollaboratorLedger, "getSignaturesForAddress", testAddress, errors.New("timeout")),
			wantCode: http.StatusBadGateway,
			wantErr:  ErrCodeUpstreamFailure,
		},
		{
			name:     "other failure",
			path:     "/v1/addresses/" + testAddress + "/analysis.md",
			err:      fmt.Errorf("fold: %w", errors.New("unexpected")),
			wantCode: http.StatusInternalServerError,
			wantErr:  ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeAnalyzer{err: tt.err})
			defer srv.Close()

			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tt.wantErr, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{panics: true})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/addresses/" + testAddress + "/analysis")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, ErrCodeInternalError, decodeError(t, resp).Error.Code)
}
