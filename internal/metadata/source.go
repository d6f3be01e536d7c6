// Package metadata resolves on-chain Metaplex metadata and the off-chain JSON
// document it points to.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/luckyturtle/nftape.me/internal/domain"
	"github.com/luckyturtle/nftape.me/internal/logging"
	"github.com/luckyturtle/nftape.me/internal/observability"
	"github.com/luckyturtle/nftape.me/internal/solana"
)

// Source fetches metadata for a mint.
type Source interface {
	// Fetch returns nil, nil when the mint has no metadata account.
	Fetch(ctx context.Context, mint string) (*domain.AssetMetadata, error)
}

// maxDocumentSize bounds the off-chain JSON read.
const maxDocumentSize = 1 << 20

// Options configures a MetaplexSource.
type Options struct {
	RPC        solana.RPCClient
	HTTPClient *http.Client
	// Timeout applies to the off-chain fetch when HTTPClient is nil.
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// MetaplexSource reads the metadata account over RPC and the off-chain JSON over HTTP.
type MetaplexSource struct {
	rpc        solana.RPCClient
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewMetaplexSource creates a new metadata source.
func NewMetaplexSource(opts Options) *MetaplexSource {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &MetaplexSource{
		rpc:        opts.RPC,
		httpClient: httpClient,
		log:        logging.OrDiscard(opts.Logger),
	}
}

// Fetch returns on-chain and off-chain metadata for mint.
// RPC failures are returned as *domain.CollaboratorError. A missing or
// undecodable metadata account yields nil, nil. A failed off-chain fetch
// leaves External nil.
func (s *MetaplexSource) Fetch(ctx context.Context, mint string) (*domain.AssetMetadata, error) {
	log := s.log.WithField("mint", mint)

	pda, err := MetadataAddress(mint)
	if err != nil {
		observability.RecordMetadataLookup("missing")
		log.WithError(err).Warn("cannot derive metadata address")
		return nil, nil
	}

	info, err := s.rpc.GetAccountInfo(ctx, pda)
	if err != nil {
		observability.RecordMetadataLookup("error")
		return nil, domain.NewCollaboratorError(domain.CollaboratorMetadata, "getAccountInfo", mint, err)
	}
	if info == nil {
		observability.RecordMetadataLookup("missing")
		return nil, nil
	}

	onchain, err := DecodeMetadata(info.Data)
	if err != nil {
		observability.RecordMetadataLookup("missing")
		log.WithError(err).Warn("cannot decode metadata account")
		return nil, nil
	}

	md := &domain.AssetMetadata{Onchain: onchain}

	external, err := s.fetchExternal(ctx, onchain.URI)
	if err != nil {
		log.WithError(err).WithField("uri", onchain.URI).Warn("off-chain metadata unavailable")
	} else {
		md.External = external
	}

	observability.RecordMetadataLookup("ok")
	return md, nil
}

func (s *MetaplexSource) fetchExternal(ctx context.Context, uri string) (*domain.ExternalMetadata, error) {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		return nil, fmt.Errorf("unsupported uri %q", uri)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var ext domain.ExternalMetadata
	if err := json.Unmarshal(body, &ext); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	ext.Raw = json.RawMessage(body)

	return &ext, nil
}

var _ Source = (*MetaplexSource)(nil)
