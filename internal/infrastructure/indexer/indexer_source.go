// internal/infrastructure/indexer/indexer_source.go
package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LavaJover/shvark-rates-service/internal/domain"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultTimeout = 2500 * time.Millisecond

// IndexerSource запрашивает курс у HTTP-индексатора сети.
// Требует API-ключ, без ключа адаптер не регистрируется.
type IndexerSource struct {
	baseURL string
	apiKey  string
	probe   string
	client  *http.Client
}

type indexerResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

func NewIndexerSource(baseURL, apiKey, probeInstrument string, timeout time.Duration) *IndexerSource {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &IndexerSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		probe:   probeInstrument,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *IndexerSource) GetName() string {
	return "indexer"
}

func (s *IndexerSource) TryResolve(ctx context.Context, instrumentID string) (decimal.Decimal, error) {
	requestURL := fmt.Sprintf("%s/exchange-rates/%s", s.baseURL, url.PathEscape(instrumentID))

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to get rate from indexer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, status.Errorf(codes.Unavailable, "indexer returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to read response body: %w", err)
	}

	var response indexerResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse indexer response: %w", err)
	}

	if !response.Rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: indexer has no usable rate for %s", domain.ErrRateNotFound, instrumentID)
	}

	return response.Rate, nil
}

func (s *IndexerSource) IsHealthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := s.TryResolve(ctx, s.probe)
	return err == nil
}
