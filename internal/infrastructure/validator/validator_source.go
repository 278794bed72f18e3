// internal/infrastructure/validator/validator_source.go
package validator

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/LavaJover/shvark-rates-service/internal/domain"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/shopspring/decimal"
)

// Валидатор отдаёт курсы строками с фиксированной точкой 10^18
const tokenRateScale int32 = -18

const defaultCallTimeout = 5 * time.Second

type TokenFeeQuery struct {
	TokenIDs            []string `json:"tokenIds"`
	IncludeRate         bool     `json:"includeRate"`
	IncludeContractFees bool     `json:"includeContractFees"`
}

type ContractFeeTerms struct {
	Fee    string `json:"fee"`
	Period string `json:"period"`
}

type TokenFeeRecord struct {
	Denom        string            `json:"denom"`
	Rate         string            `json:"rate"`
	Authorized   bool              `json:"authorized"`
	ContractFees *ContractFeeTerms `json:"contractFees,omitempty"`
}

// ValidatorSource запрашивает курс у узла валидатора через JSON-RPC.
type ValidatorSource struct {
	client  *rpc.Client
	timeout time.Duration
	probe   string
}

func NewValidatorSource(ctx context.Context, rpcURL string, timeout time.Duration, probeInstrument string) (*ValidatorSource, error) {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := rpc.DialContext(dialCtx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial validator node: %w", err)
	}

	return &ValidatorSource{
		client:  client,
		timeout: timeout,
		probe:   probeInstrument,
	}, nil
}

func (s *ValidatorSource) GetName() string {
	return "validator"
}

func (s *ValidatorSource) TryResolve(ctx context.Context, instrumentID string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := TokenFeeQuery{
		TokenIDs:            []string{instrumentID},
		IncludeRate:         true,
		IncludeContractFees: true,
	}

	var records []TokenFeeRecord
	if err := s.client.CallContext(ctx, &records, "zera_tokenFeeInfo", query); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to query validator fee info: %w", err)
	}

	for _, record := range records {
		if record.Denom != instrumentID {
			continue
		}
		// Пустая строка означает, что узел не знает курс инструмента
		if record.Rate == "" {
			return decimal.Decimal{}, fmt.Errorf("%w: validator has no rate for %s", domain.ErrRateNotFound, instrumentID)
		}
		return parseTokenRate(record.Rate)
	}

	return decimal.Decimal{}, fmt.Errorf("%w: validator returned no record for %s", domain.ErrRateNotFound, instrumentID)
}

func parseTokenRate(raw string) (decimal.Decimal, error) {
	value, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("invalid validator rate: %q", raw)
	}
	if value.Sign() < 0 {
		return decimal.Decimal{}, fmt.Errorf("invalid validator rate: %q is negative", raw)
	}
	return decimal.NewFromBigInt(value, tokenRateScale), nil
}

func (s *ValidatorSource) IsHealthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := s.TryResolve(ctx, s.probe)
	return err == nil
}

func (s *ValidatorSource) Close() {
	if s.client != nil {
		s.client.Close()
	}
}
