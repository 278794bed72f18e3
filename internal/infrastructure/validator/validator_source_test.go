package validator

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-rates-service/internal/domain"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feeService struct {
	records []TokenFeeRecord
	err     error
	queries []TokenFeeQuery
}

func (s *feeService) TokenFeeInfo(ctx context.Context, query TokenFeeQuery) ([]TokenFeeRecord, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func newValidatorFixture(t *testing.T, svc *feeService) *ValidatorSource {
	t.Helper()

	rpcServer := rpc.NewServer()
	require.NoError(t, rpcServer.RegisterName("zera", svc))
	httpServer := httptest.NewServer(rpcServer)
	t.Cleanup(func() {
		httpServer.Close()
		rpcServer.Stop()
	})

	source, err := NewValidatorSource(context.Background(), httpServer.URL, time.Second, "$ZRA+0000")
	require.NoError(t, err)
	t.Cleanup(source.Close)
	return source
}

func TestValidatorSourceScalesFixedPointRate(t *testing.T) {
	svc := &feeService{records: []TokenFeeRecord{
		{Denom: "$ZRA+0000", Rate: "150000000000000000", Authorized: true},
	}}
	source := newValidatorFixture(t, svc)

	rate, err := source.TryResolve(context.Background(), "$ZRA+0000")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.15")))

	require.Len(t, svc.queries, 1)
	assert.Equal(t, []string{"$ZRA+0000"}, svc.queries[0].TokenIDs)
	assert.True(t, svc.queries[0].IncludeRate)
	assert.True(t, svc.queries[0].IncludeContractFees)
}

func TestValidatorSourceWholeRate(t *testing.T) {
	svc := &feeService{records: []TokenFeeRecord{
		{Denom: "$GOLD+0001", Rate: "1000000000000000000"},
	}}
	source := newValidatorFixture(t, svc)

	rate, err := source.TryResolve(context.Background(), "$GOLD+0001")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("1")))
}

func TestValidatorSourceFirstMatchingRecordWins(t *testing.T) {
	svc := &feeService{records: []TokenFeeRecord{
		{Denom: "$GOLD+0001", Rate: "2000000000000000000"},
		{Denom: "$ZRA+0000", Rate: "150000000000000000"},
		{Denom: "$ZRA+0000", Rate: "990000000000000000"},
	}}
	source := newValidatorFixture(t, svc)

	rate, err := source.TryResolve(context.Background(), "$ZRA+0000")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.15")))
}

func TestValidatorSourceEmptyRateMeansAbsent(t *testing.T) {
	svc := &feeService{records: []TokenFeeRecord{
		{Denom: "$ZRA+0000", Rate: ""},
	}}
	source := newValidatorFixture(t, svc)

	_, err := source.TryResolve(context.Background(), "$ZRA+0000")
	assert.ErrorIs(t, err, domain.ErrRateNotFound)
}

func TestValidatorSourceNoMatchingRecord(t *testing.T) {
	svc := &feeService{records: []TokenFeeRecord{
		{Denom: "$GOLD+0001", Rate: "1000000000000000000"},
	}}
	source := newValidatorFixture(t, svc)

	_, err := source.TryResolve(context.Background(), "$ZRA+0000")
	assert.ErrorIs(t, err, domain.ErrRateNotFound)
}

func TestValidatorSourceMalformedRate(t *testing.T) {
	svc := &feeService{records: []TokenFeeRecord{
		{Denom: "$ZRA+0000", Rate: "not-a-number"},
	}}
	source := newValidatorFixture(t, svc)

	_, err := source.TryResolve(context.Background(), "$ZRA+0000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid validator rate")
}

func TestValidatorSourceNegativeRate(t *testing.T) {
	svc := &feeService{records: []TokenFeeRecord{
		{Denom: "$ZRA+0000", Rate: "-150000000000000000"},
	}}
	source := newValidatorFixture(t, svc)

	_, err := source.TryResolve(context.Background(), "$ZRA+0000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
}

func TestValidatorSourceNodeError(t *testing.T) {
	svc := &feeService{err: errors.New("token registry unavailable")}
	source := newValidatorFixture(t, svc)

	_, err := source.TryResolve(context.Background(), "$ZRA+0000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query validator fee info")
}

func TestValidatorSourceName(t *testing.T) {
	svc := &feeService{}
	source := newValidatorFixture(t, svc)
	assert.Equal(t, "validator", source.GetName())
}
