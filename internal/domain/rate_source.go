// internal/domain/rate_source.go
package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateSourceAdapter is one live rate source in the resolution chain.
// TryResolve returns the USD rate for one unit of the instrument, or an
// error when the source cannot serve it; an error is never fatal to the
// chain, the resolver moves on to the next adapter.
type RateSourceAdapter interface {
	TryResolve(ctx context.Context, instrumentID string) (decimal.Decimal, error)
	GetName() string
	IsHealthy(ctx context.Context) bool
}
