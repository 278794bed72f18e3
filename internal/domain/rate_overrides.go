// internal/domain/rate_overrides.go
package domain

import "github.com/shopspring/decimal"

// OverrideStore persists operator-set fallback and minimum rate tables so
// runtime updates survive a restart.
type OverrideStore interface {
	LoadFallbackRates() (map[string]decimal.Decimal, error)
	LoadMinimumRates() (map[string]decimal.Decimal, error)
	SaveFallbackRates(rates map[string]decimal.Decimal) error
	SaveMinimumRates(rates map[string]decimal.Decimal) error
}
