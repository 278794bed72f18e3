// internal/domain/rate.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSource tags the provenance of a resolved rate. Externally submitted
// rates carry the tag of their feed.
type RateSource string

const (
	RateSourceValidator RateSource = "validator"
	RateSourceIndexer   RateSource = "indexer"
	RateSourceFallback  RateSource = "fallback"
	RateSourceExternal  RateSource = "external"
)

// FallbackMatch names the lookup strategy that produced a fallback rate.
type FallbackMatch string

const (
	FallbackExactMatch  FallbackMatch = "exact_match"
	FallbackSymbolMatch FallbackMatch = "symbol_match"
)

// FallbackRateInfo describes which static entry served an identifier.
type FallbackRateInfo struct {
	Rate      decimal.Decimal
	Match     FallbackMatch
	SourceKey string
}

// CacheSnapshotEntry is a diagnostic view of one cached rate.
type CacheSnapshotEntry struct {
	InstrumentID string
	Rate         decimal.Decimal
	Source       RateSource
	Age          time.Duration
	Expired      bool
}
