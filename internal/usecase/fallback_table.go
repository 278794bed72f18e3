// internal/usecase/fallback_table.go
package usecase

import (
	"sync"

	"github.com/LavaJover/shvark-rates-service/internal/domain"
	"github.com/shopspring/decimal"
)

// FallbackTable хранит статические курсы на случай отказа всех живых источников.
type FallbackTable struct {
	rates map[string]decimal.Decimal
	mu    sync.RWMutex
}

func NewFallbackTable(initial map[string]decimal.Decimal) *FallbackTable {
	rates := make(map[string]decimal.Decimal, len(initial))
	for instrumentID, rate := range initial {
		rates[instrumentID] = rate
	}
	return &FallbackTable{rates: rates}
}

// Lookup ищет сначала точный идентификатор, затем общий ключ семейства символа.
func (t *FallbackTable) Lookup(instrumentID string) (domain.FallbackRateInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if rate, ok := t.rates[instrumentID]; ok {
		return domain.FallbackRateInfo{
			Rate:      rate,
			Match:     domain.FallbackExactMatch,
			SourceKey: instrumentID,
		}, true
	}

	familyKey, ok := domain.SymbolFamilyKey(instrumentID)
	if !ok || familyKey == instrumentID {
		return domain.FallbackRateInfo{}, false
	}

	if rate, ok := t.rates[familyKey]; ok {
		return domain.FallbackRateInfo{
			Rate:      rate,
			Match:     domain.FallbackSymbolMatch,
			SourceKey: familyKey,
		}, true
	}

	return domain.FallbackRateInfo{}, false
}

func (t *FallbackTable) Merge(rates map[string]decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for instrumentID, rate := range rates {
		t.rates[instrumentID] = rate
	}
}
