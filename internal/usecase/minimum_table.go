// internal/usecase/minimum_table.go
package usecase

import (
	"sync"

	"github.com/shopspring/decimal"
)

// RateSafeguards задаёт минимальные допустимые курсы по точному идентификатору
// инструмента. Курс ниже минимума поднимается до него перед выдачей.
type RateSafeguards struct {
	minimums map[string]decimal.Decimal
	enabled  bool
	mu       sync.RWMutex
}

func NewRateSafeguards(minimums map[string]decimal.Decimal, enabled bool) *RateSafeguards {
	table := make(map[string]decimal.Decimal, len(minimums))
	for instrumentID, rate := range minimums {
		table[instrumentID] = rate
	}
	return &RateSafeguards{minimums: table, enabled: enabled}
}

// Enforce возвращает курс после применения минимума и признак того, что
// курс был поднят. Минимум берётся только по точному идентификатору,
// без поиска по семейству символа.
func (s *RateSafeguards) Enforce(instrumentID string, rate decimal.Decimal) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.enabled {
		return rate, false
	}

	minimum, ok := s.minimums[instrumentID]
	if !ok || rate.GreaterThanOrEqual(minimum) {
		return rate, false
	}

	return minimum, true
}

func (s *RateSafeguards) Merge(minimums map[string]decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for instrumentID, rate := range minimums {
		s.minimums[instrumentID] = rate
	}
}

func (s *RateSafeguards) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enabled = enabled
}

func (s *RateSafeguards) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.enabled
}
