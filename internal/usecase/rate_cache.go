// internal/usecase/rate_cache.go
package usecase

import (
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/shvark-rates-service/internal/domain"
	"github.com/shopspring/decimal"
)

// RateCache держит последние живые курсы на короткий TTL.
// Записи не вытесняются, устаревшие просто перестают отдаваться из Get.
type RateCache struct {
	rates map[string]CachedRate
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
}

type CachedRate struct {
	rate      decimal.Decimal
	timestamp time.Time
	source    domain.RateSource
}

func NewRateCache(ttl time.Duration, now func() time.Time) *RateCache {
	if now == nil {
		now = time.Now
	}
	return &RateCache{
		rates: make(map[string]CachedRate),
		ttl:   ttl,
		now:   now,
	}
}

// Get возвращает запись только пока она свежая: age < ttl.
func (c *RateCache) Get(instrumentID string) (CachedRate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, exists := c.rates[instrumentID]
	if !exists || c.now().Sub(cached.timestamp) >= c.ttl {
		return CachedRate{}, false
	}

	return cached, true
}

func (c *RateCache) Set(instrumentID string, rate decimal.Decimal, source domain.RateSource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rates[instrumentID] = CachedRate{
		rate:      rate,
		timestamp: c.now(),
		source:    source,
	}
}

func (c *RateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rates = make(map[string]CachedRate)
}

// Snapshot отдаёт диагностический срез кеша, включая устаревшие записи.
func (c *RateCache) Snapshot() []domain.CacheSnapshotEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	entries := make([]domain.CacheSnapshotEntry, 0, len(c.rates))
	for instrumentID, cached := range c.rates {
		age := now.Sub(cached.timestamp)
		entries = append(entries, domain.CacheSnapshotEntry{
			InstrumentID: instrumentID,
			Rate:         cached.rate,
			Source:       cached.source,
			Age:          age,
			Expired:      age >= c.ttl,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].InstrumentID < entries[j].InstrumentID
	})

	return entries
}
