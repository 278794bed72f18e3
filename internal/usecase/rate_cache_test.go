package usecase

import (
	"testing"
	"time"

	"github.com/LavaJover/shvark-rates-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestRateCacheFreshness(t *testing.T) {
	clock := &fakeClock{now: testBase}
	cache := NewRateCache(3000*time.Millisecond, clock.Now)

	cache.Set("$ZRA+0000", decimal.RequireFromString("0.15"), domain.RateSourceValidator)

	clock.Advance(2999 * time.Millisecond)
	cached, ok := cache.Get("$ZRA+0000")
	require.True(t, ok)
	assert.True(t, cached.rate.Equal(decimal.RequireFromString("0.15")))

	clock.Advance(2 * time.Millisecond)
	_, ok = cache.Get("$ZRA+0000")
	assert.False(t, ok)
}

func TestRateCacheExactTTLIsExpired(t *testing.T) {
	clock := &fakeClock{now: testBase}
	cache := NewRateCache(3000*time.Millisecond, clock.Now)

	cache.Set("$ZRA+0000", decimal.RequireFromString("0.15"), domain.RateSourceValidator)

	clock.Advance(3000 * time.Millisecond)
	_, ok := cache.Get("$ZRA+0000")
	assert.False(t, ok)
}

func TestRateCacheOverwrite(t *testing.T) {
	clock := &fakeClock{now: testBase}
	cache := NewRateCache(3000*time.Millisecond, clock.Now)

	cache.Set("$ZRA+0000", decimal.RequireFromString("0.15"), domain.RateSourceValidator)
	clock.Advance(2000 * time.Millisecond)
	cache.Set("$ZRA+0000", decimal.RequireFromString("0.20"), domain.RateSourceIndexer)

	clock.Advance(2000 * time.Millisecond)
	cached, ok := cache.Get("$ZRA+0000")
	require.True(t, ok)
	assert.True(t, cached.rate.Equal(decimal.RequireFromString("0.20")))
	assert.Equal(t, domain.RateSourceIndexer, cached.source)
}

func TestRateCacheClear(t *testing.T) {
	clock := &fakeClock{now: testBase}
	cache := NewRateCache(3000*time.Millisecond, clock.Now)

	cache.Set("$ZRA+0000", decimal.RequireFromString("0.15"), domain.RateSourceValidator)
	cache.Clear()

	_, ok := cache.Get("$ZRA+0000")
	assert.False(t, ok)
	assert.Empty(t, cache.Snapshot())
}

func TestRateCacheSnapshot(t *testing.T) {
	clock := &fakeClock{now: testBase}
	cache := NewRateCache(3000*time.Millisecond, clock.Now)

	cache.Set("$ZRA+0000", decimal.RequireFromString("0.15"), domain.RateSourceValidator)
	clock.Advance(1000 * time.Millisecond)
	cache.Set("$GOLD+0001", decimal.RequireFromString("1.25"), domain.RateSourceIndexer)
	clock.Advance(2500 * time.Millisecond)

	entries := cache.Snapshot()
	require.Len(t, entries, 2)

	// Сортировка по идентификатору
	assert.Equal(t, "$GOLD+0001", entries[0].InstrumentID)
	assert.Equal(t, "$ZRA+0000", entries[1].InstrumentID)

	assert.Equal(t, 2500*time.Millisecond, entries[0].Age)
	assert.False(t, entries[0].Expired)
	assert.Equal(t, domain.RateSourceIndexer, entries[0].Source)

	assert.Equal(t, 3500*time.Millisecond, entries[1].Age)
	assert.True(t, entries[1].Expired)
	assert.True(t, entries[1].Rate.Equal(decimal.RequireFromString("0.15")))
}
