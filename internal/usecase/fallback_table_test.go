package usecase

import (
	"testing"

	"github.com/LavaJover/shvark-rates-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackTableLookup(t *testing.T) {
	table := NewFallbackTable(map[string]decimal.Decimal{
		"$ZRA+0000":    decimal.RequireFromString("0.10"),
		"$ZRA+0042":    decimal.RequireFromString("0.25"),
		"LEGACY-TOKEN": decimal.RequireFromString("1.50"),
	})

	tests := []struct {
		name      string
		id        string
		found     bool
		rate      string
		match     domain.FallbackMatch
		sourceKey string
	}{
		{"exact beats symbol family", "$ZRA+0042", true, "0.25", domain.FallbackExactMatch, "$ZRA+0042"},
		{"native exact", "$ZRA+0000", true, "0.10", domain.FallbackExactMatch, "$ZRA+0000"},
		{"symbol family", "$ZRA+0007", true, "0.10", domain.FallbackSymbolMatch, "$ZRA+0000"},
		{"opaque exact", "LEGACY-TOKEN", true, "1.50", domain.FallbackExactMatch, "LEGACY-TOKEN"},
		{"unknown family", "$GOLD+0001", false, "", "", ""},
		{"opaque unknown", "INVALID_NO_FALLBACK", false, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, found := table.Lookup(tt.id)
			require.Equal(t, tt.found, found)
			if !found {
				return
			}
			assert.True(t, info.Rate.Equal(decimal.RequireFromString(tt.rate)))
			assert.Equal(t, tt.match, info.Match)
			assert.Equal(t, tt.sourceKey, info.SourceKey)
		})
	}
}

func TestFallbackTableMerge(t *testing.T) {
	table := NewFallbackTable(map[string]decimal.Decimal{
		"$ZRA+0000": decimal.RequireFromString("0.10"),
	})

	table.Merge(map[string]decimal.Decimal{
		"$ZRA+0000":  decimal.RequireFromString("0.12"),
		"$GOLD+0000": decimal.RequireFromString("2.00"),
	})

	info, found := table.Lookup("$ZRA+0000")
	require.True(t, found)
	assert.True(t, info.Rate.Equal(decimal.RequireFromString("0.12")))

	info, found = table.Lookup("$GOLD+0003")
	require.True(t, found)
	assert.Equal(t, domain.FallbackSymbolMatch, info.Match)
	assert.True(t, info.Rate.Equal(decimal.RequireFromString("2.00")))
}
