package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRateSafeguardsEnforce(t *testing.T) {
	safeguards := NewRateSafeguards(map[string]decimal.Decimal{
		"$ZRA+0000": decimal.RequireFromString("0.10"),
	}, true)

	t.Run("below minimum is raised", func(t *testing.T) {
		rate, clamped := safeguards.Enforce("$ZRA+0000", decimal.RequireFromString("0.05"))
		assert.True(t, clamped)
		assert.True(t, rate.Equal(decimal.RequireFromString("0.10")))
	})

	t.Run("equal to minimum passes unchanged", func(t *testing.T) {
		rate, clamped := safeguards.Enforce("$ZRA+0000", decimal.RequireFromString("0.10"))
		assert.False(t, clamped)
		assert.True(t, rate.Equal(decimal.RequireFromString("0.10")))
	})

	t.Run("no minimum configured", func(t *testing.T) {
		rate, clamped := safeguards.Enforce("$GOLD+0001", decimal.RequireFromString("0.0001"))
		assert.False(t, clamped)
		assert.True(t, rate.Equal(decimal.RequireFromString("0.0001")))
	})
}

func TestRateSafeguardsToggle(t *testing.T) {
	safeguards := NewRateSafeguards(map[string]decimal.Decimal{
		"$ZRA+0000": decimal.RequireFromString("0.10"),
	}, false)

	rate, clamped := safeguards.Enforce("$ZRA+0000", decimal.RequireFromString("0.05"))
	assert.False(t, clamped)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.05")))
	assert.False(t, safeguards.Enabled())

	safeguards.SetEnabled(true)
	rate, clamped = safeguards.Enforce("$ZRA+0000", decimal.RequireFromString("0.05"))
	assert.True(t, clamped)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.10")))
	assert.True(t, safeguards.Enabled())
}

func TestRateSafeguardsMerge(t *testing.T) {
	safeguards := NewRateSafeguards(map[string]decimal.Decimal{
		"$ZRA+0000": decimal.RequireFromString("0.10"),
	}, true)

	safeguards.Merge(map[string]decimal.Decimal{
		"$ZRA+0000":  decimal.RequireFromString("0.20"),
		"$GOLD+0000": decimal.RequireFromString("1.00"),
	})

	rate, clamped := safeguards.Enforce("$ZRA+0000", decimal.RequireFromString("0.15"))
	assert.True(t, clamped)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.20")))

	rate, clamped = safeguards.Enforce("$GOLD+0000", decimal.RequireFromString("0.50"))
	assert.True(t, clamped)
	assert.True(t, rate.Equal(decimal.RequireFromString("1.00")))
}
