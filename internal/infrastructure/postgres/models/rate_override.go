package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OverrideKindFallback = "fallback"
	OverrideKindMinimum  = "minimum"
)

type RateOverrideModel struct {
	ID           string          `gorm:"primaryKey;type:uuid"`
	InstrumentID string          `gorm:"index:idx_override_instrument_kind,unique"`
	Kind         string          `gorm:"index:idx_override_instrument_kind,unique"`
	Rate         decimal.Decimal `gorm:"type:decimal(32,18)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (RateOverrideModel) TableName() string {
	return "rate_overrides"
}
