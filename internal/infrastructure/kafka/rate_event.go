package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExternalRateEvent struct {
	EventID      string          `json:"event_id"`
	InstrumentID string          `json:"instrument_id"`
	Rate         decimal.Decimal `json:"rate"`
	Source       string          `json:"source"`
	SubmittedAt  time.Time       `json:"submitted_at"`
}

type RateDegradationEvent struct {
	EventID       string          `json:"event_id"`
	InstrumentID  string          `json:"instrument_id"`
	Rate          decimal.Decimal `json:"rate"`
	Match         string          `json:"match"`
	SourceKey     string          `json:"source_key"`
	FailedSources []string        `json:"failed_sources"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
