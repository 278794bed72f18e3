package response

import "github.com/shopspring/decimal"

type RateResponse struct {
	InstrumentID string          `json:"instrument_id"`
	Rate         decimal.Decimal `json:"rate"`
}

type FallbackInfoResponse struct {
	InstrumentID string          `json:"instrument_id"`
	Rate         decimal.Decimal `json:"rate"`
	Match        string          `json:"match"`
	SourceKey    string          `json:"source_key"`
}
