package response

import "github.com/shopspring/decimal"

type CacheEntryResponse struct {
	InstrumentID string          `json:"instrument_id"`
	Rate         decimal.Decimal `json:"rate"`
	Source       string          `json:"source"`
	AgeMs        int64           `json:"age_ms"`
	Expired      bool            `json:"expired"`
}

type CacheSnapshotResponse struct {
	Count   int                  `json:"count"`
	Entries []CacheEntryResponse `json:"entries"`
}
