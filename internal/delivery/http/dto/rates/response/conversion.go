package response

import "github.com/shopspring/decimal"

type ConversionResponse struct {
	InstrumentID string          `json:"instrument_id"`
	Amount       decimal.Decimal `json:"amount"`
	Direction    string          `json:"direction"`
}
