package request

import "github.com/shopspring/decimal"

type ConvertRequest struct {
	InstrumentID string          `json:"instrument_id"`
	Amount       decimal.Decimal `json:"amount"`
}
