package request

import "github.com/shopspring/decimal"

type SubmitExternalRateRequest struct {
	Rate   decimal.Decimal `json:"rate"`
	Source string          `json:"source"`
}
