package request

import "github.com/shopspring/decimal"

type UpdateRatesRequest struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

type SetSafeguardsRequest struct {
	Enabled bool `json:"enabled"`
}
