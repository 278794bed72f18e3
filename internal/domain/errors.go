package domain

import "errors"

var (
	ErrInvalidInstrumentID = errors.New("invalid instrument id")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidRate = errors.New("invalid rate")
	ErrZeroRate = errors.New("division by zero rate")
	ErrNoRateAvailable = errors.New("no rate available")
	ErrRateNotFound = errors.New("rate not found in source response")
)
