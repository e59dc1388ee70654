package model

import "errors"

var (
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrMalformedResponse   = errors.New("malformed provider response")
	ErrInsufficientHistory = errors.New("insufficient candle history")
	ErrZeroHistoricalPrice = errors.New("historical close price is zero")
	ErrUnknownGranularity  = errors.New("unknown granularity")
	ErrInvalidLivePrice    = errors.New("live price must be a positive finite number")
)
