package domain

import "errors"

var (
	// ErrEmptyCatalog is returned when no recipe file produced a usable recipe
	ErrEmptyCatalog = errors.New("recipe catalog is empty")

	// ErrNoMarketData is returned when a scan ends up with an empty market snapshot
	ErrNoMarketData = errors.New("no market data available")

	// ErrMarketAPIFailure is returned when the market API request fails
	ErrMarketAPIFailure = errors.New("market API request failed")

	// ErrInvalidParameters is returned when scan parameters are out of range
	ErrInvalidParameters = errors.New("invalid scan parameters")

	// ErrCacheMiss is returned when a snapshot is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
