package collector

import (
	"context"

	"BTCPulse/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchCandles returns candles for pair at granularity g, newest first.
	FetchCandles(ctx context.Context, pair string, g model.Granularity) ([]model.Candle, error)
	FetchLivePrice(ctx context.Context, pair string) (float64, error)
	Name() string
}

// PriceSource supplies only the live price.
type PriceSource interface {
	FetchLivePrice(ctx context.Context, pair string) (float64, error)
	Name() string
}

// HybridFetcher takes candles from one fetcher and the live price from another source.
type HybridFetcher struct {
	Candles Fetcher
	Price   PriceSource
}

func (h *HybridFetcher) Name() string { return h.Candles.Name() + "+" + h.Price.Name() }

func (h *HybridFetcher) FetchCandles(ctx context.Context, pair string, g model.Granularity) ([]model.Candle, error) {
	return h.Candles.FetchCandles(ctx, pair, g)
}

func (h *HybridFetcher) FetchLivePrice(ctx context.Context, pair string) (float64, error) {
	return h.Price.FetchLivePrice(ctx, pair)
}
