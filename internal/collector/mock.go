package collector

import (
	"context"
	"time"

	"BTCPulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	Candles   []model.Candle
	CandleErr error
	PriceErr  error
	// Count is the number of generated candles when Candles is nil.
	Count int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(ctx context.Context, _ string, g model.Granularity) ([]model.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.CandleErr != nil {
		return nil, m.CandleErr
	}
	if m.Candles != nil {
		return m.Candles, nil
	}
	count := m.Count
	if count == 0 {
		count = 300
	}
	return generateMockCandles(m.Price, g, count, time.Now()), nil
}

func (m *MockFetcher) FetchLivePrice(ctx context.Context, _ string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if m.PriceErr != nil {
		return 0, m.PriceErr
	}
	return m.Price, nil
}

// generateMockCandles builds a newest-first series drifting down from basePrice.
func generateMockCandles(basePrice float64, g model.Granularity, count int, now time.Time) []model.Candle {
	candles := make([]model.Candle, count)
	start := now.Truncate(g.Duration())
	for i := 0; i < count; i++ {
		p := basePrice * (1 - float64(i)*0.0001)
		candles[i] = model.Candle{
			Timestamp: start.Add(-time.Duration(i) * g.Duration()).Unix(),
			Open:      p * 0.999,
			High:      p * 1.001,
			Low:       p * 0.998,
			Close:     p,
			Volume:    10,
		}
	}
	return candles
}
