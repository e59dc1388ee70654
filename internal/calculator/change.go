package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"BTCPulse/internal/model"
)

// ComputeChanges returns the percentage change from the close at each of g's
// lookback offsets to livePrice, in table order. candles must be newest-first.
// It returns either all five results or an error.
func ComputeChanges(candles []model.Candle, livePrice float64, g model.Granularity) ([]model.ChangeResult, error) {
	t, err := table(g)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(livePrice) || math.IsInf(livePrice, 0) || livePrice <= 0 {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidLivePrice, livePrice)
	}
	maxOffset := t[len(t)-1].Offset
	if len(candles) <= maxOffset {
		return nil, fmt.Errorf("%w: %s needs %d candles, got %d",
			model.ErrInsufficientHistory, g, maxOffset+1, len(candles))
	}

	results := make([]model.ChangeResult, 0, len(t))
	for _, lb := range t {
		c := candles[lb.Offset].Close
		pct, err := PercentChange(c, livePrice)
		if err != nil {
			return nil, fmt.Errorf("offset %d (%s): %w", lb.Offset, lb.Label, err)
		}
		results = append(results, model.ChangeResult{
			Label:   lb.Label,
			Offset:  lb.Offset,
			Percent: pct,
		})
	}
	return results, nil
}

// PercentChange returns (after-before)/before*100 rounded to two decimals.
func PercentChange(before, after float64) (float64, error) {
	if before == 0 {
		return 0, model.ErrZeroHistoricalPrice
	}
	raw := (after - before) / before * 100
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("%w: close %v", model.ErrMalformedResponse, before)
	}
	return Round2(raw), nil
}

// Round2 rounds v to two decimals, half away from zero. Rounding is done on
// the shortest decimal form of v, so 0.005 becomes 0.01 and -0.005 becomes -0.01.
// v must be finite.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	if f == 0 {
		// drop negative zero
		return 0
	}
	return f
}
