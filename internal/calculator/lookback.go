package calculator

import (
	"fmt"

	"BTCPulse/internal/model"
)

// lookbackTables maps each granularity to its five lookback windows.
// Offsets are strictly increasing within a table.
var lookbackTables = map[model.Granularity][5]model.Lookback{
	model.OneMinute: {
		{Offset: 1, Label: "1m"}, {Offset: 6, Label: "5m"}, {Offset: 16, Label: "15m"},
		{Offset: 31, Label: "30m"}, {Offset: 61, Label: "1h"},
	},
	model.FiveMinutes: {
		{Offset: 1, Label: "5m"}, {Offset: 6, Label: "30m"}, {Offset: 12, Label: "1h"},
		{Offset: 144, Label: "12h"}, {Offset: 287, Label: "1d"},
	},
	model.FifteenMinutes: {
		{Offset: 1, Label: "15m"}, {Offset: 2, Label: "30m"}, {Offset: 4, Label: "1h"},
		{Offset: 8, Label: "2h"}, {Offset: 16, Label: "4h"},
	},
	model.OneHour: {
		{Offset: 1, Label: "1h"}, {Offset: 2, Label: "2h"}, {Offset: 5, Label: "5h"},
		{Offset: 12, Label: "12h"}, {Offset: 24, Label: "1d"},
	},
	model.SixHours: {
		{Offset: 1, Label: "6h"}, {Offset: 2, Label: "12h"}, {Offset: 4, Label: "1d"},
		{Offset: 8, Label: "2d"}, {Offset: 16, Label: "4d"},
	},
	model.OneDay: {
		{Offset: 1, Label: "1d"}, {Offset: 2, Label: "2d"}, {Offset: 7, Label: "1w"},
		{Offset: 14, Label: "2w"}, {Offset: 28, Label: "1m"},
	},
}

func table(g model.Granularity) ([5]model.Lookback, error) {
	t, ok := lookbackTables[g]
	if !ok {
		return t, fmt.Errorf("%w: %d seconds", model.ErrUnknownGranularity, int(g))
	}
	return t, nil
}

// Lookbacks returns a copy of the lookback table for g.
func Lookbacks(g model.Granularity) ([]model.Lookback, error) {
	t, err := table(g)
	if err != nil {
		return nil, err
	}
	out := make([]model.Lookback, len(t))
	copy(out, t[:])
	return out, nil
}

// MaxOffset returns the deepest offset g's table reaches.
func MaxOffset(g model.Granularity) (int, error) {
	t, err := table(g)
	if err != nil {
		return 0, err
	}
	return t[len(t)-1].Offset, nil
}

// RequiredCandles is the minimum candle count ComputeChanges accepts for g.
func RequiredCandles(g model.Granularity) (int, error) {
	m, err := MaxOffset(g)
	if err != nil {
		return 0, err
	}
	return m + 1, nil
}
