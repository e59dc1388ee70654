package model

import "time"

// Lookback is one window of a granularity's lookback table.
// Offset indexes into a newest-first candle sequence (1 = previous candle).
type Lookback struct {
	Offset int
	Label  string
}

// Sign classifies a rounded percentage change.
type Sign int

const (
	Neutral Sign = iota
	Positive
	Negative
)

func (s Sign) String() string {
	switch s {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// ChangeResult is the change from the close at Offset to the live price.
// Percent is already rounded to two decimals.
type ChangeResult struct {
	Label   string
	Offset  int
	Percent float64
}

// Sign classifies the rounded value. A change that rounded to 0.00 is Neutral.
func (r ChangeResult) Sign() Sign {
	switch {
	case r.Percent > 0:
		return Positive
	case r.Percent < 0:
		return Negative
	default:
		return Neutral
	}
}

// Snapshot is one complete point-in-time view handed to the presentation layer.
type Snapshot struct {
	Pair        string
	Granularity Granularity
	LivePrice   float64
	Changes     []ChangeResult
	Source      string
	FetchedAt   time.Time
}
