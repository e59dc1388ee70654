package model

import (
	"fmt"
	"strconv"
	"time"
)

// Candle is one OHLCV bucket as returned by the data provider.
type Candle struct {
	Timestamp int64 // seconds since epoch, bucket start
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Time returns the candle timestamp as a time.Time in UTC.
func (c Candle) Time() time.Time {
	return time.Unix(c.Timestamp, 0).UTC()
}

// Granularity is the bucket width of a candle sequence.
type Granularity int

const (
	OneMinute      Granularity = 60
	FiveMinutes    Granularity = 300
	FifteenMinutes Granularity = 900
	OneHour        Granularity = 3600
	SixHours       Granularity = 21600
	OneDay         Granularity = 86400
)

// Granularities lists every supported granularity, finest first.
var Granularities = []Granularity{OneMinute, FiveMinutes, FifteenMinutes, OneHour, SixHours, OneDay}

var granularityLabels = map[Granularity]string{
	OneMinute:      "1m",
	FiveMinutes:    "5m",
	FifteenMinutes: "15m",
	OneHour:        "1h",
	SixHours:       "6h",
	OneDay:         "1d",
}

// Seconds returns the bucket width in seconds, as the candles endpoint expects it.
func (g Granularity) Seconds() int { return int(g) }

// Duration returns the bucket width.
func (g Granularity) Duration() time.Duration { return time.Duration(g) * time.Second }

// Valid reports whether g is one of the supported granularities.
func (g Granularity) Valid() bool {
	_, ok := granularityLabels[g]
	return ok
}

func (g Granularity) String() string {
	if l, ok := granularityLabels[g]; ok {
		return l
	}
	return fmt.Sprintf("Granularity(%d)", int(g))
}

// ParseGranularity accepts a label ("1m", "6h") or a width in seconds ("60").
func ParseGranularity(s string) (Granularity, error) {
	for _, g := range Granularities {
		if g.String() == s {
			return g, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Granularity(n).Valid() {
		return Granularity(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}
