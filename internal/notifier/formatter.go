package notifier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"BTCPulse/internal/model"
)

var (
	positiveColor = color.New(color.FgGreen)
	negativeColor = color.New(color.FgRed)
	neutralColor  = color.New(color.FgWhite)
)

func init() {
	// Colour is decided per call by FormatLine, not by terminal detection.
	for _, c := range []*color.Color{positiveColor, negativeColor, neutralColor} {
		c.EnableColor()
	}
}

// FormatChange renders a result as "+1.23%", "-1.23%" or "0.00%".
func FormatChange(r model.ChangeResult) string {
	switch r.Sign() {
	case model.Positive:
		return fmt.Sprintf("+%.2f%%", r.Percent)
	case model.Negative:
		return fmt.Sprintf("%.2f%%", r.Percent)
	default:
		return "0.00%"
	}
}

// FormatPrice prints the live price in its shortest exact form.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// FormatLine formats a snapshot as
//
//	BTC-USD | $67010.5	1m: +0.12%	5m: -0.40%	...
//
// with one tab-separated segment per change, in lookback table order.
func FormatLine(s *model.Snapshot, colorize bool) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s | $%s", s.Pair, FormatPrice(s.LivePrice)))
	for _, r := range s.Changes {
		value := FormatChange(r)
		if colorize {
			value = colorFor(r.Sign()).Sprint(value)
		}
		b.WriteString(fmt.Sprintf("\t%s: %s", r.Label, value))
	}
	return b.String()
}

func colorFor(s model.Sign) *color.Color {
	switch s {
	case model.Positive:
		return positiveColor
	case model.Negative:
		return negativeColor
	default:
		return neutralColor
	}
}
