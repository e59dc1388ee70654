package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BTCPulse/internal/model"
)

func TestLookbacks_FiveStrictlyIncreasing(t *testing.T) {
	for _, g := range model.Granularities {
		t.Run(g.String(), func(t *testing.T) {
			lbs, err := Lookbacks(g)
			require.NoError(t, err)
			require.Len(t, lbs, 5)
			for i := 1; i < len(lbs); i++ {
				assert.Greater(t, lbs[i].Offset, lbs[i-1].Offset)
			}
			assert.Greater(t, lbs[0].Offset, 0)
		})
	}
}

func TestLookbacks_Tables(t *testing.T) {
	tests := []struct {
		g       model.Granularity
		offsets []int
		labels  []string
	}{
		{model.OneMinute, []int{1, 6, 16, 31, 61}, []string{"1m", "5m", "15m", "30m", "1h"}},
		{model.FiveMinutes, []int{1, 6, 12, 144, 287}, []string{"5m", "30m", "1h", "12h", "1d"}},
		{model.FifteenMinutes, []int{1, 2, 4, 8, 16}, []string{"15m", "30m", "1h", "2h", "4h"}},
		{model.OneHour, []int{1, 2, 5, 12, 24}, []string{"1h", "2h", "5h", "12h", "1d"}},
		{model.SixHours, []int{1, 2, 4, 8, 16}, []string{"6h", "12h", "1d", "2d", "4d"}},
		{model.OneDay, []int{1, 2, 7, 14, 28}, []string{"1d", "2d", "1w", "2w", "1m"}},
	}
	for _, tt := range tests {
		lbs, err := Lookbacks(tt.g)
		require.NoError(t, err)
		for i, lb := range lbs {
			assert.Equal(t, tt.offsets[i], lb.Offset, "%s[%d]", tt.g, i)
			assert.Equal(t, tt.labels[i], lb.Label, "%s[%d]", tt.g, i)
		}
	}
}

func TestLookbacks_ReturnsCopy(t *testing.T) {
	lbs, err := Lookbacks(model.OneMinute)
	require.NoError(t, err)
	lbs[0].Offset = 999

	again, err := Lookbacks(model.OneMinute)
	require.NoError(t, err)
	assert.Equal(t, 1, again[0].Offset)
}

func TestRequiredCandles(t *testing.T) {
	n, err := RequiredCandles(model.OneMinute)
	require.NoError(t, err)
	assert.Equal(t, 62, n)

	n, err = RequiredCandles(model.FiveMinutes)
	require.NoError(t, err)
	assert.Equal(t, 288, n)

	_, err = RequiredCandles(model.Granularity(120))
	assert.ErrorIs(t, err, model.ErrUnknownGranularity)
}
