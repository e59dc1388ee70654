package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BTCPulse/internal/model"
)

func newTestCoinbase(t *testing.T, handler http.HandlerFunc) *CoinbaseFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCoinbaseFetcher(srv.URL, "")
}

func TestCoinbaseFetcher_FetchCandles(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	f := newTestCoinbase(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotUA = r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")
		// deliberately oldest-first to check ordering
		_, _ = w.Write([]byte(`[
			[1700000000, 99, 101, 100, 100.5, 3.2],
			[1700000120, 101, 103, 102, 102.5, 1.1],
			[1700000060, 100, 102, 101, 101.5, 2.0]
		]`))
	})

	candles, err := f.FetchCandles(context.Background(), "BTC-USD", model.OneMinute)
	require.NoError(t, err)

	assert.Equal(t, "/products/BTC-USD/candles", gotPath)
	assert.Equal(t, "granularity=60", gotQuery)
	assert.Equal(t, "btcpulse", gotUA)

	require.Len(t, candles, 3)
	assert.Equal(t, int64(1700000120), candles[0].Timestamp)
	assert.Equal(t, int64(1700000060), candles[1].Timestamp)
	assert.Equal(t, int64(1700000000), candles[2].Timestamp)
	assert.Equal(t, model.Candle{
		Timestamp: 1700000120, Low: 101, High: 103, Open: 102, Close: 102.5, Volume: 1.1,
	}, candles[0])
}

func TestCoinbaseFetcher_FetchCandlesGranularitySeconds(t *testing.T) {
	var gotQuery string
	f := newTestCoinbase(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	})
	_, err := f.FetchCandles(context.Background(), "BTC-USD", model.SixHours)
	require.NoError(t, err)
	assert.Equal(t, "granularity=21600", gotQuery)

	_, err = f.FetchCandles(context.Background(), "BTC-USD", model.Granularity(120))
	assert.ErrorIs(t, err, model.ErrUnknownGranularity)
}

func TestCoinbaseFetcher_FetchCandlesMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>`},
		{"object instead of array", `{"message":"NotFound"}`},
		{"short row", `[[1700000000, 1, 2, 3]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestCoinbase(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := f.FetchCandles(context.Background(), "BTC-USD", model.OneMinute)
			assert.ErrorIs(t, err, model.ErrMalformedResponse)
		})
	}
}

func TestCoinbaseFetcher_StatusError(t *testing.T) {
	f := newTestCoinbase(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := f.FetchCandles(context.Background(), "BTC-USD", model.OneMinute)
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "status 429")

	_, err = f.FetchLivePrice(context.Background(), "BTC-USD")
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
}

func TestCoinbaseFetcher_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewCoinbaseFetcher(url, "")
	_, err := f.FetchLivePrice(context.Background(), "BTC-USD")
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
}

func TestCoinbaseFetcher_FetchLivePrice(t *testing.T) {
	var gotPath string
	f := newTestCoinbase(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"ask":"67010.01","bid":"67009.99","volume":"8123.4","trade_id":123,
			"price":"67010.00","size":"0.01","time":"2024-05-01T00:00:00.000000Z","rfq_volume":"1.2"}`))
	})

	price, err := f.FetchLivePrice(context.Background(), "BTC-USD")
	require.NoError(t, err)
	assert.Equal(t, "/products/BTC-USD/ticker", gotPath)
	assert.Equal(t, 67010.0, price)
}

func TestCoinbaseFetcher_FetchLivePriceMalformed(t *testing.T) {
	for _, body := range []string{
		`{"price":"abc"}`, `{"price":""}`, `{"price":"0"}`, `[1,2]`,
		`{"price":"NaN"}`, `{"price":"Inf"}`, `{"price":"+Inf"}`, `{"price":"-1"}`, `{"price":"1e400"}`,
	} {
		f := newTestCoinbase(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := f.FetchLivePrice(context.Background(), "BTC-USD")
		assert.ErrorIs(t, err, model.ErrMalformedResponse, body)
	}
}

func TestCoinbaseFetcher_ContextCancelled(t *testing.T) {
	f := newTestCoinbase(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"price":"1"}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.FetchLivePrice(ctx, "BTC-USD")
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoinbaseFetcher_StatusErrorBodyTruncated(t *testing.T) {
	f := newTestCoinbase(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 10000)))
	})

	_, err := f.FetchCandles(context.Background(), "BTC-USD", model.OneMinute)
	require.ErrorIs(t, err, model.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "status 502")
	assert.Less(t, len(err.Error()), 400)
	assert.True(t, strings.HasSuffix(err.Error(), "..."))
}

func TestCoinbaseFetcher_OversizedBody(t *testing.T) {
	f := newTestCoinbase(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat(" ", maxBodyBytes+10)))
	})

	_, err := f.FetchLivePrice(context.Background(), "BTC-USD")
	assert.ErrorIs(t, err, model.ErrMalformedResponse)
}

func TestCollector_NonFiniteTickerIsTickerStage(t *testing.T) {
	for _, price := range []string{"NaN", "Inf"} {
		f := newTestCoinbase(t, func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/ticker") {
				_, _ = w.Write([]byte(`{"price":"` + price + `"}`))
				return
			}
			_, _ = w.Write([]byte(`[]`))
		})

		_, err := NewCollector(f, "BTC-USD").Collect(context.Background(), model.OneMinute)
		var se *StageError
		require.ErrorAs(t, err, &se, price)
		assert.Equal(t, StageTicker, se.Stage, price)
		assert.ErrorIs(t, err, model.ErrMalformedResponse, price)
	}
}
