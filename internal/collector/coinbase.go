package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"BTCPulse/internal/model"
)

const (
	DefaultCoinbaseBaseURL = "https://api.exchange.coinbase.com"
	defaultUserAgent       = "btcpulse"

	maxBodyBytes     = 4 << 20
	maxErrorBodyText = 256
)

// CoinbaseFetcher implements Fetcher using the Coinbase Exchange public REST API.
type CoinbaseFetcher struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

// NewCoinbaseFetcher creates a new fetcher with optional proxy support.
func NewCoinbaseFetcher(baseURL, proxyURL string) *CoinbaseFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultCoinbaseBaseURL
	}
	return &CoinbaseFetcher{
		BaseURL:   baseURL,
		UserAgent: defaultUserAgent,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *CoinbaseFetcher) Name() string { return "coinbase" }

// coinbaseTicker is the JSON shape of /products/{id}/ticker. Numbers arrive as strings.
type coinbaseTicker struct {
	Ask     string `json:"ask"`
	Bid     string `json:"bid"`
	Volume  string `json:"volume"`
	TradeID int64  `json:"trade_id"`
	Price   string `json:"price"`
	Size    string `json:"size"`
	Time    string `json:"time"`
}

// FetchCandles returns up to 300 candles, newest first.
// Rows arrive as [time, low, high, open, close, volume].
func (f *CoinbaseFetcher) FetchCandles(ctx context.Context, pair string, g model.Granularity) ([]model.Candle, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("fetch candles: %w: %d", model.ErrUnknownGranularity, int(g))
	}
	endpoint := fmt.Sprintf("%s/products/%s/candles?granularity=%d",
		f.BaseURL, url.PathEscape(pair), g.Seconds())

	body, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}

	var rows [][]float64
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode candles: %w: %w", model.ErrMalformedResponse, err)
	}
	candles := make([]model.Candle, len(rows))
	for i, row := range rows {
		if len(row) != 6 {
			return nil, fmt.Errorf("decode candles: %w: row %d has %d fields, want 6",
				model.ErrMalformedResponse, i, len(row))
		}
		candles[i] = model.Candle{
			Timestamp: int64(row[0]),
			Low:       row[1],
			High:      row[2],
			Open:      row[3],
			Close:     row[4],
			Volume:    row[5],
		}
	}
	// Ensure newest-first order
	sort.SliceStable(candles, func(i, j int) bool { return candles[i].Timestamp > candles[j].Timestamp })
	return candles, nil
}

func (f *CoinbaseFetcher) FetchLivePrice(ctx context.Context, pair string) (float64, error) {
	endpoint := fmt.Sprintf("%s/products/%s/ticker", f.BaseURL, url.PathEscape(pair))

	body, err := f.get(ctx, endpoint)
	if err != nil {
		return 0, fmt.Errorf("fetch ticker: %w", err)
	}

	var t coinbaseTicker
	if err := json.Unmarshal(body, &t); err != nil {
		return 0, fmt.Errorf("decode ticker: %w: %w", model.ErrMalformedResponse, err)
	}
	return parsePrice(t.Price)
}

func parsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("decode price %q: %w: %w", s, model.ErrMalformedResponse, err)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("decode price %q: %w: not a positive finite number", s, model.ErrMalformedResponse)
	}
	return price, nil
}

func (f *CoinbaseFetcher) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	// Coinbase rejects requests without a User-Agent.
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", model.ErrProviderUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", model.ErrProviderUnavailable, resp.StatusCode, truncate(body, maxErrorBodyText))
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", model.ErrMalformedResponse, maxBodyBytes)
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
