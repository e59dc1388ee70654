package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"BTCPulse/internal/logger"
	"BTCPulse/internal/model"
)

const DefaultCoinbaseFeedURL = "wss://ws-feed.exchange.coinbase.com"

// StreamPriceSource reads the live price from the Coinbase WebSocket ticker channel.
// Each call opens a connection, takes the first ticker for the pair and closes.
type StreamPriceSource struct {
	URL     string
	Dialer  *websocket.Dialer
	Timeout time.Duration
}

// NewStreamPriceSource creates a source for the given feed URL.
func NewStreamPriceSource(feedURL string) *StreamPriceSource {
	if feedURL == "" {
		feedURL = DefaultCoinbaseFeedURL
	}
	return &StreamPriceSource{
		URL: feedURL,
		Dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
		Timeout: 15 * time.Second,
	}
}

func (s *StreamPriceSource) Name() string { return "coinbase-ws" }

type feedSubscribe struct {
	Type       string   `json:"type"`
	ProductIDs []string `json:"product_ids"`
	Channels   []string `json:"channels"`
}

type feedMessage struct {
	Type      string `json:"type"`
	ProductID string `json:"product_id"`
	Price     string `json:"price"`
	Message   string `json:"message"`
	Reason    string `json:"reason"`
}

func (s *StreamPriceSource) FetchLivePrice(ctx context.Context, pair string) (float64, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	header := http.Header{}
	header.Set("User-Agent", defaultUserAgent)
	conn, _, err := s.Dialer.DialContext(ctx, s.URL, header)
	if err != nil {
		return 0, fmt.Errorf("dial ticker feed: %w: %w", model.ErrProviderUnavailable, err)
	}
	defer conn.Close()

	// Unblock ReadJSON on cancellation.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	sub := feedSubscribe{Type: "subscribe", ProductIDs: []string{pair}, Channels: []string{"ticker"}}
	if err := conn.WriteJSON(sub); err != nil {
		return 0, fmt.Errorf("subscribe ticker: %w: %w", model.ErrProviderUnavailable, err)
	}

	for {
		var msg feedMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return 0, fmt.Errorf("read ticker feed: %w: %w", model.ErrProviderUnavailable, ctx.Err())
			}
			var (
				syntaxErr *json.SyntaxError
				typeErr   *json.UnmarshalTypeError
			)
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				return 0, fmt.Errorf("read ticker feed: %w: %w", model.ErrMalformedResponse, err)
			}
			return 0, fmt.Errorf("read ticker feed: %w: %w", model.ErrProviderUnavailable, err)
		}

		switch msg.Type {
		case "ticker":
			if msg.ProductID != pair {
				continue
			}
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return parsePrice(msg.Price)
		case "error":
			return 0, fmt.Errorf("ticker feed error: %w: %s %s", model.ErrMalformedResponse, msg.Message, msg.Reason)
		default:
			logger.Debug("ticker feed message skipped", logger.String("type", msg.Type))
		}
	}
}
