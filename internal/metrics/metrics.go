// Package metrics holds the Prometheus instruments for provider fetches and
// watch cycles, and the optional HTTP server that exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "btcpulse"

var (
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of data provider requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source", "stage"},
	)

	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Total number of data provider requests by outcome",
		},
		[]string{"source", "stage", "status"},
	)

	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Total number of collect cycles by outcome",
		},
		[]string{"status"},
	)

	LivePrice = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_price",
			Help:      "Last observed live price",
		},
		[]string{"pair"},
	)

	ChangePercent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "change_percent",
			Help:      "Last computed percentage change per lookback window",
		},
		[]string{"pair", "granularity", "window"},
	)
)

// Status labels for FetchTotal and CyclesTotal.
const (
	StatusOK    = "ok"
	StatusError = "error"
)
