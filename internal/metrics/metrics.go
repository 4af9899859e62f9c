package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cotizador_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"endpoint", "status"},
	)

	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "cotizador_match_duration_seconds",
			Help: "Duration of catalog matching per query",
		},
	)

	CatalogProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cotizador_catalog_products",
			Help: "Number of products in the loaded catalog",
		},
	)
)
