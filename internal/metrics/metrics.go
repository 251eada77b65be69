// Package metrics holds the process-wide Prometheus collectors for
// internal/server, registered once at import time via promauto the same
// way packetd's controller package registers its own gauges and counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "httpflow"

var (
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "TCP connections currently being served",
		},
	)

	MessagesParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_parsed_total",
			Help:      "HTTP messages successfully parsed to completion",
		},
	)

	BytesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_consumed_total",
			Help:      "Bytes consumed by the parser across all connections",
		},
	)

	ParseErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Parse failures by stable HPE_* code",
		},
		[]string{"code"},
	)
)
