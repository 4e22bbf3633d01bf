// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package relay

import "github.com/prometheus/client_golang/prometheus"

// ActiveConnections is the gauge of open relay connections per channel.
// Use RegisterMetrics to register this with a Prometheus registry.
var ActiveConnections = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "chronicle_relay_connections",
		Help: "Open relay connections by channel",
	},
	[]string{"channel"},
)

// MessagesRelayed is the counter of frames forwarded to peers.
// Use RegisterMetrics to register this with a Prometheus registry.
var MessagesRelayed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chronicle_relay_messages_total",
		Help: "Total frames relayed to peers by channel",
	},
	[]string{"channel"},
)

// SlowConsumerDrops is the counter of connections dropped for not keeping up.
// Use RegisterMetrics to register this with a Prometheus registry.
var SlowConsumerDrops = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "chronicle_relay_slow_consumer_drops_total",
		Help: "Total connections dropped because their send buffer filled",
	},
)

// RegisterMetrics registers relay metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(ActiveConnections)
	reg.MustRegister(MessagesRelayed)
	reg.MustRegister(SlowConsumerDrops)
}
