// Package metrics exposes the server tick loop's Prometheus instrumentation:
// tick duration, connected-player count, and snapshot-broadcast throughput.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Server holds the gauges/histograms/counters the tick loop updates once
// per tick. Each field is registered against the supplied registry so
// cmd/server can expose them over /metrics without a global registry.
type Server struct {
	TickDuration       prometheus.Histogram
	ConnectedPlayers   prometheus.Gauge
	SnapshotsBroadcast prometheus.Counter
	GrenadesLive       prometheus.Gauge
}

// NewServer registers and returns the server's metric set.
func NewServer(reg prometheus.Registerer) *Server {
	m := &Server{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shooter",
			Subsystem: "server",
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock time spent executing one server tick.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		ConnectedPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shooter",
			Subsystem: "server",
			Name:      "connected_players",
			Help:      "Number of currently connected players.",
		}),
		SnapshotsBroadcast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shooter",
			Subsystem: "server",
			Name:      "snapshots_broadcast_total",
			Help:      "Total WorldSnapshot messages broadcast.",
		}),
		GrenadesLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shooter",
			Subsystem: "server",
			Name:      "grenades_live",
			Help:      "Number of grenades currently in flight.",
		}),
	}

	reg.MustRegister(m.TickDuration, m.ConnectedPlayers, m.SnapshotsBroadcast, m.GrenadesLive)
	return m
}

// ObserveTick records how long a tick took to execute.
func (m *Server) ObserveTick(d time.Duration) {
	m.TickDuration.Observe(d.Seconds())
}
