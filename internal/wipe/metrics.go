package wipe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the destruction engine. Embedders inject their own
// Registerer; a nil Registerer yields a private registry so the engine can
// always count unconditionally.
type Metrics struct {
	filesDestroyed prometheus.Counter
	failures       prometheus.Counter
	bytesWiped     prometheus.Counter
	sessionState   prometheus.Gauge
	sweepsRemoved  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		filesDestroyed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "panicwipe",
			Name:      "files_destroyed_total",
			Help:      "Files successfully overwritten and deleted.",
		}),
		failures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "panicwipe",
			Name:      "target_failures_total",
			Help:      "Targets that could not be fully destroyed.",
		}),
		bytesWiped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "panicwipe",
			Name:      "bytes_wiped_total",
			Help:      "Original bytes of destroyed files.",
		}),
		sessionState: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "panicwipe",
			Name:      "session_state",
			Help:      "Current session state (0 idle, 1 countdown, 2 destroying, 3 complete, 4 failed).",
		}),
		sweepsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "panicwipe",
			Name:      "cache_entries_swept_total",
			Help:      "Cache entries removed by the post-destruction sweep.",
		}),
	}
}
