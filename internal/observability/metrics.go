// Package observability owns the service's prometheus collectors.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pathshare"

var (
	routesBuilt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "routes",
		Name:      "built_total",
		Help:      "Routes returned by the path builder, by builder and cache outcome.",
	}, []string{"builder", "cache"})
	routeBuildSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "routes",
		Name:      "build_duration_seconds",
		Help:      "Time spent building uncached routes.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"builder"})
	pathsPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "paths",
		Name:      "published_total",
		Help:      "User paths persisted.",
	})
	pathPointsPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "paths",
		Name:      "points_published_total",
		Help:      "Path points persisted across all user paths.",
	})
	lastPathPublished = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "paths",
		Name:      "last_published_timestamp_seconds",
		Help:      "Unix timestamp of the most recent published path.",
	})
	transportChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "transports",
		Name:      "changes_total",
		Help:      "Transport offers added or removed.",
	}, []string{"action"})
	usersRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "accounts",
		Name:      "registered_total",
		Help:      "Accounts created.",
	})
)

func init() {
	prometheus.MustRegister(
		routesBuilt,
		routeBuildSeconds,
		pathsPublished,
		pathPointsPublished,
		lastPathPublished,
		transportChanges,
		usersRegistered,
	)
}

// RecordRoute counts a served route. cache is "hit", "miss" or "off".
func RecordRoute(builder, cache string) {
	routesBuilt.WithLabelValues(builder, cache).Inc()
}

func ObserveRouteBuild(builder string, d time.Duration) {
	routeBuildSeconds.WithLabelValues(builder).Observe(d.Seconds())
}

func RecordPathPublished(points int, at time.Time) {
	pathsPublished.Inc()
	pathPointsPublished.Add(float64(points))
	if !at.IsZero() {
		lastPathPublished.Set(float64(at.Unix()))
	}
}

func RecordTransportChange(action string) {
	transportChanges.WithLabelValues(action).Inc()
}

func RecordUserRegistered() {
	usersRegistered.Inc()
}
