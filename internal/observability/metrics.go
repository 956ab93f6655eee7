package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerMetricsOnce sync.Once

	SnapshotRebuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hunky_snapshot_rebuilds_total",
			Help: "Total diff snapshot rebuilds",
		},
		[]string{"trigger"},
	)

	SnapshotRebuildErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hunky_snapshot_rebuild_errors_total",
			Help: "Total failed diff snapshot rebuilds",
		},
		[]string{"trigger"},
	)

	SnapshotRebuildLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hunky_snapshot_rebuild_latency_seconds",
			Help:    "Diff snapshot rebuild latency",
			Buckets: prometheus.DefBuckets,
		},
	)

	PatchApplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hunky_patch_applies_total",
			Help: "Total index patch applications",
		},
		[]string{"op"},
	)

	PatchRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hunky_patch_rejections_total",
			Help: "Total rejected index patch applications",
		},
		[]string{"op"},
	)
)

func InitMetrics() {
	registerMetricsOnce.Do(func() {
		prometheus.MustRegister(
			SnapshotRebuilds,
			SnapshotRebuildErrors,
			SnapshotRebuildLatency,
			PatchApplies,
			PatchRejections,
		)
	})
}
