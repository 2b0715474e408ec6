// Package metrics records graph processing measurements with Prometheus
// and serves them over HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "markdown_graph"

// Recorder exports processing counters and graph size gauges.
type Recorder struct {
	processed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	removed   prometheus.Counter
	nodes     prometheus.Gauge
	links     prometheus.Gauge
	saves     prometheus.Histogram
}

// NewRecorder registers the metrics with reg. A nil reg uses the
// default Prometheus registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		processed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_processed_total",
			Help:      "Documents folded into the graph, by repository kind",
		}, []string{"kind"}),
		failed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_failed_total",
			Help:      "Documents skipped because they failed to load or parse",
		}, []string{"kind"}),
		removed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_removed_total",
			Help:      "Documents retracted from the graph",
		}),
		nodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nodes",
			Help:      "Nodes in the current graph",
		}),
		links: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "links",
			Help:      "Links in the current graph",
		}),
		saves: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "save_duration_seconds",
			Help:      "Time taken to persist the graph",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
}

// DocumentProcessed counts a document folded into the graph.
func (r *Recorder) DocumentProcessed(kind domain.ReferenceKind) {
	r.processed.WithLabelValues(string(kind)).Inc()
}

// DocumentFailed counts a document that failed to load.
func (r *Recorder) DocumentFailed(kind domain.ReferenceKind) {
	r.failed.WithLabelValues(string(kind)).Inc()
}

// DocumentRemoved counts a retracted document.
func (r *Recorder) DocumentRemoved() {
	r.removed.Inc()
}

// GraphSize sets the node and link gauges.
func (r *Recorder) GraphSize(stats domain.Stats) {
	r.nodes.Set(float64(stats.NodeCount))
	r.links.Set(float64(stats.LinkCount))
}

// GraphSaved observes a save duration.
func (r *Recorder) GraphSaved(seconds float64) {
	r.saves.Observe(seconds)
}
