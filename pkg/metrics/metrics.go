// Package metrics exposes pipeline progress as prometheus collectors.
//
// A batch run registers them on its own registry and writes the result in
// the text exposition format, for a node exporter textfile collector to pick
// up.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "anchorvoxel"

// Metrics holds the collectors updated by a pipeline run. A nil *Metrics
// ignores every update.
type Metrics struct {
	StageDuration *prometheus.HistogramVec
	Slices        prometheus.Gauge
	Objects       prometheus.Gauge
	Clusters      prometheus.Gauge
	OutlineVoxels prometheus.Counter
	Contours      *prometheus.CounterVec
}

// New creates the collectors and registers them.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		Slices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "slices",
			Help:      "Number of image slices loaded.",
		}),
		Objects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objects",
			Help:      "Number of objects extracted.",
		}),
		Clusters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clusters",
			Help:      "Number of object clusters.",
		}),
		OutlineVoxels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outline_voxels_total",
			Help:      "Outline voxels found over all objects.",
		}),
		Contours: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contours_total",
			Help:      "Traversed contours by shape.",
		}, []string{"shape"}),
	}
	reg.MustRegister(m.StageDuration, m.Slices, m.Objects, m.Clusters, m.OutlineVoxels, m.Contours)
	return m
}

// ObserveStage records how long a stage took since start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// SetCounts records the sizes produced by a run.
func (m *Metrics) SetCounts(slices, objects, clusters int) {
	if m == nil {
		return
	}
	m.Slices.Set(float64(slices))
	m.Objects.Set(float64(objects))
	m.Clusters.Set(float64(clusters))
}

// AddOutline records one object's outline size and contour shapes.
func (m *Metrics) AddOutline(voxels, closed, open int) {
	if m == nil {
		return
	}
	m.OutlineVoxels.Add(float64(voxels))
	m.Contours.WithLabelValues("closed").Add(float64(closed))
	m.Contours.WithLabelValues("open").Add(float64(open))
}

// WriteTextfile writes everything gathered by g to filename, replacing it
// atomically.
func WriteTextfile(filename string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(filename, g)
}
