package observability

import (
	"errors"

	"github.com/aretw0/skelly/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the ingest collectors.
type Metrics struct {
	ingested *prometheus.CounterVec
	rejected *prometheus.CounterVec
	frames   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		ingested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skelly_ingest_total",
				Help: "Total number of accepted ingests",
			},
			[]string{"tracker", "type"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skelly_ingest_rejected_total",
				Help: "Total number of rejected ingests",
			},
			[]string{"tracker", "type", "reason"},
		),
		frames: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skelly_ingest_frames",
				Help:    "Frames per accepted ingest",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"tracker"},
		),
	}
	for _, c := range []prometheus.Collector{m.ingested, m.rejected, m.frames} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnIngest: func(e *domain.IngestEvent) {
			m.ingested.WithLabelValues(e.Tracker, string(e.Type)).Inc()
			if e.Type == domain.EventIngest {
				m.frames.WithLabelValues(e.Tracker).Observe(float64(e.Frames))
			}
		},
		OnReject: func(e *domain.IngestEvent) {
			m.rejected.WithLabelValues(e.Tracker, string(e.Type), Reason(e.Err)).Inc()
		},
	}
}

// Reason classifies an ingest error into a low-cardinality label.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, domain.ErrConfiguration):
		return "configuration"
	default:
		return "other"
	}
}
