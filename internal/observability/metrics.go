package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PointingCollector bundles Prometheus metrics for the fusion and search
// pipeline and provides a ready-to-serve /metrics handler.
type PointingCollector struct {
	gatherer prometheus.Gatherer

	FusionUpdates          *prometheus.CounterVec
	OrientationsPublished  prometheus.Counter
	OrientationsSuppressed prometheus.Counter
	SearchDuration         prometheus.Histogram

	CatalogStars prometheus.Gauge
	LiveBodies   prometheus.Gauge
}

// NewPointingCollector registers the pipeline metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewPointingCollector(reg prometheus.Registerer) (*PointingCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	updates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fusion_updates_total",
		Help: "IMU samples consumed by the attitude fusion engine, labeled by channel.",
	}, []string{"channel"})
	updates, err := registerCounterVec(reg, updates, "fusion_updates_total")
	if err != nil {
		return nil, err
	}

	published, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orientations_published_total",
		Help: "Orientation estimates that cleared the hysteresis gate.",
	}), "orientations_published_total")
	if err != nil {
		return nil, err
	}
	suppressed, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orientations_suppressed_total",
		Help: "Orientation estimates suppressed by the hysteresis gate.",
	}), "orientations_suppressed_total")
	if err != nil {
		return nil, err
	}

	searchDur := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "search_duration_seconds",
		Help:    "Catalog search latency in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	})
	searchDur, err = registerHistogram(reg, searchDur, "search_duration_seconds")
	if err != nil {
		return nil, err
	}

	stars, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_stars",
		Help: "Star entries resident in the catalog store.",
	}), "catalog_stars")
	if err != nil {
		return nil, err
	}
	bodies, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "live_solar_bodies",
		Help: "Solar-system bodies with a successfully computed live position.",
	}), "live_solar_bodies")
	if err != nil {
		return nil, err
	}

	return &PointingCollector{
		gatherer:               gatherer,
		FusionUpdates:          updates,
		OrientationsPublished:  published,
		OrientationsSuppressed: suppressed,
		SearchDuration:         searchDur,
		CatalogStars:           stars,
		LiveBodies:             bodies,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *PointingCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, ctr prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(ctr); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return ctr, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
