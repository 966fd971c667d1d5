package observability

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewPointingCollectorRegistersAndServes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewPointingCollector(reg)
	if err != nil {
		t.Fatalf("NewPointingCollector: %v", err)
	}

	c.FusionUpdates.WithLabelValues("accelerometer").Inc()
	c.OrientationsPublished.Inc()
	c.OrientationsSuppressed.Add(3)
	c.SearchDuration.Observe(0.002)
	c.CatalogStars.Set(90)
	c.LiveBodies.Set(10)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`fusion_updates_total{channel="accelerometer"} 1`,
		"orientations_published_total 1",
		"orientations_suppressed_total 3",
		"search_duration_seconds_count 1",
		"catalog_stars 90",
		"live_solar_bodies 10",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNewPointingCollectorIsReRegisterable(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPointingCollector(reg)
	if err != nil {
		t.Fatalf("first registration: %v", err)
	}
	second, err := NewPointingCollector(reg)
	if err != nil {
		t.Fatalf("second registration: %v", err)
	}

	// Both handles must hit the same underlying series.
	first.OrientationsPublished.Inc()
	second.OrientationsPublished.Inc()

	rec := httptest.NewRecorder()
	second.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "orientations_published_total 2") {
		t.Error("re-registered collector did not share series")
	}
}
