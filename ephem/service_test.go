package ephem

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/KKK12142/myskyapp/internal/observability"
)

func TestServicePositionOfGuards(t *testing.T) {
	s := NewService(nil, nil)
	ctx := context.Background()
	at := time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)
	obs := seoul

	if got := s.PositionOf(ctx, "", &obs, at); got != nil {
		t.Error("empty name should yield nil")
	}
	if got := s.PositionOf(ctx, "mars", nil, at); got != nil {
		t.Error("nil observer should yield nil")
	}
	if got := s.PositionOf(ctx, "krypton", &obs, at); got != nil {
		t.Error("unknown body should yield nil")
	}
	if got := s.PositionOf(ctx, "Mars", &obs, at); got == nil {
		t.Error("valid request should yield a position")
	}
}

func TestServiceAllPositionsCoversEveryBody(t *testing.T) {
	s := NewService(nil, nil)
	at := time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)
	obs := seoul

	objs := s.AllPositions(context.Background(), &obs, at)
	if len(objs) != 10 {
		t.Fatalf("AllPositions returned %d objects, want 10", len(objs))
	}
	for _, o := range objs {
		if !o.IsSolarBody {
			t.Errorf("%s not flagged as a solar body", o.ID)
		}
		if !o.HasMagnitude {
			t.Errorf("%s missing nominal magnitude", o.ID)
		}
		if o.Position.RAHours < 0 || o.Position.RAHours >= 24 {
			t.Errorf("%s RA %v outside [0,24)", o.ID, o.Position.RAHours)
		}
	}
}

func TestServiceAllPositionsUpdatesLiveBodiesGauge(t *testing.T) {
	collector, err := observability.NewPointingCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewPointingCollector: %v", err)
	}
	s := NewService(nil, collector)
	obs := seoul

	s.AllPositions(context.Background(), &obs, time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC))

	if got := testutil.ToFloat64(collector.LiveBodies); got != 10 {
		t.Errorf("live_solar_bodies = %v, want 10", got)
	}
}

func TestServiceAllPositionsNilObserver(t *testing.T) {
	s := NewService(nil, nil)
	if got := s.AllPositions(context.Background(), nil, time.Now()); got != nil {
		t.Error("nil observer should yield nil batch")
	}
}
