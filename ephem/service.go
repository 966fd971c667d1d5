package ephem

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/KKK12142/myskyapp/catalog"
	"github.com/KKK12142/myskyapp/internal/logging"
	"github.com/KKK12142/myskyapp/internal/observability"
	"github.com/KKK12142/myskyapp/model"
)

const tracerName = "github.com/KKK12142/myskyapp/ephem"

// Service is the celestial position service: it resolves body names and
// produces live topocentric coordinates. All failure modes are recoverable
// at this boundary; callers get nil results, never errors.
type Service struct {
	log     logging.Logger
	metrics *observability.PointingCollector
}

// NewService constructs the service. A nil logger is replaced with a noop;
// the metrics collector is optional.
func NewService(log logging.Logger, metrics *observability.PointingCollector) *Service {
	if log == nil {
		log = logging.Noop()
	}
	return &Service{log: log, metrics: metrics}
}

// PositionOf resolves name case-insensitively and computes its topocentric
// RA/Dec for the observer at the given instant. It returns nil for an empty
// name, a nil observer, an unknown body, or a failed computation; the first
// three are logged at warning level, the last at error level.
func (s *Service) PositionOf(ctx context.Context, name string, obs *model.Observer, at time.Time) *model.EquatorialCoordinate {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ephem.PositionOf")
	defer span.End()
	span.SetAttributes(attribute.String("body", name))

	if name == "" {
		s.log.Warn(ctx, "position requested without a body name")
		return nil
	}
	if obs == nil {
		s.log.Warn(ctx, "position requested without an observer", logging.String("body", name))
		return nil
	}

	body, err := ParseBody(name)
	if err != nil {
		s.log.Warn(ctx, "unknown body name", logging.String("body", name))
		return nil
	}

	coord, err := Position(body, *obs, at)
	if err != nil {
		span.RecordError(err)
		s.log.Error(ctx, "position computation failed",
			logging.String("body", body.String()),
			logging.String("error", err.Error()),
		)
		return nil
	}
	return &coord
}

// AllPositions augments every solar-system body with its live position.
// Bodies whose computation fails are dropped from the result; a partial
// batch is always preferred over an aborted one.
func (s *Service) AllPositions(ctx context.Context, obs *model.Observer, at time.Time) []model.CelestialObject {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ephem.AllPositions")
	defer span.End()

	if obs == nil {
		s.log.Warn(ctx, "batch position requested without an observer")
		return nil
	}

	bodies := catalog.SolarSystemBodies()
	out := make([]model.CelestialObject, 0, len(bodies))
	for _, sb := range bodies {
		body, err := ParseBody(sb.ID)
		if err != nil {
			// Catalog and enumeration disagree; skip rather than abort.
			s.log.Error(ctx, "catalog body outside enumeration", logging.String("body", sb.ID))
			continue
		}
		coord, err := Position(body, *obs, at)
		if err != nil {
			s.log.Error(ctx, "dropping body from batch",
				logging.String("body", sb.ID),
				logging.String("error", err.Error()),
			)
			continue
		}
		out = append(out, model.CelestialObject{
			ID:           sb.ID,
			ProperName:   sb.ProperName,
			CatalogName:  sb.CanonicalName,
			Magnitude:    sb.Magnitude,
			HasMagnitude: true,
			Position:     coord,
			IsSolarBody:  true,
		})
	}
	if s.metrics != nil {
		s.metrics.LiveBodies.Set(float64(len(out)))
	}
	return out
}
