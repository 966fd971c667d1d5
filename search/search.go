package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/KKK12142/myskyapp/catalog"
	"github.com/KKK12142/myskyapp/ephem"
	"github.com/KKK12142/myskyapp/internal/logging"
	"github.com/KKK12142/myskyapp/internal/observability"
	"github.com/KKK12142/myskyapp/model"
)

const tracerName = "github.com/KKK12142/myskyapp/search"

const (
	// MinQueryLength is the shortest query that triggers a search.
	MinQueryLength = 2

	// maxStarScan caps how many star matches are collected before ranking.
	maxStarScan = 20

	// maxResults caps the ranked result list handed back to the caller.
	maxResults = 15

	// unrankedMagnitude sorts objects without a known magnitude behind
	// every real one.
	unrankedMagnitude = 100
)

// Engine answers name queries against the star catalog and the live
// solar-system bodies, ranked brightest first.
type Engine struct {
	store   *catalog.Store
	ephem   *ephem.Service
	log     logging.Logger
	metrics *observability.PointingCollector
}

// NewEngine constructs a search engine. The store may be nil when the star
// catalog failed to load; solar bodies remain searchable.
func NewEngine(store *catalog.Store, eph *ephem.Service, log logging.Logger, metrics *observability.PointingCollector) *Engine {
	if log == nil {
		log = logging.Noop()
	}
	return &Engine{store: store, ephem: eph, log: log, metrics: metrics}
}

// Query finds celestial objects whose proper or catalog name contains the
// query, case-insensitively. Solar-system bodies are matched against live
// positions for the observer at the given instant; bodies whose position
// cannot be computed are silently dropped. Queries shorter than
// MinQueryLength or without an observer return no results.
func (e *Engine) Query(ctx context.Context, query string, obs *model.Observer, at time.Time) []model.CelestialObject {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "search.Query")
	defer span.End()
	span.SetAttributes(attribute.Int("query_length", len(query)))

	started := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.SearchDuration.Observe(time.Since(started).Seconds())
		}
	}()

	trimmed := strings.TrimSpace(query)
	if len([]rune(trimmed)) < MinQueryLength || obs == nil {
		return nil
	}
	needle := strings.ToLower(trimmed)

	results := e.matchSolarBodies(ctx, needle, obs, at)

	// Every solar-body name is reserved, whether or not the body matched
	// this query or produced a position. A star that shares one must never
	// surface through the star pass.
	bodies := catalog.SolarSystemBodies()
	taken := make(map[string]bool, 2*len(bodies))
	for _, sb := range bodies {
		taken[strings.ToLower(sb.ProperName)] = true
		taken[strings.ToLower(sb.CanonicalName)] = true
	}
	results = append(results, e.matchStars(needle, taken)...)

	sort.SliceStable(results, func(i, j int) bool {
		return rankMagnitude(results[i]) < rankMagnitude(results[j])
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	span.SetAttributes(attribute.Int("results", len(results)))
	return results
}

func (e *Engine) matchSolarBodies(ctx context.Context, needle string, obs *model.Observer, at time.Time) []model.CelestialObject {
	var out []model.CelestialObject
	for _, sb := range catalog.SolarSystemBodies() {
		if !strings.Contains(strings.ToLower(sb.ProperName), needle) &&
			!strings.Contains(strings.ToLower(sb.CanonicalName), needle) {
			continue
		}
		pos := e.ephem.PositionOf(ctx, sb.ID, obs, at)
		if pos == nil {
			continue
		}
		out = append(out, model.CelestialObject{
			ID:           sb.ID,
			ProperName:   sb.ProperName,
			CatalogName:  sb.CanonicalName,
			Magnitude:    sb.Magnitude,
			HasMagnitude: true,
			Position:     *pos,
			IsSolarBody:  true,
		})
	}
	return out
}

func (e *Engine) matchStars(needle string, taken map[string]bool) []model.CelestialObject {
	var out []model.CelestialObject
	for _, star := range e.store.Stars() {
		if len(out) >= maxStarScan {
			break
		}
		proper := strings.ToLower(star.ProperName)
		catName := strings.ToLower(star.CatalogName)
		if !strings.Contains(proper, needle) && !strings.Contains(catName, needle) {
			continue
		}
		// Solar bodies own their names; colliding stars stay out.
		if (proper != "" && taken[proper]) || (catName != "" && taken[catName]) {
			continue
		}
		out = append(out, star)
	}
	return out
}

func rankMagnitude(obj model.CelestialObject) float64 {
	if !obj.HasMagnitude {
		return unrankedMagnitude
	}
	return obj.Magnitude
}
