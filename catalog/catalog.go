package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/KKK12142/myskyapp/model"
)

// LoadError indicates the star catalog asset was missing or malformed.
// It is fatal to star search only; solar-system bodies stay searchable.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("catalog load failed: %v", e.Err)
	}
	return fmt.Sprintf("catalog %q load failed: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// internal JSON shape - kept unexported so we're free to evolve it.
// Matches the converter's output contract: numeric fields parsed to float,
// missing optional text fields are null.
type starJSON struct {
	ID        string   `json:"id"`
	Proper    *string  `json:"proper"`
	Name      *string  `json:"name"`
	RAHours   float64  `json:"ra"`
	DecDeg    float64  `json:"dec"`
	Magnitude *float64 `json:"mag"`
	ColorIdx  *float64 `json:"ci"`
	Spectral  *string  `json:"spect"`
}

// Store holds the star catalog, parsed once and immutable for the process
// lifetime, plus the fixed solar-system body table.
type Store struct {
	stars []model.CelestialObject
}

// Load parses the star catalog from r and returns a resident Store.
// A decode failure is returned as *LoadError.
func Load(r io.Reader) (*Store, error) {
	var rows []starJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rows); err != nil {
		return nil, &LoadError{Err: err}
	}

	stars := make([]model.CelestialObject, 0, len(rows))
	for _, row := range rows {
		obj := model.CelestialObject{
			ID: row.ID,
			Position: model.EquatorialCoordinate{
				RAHours: row.RAHours,
				DecDeg:  row.DecDeg,
			},
		}
		if row.Proper != nil {
			obj.ProperName = *row.Proper
		}
		if row.Name != nil {
			obj.CatalogName = *row.Name
		}
		if row.Magnitude != nil {
			obj.Magnitude = *row.Magnitude
			obj.HasMagnitude = true
		}
		stars = append(stars, obj)
	}

	return &Store{stars: stars}, nil
}

// Stars returns the loaded star table in catalog order. The slice is shared;
// callers must treat it as read-only.
func (s *Store) Stars() []model.CelestialObject {
	if s == nil {
		return nil
	}
	return s.stars
}

// Len reports the number of loaded star entries.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.stars)
}

// SolarBody is one entry of the fixed solar-system table. Positions are
// computed live by the ephemeris service; the magnitude here is a nominal
// value used only for search ranking.
type SolarBody struct {
	ID            string
	ProperName    string // localized display name
	CanonicalName string
	Magnitude     float64
}

var solarBodies = []SolarBody{
	{ID: "sun", ProperName: "태양", CanonicalName: "sun", Magnitude: -26.7},
	{ID: "moon", ProperName: "달", CanonicalName: "moon", Magnitude: -12.7},
	{ID: "mercury", ProperName: "수성", CanonicalName: "mercury", Magnitude: -0.2},
	{ID: "venus", ProperName: "금성", CanonicalName: "venus", Magnitude: -4.1},
	{ID: "mars", ProperName: "화성", CanonicalName: "mars", Magnitude: 0.7},
	{ID: "jupiter", ProperName: "목성", CanonicalName: "jupiter", Magnitude: -2.2},
	{ID: "saturn", ProperName: "토성", CanonicalName: "saturn", Magnitude: 0.5},
	{ID: "uranus", ProperName: "천왕성", CanonicalName: "uranus", Magnitude: 5.7},
	{ID: "neptune", ProperName: "해왕성", CanonicalName: "neptune", Magnitude: 7.8},
	{ID: "pluto", ProperName: "명왕성", CanonicalName: "pluto", Magnitude: 14.5},
}

// SolarSystemBodies returns the fixed 10-entry body table. The result is a
// fresh slice on every call so callers may reorder it freely.
func SolarSystemBodies() []SolarBody {
	out := make([]SolarBody, len(solarBodies))
	copy(out, solarBodies)
	return out
}
