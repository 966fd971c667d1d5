package model

// EquatorialCoordinate is a direction on the celestial sphere.
// RA is in hours [0,24); Dec in degrees [-90,90].
type EquatorialCoordinate struct {
	RAHours float64
	DecDeg  float64
}

// CelestialObject is one searchable sky object: either a solar-system body
// whose position is computed live, or a fixed star catalog entry.
type CelestialObject struct {
	ID           string
	ProperName   string // localized display name; may be empty for faint stars
	CatalogName  string // canonical designation, e.g. "9Alp CMa" or "sun"
	Magnitude    float64
	HasMagnitude bool
	Position     EquatorialCoordinate
	IsSolarBody  bool
}

// DisplayName prefers the proper name and falls back to the designation.
func (o CelestialObject) DisplayName() string {
	if o.ProperName != "" {
		return o.ProperName
	}
	return o.CatalogName
}

// BearingResult describes the offset from the current pointing direction to
// a target, in degree-space. Distance is the Euclidean approximation
// sqrt(ΔRA²+ΔDec²), not a great-circle separation; it is only meaningful for
// small offsets, which is the regime the pointing UI operates in.
type BearingResult struct {
	RAOffsetDeg  float64 // (-180,180]
	DecOffsetDeg float64
	DistanceDeg  float64
	DirectionDeg float64 // atan2(ΔDec, ΔRA) normalized to [0,360)
}
