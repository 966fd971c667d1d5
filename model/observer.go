package model

// Observer is a geographic reference point for sky-coordinate transforms.
// It is created once from a location fix and treated as immutable afterwards.
type Observer struct {
	LatitudeDeg  float64 // -90..90
	LongitudeDeg float64 // -180..180, east positive
	ElevationM   float64
}

// LocationFix is the raw output of the location subsystem. The heading pair
// is optional and only used once, to derive the magnetic declination constant
// for the session.
type LocationFix struct {
	LatitudeDeg  float64
	LongitudeDeg float64
	AltitudeM    float64 // defaults to 0 when the provider omits it

	TrueHeadingDeg     float64
	MagneticHeadingDeg float64
	HasHeading         bool
}

// Observer builds the immutable observer for this fix.
func (f LocationFix) Observer() Observer {
	return Observer{
		LatitudeDeg:  f.LatitudeDeg,
		LongitudeDeg: f.LongitudeDeg,
		ElevationM:   f.AltitudeM,
	}
}

// MagneticDeclinationDeg returns true heading minus magnetic heading, or 0
// when the fix carried no heading pair.
func (f LocationFix) MagneticDeclinationDeg() float64 {
	if !f.HasHeading {
		return 0
	}
	return f.TrueHeadingDeg - f.MagneticHeadingDeg
}
