package core

import (
	"math"

	"github.com/KKK12142/myskyapp/model"
)

// Zone classifies how close the device is pointing to its target.
type Zone int

const (
	ZoneSearching Zone = iota
	ZoneAcquired
	ZoneAligned
)

func (z Zone) String() string {
	switch z {
	case ZoneAligned:
		return "aligned"
	case ZoneAcquired:
		return "acquired"
	default:
		return "searching"
	}
}

// Zones holds the angular thresholds, in degrees, separating the pointing
// zones. Aligned is the tighter of the two.
type Zones struct {
	AcquiredDeg float64
	AlignedDeg  float64
}

// DefaultZones matches a comfortable handheld experience: a wide capture
// cone with a narrow lock-on core.
var DefaultZones = Zones{AcquiredDeg: 3, AlignedDeg: 0.5}

// Classify maps an angular distance to a zone.
func (z Zones) Classify(distanceDeg float64) Zone {
	switch {
	case distanceDeg <= z.AlignedDeg:
		return ZoneAligned
	case distanceDeg <= z.AcquiredDeg:
		return ZoneAcquired
	default:
		return ZoneSearching
	}
}

// BearingTo computes the angular offset from the current pointing direction
// to a target, both in equatorial coordinates. The right ascension offset is
// converted to degrees and wrapped to (-180, 180] so the device is always
// steered the short way around.
func BearingTo(current, target model.EquatorialCoordinate) model.BearingResult {
	raOffset := (target.RAHours - current.RAHours) * 15
	for raOffset > 180 {
		raOffset -= 360
	}
	for raOffset <= -180 {
		raOffset += 360
	}
	decOffset := target.DecDeg - current.DecDeg

	dir := math.Atan2(decOffset, raOffset) * 180 / math.Pi
	if dir < 0 {
		dir += 360
	}

	return model.BearingResult{
		RAOffsetDeg:  raOffset,
		DecOffsetDeg: decOffset,
		DistanceDeg:  math.Hypot(raOffset, decOffset),
		DirectionDeg: dir,
	}
}
