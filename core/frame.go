package core

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/KKK12142/myskyapp/model"
)

// LocalSiderealHours returns the observer's local apparent sidereal time in
// hours for the given instant. East longitudes are positive.
func LocalSiderealHours(longitudeDeg float64, at time.Time) float64 {
	at = at.UTC()
	jd := satellite.JDay(at.Year(), int(at.Month()), at.Day(),
		at.Hour(), at.Minute(), at.Second())
	jd += float64(at.Nanosecond()) / 1e9 / 86400

	gst := satellite.ThetaG_JD(jd)
	lst := gst + longitudeDeg*math.Pi/180
	lst = math.Mod(lst, 2*math.Pi)
	if lst < 0 {
		lst += 2 * math.Pi
	}
	return lst * 12 / math.Pi
}

// ToEquatorial converts a horizontal az/alt orientation into equatorial
// RA/Dec for the given observer and instant. Azimuth is measured from true
// north through east; the returned right ascension is in hours, [0, 24).
func ToEquatorial(o model.OrientationEstimate, obs model.Observer, at time.Time) model.EquatorialCoordinate {
	latRad := obs.LatitudeDeg * math.Pi / 180
	azRad := o.AzimuthDeg * math.Pi / 180
	altRad := o.AltitudeDeg * math.Pi / 180

	sinDec := math.Sin(latRad)*math.Sin(altRad) +
		math.Cos(latRad)*math.Cos(altRad)*math.Cos(azRad)
	if sinDec > 1 {
		sinDec = 1
	} else if sinDec < -1 {
		sinDec = -1
	}
	decRad := math.Asin(sinDec)

	haRad := math.Atan2(
		-math.Sin(azRad),
		math.Tan(altRad)*math.Cos(latRad)-math.Cos(azRad)*math.Sin(latRad),
	)

	raHours := LocalSiderealHours(obs.LongitudeDeg, at) - haRad*12/math.Pi
	raHours = math.Mod(raHours, 24)
	if raHours < 0 {
		raHours += 24
	}

	return model.EquatorialCoordinate{
		RAHours: raHours,
		DecDeg:  decRad * 180 / math.Pi,
	}
}
