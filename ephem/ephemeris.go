package ephem

import (
	"fmt"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/KKK12142/myskyapp/model"
)

// The positional model is a low-precision apparent ephemeris: Almanac-series
// solar position, truncated lunar theory, and Keplerian mean elements with
// J2000 century rates for the planets. Planet positions get one light-time
// iteration; everything is reduced to topocentric equatorial-of-date
// coordinates for the observer. Accuracy is a few arcminutes for the planets
// and a fraction of a degree for the Moon, well inside what a handheld
// pointing aid can resolve.

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi

	// Earth mean radius expressed in AU, for lunar distances and the
	// topocentric parallax correction.
	earthRadiusAU = 4.2635e-5

	// One-way light time for 1 AU, in days.
	lightDaysPerAU = 499.005 / 86400.0
)

type vec3 struct {
	x, y, z float64
}

func (v vec3) sub(u vec3) vec3 { return vec3{v.x - u.x, v.y - u.y, v.z - u.z} }
func (v vec3) norm() float64   { return math.Sqrt(v.x*v.x + v.y*v.y + v.z*v.z) }

// julianDay wraps the SGP4 library's calendar conversion so every package
// that needs a JD derives it the same way.
func julianDay(t time.Time) float64 {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	return jd + float64(t.Nanosecond())/1e9/86400.0
}

// meanObliquityDeg returns the mean obliquity of the ecliptic of date.
func meanObliquityDeg(T float64) float64 {
	return 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
}

// eclipticToEquatorial rotates an ecliptic-of-date vector onto the equator
// of date.
func eclipticToEquatorial(ecl vec3, epsDeg float64) vec3 {
	sinE, cosE := math.Sincos(epsDeg * degToRad)
	return vec3{
		x: ecl.x,
		y: ecl.y*cosE - ecl.z*sinE,
		z: ecl.y*sinE + ecl.z*cosE,
	}
}

// Position computes the topocentric apparent RA/Dec of a body as seen by the
// observer at the given instant. It fails for an out-of-range body value or
// when the reduction degenerates numerically.
func Position(b Body, obs model.Observer, at time.Time) (model.EquatorialCoordinate, error) {
	if b < 0 || b >= numBodies {
		return model.EquatorialCoordinate{}, fmt.Errorf("%w: body value %d", ErrUnknownBody, int(b))
	}

	jd := julianDay(at)
	T := (jd - 2451545.0) / 36525.0
	eps := meanObliquityDeg(T)

	var geoEcl vec3 // geocentric ecliptic-of-date, AU
	switch b {
	case Sun:
		geoEcl = sunGeocentric(jd)
	case Moon:
		geoEcl = moonGeocentric(jd)
	default:
		earth := heliocentric(earthElements, T)
		planet := heliocentric(planetElements[b], T)
		geo := planet.sub(earth)

		// One light-time iteration: re-evaluate the planet where it was
		// when the observed light left it.
		delay := geo.norm() * lightDaysPerAU
		planet = heliocentric(planetElements[b], (jd-delay-2451545.0)/36525.0)
		geoEcl = planet.sub(earth)
	}

	eq := eclipticToEquatorial(geoEcl, eps)
	topo := eq.sub(observerEquatorial(obs, jd))

	r := topo.norm()
	if r == 0 || math.IsNaN(r) {
		return model.EquatorialCoordinate{}, fmt.Errorf("degenerate %s position at jd %.5f", b, jd)
	}

	raDeg := math.Atan2(topo.y, topo.x) * radToDeg
	if raDeg < 0 {
		raDeg += 360
	}
	decDeg := math.Asin(topo.z/r) * radToDeg
	if math.IsNaN(raDeg) || math.IsNaN(decDeg) {
		return model.EquatorialCoordinate{}, fmt.Errorf("non-finite %s position at jd %.5f", b, jd)
	}

	return model.EquatorialCoordinate{
		RAHours: math.Mod(raDeg/15.0, 24.0),
		DecDeg:  decDeg,
	}, nil
}

// observerEquatorial returns the observer's geocentric position in the
// equatorial-of-date frame, in AU. The parallax this induces only matters
// for the Moon but is cheap enough to apply uniformly.
func observerEquatorial(obs model.Observer, jd float64) vec3 {
	// WGS-84 ECEF, metres.
	const (
		a  = 6378137.0
		f  = 1.0 / 298.257223563
		e2 = f * (2 - f)
	)
	sinLat, cosLat := math.Sincos(obs.LatitudeDeg * degToRad)
	n := a / math.Sqrt(1-e2*sinLat*sinLat)
	px := (n + obs.ElevationM) * cosLat
	pz := (n*(1-e2) + obs.ElevationM) * sinLat

	rho := math.Sqrt(px*px+pz*pz) / a * earthRadiusAU
	geocLat := math.Atan2(pz, px)

	// ECEF longitude becomes local sidereal angle in the equator-of-date
	// frame: GMST plus east longitude.
	lst := satellite.ThetaG_JD(jd) + obs.LongitudeDeg*degToRad
	sinLST, cosLST := math.Sincos(lst)
	sinGC, cosGC := math.Sincos(geocLat)

	return vec3{
		x: rho * cosGC * cosLST,
		y: rho * cosGC * sinLST,
		z: rho * sinGC,
	}
}

// sunGeocentric returns the Sun's apparent geocentric ecliptic position in
// AU, from the Astronomical Almanac low-precision series.
func sunGeocentric(jd float64) vec3 {
	T := (jd - 2451545.0) / 36525.0

	L0 := norm360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := norm360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	mRad := M * degToRad

	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(mRad) +
		(0.019993-0.000101*T)*math.Sin(2*mRad) +
		0.000289*math.Sin(3*mRad)

	trueLon := L0 + C
	omega := 125.04 - 1934.136*T
	apparentLon := trueLon - 0.00569 - 0.00478*math.Sin(omega*degToRad)

	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T
	v := (M + C) * degToRad
	r := 1.000001018 * (1 - e*e) / (1 + e*math.Cos(v))

	sinL, cosL := math.Sincos(apparentLon * degToRad)
	return vec3{x: r * cosL, y: r * sinL, z: 0}
}

// moonGeocentric returns the Moon's geocentric ecliptic position in AU from
// a truncated lunar theory: Keplerian motion plus the dominant evection,
// variation, and annual-equation terms.
func moonGeocentric(jd float64) vec3 {
	d := jd - 2451543.5

	N := 125.1228 - 0.0529538083*d  // ascending node
	const i = 5.1454                // inclination
	w := 318.0634 + 0.1643573223*d  // argument of perigee
	const aMoon = 60.2666           // semi-major axis, Earth radii
	const e = 0.054900
	M := norm360(115.3654 + 13.0649929509*d)

	E := solveKepler(M*degToRad, e)
	xv := aMoon * (math.Cos(E) - e)
	yv := aMoon * math.Sqrt(1-e*e) * math.Sin(E)
	r := math.Sqrt(xv*xv + yv*yv)
	v := math.Atan2(yv, xv) * radToDeg

	sinN, cosN := math.Sincos(N * degToRad)
	sinVW, cosVW := math.Sincos((v + w) * degToRad)
	sinI, cosI := math.Sincos(i * degToRad)

	lon := math.Atan2(sinN*cosVW+cosN*sinVW*cosI, cosN*cosVW-sinN*sinVW*cosI) * radToDeg
	lat := math.Asin(sinVW*sinI) * radToDeg

	// Fundamental arguments for the perturbation series.
	ws := 282.9404 + 4.70935e-5*d // Sun's argument of perihelion
	Ms := norm360(356.0470 + 0.9856002585*d)
	Ls := norm360(Ms + ws)     // Sun's mean longitude
	Lm := norm360(N + w + M)   // Moon's mean longitude
	D := Lm - Ls               // mean elongation
	F := Lm - N                // argument of latitude

	sin := func(deg float64) float64 { return math.Sin(deg * degToRad) }
	cos := func(deg float64) float64 { return math.Cos(deg * degToRad) }

	lon += -1.274*sin(M-2*D) +
		0.658*sin(2*D) -
		0.186*sin(Ms) -
		0.059*sin(2*M-2*D) -
		0.057*sin(M-2*D+Ms) +
		0.053*sin(M+2*D) +
		0.046*sin(2*D-Ms) +
		0.041*sin(M-Ms) -
		0.035*sin(D) -
		0.031*sin(M+Ms)
	lat += -0.173*sin(F-2*D) -
		0.055*sin(M-F-2*D) -
		0.046*sin(M+F-2*D) +
		0.033*sin(F+2*D) +
		0.017*sin(2*M+F)
	r += -0.58*cos(M-2*D) - 0.46*cos(2*D)

	rAU := r * earthRadiusAU
	sinLon, cosLon := math.Sincos(lon * degToRad)
	sinLat, cosLat := math.Sincos(lat * degToRad)
	return vec3{
		x: rAU * cosLat * cosLon,
		y: rAU * cosLat * sinLon,
		z: rAU * sinLat,
	}
}

// elements holds Keplerian mean elements at J2000 plus per-century rates,
// all angles in degrees. Values are the JPL approximate-position set valid
// 1800-2050.
type elements struct {
	a, aDot       float64 // semi-major axis, AU
	e, eDot       float64
	i, iDot       float64 // inclination
	l, lDot       float64 // mean longitude
	peri, periDot float64 // longitude of perihelion
	node, nodeDot float64 // longitude of ascending node
}

var earthElements = elements{
	1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
	100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0.0, 0.0,
}

var planetElements = map[Body]elements{
	Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	Venus: {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	Mars: {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39664051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	Saturn: {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	Uranus: {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939,
		313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372,
		-55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
	Pluto: {39.48211675, -0.00031596, 0.24882730, 0.00005170, 17.14001206, 0.00004818,
		238.92903833, 145.20780515, 224.06891629, -0.04062942, 110.30393684, -0.01183482},
}

// heliocentric evaluates Keplerian mean elements at T centuries past J2000
// and returns the heliocentric ecliptic position in AU.
func heliocentric(el elements, T float64) vec3 {
	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	i := (el.i + el.iDot*T) * degToRad
	l := el.l + el.lDot*T
	peri := el.peri + el.periDot*T
	node := el.node + el.nodeDot*T

	m := norm360(l-peri) * degToRad
	argPeri := (peri - node) * degToRad
	nodeRad := node * degToRad

	E := solveKepler(m, e)
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	sinW, cosW := math.Sincos(argPeri)
	sinN, cosN := math.Sincos(nodeRad)
	sinI, cosI := math.Sincos(i)

	return vec3{
		x: (cosW*cosN-sinW*sinN*cosI)*xp + (-sinW*cosN-cosW*sinN*cosI)*yp,
		y: (cosW*sinN+sinW*cosN*cosI)*xp + (-sinW*sinN+cosW*cosN*cosI)*yp,
		z: sinW*sinI*xp + cosW*sinI*yp,
	}
}

// solveKepler iterates Kepler's equation for the eccentric anomaly.
// Newton's method from E=M converges in a handful of steps for every
// eccentricity in the element table.
func solveKepler(m, e float64) float64 {
	E := m
	for iter := 0; iter < 8; iter++ {
		delta := (E - e*math.Sin(E) - m) / (1 - e*math.Cos(E))
		E -= delta
		if math.Abs(delta) < 1e-9 {
			break
		}
	}
	return E
}

func norm360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
