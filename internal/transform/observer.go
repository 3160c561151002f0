package transform

import (
	"math"

	"github.com/paulmach/orb"
)

// WGS-84 ellipsoid.
const (
	wgs84A  = 6378137.0
	wgs84F  = 1.0 / 298.257223563
	wgs84E2 = wgs84F * (2 - wgs84F)
)

// Observer is a ground location with its Earth-fixed position precomputed.
type Observer struct {
	Lat, Lon float64 // radians
	AltM     float64
	ECEF     Point3
}

// Horizon holds the direction from an observer to a target.
type Horizon struct {
	AzimuthDeg   float64 // clockwise from north, [0, 360)
	ElevationDeg float64
	RangeKm      float64
}

// NewObserver builds an Observer from a (longitude, latitude) pair in
// degrees and an altitude above the ellipsoid in meters.
func NewObserver(loc orb.Point, altM float64) Observer {
	lon := loc.Lon() * math.Pi / 180.0
	lat := loc.Lat() * math.Pi / 180.0

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	// Prime vertical radius of curvature.
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return Observer{
		Lat:  lat,
		Lon:  lon,
		AltM: altM,
		ECEF: Point3{
			X: (n + altM) * cosLat * cosLon,
			Y: (n + altM) * cosLat * sinLon,
			Z: (n*(1-wgs84E2) + altM) * sinLat,
		},
	}
}

// SubPoint is the ground position beneath an Earth-fixed point.
type SubPoint struct {
	Position orb.Point // (longitude, latitude) in degrees
	AltM     float64
}

// ECEFToSubPoint converts an Earth-fixed position to geodetic coordinates on
// the WGS-84 ellipsoid with Bowring's iteration.
func ECEFToSubPoint(p Point3) SubPoint {
	lon := math.Atan2(p.Y, p.X)
	rxy := math.Hypot(p.X, p.Y)

	lat := math.Atan2(p.Z, rxy*(1-wgs84E2))
	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		lat = math.Atan2(p.Z+wgs84E2*n*sinLat, rxy)
	}

	sinLat, cosLat := math.Sincos(lat)
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	var alt float64
	if math.Abs(cosLat) > 1e-10 {
		alt = rxy/cosLat - n
	} else {
		alt = math.Abs(p.Z)/math.Abs(sinLat) - n*(1-wgs84E2)
	}

	return SubPoint{
		Position: orb.Point{lon * 180.0 / math.Pi, lat * 180.0 / math.Pi},
		AltM:     alt,
	}
}

// Look returns azimuth, elevation and range from o to an Earth-fixed target,
// using the South-East-Zenith rotation (Vallado §4.4).
func (o Observer) Look(target Point3) Horizon {
	rx := target.X - o.ECEF.X
	ry := target.Y - o.ECEF.Y
	rz := target.Z - o.ECEF.Z

	sinLat, cosLat := math.Sincos(o.Lat)
	sinLon, cosLon := math.Sincos(o.Lon)

	s := sinLat*cosLon*rx + sinLat*sinLon*ry - cosLat*rz
	e := -sinLon*rx + cosLon*ry
	z := cosLat*cosLon*rx + cosLat*sinLon*ry + sinLat*rz

	rng := math.Sqrt(s*s + e*e + z*z)

	az := math.Atan2(e, -s)
	if az < 0 {
		az += 2 * math.Pi
	}

	return Horizon{
		AzimuthDeg:   az * 180.0 / math.Pi,
		ElevationDeg: math.Asin(z/rng) * 180.0 / math.Pi,
		RangeKm:      rng / 1000.0,
	}
}
