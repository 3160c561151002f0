package transform

import (
	"math"
	"time"
)

// TEME is an SGP4 position in the True Equator Mean Equinox frame (km).
type TEME struct {
	X, Y, Z float64
}

// TEMEToECEF rotates an SGP4 position into the Earth-fixed frame at t and
// converts it to meters.
func TEMEToECEF(p TEME, t time.Time) Point3 {
	return RotateTEME(p, SiderealAngle(t))
}

// RotateTEME applies R3(gmst) to p and converts km to meters.
func RotateTEME(p TEME, gmst float64) Point3 {
	sinG, cosG := math.Sincos(gmst)
	return Point3{
		X: (p.X*cosG + p.Y*sinG) * 1000.0,
		Y: (-p.X*sinG + p.Y*cosG) * 1000.0,
		Z: p.Z * 1000.0,
	}
}

// Orbital reports whether p is a plausible Earth-orbit position: finite and
// between 6200 km and 50000 km from the center.
func Orbital(p Point3) bool {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	const (
		lo = 6200.0 * 1000.0
		hi = 50000.0 * 1000.0
	)
	r := p.Norm()
	return r >= lo && r <= hi
}
