package transform

import (
	"math"
	"testing"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
	}{
		{"J2000.0", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 2451545.0},
		{"unix epoch", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 2440587.5},
		{"Vallado 3-15", time.Date(2004, 4, 6, 7, 51, 28, 386009000, time.UTC), 2453101.827411875},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JulianDate(tt.time); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("JulianDate = %.10f, want %.10f", got, tt.want)
			}
		})
	}
}

// go-satellite implements the same IAU-82 GMST and GMST-only ECI→ECEF
// rotation, so both must agree to float precision.
func TestSiderealAgainstGoSatellite(t *testing.T) {
	times := []time.Time{
		time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2004, 4, 6, 7, 51, 28, 0, time.UTC),
		time.Date(2020, 5, 5, 19, 12, 54, 0, time.UTC),
	}

	for _, tm := range times {
		t.Run(tm.Format(time.RFC3339), func(t *testing.T) {
			ref := satellite.GSTimeFromDate(tm.Year(), int(tm.Month()), tm.Day(), tm.Hour(), tm.Minute(), tm.Second())
			if got := SiderealAngle(tm); math.Abs(got-ref) > 1e-8 {
				t.Errorf("SiderealAngle = %.12f, go-satellite = %.12f", got, ref)
			}

			teme := TEME{X: 5094.18016, Y: 6127.64465, Z: 6380.34453}
			got := RotateTEME(teme, ref)
			want := satellite.ECIToECEF(satellite.Vector3{X: teme.X, Y: teme.Y, Z: teme.Z}, ref)

			if math.Abs(got.X-want.X*1000) > 1 || math.Abs(got.Y-want.Y*1000) > 1 || math.Abs(got.Z-want.Z*1000) > 1 {
				t.Errorf("RotateTEME = %+v m, go-satellite = %+v km", got, want)
			}
		})
	}
}

func TestOrbital(t *testing.T) {
	tests := []struct {
		name string
		p    Point3
		want bool
	}{
		{"LEO", Point3{X: 6778000}, true},
		{"GEO", Point3{X: 42164000}, true},
		{"too low", Point3{X: 5000000}, false},
		{"too high", Point3{X: 60000000}, false},
		{"NaN", Point3{X: math.NaN()}, false},
		{"Inf", Point3{Y: math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Orbital(tt.p); got != tt.want {
				t.Errorf("Orbital(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}
