package transform

import (
	"math"
	"time"
)

// julianJ2000 is the Julian Date of 2000-01-01 12:00:00 TT.
const julianJ2000 = 2451545.0

// JulianDate converts t to a Julian Date (UTC).
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	y := float64(t.Year())
	m := float64(t.Month())
	day := float64(t.Day())
	frac := (float64(t.Hour()) +
		float64(t.Minute())/60.0 +
		(float64(t.Second())+float64(t.Nanosecond())/1e9)/3600.0) / 24.0

	// January and February count as months 13 and 14 of the previous year.
	if m <= 2 {
		y--
		m += 12
	}

	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	return math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + day + b - 1524.5 + frac
}

// SiderealAngle returns Greenwich Mean Sidereal Time at t in radians,
// normalized to [0, 2π). IAU-82 model, Vallado Eq. 3-47.
func SiderealAngle(t time.Time) float64 {
	c := (JulianDate(t) - julianJ2000) / 36525.0

	// Seconds of time; 876600h expressed in seconds is 3155760000.
	sec := 67310.54841 +
		(3155760000.0+8640184.812866)*c +
		0.093104*c*c -
		6.2e-6*c*c*c

	sec = math.Mod(sec, 86400.0)
	if sec < 0 {
		sec += 86400.0
	}
	return sec / 86400.0 * 2.0 * math.Pi
}
