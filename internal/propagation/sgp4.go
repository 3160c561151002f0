// Package propagation wraps the SGP4 orbit model.
package propagation

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/star/issview/internal/tle"
	"github.com/star/issview/internal/transform"
)

// SGP4 comes from github.com/joshuaferrara/go-satellite: pure Go, TEME
// output. Two quirks shape this wrapper: TLEToSat calls log.Fatal on
// malformed lines, so lines are checked first; Propagate takes the satellite
// by value and hides error codes, so failures are detected from the output.

// Propagator computes positions for one satellite.
type Propagator struct {
	sat     satellite.Satellite
	noradID int
}

// New initializes SGP4 from a TLE entry.
func New(e tle.Entry) (*Propagator, error) {
	if err := checkLines(e.Line1, e.Line2); err != nil {
		return nil, fmt.Errorf("invalid TLE for NORAD %d: %w", e.NORADID, err)
	}

	sat := satellite.TLEToSat(e.Line1, e.Line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("sgp4 init failed for NORAD %d: code=%d %s", e.NORADID, sat.Error, sat.ErrorStr)
	}
	return &Propagator{sat: sat, noradID: e.NORADID}, nil
}

func checkLines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 || len(line2) != 69 {
		return fmt.Errorf("line lengths %d/%d, expected 69", len(line1), len(line2))
	}
	if line1[0] != '1' || line2[0] != '2' {
		return fmt.Errorf("lines must start with '1' and '2', got '%c' and '%c'", line1[0], line2[0])
	}
	return nil
}

// TEMEAt returns the SGP4 position at t (UTC, whole seconds) in km.
func (p *Propagator) TEMEAt(t time.Time) (transform.TEME, error) {
	t = t.UTC()
	pos, _ := satellite.Propagate(p.sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return transform.TEME{}, fmt.Errorf("sgp4 propagation failed for NORAD %d: output is NaN/Inf", p.noradID)
	}
	return transform.TEME{X: pos.X, Y: pos.Y, Z: pos.Z}, nil
}

// PositionAt returns the Earth-fixed position at t in meters.
func (p *Propagator) PositionAt(t time.Time) (transform.Point3, error) {
	teme, err := p.TEMEAt(t)
	if err != nil {
		return transform.Point3{}, err
	}

	ecef := transform.TEMEToECEF(teme, t)
	if !transform.Orbital(ecef) {
		return transform.Point3{}, fmt.Errorf("sgp4 propagation failed for NORAD %d: unreasonable position magnitude %.1f km", p.noradID, ecef.Norm()/1000)
	}
	return ecef, nil
}
