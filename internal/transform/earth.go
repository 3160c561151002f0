package transform

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/star/issview/internal/failure"
)

// EarthRadius is Earth's mean radius in meters.
const EarthRadius = 6_371_000.0

// MeshSamples is the number of samples per angular dimension of a sphere mesh.
const MeshSamples = 40

// Point3 is a point in an Earth-centered Cartesian frame (meters).
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Norm returns the distance from the origin.
func (p Point3) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Mesh is a wireframe sphere as three parallel grids. Row i holds the
// samples at azimuth θ_i, column j the samples at polar angle φ_j.
type Mesh struct {
	X [][]float64 `json:"x"`
	Y [][]float64 `json:"y"`
	Z [][]float64 `json:"z"`
}

// Rows returns the number of azimuth samples.
func (m Mesh) Rows() int { return len(m.X) }

// Cols returns the number of polar samples.
func (m Mesh) Cols() int {
	if len(m.X) == 0 {
		return 0
	}
	return len(m.X[0])
}

// At returns the mesh point at row i, column j.
func (m Mesh) At(i, j int) Point3 {
	return Point3{X: m.X[i][j], Y: m.Y[i][j], Z: m.Z[i][j]}
}

// linspace returns n evenly spaced values over [start, stop], endpoints included.
func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// SphereMesh samples a sphere of radius r with MeshSamples azimuth angles
// θ ∈ [0, 2π] and MeshSamples polar angles φ ∈ [0, π]:
//
//	x = r·sin(φ)·cos(θ), y = r·sin(φ)·sin(θ), z = r·cos(φ)
func SphereMesh(r float64) Mesh {
	theta := linspace(0, 2*math.Pi, MeshSamples)
	phi := linspace(0, math.Pi, MeshSamples)

	m := Mesh{
		X: make([][]float64, len(theta)),
		Y: make([][]float64, len(theta)),
		Z: make([][]float64, len(theta)),
	}
	for i, th := range theta {
		m.X[i] = make([]float64, len(phi))
		m.Y[i] = make([]float64, len(phi))
		m.Z[i] = make([]float64, len(phi))

		sinT, cosT := math.Sincos(th)
		for j, ph := range phi {
			sinP, cosP := math.Sincos(ph)
			m.X[i][j] = r * sinP * cosT
			m.Y[i][j] = r * sinP * sinT
			m.Z[i][j] = r * cosP
		}
	}
	return m
}

// GeodeticToCartesian places a (longitude, latitude) pair on the sphere of
// radius EarthRadius. Both values are taken as radians as-is; callers holding
// degrees must pass them through Radians first.
func GeodeticToCartesian(c orb.Point) Point3 {
	lon, lat := c.Lon(), c.Lat()
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	return Point3{
		X: EarthRadius * cosLat * cosLon,
		Y: EarthRadius * cosLat * sinLon,
		Z: EarthRadius * sinLat,
	}
}

// CartesianToGeodetic inverts GeodeticToCartesian for any point off the
// origin, returning (longitude, latitude) in radians.
func CartesianToGeodetic(p Point3) orb.Point {
	r := p.Norm()
	if r == 0 {
		return orb.Point{0, 0}
	}
	return orb.Point{math.Atan2(p.Y, p.X), math.Asin(p.Z / r)}
}

// Radians converts a (longitude, latitude) pair from degrees to radians.
func Radians(c orb.Point) orb.Point {
	return orb.Point{c.Lon() * math.Pi / 180.0, c.Lat() * math.Pi / 180.0}
}

var errEmptyCoordinate = errors.New("empty value")

// ParseCoordinate converts API string fields to a coordinate. Non-numeric or
// non-finite input is a validation failure.
func ParseCoordinate(lon, lat string) (orb.Point, error) {
	x, err := parseAngle("longitude", lon)
	if err != nil {
		return orb.Point{}, err
	}
	y, err := parseAngle("latitude", lat)
	if err != nil {
		return orb.Point{}, err
	}
	return orb.Point{x, y}, nil
}

func parseAngle(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, failure.Validation("parse "+field, errEmptyCoordinate)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, failure.Validation("parse "+field, fmt.Errorf("%q is not a number: %w", s, err))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, failure.Validation("parse "+field, fmt.Errorf("%q is not finite", s))
	}
	return v, nil
}
