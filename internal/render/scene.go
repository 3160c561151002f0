// Package render assembles the globe scene and draws it as SVG.
package render

import (
	"github.com/star/issview/internal/transform"
)

// Marker sizes follow scatter-plot convention: area in square points.
const (
	ISSMarkerSize       = 50
	ReferenceMarkerSize = 100
)

// Marker is a single scatter point in the scene.
type Marker struct {
	Label string           `json:"label"`
	Point transform.Point3 `json:"point"`
	Color string           `json:"color"`
	Size  float64          `json:"size"`
}

// Scene is everything needed to draw one frame of the globe.
type Scene struct {
	Title      string         `json:"title"`
	Radius     float64        `json:"radius"`
	Mesh       transform.Mesh `json:"mesh"`
	Markers    []Marker       `json:"markers"`
	AxisLabels [3]string      `json:"axis_labels"`
}

// NewScene places the ISS (red) and the reference location (green) on the
// wireframe globe.
func NewScene(mesh transform.Mesh, iss, ref transform.Point3) Scene {
	return Scene{
		Title:  "ISS position",
		Radius: meshRadius(mesh),
		Mesh:   mesh,
		Markers: []Marker{
			{Label: "ISS", Point: iss, Color: "red", Size: ISSMarkerSize},
			{Label: "Reference", Point: ref, Color: "green", Size: ReferenceMarkerSize},
		},
		AxisLabels: [3]string{"X", "Y", "Z"},
	}
}

func meshRadius(m transform.Mesh) float64 {
	var r float64
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if n := m.At(i, j).Norm(); n > r {
				r = n
			}
		}
	}
	return r
}

// extent is the largest distance from the origin of anything in the scene.
func (s Scene) extent() float64 {
	e := s.Radius
	for _, mk := range s.Markers {
		if n := mk.Point.Norm(); n > e {
			e = n
		}
	}
	if e == 0 {
		e = 1
	}
	return e
}
