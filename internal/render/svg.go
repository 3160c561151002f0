package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/star/issview/internal/transform"
)

// View is the camera used for the SVG projection.
type View struct {
	ElevationDeg float64
	AzimuthDeg   float64
	Width        int
	Height       int
}

// DefaultView matches the usual default 3D axes camera.
func DefaultView() View {
	return View{ElevationDeg: 30, AzimuthDeg: -60, Width: 800, Height: 800}
}

const wireColor = "#1f77b4"

// camera holds the orthonormal screen basis for a View.
type camera struct {
	right, up, toward transform.Point3
	scale, cx, cy     float64
}

func newCamera(v View, extent float64) camera {
	el := v.ElevationDeg * math.Pi / 180.0
	az := v.AzimuthDeg * math.Pi / 180.0
	sinEl, cosEl := math.Sincos(el)
	sinAz, cosAz := math.Sincos(az)

	size := float64(min(v.Width, v.Height))
	return camera{
		right:  transform.Point3{X: -sinAz, Y: cosAz},
		up:     transform.Point3{X: -sinEl * cosAz, Y: -sinEl * sinAz, Z: cosEl},
		toward: transform.Point3{X: cosEl * cosAz, Y: cosEl * sinAz, Z: sinEl},
		scale:  0.4 * size / extent,
		cx:     float64(v.Width) / 2,
		cy:     float64(v.Height) / 2,
	}
}

func dot(a, b transform.Point3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// project maps p to screen pixels; depth grows toward the viewer.
func (c camera) project(p transform.Point3) (x, y, depth float64) {
	x = c.cx + dot(p, c.right)*c.scale
	y = c.cy - dot(p, c.up)*c.scale
	return x, y, dot(p, c.toward)
}

// WriteSVG draws s as seen from v: the mesh rows and columns as polylines,
// the axes with their labels, and the markers back to front.
func WriteSVG(w io.Writer, s Scene, v View) error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("invalid view size %dx%d", v.Width, v.Height)
	}

	bw := bufio.NewWriter(w)
	extent := s.extent()
	cam := newCamera(v, extent*1.15)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		v.Width, v.Height, v.Width, v.Height)
	fmt.Fprintf(bw, "<title>%s</title>\n", escape(s.Title))
	fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="white"/>`+"\n")

	fmt.Fprintf(bw, `<g class="wireframe" stroke="%s" stroke-width="0.6" fill="none">`+"\n", wireColor)
	m := s.Mesh
	for i := 0; i < m.Rows(); i++ {
		pts := make([]transform.Point3, m.Cols())
		for j := range pts {
			pts[j] = m.At(i, j)
		}
		writePolyline(bw, cam, pts)
	}
	for j := 0; j < m.Cols(); j++ {
		pts := make([]transform.Point3, m.Rows())
		for i := range pts {
			pts[i] = m.At(i, j)
		}
		writePolyline(bw, cam, pts)
	}
	fmt.Fprintln(bw, "</g>")

	axes := [3]transform.Point3{{X: extent * 1.1}, {Y: extent * 1.1}, {Z: extent * 1.1}}
	ox, oy, _ := cam.project(transform.Point3{})
	fmt.Fprintln(bw, `<g class="axes" stroke="#444444" stroke-width="1" font-family="sans-serif" font-size="14">`)
	for i, tip := range axes {
		x, y, _ := cam.project(tip)
		fmt.Fprintf(bw, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", ox, oy, x, y)
		fmt.Fprintf(bw, `<text x="%.2f" y="%.2f" stroke="none" fill="#000000">%s</text>`+"\n", x+4, y-4, escape(s.AxisLabels[i]))
	}
	fmt.Fprintln(bw, "</g>")

	type placed struct {
		m       Marker
		x, y, d float64
	}
	markers := make([]placed, 0, len(s.Markers))
	for _, mk := range s.Markers {
		x, y, d := cam.project(mk.Point)
		markers = append(markers, placed{m: mk, x: x, y: y, d: d})
	}
	sort.SliceStable(markers, func(i, j int) bool { return markers[i].d < markers[j].d })

	fmt.Fprintln(bw, `<g class="markers">`)
	for _, p := range markers {
		// Size is an area in square points.
		r := math.Sqrt(p.m.Size) / 2
		fmt.Fprintf(bw, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"><title>%s</title></circle>`+"\n",
			p.x, p.y, r, escape(p.m.Color), escape(p.m.Label))
	}
	fmt.Fprintln(bw, "</g>")
	fmt.Fprintln(bw, "</svg>")

	return bw.Flush()
}

func writePolyline(w io.Writer, cam camera, pts []transform.Point3) {
	var sb strings.Builder
	for k, p := range pts {
		x, y, _ := cam.project(p)
		if k > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.2f,%.2f", x, y)
	}
	fmt.Fprintf(w, `<polyline points="%s"/>`+"\n", sb.String())
}

func escape(s string) string {
	var sb strings.Builder
	xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
