package viewer

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Places builds the GeoJSON view of the scene markers. Coordinates are
// passed through as given.
func Places(iss, ref orb.Point) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	f := geojson.NewFeature(iss)
	f.Properties["name"] = "ISS"
	f.Properties["marker-color"] = "red"
	fc.Append(f)

	f = geojson.NewFeature(ref)
	f.Properties["name"] = "Reference"
	f.Properties["marker-color"] = "green"
	fc.Append(f)

	return fc
}
