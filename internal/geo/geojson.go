// README: GeoJSON features for the map render boundary (orb points are lng,lat).
package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"tripmap/internal/types"
)

func OrbPoint(p types.Point) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// PointFeature builds a marker feature carrying props.
func PointFeature(p types.Point, props map[string]any) *geojson.Feature {
	f := geojson.NewFeature(OrbPoint(p))
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}

// LineFeature builds a straight two-point line, used for home-to-entity routes.
func LineFeature(from, to types.Point, props map[string]any) *geojson.Feature {
	f := geojson.NewFeature(orb.LineString{OrbPoint(from), OrbPoint(to)})
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}

// Bounds returns the bounding box of the points; ok is false for an empty input.
func Bounds(points []types.Point) (orb.Bound, bool) {
	if len(points) == 0 {
		return orb.Bound{}, false
	}
	b := OrbPoint(points[0]).Bound()
	for _, p := range points[1:] {
		b = b.Extend(OrbPoint(p))
	}
	return b, true
}
