// Package parcel holds geometry helpers for parcel polygons.
package parcel

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/sells-group/parcel-cli/internal/model"
)

// Centroid returns the arithmetic mean of the outer ring's vertices. This is
// not the true centroid of an irregular polygon, but it is exact for regular
// rings and good enough for map centering.
func Centroid(g model.Geometry) (model.Point, error) {
	if g.Empty() {
		return model.Point{}, eris.New("parcel: geometry has no rings")
	}

	outer := g.Rings[0]
	var sumLng, sumLat float64
	for _, c := range outer {
		sumLng += c[0]
		sumLat += c[1]
	}
	n := float64(len(outer))
	return model.Point{Lat: sumLat / n, Lng: sumLng / n}, nil
}

// RingsToPolygon converts esri-style rings to a go-geom polygon in EPSG:4326.
func RingsToPolygon(g model.Geometry) (*geom.Polygon, error) {
	if g.Empty() {
		return nil, eris.New("parcel: geometry has no rings")
	}

	poly := geom.NewPolygon(geom.XY).SetSRID(4326)
	for i, ring := range g.Rings {
		flat := make([]float64, 0, len(ring)*2)
		for _, c := range ring {
			flat = append(flat, c[0], c[1])
		}
		lr := geom.NewLinearRingFlat(geom.XY, flat)
		if err := poly.Push(lr); err != nil {
			return nil, eris.Wrapf(err, "parcel: push ring %d", i)
		}
	}
	return poly, nil
}

// ContainsPoint reports whether the point falls inside the outer ring and
// outside every hole.
func ContainsPoint(g model.Geometry, pt model.Point) bool {
	if g.Empty() {
		return false
	}

	coord := geom.Coord{pt.Lng, pt.Lat}
	if !xy.IsPointInRing(geom.XY, coord, flatRing(g.Rings[0])) {
		return false
	}
	for _, hole := range g.Rings[1:] {
		if xy.IsPointInRing(geom.XY, coord, flatRing(hole)) {
			return false
		}
	}
	return true
}

func flatRing(ring [][2]float64) []float64 {
	flat := make([]float64, 0, len(ring)*2)
	for _, c := range ring {
		flat = append(flat, c[0], c[1])
	}
	return flat
}
