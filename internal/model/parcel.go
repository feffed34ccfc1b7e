// Package model holds the domain types shared across parcel-cli.
package model

import "time"

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry is an esri-style polygon: an ordered list of rings, each ring an
// ordered list of [lng, lat] pairs. The first ring is the outer boundary;
// subsequent rings are holes.
type Geometry struct {
	Rings            [][][2]float64 `json:"rings"`
	SpatialReference int            `json:"spatial_reference"`
}

// Empty reports whether the geometry carries no usable rings.
func (g Geometry) Empty() bool {
	return len(g.Rings) == 0 || len(g.Rings[0]) == 0
}

// ParcelFeature is one parcel polygon plus its attribute record, as returned
// by a spatial intersection query.
type ParcelFeature struct {
	Attributes map[string]any `json:"attributes"`
	Geometry   Geometry       `json:"geometry"`
}

// BusinessInfo describes the business occupying a parcel, sourced from a
// places lookup or the static fallback directory.
type BusinessInfo struct {
	Name    string `json:"name,omitempty"`
	Status  string `json:"status,omitempty"`
	Type    string `json:"type,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	Address string `json:"address,omitempty"`
}

// LookupResult is the output of one point lookup run.
type LookupResult struct {
	RunID     string          `json:"run_id"`
	Point     Point           `json:"point"`
	Features  []ParcelFeature `json:"features"`
	Business  *BusinessInfo   `json:"business,omitempty"`
	QueriedAt time.Time       `json:"queried_at"`
}
