package provider

import (
	"context"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/parcel-cli/internal/model"
	"github.com/sells-group/parcel-cli/internal/parcel"
)

// Shapefile answers point queries from a local parcel shapefile, loaded once
// at construction.
type Shapefile struct {
	path     string
	features []model.ParcelFeature
}

// NewShapefile reads the shapefile at path into memory. Non-polygon and
// geometry-less records are skipped.
func NewShapefile(path string) (*Shapefile, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "provider: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Build attribute field names once; dbf strings are NUL-padded.
	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	var features []model.ParcelFeature
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}

		rings := polygonRings(poly)
		if len(rings) == 0 {
			skipped++
			continue
		}

		attrs := make(map[string]any, len(names))
		for i, name := range names {
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			if val != "" {
				attrs[name] = val
			}
		}

		features = append(features, model.ParcelFeature{
			Attributes: attrs,
			Geometry:   model.Geometry{Rings: rings, SpatialReference: 4326},
		})
	}

	if skipped > 0 {
		zap.L().Debug("provider: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	zap.L().Info("provider: shapefile loaded",
		zap.String("path", path),
		zap.Int("parcels", len(features)),
	)

	return &Shapefile{path: path, features: features}, nil
}

// Name identifies the provider in logs.
func (s *Shapefile) Name() string { return "shapefile" }

// QueryPoint returns every loaded parcel whose polygon contains the point.
func (s *Shapefile) QueryPoint(_ context.Context, pt model.Point) ([]model.ParcelFeature, error) {
	var hits []model.ParcelFeature
	for _, f := range s.features {
		if parcel.ContainsPoint(f.Geometry, pt) {
			hits = append(hits, f)
		}
	}
	return hits, nil
}

// polygonRings converts a shapefile polygon's parts to esri-style rings.
func polygonRings(p *shp.Polygon) [][][2]float64 {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	rings := make([][][2]float64, 0, p.NumParts)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		ring := make([][2]float64, 0, end-start)
		for j := start; j < end; j++ {
			ring = append(ring, [2]float64{p.Points[j].X, p.Points[j].Y})
		}
		if len(ring) > 0 {
			rings = append(rings, ring)
		}
	}
	return rings
}
