package provider

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/parcel-cli/internal/model"
)

// writeParcelShapefile writes a one-parcel polygon shapefile and returns its path.
func writeParcelShapefile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "parcels.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	w.SetFields([]shp.Field{
		shp.StringField("APN", 16),
		shp.StringField("SITUS", 32),
	})

	ring := [][]shp.Point{{
		{X: -119.27, Y: 35.48},
		{X: -119.25, Y: 35.48},
		{X: -119.25, Y: 35.50},
		{X: -119.27, Y: 35.50},
		{X: -119.27, Y: 35.48},
	}}
	w.Write((*shp.Polygon)(shp.NewPolyLine(ring)))
	w.WriteAttribute(0, 0, "123-456-78")
	w.WriteAttribute(0, 1, "4500 EXPRESS AVE")
	w.Close()

	return path
}

func TestShapefile_PointInside(t *testing.T) {
	sf, err := NewShapefile(writeParcelShapefile(t))
	require.NoError(t, err)

	features, err := sf.QueryPoint(context.Background(), model.Point{Lat: 35.49, Lng: -119.26})

	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "123-456-78", features[0].Attributes["APN"])
	assert.Equal(t, "4500 EXPRESS AVE", features[0].Attributes["SITUS"])
	require.Len(t, features[0].Geometry.Rings, 1)
	assert.Equal(t, 4326, features[0].Geometry.SpatialReference)
}

func TestShapefile_PointOutside(t *testing.T) {
	sf, err := NewShapefile(writeParcelShapefile(t))
	require.NoError(t, err)

	features, err := sf.QueryPoint(context.Background(), model.Point{Lat: 36.0, Lng: -119.26})

	require.NoError(t, err)
	assert.Empty(t, features)
}

func TestShapefile_MissingFile(t *testing.T) {
	_, err := NewShapefile(filepath.Join(t.TempDir(), "absent.shp"))
	assert.Error(t, err)
}
