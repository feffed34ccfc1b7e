package arcgis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/parcel-cli/internal/model"
)

func TestResolveLayer_Listed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("f"))
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(serviceInfo{
			Layers: []layerInfo{{ID: 0, Name: "Parcels"}, {ID: 1, Name: "Zoning"}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token")
	layerURL, err := client.ResolveLayer(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/0", layerURL)
}

func TestResolveLayer_MetadataFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	layerURL, err := client.ResolveLayer(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/2", layerURL)
}

func TestResolveLayer_NotListedFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(serviceInfo{Layers: []layerInfo{{ID: 0, Name: "Parcels"}}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	layerURL, err := client.ResolveLayer(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/7", layerURL)
}

func TestQueryPoint_Hit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/0/query", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "esriGeometryPoint", q.Get("geometryType"))
		assert.Equal(t, "esriSpatialRelIntersects", q.Get("spatialRel"))
		assert.Equal(t, "*", q.Get("outFields"))
		assert.JSONEq(t, `{"x":-119.2618,"y":35.4855}`, q.Get("geometry"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"features": [{
				"attributes": {"APN": "123-456-78", "SITUS": "4500 EXPRESS AVE"},
				"geometry": {
					"rings": [[[-119.27,35.48],[-119.25,35.48],[-119.25,35.49],[-119.27,35.49],[-119.27,35.48]]],
					"spatialReference": {"wkid": 4326}
				}
			}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	features, err := client.QueryPoint(context.Background(), srv.URL+"/0", model.Point{Lat: 35.4855, Lng: -119.2618})

	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "123-456-78", features[0].Attributes["APN"])
	require.Len(t, features[0].Geometry.Rings, 1)
	assert.Len(t, features[0].Geometry.Rings[0], 5)
	assert.Equal(t, 4326, features[0].Geometry.SpatialReference)
}

func TestQueryPoint_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"features": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	features, err := client.QueryPoint(context.Background(), srv.URL+"/0", model.Point{Lat: 0, Lng: 0})

	require.NoError(t, err)
	assert.Empty(t, features)
}

func TestQueryPoint_EsriErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// esri reports errors inside an HTTP 200 body.
		_, _ = w.Write([]byte(`{"error": {"code": 498, "message": "Invalid token"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad-token")
	features, err := client.QueryPoint(context.Background(), srv.URL+"/0", model.Point{Lat: 35.5, Lng: -119.3})

	assert.Error(t, err)
	assert.Nil(t, features)
	assert.Contains(t, err.Error(), "498")
}

func TestQueryPoint_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	features, err := client.QueryPoint(context.Background(), srv.URL+"/0", model.Point{})

	assert.Error(t, err)
	assert.Nil(t, features)
	assert.Contains(t, err.Error(), "502")
}

func TestQueryPoint_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(srv.URL, "")
	_, err := client.QueryPoint(ctx, srv.URL+"/0", model.Point{})
	assert.Error(t, err)
}
