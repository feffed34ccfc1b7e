package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/parcel-cli/internal/model"
	"github.com/sells-group/parcel-cli/pkg/arcgis"
)

// ArcGIS queries a remote feature-service layer.
type ArcGIS struct {
	client  arcgis.Client
	layerID int
}

// NewArcGIS creates a provider for the given layer of a feature service.
func NewArcGIS(client arcgis.Client, layerID int) *ArcGIS {
	return &ArcGIS{client: client, layerID: layerID}
}

// Name identifies the provider in logs.
func (a *ArcGIS) Name() string { return "arcgis" }

// QueryPoint resolves the layer URL and runs the intersection query.
func (a *ArcGIS) QueryPoint(ctx context.Context, pt model.Point) ([]model.ParcelFeature, error) {
	layerURL, err := a.client.ResolveLayer(ctx, a.layerID)
	if err != nil {
		return nil, eris.Wrap(err, "provider: resolve layer")
	}
	return a.client.QueryPoint(ctx, layerURL, pt)
}
