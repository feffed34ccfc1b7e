// Package provider answers point-in-parcel queries from one of several
// backends: a remote ArcGIS feature service or a local parcel shapefile.
package provider

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/parcel-cli/internal/model"
)

// Provider answers a point query with the intersecting parcel features.
// An empty result is a nil slice, not an error.
type Provider interface {
	Name() string
	QueryPoint(ctx context.Context, pt model.Point) ([]model.ParcelFeature, error)
}

// Chain tries providers in priority order, returning the first success.
type Chain struct {
	providers []Provider
}

// NewChain creates a Chain with the given providers. Providers are tried in
// order; the first successful result is returned, empty or not.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Name identifies the chain in logs.
func (c *Chain) Name() string { return "chain" }

// QueryPoint tries each provider in order. Per-provider failures are logged
// and the next provider is tried; if all fail the last error is returned.
func (c *Chain) QueryPoint(ctx context.Context, pt model.Point) ([]model.ParcelFeature, error) {
	if len(c.providers) == 0 {
		return nil, eris.New("provider: chain has no providers")
	}

	var lastErr error
	for _, p := range c.providers {
		features, err := p.QueryPoint(ctx, pt)
		if err == nil {
			return features, nil
		}
		zap.L().Debug("provider: query failed, trying next",
			zap.String("provider", p.Name()),
			zap.Float64("lat", pt.Lat),
			zap.Float64("lng", pt.Lng),
			zap.Error(err),
		)
		lastErr = err
	}
	return nil, eris.Wrap(lastErr, "provider: all providers failed")
}
