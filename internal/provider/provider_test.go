package provider

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/parcel-cli/internal/model"
)

type stubProvider struct {
	name     string
	features []model.ParcelFeature
	err      error
	calls    int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) QueryPoint(_ context.Context, _ model.Point) ([]model.ParcelFeature, error) {
	s.calls++
	return s.features, s.err
}

func feature(apn string) model.ParcelFeature {
	return model.ParcelFeature{
		Attributes: map[string]any{"APN": apn},
		Geometry: model.Geometry{
			Rings:            [][][2]float64{{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
			SpatialReference: 4326,
		},
	}
}

func TestChain_FirstSuccessWins(t *testing.T) {
	primary := &stubProvider{name: "arcgis", features: []model.ParcelFeature{feature("1")}}
	secondary := &stubProvider{name: "shapefile", features: []model.ParcelFeature{feature("2")}}

	chain := NewChain(primary, secondary)
	features, err := chain.QueryPoint(context.Background(), model.Point{})

	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "1", features[0].Attributes["APN"])
	assert.Equal(t, 0, secondary.calls)
}

func TestChain_FallsThroughOnError(t *testing.T) {
	primary := &stubProvider{name: "arcgis", err: eris.New("arcgis: query status 502")}
	secondary := &stubProvider{name: "shapefile", features: []model.ParcelFeature{feature("2")}}

	chain := NewChain(primary, secondary)
	features, err := chain.QueryPoint(context.Background(), model.Point{})

	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "2", features[0].Attributes["APN"])
}

func TestChain_EmptyResultIsSuccess(t *testing.T) {
	primary := &stubProvider{name: "arcgis"}
	secondary := &stubProvider{name: "shapefile", features: []model.ParcelFeature{feature("2")}}

	chain := NewChain(primary, secondary)
	features, err := chain.QueryPoint(context.Background(), model.Point{})

	// A miss from a healthy provider is a real answer, not a reason to
	// consult the fallback.
	require.NoError(t, err)
	assert.Empty(t, features)
	assert.Equal(t, 0, secondary.calls)
}

func TestChain_AllFail(t *testing.T) {
	primary := &stubProvider{name: "arcgis", err: eris.New("arcgis: send query request")}
	secondary := &stubProvider{name: "shapefile", err: eris.New("provider: open shapefile")}

	chain := NewChain(primary, secondary)
	features, err := chain.QueryPoint(context.Background(), model.Point{})

	assert.Error(t, err)
	assert.Nil(t, features)
	assert.Contains(t, err.Error(), "all providers failed")
}

func TestChain_NoProviders(t *testing.T) {
	chain := NewChain()
	_, err := chain.QueryPoint(context.Background(), model.Point{})
	assert.Error(t, err)
}
