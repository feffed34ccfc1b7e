// Package arcgis is a minimal client for ArcGIS REST feature services,
// covering layer resolution and point-in-polygon intersection queries.
package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/parcel-cli/internal/model"
)

// Client performs ArcGIS feature-service operations.
type Client interface {
	ResolveLayer(ctx context.Context, layerID int) (string, error)
	QueryPoint(ctx context.Context, layerURL string, pt model.Point) ([]model.ParcelFeature, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the feature-service base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates an ArcGIS feature-service client. The token may be empty
// for public services.
func NewClient(serviceURL, token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: serviceURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// serviceInfo is the service metadata returned for ?f=json.
type serviceInfo struct {
	Layers []layerInfo `json:"layers"`
	Error  *apiError   `json:"error"`
}

type layerInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// apiError is the error object esri embeds in HTTP 200 responses.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// queryResponse is the feature-query payload.
type queryResponse struct {
	Features []queryFeature `json:"features"`
	Error    *apiError      `json:"error"`
}

type queryFeature struct {
	Attributes map[string]any `json:"attributes"`
	Geometry   *queryGeometry `json:"geometry"`
}

type queryGeometry struct {
	Rings            [][][2]float64 `json:"rings"`
	SpatialReference *struct {
		WKID int `json:"wkid"`
	} `json:"spatialReference"`
}

// ResolveLayer looks up the layer with the given ID in the service metadata
// and returns its query URL. When the metadata request fails or the layer is
// not listed, it falls back to the direct layer URL so a lookup can still be
// attempted against it.
func (c *httpClient) ResolveLayer(ctx context.Context, layerID int) (string, error) {
	direct := c.baseURL + "/" + strconv.Itoa(layerID)

	info, err := c.fetchServiceInfo(ctx)
	if err != nil {
		zap.L().Warn("arcgis: layer resolution failed, using direct layer url",
			zap.Int("layer_id", layerID),
			zap.Error(err),
		)
		return direct, nil
	}

	for _, l := range info.Layers {
		if l.ID == layerID {
			zap.L().Debug("arcgis: resolved layer",
				zap.Int("layer_id", l.ID),
				zap.String("name", l.Name),
			)
			return direct, nil
		}
	}

	zap.L().Warn("arcgis: layer not listed in service metadata, using direct layer url",
		zap.Int("layer_id", layerID),
	)
	return direct, nil
}

func (c *httpClient) fetchServiceInfo(ctx context.Context) (*serviceInfo, error) {
	params := url.Values{"f": {"json"}}
	if c.token != "" {
		params.Set("token", c.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: create metadata request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: send metadata request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: read metadata response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("arcgis: metadata status %d: %s", resp.StatusCode, string(body))
	}

	var info serviceInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, eris.Wrap(err, "arcgis: unmarshal metadata")
	}
	if info.Error != nil {
		return nil, eris.Errorf("arcgis: metadata error %d: %s", info.Error.Code, info.Error.Message)
	}

	return &info, nil
}

// QueryPoint issues a spatial intersection query for the given point against
// the layer URL and returns the matching features. An empty result is a nil
// slice, not an error.
func (c *httpClient) QueryPoint(ctx context.Context, layerURL string, pt model.Point) ([]model.ParcelFeature, error) {
	params := url.Values{
		"geometry":       {fmt.Sprintf(`{"x":%g,"y":%g}`, pt.Lng, pt.Lat)},
		"geometryType":   {"esriGeometryPoint"},
		"inSR":           {"4326"},
		"spatialRel":     {"esriSpatialRelIntersects"},
		"outFields":      {"*"},
		"returnGeometry": {"true"},
		"outSR":          {"4326"},
		"f":              {"json"},
	}
	if c.token != "" {
		params.Set("token", c.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, layerURL+"/query?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: create query request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: send query request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: read query response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("arcgis: query status %d: %s", resp.StatusCode, string(body))
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, eris.Wrap(err, "arcgis: unmarshal query response")
	}
	if qr.Error != nil {
		return nil, eris.Errorf("arcgis: query error %d: %s", qr.Error.Code, qr.Error.Message)
	}

	var features []model.ParcelFeature
	for _, f := range qr.Features {
		feat := model.ParcelFeature{Attributes: f.Attributes}
		if f.Geometry != nil {
			feat.Geometry = model.Geometry{Rings: f.Geometry.Rings, SpatialReference: 4326}
			if f.Geometry.SpatialReference != nil {
				feat.Geometry.SpatialReference = f.Geometry.SpatialReference.WKID
			}
		}
		features = append(features, feat)
	}

	return features, nil
}
