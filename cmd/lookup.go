package main

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/parcel-cli/internal/config"
	"github.com/sells-group/parcel-cli/internal/enrich"
	"github.com/sells-group/parcel-cli/internal/maprender"
	"github.com/sells-group/parcel-cli/internal/model"
	"github.com/sells-group/parcel-cli/internal/provider"
	"github.com/sells-group/parcel-cli/internal/report"
	"github.com/sells-group/parcel-cli/pkg/arcgis"
	"github.com/sells-group/parcel-cli/pkg/places"
)

var (
	lookupLat        float64
	lookupLng        float64
	lookupNoBusiness bool
	lookupOutPath    string
	lookupMapPath    string
	lookupXLSXPath   string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Query a point against the parcel layer",
	Long:  "Runs the full flow: spatial query, JSON persistence, optional business enrichment, and map rendering. Failures degrade to an empty result instead of aborting.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pt := model.Point{Lat: cfg.Lookup.Lat, Lng: cfg.Lookup.Lng}
		if cmd.Flags().Changed("lat") {
			pt.Lat = lookupLat
		}
		if cmd.Flags().Changed("lng") {
			pt.Lng = lookupLng
		}
		if err := validatePoint(pt); err != nil {
			return err
		}

		runID := uuid.New().String()
		log := zap.L().With(
			zap.String("run_id", runID),
			zap.Float64("lat", pt.Lat),
			zap.Float64("lng", pt.Lng),
		)

		// Step 1: spatial query. Any failure degrades to an empty feature
		// list; the run continues and still writes its outputs.
		chain := buildProviderChain(cfg)
		features, err := chain.QueryPoint(ctx, pt)
		if err != nil {
			log.Warn("lookup: parcel query failed, continuing with empty result", zap.Error(err))
			features = nil
		}
		log.Info("lookup: parcel query done", zap.Int("features", len(features)))

		// Step 2: persistence.
		outPath := cfg.Output.JSONPath
		if lookupOutPath != "" {
			outPath = lookupOutPath
		}
		if err := report.WriteJSON(outPath, features); err != nil {
			log.Error("lookup: write json failed", zap.Error(err))
		}

		xlsxPath := cfg.Output.XLSXPath
		if lookupXLSXPath != "" {
			xlsxPath = lookupXLSXPath
		}
		if xlsxPath != "" && len(features) > 0 {
			if err := report.WriteXLSX(xlsxPath, features); err != nil {
				log.Error("lookup: write xlsx failed", zap.Error(err))
			}
		}

		// Step 3: business enrichment (optional).
		var business *model.BusinessInfo
		if cfg.Lookup.BusinessLookup && !lookupNoBusiness && len(features) > 0 {
			if address := situsAddress(features[0].Attributes); address != "" {
				client := places.NewClient(cfg.Places.Key, places.WithBaseURL(cfg.Places.BaseURL))
				business = enrich.Lookup(ctx, client, address)
			} else {
				log.Info("lookup: no situs address on parcel, skipping enrichment")
			}
		}

		// Step 4: map rendering.
		mapPath := cfg.Output.MapPath
		if lookupMapPath != "" {
			mapPath = lookupMapPath
		}
		result := model.LookupResult{
			RunID:     runID,
			Point:     pt,
			Features:  features,
			Business:  business,
			QueriedAt: time.Now().UTC(),
		}
		if err := maprender.Render(mapPath, result, loadMapStyle(cfg)); err != nil {
			if eris.Is(err, maprender.ErrNoGeometry) {
				log.Info("lookup: no drawable geometry, map not written")
			} else {
				log.Warn("lookup: map rendering failed", zap.Error(err))
			}
		}

		log.Info("lookup complete",
			zap.String("json", outPath),
			zap.String("map", mapPath),
			zap.Bool("business", business != nil),
		)
		return nil
	},
}

// buildProviderChain assembles the query backends: the feature service first,
// then the local shapefile when one is configured.
func buildProviderChain(cfg *config.Config) *provider.Chain {
	client := arcgis.NewClient(cfg.ArcGIS.ServiceURL, cfg.ArcGIS.Token)
	providers := []provider.Provider{provider.NewArcGIS(client, cfg.ArcGIS.LayerID)}

	if cfg.Lookup.ShapefilePath != "" {
		sf, err := provider.NewShapefile(cfg.Lookup.ShapefilePath)
		if err != nil {
			zap.L().Warn("lookup: local shapefile unavailable, remote only",
				zap.String("path", cfg.Lookup.ShapefilePath),
				zap.Error(err),
			)
		} else {
			providers = append(providers, sf)
		}
	}

	return provider.NewChain(providers...)
}

// loadMapStyle reads the configured style sidecar, falling back to defaults.
func loadMapStyle(cfg *config.Config) maprender.Style {
	if cfg.Map.StylePath == "" {
		return maprender.DefaultStyle()
	}
	style, err := maprender.LoadStyle(cfg.Map.StylePath)
	if err != nil {
		zap.L().Warn("lookup: map style unavailable, using defaults",
			zap.String("path", cfg.Map.StylePath),
			zap.Error(err),
		)
	}
	return style
}

// validatePoint rejects coordinates outside decimal-degree ranges before any
// network call is made.
func validatePoint(pt model.Point) error {
	if pt.Lat < -90 || pt.Lat > 90 {
		return eris.Errorf("latitude %g out of range [-90, 90]", pt.Lat)
	}
	if pt.Lng < -180 || pt.Lng > 180 {
		return eris.Errorf("longitude %g out of range [-180, 180]", pt.Lng)
	}
	return nil
}

// situsAddress assembles a search query from whichever address fields the
// parcel layer exposes.
func situsAddress(attrs map[string]any) string {
	street := firstAttr(attrs, "SITUS", "SITUS_ADDRESS", "ADDRESS", "SITE_ADDR")
	city := firstAttr(attrs, "SITUS_CITY", "CITY")
	state := firstAttr(attrs, "SITUS_STATE", "STATE")
	zip := firstAttr(attrs, "SITUS_ZIP", "ZIP", "ZIPCODE")

	var parts []string
	for _, p := range []string{street, city, state, zip} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func firstAttr(attrs map[string]any, names ...string) string {
	for _, name := range names {
		if v, ok := attrs[name]; ok && v != nil {
			if s := strings.TrimSpace(toString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func init() {
	lookupCmd.Flags().Float64Var(&lookupLat, "lat", 0, "query latitude (default from config)")
	lookupCmd.Flags().Float64Var(&lookupLng, "lng", 0, "query longitude (default from config)")
	lookupCmd.Flags().BoolVar(&lookupNoBusiness, "no-business", false, "skip the business lookup")
	lookupCmd.Flags().StringVar(&lookupOutPath, "out", "", "JSON output path (default from config)")
	lookupCmd.Flags().StringVar(&lookupMapPath, "map", "", "map HTML output path (default from config)")
	lookupCmd.Flags().StringVar(&lookupXLSXPath, "xlsx", "", "optional XLSX attribute report path")
	rootCmd.AddCommand(lookupCmd)
}
