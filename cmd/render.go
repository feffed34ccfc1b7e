package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/parcel-cli/internal/maprender"
	"github.com/sells-group/parcel-cli/internal/model"
	"github.com/sells-group/parcel-cli/internal/report"
)

var (
	renderInPath  string
	renderMapPath string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Re-render the map from a persisted JSON result",
	RunE: func(cmd *cobra.Command, args []string) error {
		inPath := cfg.Output.JSONPath
		if renderInPath != "" {
			inPath = renderInPath
		}
		mapPath := cfg.Output.MapPath
		if renderMapPath != "" {
			mapPath = renderMapPath
		}

		features, err := report.ReadJSON(inPath)
		if err != nil {
			return err
		}

		result := model.LookupResult{Features: features}
		if err := maprender.Render(mapPath, result, loadMapStyle(cfg)); err != nil {
			return err
		}

		zap.L().Info("render complete",
			zap.String("in", inPath),
			zap.String("map", mapPath),
			zap.Int("features", len(features)),
		)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderInPath, "in", "", "JSON result path (default from config)")
	renderCmd.Flags().StringVar(&renderMapPath, "map", "", "map HTML output path (default from config)")
	rootCmd.AddCommand(renderCmd)
}
