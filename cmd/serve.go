package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/parcel-cli/internal/config"
	"github.com/sells-group/parcel-cli/internal/enrich"
	"github.com/sells-group/parcel-cli/internal/model"
	"github.com/sells-group/parcel-cli/internal/provider"
	"github.com/sells-group/parcel-cli/pkg/places"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve parcel lookups and the rendered map over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		chain := buildProviderChain(cfg)
		placesClient := places.NewClient(cfg.Places.Key, places.WithBaseURL(cfg.Places.BaseURL))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newServeHandler(cfg, chain, placesClient),
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

// newServeHandler builds the HTTP routes: health, point lookup, and the
// rendered map file.
func newServeHandler(cfg *config.Config, chain *provider.Chain, placesClient places.Client) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Get("/parcel", func(w http.ResponseWriter, req *http.Request) {
		lat, latErr := strconv.ParseFloat(req.URL.Query().Get("lat"), 64)
		lng, lngErr := strconv.ParseFloat(req.URL.Query().Get("lng"), 64)
		if latErr != nil || lngErr != nil {
			http.Error(w, `{"error":"lat and lng query params are required"}`, http.StatusBadRequest)
			return
		}
		pt := model.Point{Lat: lat, Lng: lng}
		if err := validatePoint(pt); err != nil {
			http.Error(w, `{"error":"coordinates out of range"}`, http.StatusBadRequest)
			return
		}

		runID := uuid.New().String()
		log := zap.L().With(zap.String("run_id", runID), zap.Float64("lat", lat), zap.Float64("lng", lng))

		features, err := chain.QueryPoint(req.Context(), pt)
		if err != nil {
			log.Warn("serve: parcel query failed", zap.Error(err))
			features = nil
		}

		var business *model.BusinessInfo
		if cfg.Lookup.BusinessLookup && len(features) > 0 {
			if address := situsAddress(features[0].Attributes); address != "" {
				business = enrich.Lookup(req.Context(), placesClient, address)
			}
		}

		result := model.LookupResult{
			RunID:     runID,
			Point:     pt,
			Features:  features,
			Business:  business,
			QueriedAt: time.Now().UTC(),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Warn("serve: encode response failed", zap.Error(err))
		}
	})

	r.Get("/map", func(w http.ResponseWriter, req *http.Request) {
		if _, err := os.Stat(cfg.Output.MapPath); err != nil {
			http.Error(w, "map not rendered yet", http.StatusNotFound)
			return
		}
		http.ServeFile(w, req, cfg.Output.MapPath)
	})

	return r
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
