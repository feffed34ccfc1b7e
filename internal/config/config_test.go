package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0, cfg.ArcGIS.LayerID)
	assert.Equal(t, "https://places.googleapis.com/v1", cfg.Places.BaseURL)
	assert.True(t, cfg.Lookup.BusinessLookup)
	assert.InDelta(t, 35.4855, cfg.Lookup.Lat, 0.0001)
	assert.InDelta(t, -119.2618, cfg.Lookup.Lng, 0.0001)
	assert.Equal(t, "parcel_result.json", cfg.Output.JSONPath)
	assert.Equal(t, "parcel_map.html", cfg.Output.MapPath)
	assert.Empty(t, cfg.Output.XLSXPath)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
arcgis:
  service_url: https://gis.example.com/rest/services/Parcels/FeatureServer
  layer_id: 3
log:
  level: debug
  format: console
server:
  port: 9090
output:
  json_path: out/result.json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://gis.example.com/rest/services/Parcels/FeatureServer", cfg.ArcGIS.ServiceURL)
	assert.Equal(t, 3, cfg.ArcGIS.LayerID)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "out/result.json", cfg.Output.JSONPath)
	// Defaults still apply for unset values
	assert.Equal(t, "parcel_map.html", cfg.Output.MapPath)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
places:
  key: file-key
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	t.Setenv("PARCEL_PLACES_KEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Places.Key)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	assert.Error(t, err)
}
