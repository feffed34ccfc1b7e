package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	ArcGIS ArcGISConfig `yaml:"arcgis" mapstructure:"arcgis"`
	Places PlacesConfig `yaml:"places" mapstructure:"places"`
	Lookup LookupConfig `yaml:"lookup" mapstructure:"lookup"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Map    MapConfig    `yaml:"map" mapstructure:"map"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ArcGISConfig holds feature-service connection settings.
type ArcGISConfig struct {
	Token      string `yaml:"token" mapstructure:"token"`
	ServiceURL string `yaml:"service_url" mapstructure:"service_url"`
	LayerID    int    `yaml:"layer_id" mapstructure:"layer_id"`
}

// PlacesConfig holds places API credentials and endpoint.
type PlacesConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// LookupConfig holds the default query point and enrichment toggle.
type LookupConfig struct {
	Lat            float64 `yaml:"lat" mapstructure:"lat"`
	Lng            float64 `yaml:"lng" mapstructure:"lng"`
	BusinessLookup bool    `yaml:"business_lookup" mapstructure:"business_lookup"`
	ShapefilePath  string  `yaml:"shapefile_path" mapstructure:"shapefile_path"`
}

// OutputConfig holds the fixed output paths, overwritten each run.
type OutputConfig struct {
	JSONPath string `yaml:"json_path" mapstructure:"json_path"`
	MapPath  string `yaml:"map_path" mapstructure:"map_path"`
	XLSXPath string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
}

// MapConfig configures map rendering.
type MapConfig struct {
	StylePath string `yaml:"style_path" mapstructure:"style_path"`
}

// ServerConfig configures the lookup server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PARCEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("arcgis.service_url", "https://services.arcgis.com/kern/arcgis/rest/services/Parcels/FeatureServer")
	v.SetDefault("arcgis.layer_id", 0)
	v.SetDefault("places.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("lookup.lat", 35.4855)
	v.SetDefault("lookup.lng", -119.2618)
	v.SetDefault("lookup.business_lookup", true)
	v.SetDefault("output.json_path", "parcel_result.json")
	v.SetDefault("output.map_path", "parcel_map.html")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
