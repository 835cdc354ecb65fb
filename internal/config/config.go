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
	Split Splitter    `yaml:"split" mapstructure:"split"`
	Roads RoadNetwork `yaml:"roads" mapstructure:"roads"`
	Match Match       `yaml:"match" mapstructure:"match"`
	Log   Log         `yaml:"log" mapstructure:"log"`
}

// Splitter configures the traffic-sign GeoJSON splitter.
type Splitter struct {
	InputPath  string `yaml:"input_path" mapstructure:"input_path"`
	OutputDir  string `yaml:"output_dir" mapstructure:"output_dir"`
	FilePrefix string `yaml:"file_prefix" mapstructure:"file_prefix"`
}

// RoadNetwork configures the OSM road-segment source.
type RoadNetwork struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Format string `yaml:"format" mapstructure:"format"` // "geojson" or "shapefile"
}

// Match configures the accident-to-road matching runs.
type Match struct {
	// AccidentFiles and OutputFiles are keyed by year, e.g. "2023".
	AccidentFiles map[string]string `yaml:"accident_files" mapstructure:"accident_files"`
	OutputFiles   map[string]string `yaml:"output_files" mapstructure:"output_files"`
	Columns       Columns           `yaml:"columns" mapstructure:"columns"`
	Encoding      string            `yaml:"encoding" mapstructure:"encoding"` // "utf-8" or "latin1"
	Concurrency   int               `yaml:"concurrency" mapstructure:"concurrency"`
	Progress      bool              `yaml:"progress" mapstructure:"progress"`
}

// Columns names the required columns in the accident CSV files.
type Columns struct {
	Longitude string `yaml:"longitude" mapstructure:"longitude"`
	Latitude  string `yaml:"latitude" mapstructure:"latitude"`
	Street    string `yaml:"street" mapstructure:"street"`
}

// Log configures logging.
type Log struct {
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
	v.SetEnvPrefix("TRAFFICPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("split.input_path", "data_raw/trafficsigns_wgs84.geojson")
	v.SetDefault("split.output_dir", "data_processed/traffic_signs_by_type")
	v.SetDefault("split.file_prefix", "traffic_signs_")
	v.SetDefault("roads.format", "geojson")
	v.SetDefault("match.columns.longitude", "longitude")
	v.SetDefault("match.columns.latitude", "latitude")
	v.SetDefault("match.columns.street", "straatnaam")
	v.SetDefault("match.encoding", "utf-8")
	v.SetDefault("match.concurrency", 1)
	v.SetDefault("match.progress", true)

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
func InitLogger(cfg Log) error {
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
