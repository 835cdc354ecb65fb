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
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "data_raw/trafficsigns_wgs84.geojson", cfg.Split.InputPath)
	assert.Equal(t, "data_processed/traffic_signs_by_type", cfg.Split.OutputDir)
	assert.Equal(t, "traffic_signs_", cfg.Split.FilePrefix)
	assert.Equal(t, "geojson", cfg.Roads.Format)
	assert.Equal(t, "longitude", cfg.Match.Columns.Longitude)
	assert.Equal(t, "latitude", cfg.Match.Columns.Latitude)
	assert.Equal(t, "straatnaam", cfg.Match.Columns.Street)
	assert.Equal(t, "utf-8", cfg.Match.Encoding)
	assert.Equal(t, 1, cfg.Match.Concurrency)
	assert.True(t, cfg.Match.Progress)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
roads:
  path: data_raw/osm_lines.geojson
  format: shapefile
match:
  concurrency: 8
  encoding: latin1
  accident_files:
    "2023": data_processed/ongevallen_2023_clean.csv
    "2024": data_processed/ongevallen_2024_clean.csv
  output_files:
    "2023": data_rdf/accidents_enriched_with_osm_2023.csv
    "2024": data_rdf/accidents_enriched_with_osm_2024.csv
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "data_raw/osm_lines.geojson", cfg.Roads.Path)
	assert.Equal(t, "shapefile", cfg.Roads.Format)
	assert.Equal(t, 8, cfg.Match.Concurrency)
	assert.Equal(t, "latin1", cfg.Match.Encoding)
	assert.Equal(t, "data_processed/ongevallen_2023_clean.csv", cfg.Match.AccidentFiles["2023"])
	assert.Equal(t, "data_rdf/accidents_enriched_with_osm_2024.csv", cfg.Match.OutputFiles["2024"])
	// Unset sections keep their defaults.
	assert.Equal(t, "traffic_signs_", cfg.Split.FilePrefix)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(Log{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	err := InitLogger(Log{Level: "not-a-level", Format: "json"})
	assert.Error(t, err)
}
