package splitter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traffic-ontology/trafficprep/internal/geojson"
)

func TestSanitizeCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{name: "plain code untouched", code: "A1", expected: "A1"},
		{name: "slash replaced", code: "C7/C7a", expected: "C7_C7a"},
		{name: "space replaced", code: "L2 f", expected: "L2_f"},
		{name: "both replaced", code: "A1 /30", expected: "A1__30"},
		{name: "idempotent", code: "C7_C7a", expected: "C7_C7a"},
		{name: "empty", code: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeCode(tt.code)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, SanitizeCode(got), "sanitizing twice must be a no-op")
		})
	}
}

func writeInput(t *testing.T, dir string, codes []string) string {
	t.Helper()

	features := make([]geojson.Feature, 0, len(codes))
	for i, code := range codes {
		props := map[string]json.RawMessage{}
		if code != "" {
			raw, err := json.Marshal(code)
			require.NoError(t, err)
			props["rvvCode"] = raw
		}
		id, err := json.Marshal(i)
		require.NoError(t, err)
		props["id"] = id
		features = append(features, geojson.Feature{
			Type:       "Feature",
			Properties: props,
			Geometry:   json.RawMessage(`{"type":"Point","coordinates":[5.0,52.0]}`),
		})
	}

	fc := &geojson.FeatureCollection{
		Type:     "FeatureCollection",
		CRS:      json.RawMessage(`{"type":"name","properties":{"name":"urn:ogc:def:crs:OGC:1.3:CRS84"}}`),
		Features: features,
	}
	path := filepath.Join(dir, "signs.geojson")
	require.NoError(t, geojson.Write(path, fc))
	return path
}

func TestSplitPartitionsEveryFeatureExactlyOnce(t *testing.T) {
	dir := t.TempDir()
	// "" means: feature has no rvvCode property at all.
	input := writeInput(t, dir, []string{"A1", "C7/C7a", "A1", "", "L2 f", "A1"})
	outDir := filepath.Join(dir, "out")

	summary, err := Split(Options{InputPath: input, OutputDir: outDir, FilePrefix: "traffic_signs_"})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.FilesWritten)
	assert.Equal(t, []CategoryCount{
		{Code: "A1", Features: 3},
		{Code: "C7/C7a", Features: 1},
		{Code: "L2 f", Features: 1},
		{Code: UnknownCode, Features: 1},
	}, summary.Categories)

	// Filenames are sanitized; chunk union covers the input with no loss or
	// duplication.
	seen := map[int]bool{}
	total := 0
	for _, name := range []string{
		"traffic_signs_A1.geojson",
		"traffic_signs_C7_C7a.geojson",
		"traffic_signs_L2_f.geojson",
		"traffic_signs_unknown.geojson",
	} {
		fc, err := geojson.Read(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Equal(t, "FeatureCollection", fc.Type)
		assert.NotEmpty(t, fc.CRS, "chunks keep the input crs member")
		for _, f := range fc.Features {
			var id int
			require.NoError(t, json.Unmarshal(f.Properties["id"], &id))
			assert.False(t, seen[id], "feature duplicated")
			seen[id] = true
			total++
		}
	}
	assert.Equal(t, 6, total)
}

func TestSplitManifest(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, []string{"A1", "B6"})
	outDir := filepath.Join(dir, "out")

	summary, err := Split(Options{InputPath: input, OutputDir: outDir, FilePrefix: "traffic_signs_"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "metadata.json"), summary.ManifestPath)

	data, err := os.ReadFile(summary.ManifestPath)
	require.NoError(t, err)

	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, 2, m.TotalChunks)
	require.Len(t, m.Chunks, 2)
	for _, c := range m.Chunks {
		info, err := os.Stat(c.Path)
		require.NoError(t, err)
		assert.Equal(t, roundMB(info.Size()), c.SizeMB)
		assert.Equal(t, filepath.Base(c.Path), c.Filename)
	}
}

func TestSplitMissingInputFailsFast(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.geojson")
	_, err := Split(Options{InputPath: missing, OutputDir: t.TempDir(), FilePrefix: "x_"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}

func TestSplitCreatesOutputDir(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, []string{"A1"})
	outDir := filepath.Join(dir, "nested", "deep", "out")

	_, err := Split(Options{InputPath: input, OutputDir: outDir, FilePrefix: "p_"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "p_A1.geojson"))
	assert.NoError(t, err)
}
