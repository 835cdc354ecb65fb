package geojson

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCollection = `{
	"type": "FeatureCollection",
	"name": "signs",
	"crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:OGC:1.3:CRS84"}},
	"features": [
		{
			"type": "Feature",
			"properties": {"rvvCode": "A1", "count": 3, "nested": {"a": [1, 2]}},
			"geometry": {"type": "Point", "coordinates": [4.895, 52.37]}
		}
	]
}`

func TestReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.geojson")
	require.NoError(t, os.WriteFile(in, []byte(sampleCollection), 0o644))

	fc, err := Read(in)
	require.NoError(t, err)
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 1)

	out := filepath.Join(dir, "out.geojson")
	require.NoError(t, Write(out, fc))

	fc2, err := Read(out)
	require.NoError(t, err)

	// CRS and arbitrary property content survive the round trip.
	assert.JSONEq(t, string(fc.CRS), string(fc2.CRS))
	assert.JSONEq(t,
		string(fc.Features[0].Properties["nested"]),
		string(fc2.Features[0].Properties["nested"]),
	)
	assert.JSONEq(t, string(fc.Features[0].Geometry), string(fc2.Features[0].Geometry))
}

func TestReadMissingFileNamesPath(t *testing.T) {
	_, err := Read("/nonexistent/signs.geojson")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nonexistent/signs.geojson")
}

func TestReadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.geojson")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Read(path)
	assert.Error(t, err)
}

func TestStringProperty(t *testing.T) {
	f := Feature{Properties: map[string]json.RawMessage{
		"rvvCode": json.RawMessage(`"C1"`),
		"count":   json.RawMessage(`7`),
	}}

	v, ok := f.StringProperty("rvvCode")
	assert.True(t, ok)
	assert.Equal(t, "C1", v)

	_, ok = f.StringProperty("count")
	assert.False(t, ok, "non-string property is not a string property")

	_, ok = f.StringProperty("missing")
	assert.False(t, ok)
}
