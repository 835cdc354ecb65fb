// Package geojson reads and writes GeoJSON feature collections without
// interpreting geometry or properties, so arbitrary feature content survives
// a split-and-rewrite round trip byte-for-byte at the value level.
package geojson

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// FeatureCollection is a GeoJSON FeatureCollection. CRS is kept raw because
// it is a foreign member (dropped in RFC 7946) that NDW exports
// still carry and output chunks must preserve.
type FeatureCollection struct {
	Type     string          `json:"type"`
	Name     string          `json:"name,omitempty"`
	CRS      json.RawMessage `json:"crs,omitempty"`
	Features []Feature       `json:"features"`
}

// Feature is a single GeoJSON feature. Geometry and property values stay
// raw; callers decode the few properties they need.
type Feature struct {
	Type       string                     `json:"type"`
	Properties map[string]json.RawMessage `json:"properties"`
	Geometry   json.RawMessage            `json:"geometry"`
}

// StringProperty decodes the named property as a string.
// Returns ok=false when the property is absent or not a JSON string.
func (f Feature) StringProperty(key string) (string, bool) {
	raw, ok := f.Properties[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Read loads a feature collection from path. A missing file is reported
// with the expected path so the operator knows where to place the input.
func Read(path string) (*FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Errorf("geojson: input file not found: %s", path)
		}
		return nil, eris.Wrapf(err, "geojson: read %s", path)
	}

	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "geojson: parse %s", path)
	}
	return &fc, nil
}

// Write marshals a feature collection to path.
func Write(path string, fc *FeatureCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return eris.Wrapf(err, "geojson: marshal %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "geojson: write %s", path)
	}
	return nil
}
