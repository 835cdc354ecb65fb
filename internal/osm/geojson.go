package osm

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	geomjson "github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/traffic-ontology/trafficprep/internal/geojson"
)

// LoadGeoJSON reads road segments from a GeoJSON export of an OSM lines
// layer. Features whose geometry is not a LineString or MultiLineString are
// skipped, as are features without a decodable geometry.
func LoadGeoJSON(path string) ([]*Segment, error) {
	fc, err := geojson.Read(path)
	if err != nil {
		return nil, eris.Wrap(err, "osm: load lines layer")
	}

	segments := make([]*Segment, 0, len(fc.Features))
	var skipped int
	for _, f := range fc.Features {
		if len(f.Geometry) == 0 {
			skipped++
			continue
		}

		var g geom.T
		if err := geomjson.Unmarshal(f.Geometry, &g); err != nil {
			skipped++
			continue
		}

		var mls *geom.MultiLineString
		switch t := g.(type) {
		case *geom.LineString:
			mls = geom.NewMultiLineString(t.Layout())
			if err := mls.Push(t); err != nil {
				skipped++
				continue
			}
		case *geom.MultiLineString:
			mls = t
		default:
			skipped++
			continue
		}

		mls = normalizeLines(mls)
		if mls == nil {
			skipped++
			continue
		}

		seg := &Segment{Geometry: mls}
		seg.ID, _ = f.StringProperty("osm_id")
		seg.Name, _ = f.StringProperty("name")
		seg.Highway, _ = f.StringProperty("highway")
		blob, _ := f.StringProperty("other_tags")
		seg.Tags = ParseHstore(blob)

		segments = append(segments, seg)
	}

	if skipped > 0 {
		zap.L().Debug("osm: skipped features without usable line geometry",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return segments, nil
}

// normalizeLines rebuilds mls keeping only parts with at least two
// vertices. Returns nil when no usable part remains; some exports emit an
// empty MultiLineString for roads clipped away by the extract boundary, and
// a zero-extent segment must never enter a nearest comparison.
func normalizeLines(mls *geom.MultiLineString) *geom.MultiLineString {
	out := geom.NewMultiLineString(mls.Layout())
	for i := 0; i < mls.NumLineStrings(); i++ {
		ls := mls.LineString(i)
		if ls.NumCoords() < 2 {
			continue
		}
		if err := out.Push(ls); err != nil {
			continue
		}
	}
	if out.NumLineStrings() == 0 {
		return nil
	}
	return out
}
