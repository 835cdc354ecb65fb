package osm

import (
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// LoadShapefile reads road segments from a shapefile export of an OSM lines
// layer. Attribute lookup is by lowercased field name, so it tolerates the
// DBF's 10-character truncation conventions (other_tags survives intact).
func LoadShapefile(path string) ([]*Segment, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, eris.Errorf("osm: input file not found: %s", path)
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "osm: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	attr := func(name string) string {
		idx, ok := fieldIdx[name]
		if !ok {
			return ""
		}
		val := strings.TrimRight(reader.Attribute(idx), "\x00")
		return strings.TrimSpace(val)
	}

	var segments []*Segment
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		pl, ok := shape.(*shp.PolyLine)
		if !ok {
			skipped++
			continue
		}
		mls := polyLineToMultiLineString(pl)
		if mls == nil {
			skipped++
			continue
		}

		segments = append(segments, &Segment{
			ID:       attr("osm_id"),
			Name:     attr("name"),
			Highway:  attr("highway"),
			Tags:     ParseHstore(attr("other_tags")),
			Geometry: mls,
		})
	}

	if skipped > 0 {
		zap.L().Debug("osm: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return segments, nil
}

// polyLineToMultiLineString converts a shapefile PolyLine to a geom.MultiLineString.
func polyLineToMultiLineString(pl *shp.PolyLine) *geom.MultiLineString {
	if pl == nil || pl.NumParts == 0 || len(pl.Points) == 0 {
		return nil
	}

	mls := geom.NewMultiLineString(geom.XY)

	for i := int32(0); i < pl.NumParts; i++ {
		start := pl.Parts[i]
		var end int32
		if i+1 < pl.NumParts {
			end = pl.Parts[i+1]
		} else {
			end = int32(len(pl.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, pl.Points[j].X, pl.Points[j].Y)
		}

		ls := geom.NewLineStringFlat(geom.XY, flat)
		if err := mls.Push(ls); err != nil {
			zap.L().Debug("osm: skipping malformed linestring part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mls.NumLineStrings() == 0 {
		return nil
	}
	return mls
}
