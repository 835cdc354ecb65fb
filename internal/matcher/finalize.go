package matcher

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/traffic-ontology/trafficprep/internal/osm"
)

// Columns appended to the original accident schema. The segment's own name
// column is emitted as osm_road_name so it cannot shadow the accident's
// street-name column.
var enrichedColumns = []string{
	"osm_id",
	"osm_road_name",
	"highway",
	"maxspeed",
	"surface",
	"zone_traffic",
	"match_distance_m",
}

// WriteEnriched writes the matched accidents as a flat CSV: every original
// column followed by the matched segment's attributes. Unmatched accidents
// never reach this function, so no row filtering happens here.
func WriteEnriched(path string, header []string, results []Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "matcher: create output dir for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "matcher: create %s", path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)

	outHeader := make([]string, 0, len(header)+len(enrichedColumns))
	outHeader = append(outHeader, header...)
	outHeader = append(outHeader, enrichedColumns...)
	if err := w.Write(outHeader); err != nil {
		return eris.Wrapf(err, "matcher: write header to %s", path)
	}

	for _, r := range results {
		row := make([]string, 0, len(outHeader))
		row = append(row, r.Point.Row...)
		// Pad short rows so the appended columns stay aligned.
		for len(row) < len(header) {
			row = append(row, "")
		}
		row = append(row, enrichedValues(r)...)
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "matcher: write row to %s", path)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "matcher: flush %s", path)
	}

	zap.L().Info("wrote enriched accidents",
		zap.String("path", path),
		zap.Int("rows", len(results)),
	)
	return nil
}

func enrichedValues(r Result) []string {
	seg := r.Segment
	maxspeed, _ := seg.Tag(osm.TagMaxSpeed)
	surface, _ := seg.Tag(osm.TagSurface)
	zone, _ := seg.Tag(osm.TagZoneTraffic)
	return []string{
		seg.ID,
		seg.Name,
		seg.Highway,
		maxspeed,
		surface,
		zone,
		strconv.FormatFloat(r.DistanceM, 'f', 2, 64),
	}
}
