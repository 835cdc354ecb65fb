// Package matcher joins accident points to the nearest road segment sharing
// the same street name. Partitioning by exact street name keeps an accident
// from snapping to a closer road that belongs to a different street, at the
// cost of losing accidents on streets absent from the OSM export.
package matcher

import (
	"context"
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/traffic-ontology/trafficprep/internal/bron"
	"github.com/traffic-ontology/trafficprep/internal/osm"
)

// ErrNoMatches is returned when a non-empty accident set produces zero
// matches; downstream consumers need a non-empty enriched dataset, so an
// empty one is a hard failure rather than a silently empty file.
var ErrNoMatches = eris.New("matcher: no accidents matched any road segment")

// Options configures a matching run.
type Options struct {
	Concurrency int  // street partitions processed in parallel; <=1 means sequential
	Progress    bool // render a progress bar over the street loop
}

// Result pairs an accident with its nearest same-named segment.
type Result struct {
	Point     *bron.Record
	Segment   *osm.Segment
	DistanceM float64
}

// Match joins every accident to the nearest segment whose name equals the
// accident's street name exactly. Both inputs must already be in RD New
// coordinates. Streets with no same-named segment are skipped; their
// accidents produce no output rows.
//
// Output is ordered by street name, then by accident input order within a
// street, so identical inputs yield identical output.
func Match(ctx context.Context, ds *bron.Dataset, segments []*osm.Segment, opts Options) ([]Result, error) {
	log := zap.L().With(zap.String("component", "matcher"))

	if len(ds.Records) == 0 {
		log.Warn("empty accident dataset, nothing to match")
		return nil, nil
	}

	segsByName := indexSegments(segments)

	// Partition accidents by street name.
	pointsByStreet := make(map[string][]*bron.Record)
	for _, rec := range ds.Records {
		pointsByStreet[rec.Street] = append(pointsByStreet[rec.Street], rec)
	}
	streets := make([]string, 0, len(pointsByStreet))
	for street := range pointsByStreet {
		streets = append(streets, street)
	}
	sort.Strings(streets)
	log.Info("matching accidents to roads",
		zap.Int("accidents", len(ds.Records)),
		zap.Int("streets", len(streets)),
		zap.Int("segments", len(segments)),
	)

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.Default(int64(len(streets)), "matching streets")
	}

	// Each street's computation is independent; per-street slots mean the
	// workers share no accumulator.
	perStreet := make([][]Result, len(streets))
	g, gctx := errgroup.WithContext(ctx)
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, street := range streets {
		i, street := i, street
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			candidates := segsByName[street]
			if len(candidates) > 0 {
				perStreet[i] = matchStreet(pointsByStreet[street], candidates)
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "matcher: street workers")
	}

	var results []Result
	var skippedStreets int
	for i := range perStreet {
		if perStreet[i] == nil {
			skippedStreets++
			continue
		}
		results = append(results, perStreet[i]...)
	}

	if len(results) == 0 {
		return nil, eris.Wrapf(ErrNoMatches,
			"%d accidents over %d streets, %d streets had no same-named segment",
			len(ds.Records), len(streets), skippedStreets)
	}

	log.Info("matching complete",
		zap.Int("matched", len(results)),
		zap.Int("accidents", len(ds.Records)),
		zap.Int("streets_without_roads", skippedStreets),
	)
	return results, nil
}

// indexSegments groups segments by exact name, each group sorted by segment
// id. The sorted order plus the strict comparison in nearestSegment gives a
// deterministic tie-break: equal distances resolve to the lowest id.
func indexSegments(segments []*osm.Segment) map[string][]*osm.Segment {
	byName := make(map[string][]*osm.Segment)
	for _, seg := range segments {
		byName[seg.Name] = append(byName[seg.Name], seg)
	}
	for _, group := range byName {
		sort.Slice(group, func(i, j int) bool { return lessID(group[i].ID, group[j].ID) })
	}
	return byName
}

// lessID gives candidates a deterministic order, which is all the tie-break
// needs. Plain digit ids without leading zeros happen to compare
// numerically (shorter means smaller); anything else, including
// zero-padded ids, gets length-then-lexicographic order, arbitrary but
// stable.
func lessID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func matchStreet(points []*bron.Record, candidates []*osm.Segment) []Result {
	results := make([]Result, 0, len(points))
	for _, p := range points {
		seg, dist := nearestSegment(p, candidates)
		results = append(results, Result{Point: p, Segment: seg, DistanceM: dist})
	}
	return results
}

func nearestSegment(p *bron.Record, candidates []*osm.Segment) (*osm.Segment, float64) {
	pt := geom.Coord{p.X, p.Y}
	best := candidates[0]
	bestDist := segmentDistance(pt, best)
	for _, seg := range candidates[1:] {
		if d := segmentDistance(pt, seg); d < bestDist {
			best, bestDist = seg, d
		}
	}
	return best, bestDist
}

// segmentDistance is the minimum planar distance from a point to any part
// of a segment's polyline. A segment without parts is infinitely far away,
// so it can never win a nearest comparison.
func segmentDistance(pt geom.Coord, seg *osm.Segment) float64 {
	mls := seg.Geometry
	best := math.Inf(1)
	for i := 0; i < mls.NumLineStrings(); i++ {
		ls := mls.LineString(i)
		d := xy.DistanceFromPointToLineString(ls.Layout(), pt, ls.FlatCoords())
		if d < best {
			best = d
		}
	}
	return best
}
