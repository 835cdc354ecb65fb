// Package osm loads road segments from OpenStreetMap exports and decodes
// their hstore-style tag blobs into discrete attributes.
package osm

import (
	"regexp"

	"github.com/twpayne/go-geom"
)

// Tag keys carried through to the enriched accident output.
const (
	TagMaxSpeed    = "maxspeed"
	TagSurface     = "surface"
	TagZoneTraffic = "zone:traffic"
)

// Segment is one road segment from an OSM lines layer.
//
// Tags holds the full decoded other_tags set. A key absent from the blob is
// absent from the map, which is distinct from a key mapped to "": downstream
// consumers use Tag to tell the two apart.
type Segment struct {
	ID       string
	Name     string
	Highway  string
	Tags     map[string]string
	Geometry *geom.MultiLineString
}

// Tag returns the value of an other_tags key and whether it was present.
func (s *Segment) Tag(key string) (string, bool) {
	v, ok := s.Tags[key]
	return v, ok
}

var hstorePair = regexp.MustCompile(`"(.*?)"=>"(.*?)"`)

// ParseHstore decodes a PostGIS hstore-formatted string, as emitted in the
// other_tags column of ogr2ogr OSM exports, into a key/value map.
//
// Malformed or empty input degrades to an empty map; pairs with unbalanced
// quotes simply do not match. This function never fails: a segment without
// usable tags is a segment with no extra attributes, not an error.
func ParseHstore(s string) map[string]string {
	tags := make(map[string]string)
	for _, m := range hstorePair.FindAllStringSubmatch(s, -1) {
		tags[m[1]] = m[2]
	}
	return tags
}
