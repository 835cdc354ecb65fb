package osm

import (
	"github.com/rotisserie/eris"

	"github.com/traffic-ontology/trafficprep/internal/config"
)

// Load reads the configured road network, dispatching on format.
func Load(cfg config.RoadNetwork) ([]*Segment, error) {
	switch cfg.Format {
	case "", "geojson":
		return LoadGeoJSON(cfg.Path)
	case "shapefile":
		return LoadShapefile(cfg.Path)
	default:
		return nil, eris.Errorf("osm: unsupported road network format %q", cfg.Format)
	}
}
