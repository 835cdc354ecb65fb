// Package bron loads cleaned BRON accident tables. BRON is the Dutch
// national registry of road accidents; the cleaned per-year CSVs carry at
// minimum a longitude, latitude and street-name column plus arbitrary
// further attributes that must survive to the enriched output unchanged.
package bron

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/traffic-ontology/trafficprep/internal/config"
	"github.com/traffic-ontology/trafficprep/internal/crs"
)

// Record is one accident with a usable location.
//
// Row preserves the original CSV row verbatim so the enriched output keeps
// every input column. X and Y are filled by Dataset.Project.
type Record struct {
	Row       []string
	Longitude float64
	Latitude  float64
	Street    string
	X, Y      float64
}

// Dataset is a fully loaded accident table.
type Dataset struct {
	Header  []string
	Records []*Record
	Dropped int // rows without usable longitude, latitude or street name
}

// Load reads an accident CSV. Rows lacking a parsable longitude/latitude or
// a street name are dropped and counted, matching the cleaning step the
// matcher expects. A missing file is fatal and reports the expected path;
// a missing required column is fatal too.
func Load(path string, cols config.Columns, encoding string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Errorf("bron: accidents file not found: %s", path)
		}
		return nil, eris.Wrapf(err, "bron: open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
	case "latin1", "iso-8859-1":
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, eris.Errorf("bron: unsupported encoding %q", encoding)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "bron: read header of %s", path)
	}

	lonIdx, err := columnIndex(header, cols.Longitude)
	if err != nil {
		return nil, err
	}
	latIdx, err := columnIndex(header, cols.Latitude)
	if err != nil {
		return nil, err
	}
	streetIdx, err := columnIndex(header, cols.Street)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Header: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "bron: read row of %s", path)
		}

		rec, ok := parseRecord(row, lonIdx, latIdx, streetIdx)
		if !ok {
			ds.Dropped++
			continue
		}
		ds.Records = append(ds.Records, rec)
	}

	if ds.Dropped > 0 {
		zap.L().Debug("bron: dropped rows without usable location",
			zap.String("path", path),
			zap.Int("dropped", ds.Dropped),
		)
	}

	return ds, nil
}

// Project fills each record's X and Y with RD New coordinates.
func (d *Dataset) Project() {
	for _, rec := range d.Records {
		rec.X, rec.Y = crs.WGS84ToRD(rec.Longitude, rec.Latitude)
	}
}

func parseRecord(row []string, lonIdx, latIdx, streetIdx int) (*Record, bool) {
	max := lonIdx
	if latIdx > max {
		max = latIdx
	}
	if streetIdx > max {
		max = streetIdx
	}
	if len(row) <= max {
		return nil, false
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(row[lonIdx]), 64)
	if err != nil {
		return nil, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(row[latIdx]), 64)
	if err != nil {
		return nil, false
	}
	street := row[streetIdx]
	if street == "" {
		return nil, false
	}

	return &Record{Row: row, Longitude: lon, Latitude: lat, Street: street}, true
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if col == name {
			return i, nil
		}
	}
	return 0, eris.Errorf("bron: required column %q not in header", name)
}
