// Package splitter chunks the national traffic-sign GeoJSON export into one
// file per RVV sign category so the pieces stay under repository size limits.
package splitter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/traffic-ontology/trafficprep/internal/geojson"
)

// UnknownCode is the category assigned to features without an rvvCode property.
const UnknownCode = "unknown"

// Options configures a split run.
type Options struct {
	InputPath  string
	OutputDir  string
	FilePrefix string
}

// CategoryCount reports how many features a category received.
type CategoryCount struct {
	Code     string
	Features int
}

// Summary describes the outcome of a split run.
type Summary struct {
	Categories   []CategoryCount
	FilesWritten int
	ManifestPath string
}

// SanitizeCode makes a category code safe for use in a filename by
// substituting path separators and spaces. Idempotent.
func SanitizeCode(code string) string {
	return strings.NewReplacer("/", "_", " ", "_").Replace(code)
}

// Split reads the input feature collection, groups features by rvvCode and
// writes one feature collection per category plus a manifest. Every input
// feature lands in exactly one output file.
func Split(opts Options) (*Summary, error) {
	log := zap.L().With(zap.String("component", "splitter"))

	fc, err := geojson.Read(opts.InputPath)
	if err != nil {
		return nil, eris.Wrap(err, "splitter: load input")
	}
	log.Info("loaded traffic signs",
		zap.String("input", opts.InputPath),
		zap.Int("features", len(fc.Features)),
	)

	// Single grouping pass; input order is preserved within each category.
	byCode := make(map[string][]geojson.Feature)
	for _, f := range fc.Features {
		code, ok := f.StringProperty("rvvCode")
		if !ok {
			code = UnknownCode
		}
		byCode[code] = append(byCode[code], f)
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "splitter: create output dir %s", opts.OutputDir)
	}

	summary := &Summary{}
	var written []string
	for _, code := range codes {
		features := byCode[code]
		chunk := &geojson.FeatureCollection{
			Type:     "FeatureCollection",
			Name:     opts.FilePrefix + code,
			CRS:      fc.CRS,
			Features: features,
		}

		name := fmt.Sprintf("%s%s.geojson", opts.FilePrefix, SanitizeCode(code))
		path := filepath.Join(opts.OutputDir, name)
		if err := geojson.Write(path, chunk); err != nil {
			return nil, eris.Wrapf(err, "splitter: write category %s", code)
		}

		written = append(written, path)
		summary.Categories = append(summary.Categories, CategoryCount{Code: code, Features: len(features)})
		log.Debug("wrote category chunk",
			zap.String("rvv_code", code),
			zap.Int("features", len(features)),
			zap.String("file", path),
		)
	}
	summary.FilesWritten = len(written)

	manifestPath, err := writeManifest(opts.OutputDir, written)
	if err != nil {
		return nil, err
	}
	summary.ManifestPath = manifestPath

	log.Info("split complete",
		zap.Int("categories", len(codes)),
		zap.Int("files", summary.FilesWritten),
		zap.String("manifest", manifestPath),
	)
	return summary, nil
}
