package splitter

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Manifest lists every chunk a split run produced.
type Manifest struct {
	TotalChunks int     `json:"total_chunks"`
	Chunks      []Chunk `json:"chunks"`
}

// Chunk describes one output file.
type Chunk struct {
	Filename string  `json:"filename"`
	Path     string  `json:"path"`
	SizeMB   float64 `json:"size_mb"`
}

// writeManifest stats every written chunk and records its size in megabytes,
// rounded to two decimals. Returns the manifest path.
func writeManifest(outputDir string, files []string) (string, error) {
	m := Manifest{TotalChunks: len(files), Chunks: make([]Chunk, 0, len(files))}
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return "", eris.Wrapf(err, "splitter: stat chunk %s", path)
		}
		m.Chunks = append(m.Chunks, Chunk{
			Filename: filepath.Base(path),
			Path:     path,
			SizeMB:   roundMB(info.Size()),
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "splitter: marshal manifest")
	}

	path := filepath.Join(outputDir, "metadata.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "splitter: write manifest %s", path)
	}
	return path, nil
}

func roundMB(bytes int64) float64 {
	return math.Round(float64(bytes)/(1024*1024)*100) / 100
}
