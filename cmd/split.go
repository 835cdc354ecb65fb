package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/traffic-ontology/trafficprep/internal/splitter"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split the traffic-sign GeoJSON export by RVV code",
	Long: `Reads the NDW traffic-sign feature collection and writes one GeoJSON file
per RVV sign category, plus a metadata.json manifest listing every chunk
with its size. Signs without an rvvCode property land in the "unknown" chunk.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := splitter.Options{
			InputPath:  cfg.Split.InputPath,
			OutputDir:  cfg.Split.OutputDir,
			FilePrefix: cfg.Split.FilePrefix,
		}
		if v, _ := cmd.Flags().GetString("input"); v != "" {
			opts.InputPath = v
		}
		if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
			opts.OutputDir = v
		}
		if v, _ := cmd.Flags().GetString("prefix"); v != "" {
			opts.FilePrefix = v
		}

		zap.L().Info("starting traffic-sign split",
			zap.String("input", opts.InputPath),
			zap.String("output_dir", opts.OutputDir),
		)

		summary, err := splitter.Split(opts)
		if err != nil {
			return eris.Wrap(err, "split")
		}

		for _, c := range summary.Categories {
			fmt.Printf("  %-12s %8d signs\n", c.Code, c.Features)
		}
		fmt.Printf("Wrote %d files, manifest at %s\n", summary.FilesWritten, summary.ManifestPath)
		return nil
	},
}

func init() {
	splitCmd.Flags().String("input", "", "traffic-sign GeoJSON file (default: from config)")
	splitCmd.Flags().String("output-dir", "", "directory for per-category chunks (default: from config)")
	splitCmd.Flags().String("prefix", "", "output filename prefix (default: from config)")
	rootCmd.AddCommand(splitCmd)
}
