package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/traffic-ontology/trafficprep/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "trafficprep",
	Short: "Batch data preparation for the traffic-safety research datasets",
	Long:  "Splits the NDW traffic-sign GeoJSON export into per-RVV-code chunks and enriches BRON accident records with attributes of the nearest same-named OSM road segment.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
