package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/traffic-ontology/trafficprep/internal/bron"
	"github.com/traffic-ontology/trafficprep/internal/crs"
	"github.com/traffic-ontology/trafficprep/internal/matcher"
	"github.com/traffic-ontology/trafficprep/internal/osm"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match BRON accidents to the nearest same-named OSM road segment",
	Long: `Loads the OSM road network once, decodes the other_tags hstore column and
projects everything to RD New (EPSG:28992). Then, per configured year, joins
each accident to the nearest road segment sharing its exact street name and
writes the enriched CSV. A year whose accident file is missing is skipped
with a warning; a year producing zero matches fails the run.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := zap.L().With(zap.String("command", "match"))

		years, err := resolveYears(cmd)
		if err != nil {
			return err
		}

		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if concurrency == 0 {
			concurrency = cfg.Match.Concurrency
		}
		noProgress, _ := cmd.Flags().GetBool("no-progress")
		opts := matcher.Options{
			Concurrency: concurrency,
			Progress:    cfg.Match.Progress && !noProgress,
		}

		// Load the road network once, common for all years.
		log.Info("loading OSM road network",
			zap.String("path", cfg.Roads.Path),
			zap.String("format", cfg.Roads.Format),
		)
		segments, err := osm.Load(cfg.Roads)
		if err != nil {
			return eris.Wrap(err, "match: load road network")
		}
		for _, seg := range segments {
			seg.Geometry = crs.ProjectMultiLineString(seg.Geometry)
		}
		log.Info("road network ready", zap.Int("segments", len(segments)))

		for _, year := range years {
			accidentsPath := cfg.Match.AccidentFiles[year]
			outputPath := cfg.Match.OutputFiles[year]
			yLog := log.With(zap.String("year", year))

			if _, err := os.Stat(accidentsPath); os.IsNotExist(err) {
				yLog.Warn("accidents file not found, skipping year",
					zap.String("path", accidentsPath))
				continue
			}

			ds, err := bron.Load(accidentsPath, cfg.Match.Columns, cfg.Match.Encoding)
			if err != nil {
				return eris.Wrapf(err, "match: load accidents for %s", year)
			}
			ds.Project()
			yLog.Info("loaded accidents",
				zap.Int("records", len(ds.Records)),
				zap.Int("dropped", ds.Dropped),
			)

			results, err := matcher.Match(ctx, ds, segments, opts)
			if err != nil {
				return eris.Wrapf(err, "match: year %s", year)
			}

			if err := matcher.WriteEnriched(outputPath, ds.Header, results); err != nil {
				return eris.Wrapf(err, "match: write output for %s", year)
			}
			fmt.Printf("%s: matched %d of %d accidents -> %s\n",
				year, len(results), len(ds.Records), outputPath)
		}

		return nil
	},
}

func init() {
	matchCmd.Flags().String("years", "", "comma-separated years to process (default: all configured)")
	matchCmd.Flags().Int("concurrency", 0, "parallel street partitions (default: from config)")
	matchCmd.Flags().Bool("no-progress", false, "disable the street progress bar")
	rootCmd.AddCommand(matchCmd)
}

// resolveYears returns the years to process, either from --years or all
// configured years, and checks each has an accident input and an output path.
func resolveYears(cmd *cobra.Command) ([]string, error) {
	var years []string
	if s, _ := cmd.Flags().GetString("years"); s != "" {
		for _, y := range strings.Split(s, ",") {
			years = append(years, strings.TrimSpace(y))
		}
	} else {
		for year := range cfg.Match.AccidentFiles {
			years = append(years, year)
		}
	}
	sort.Strings(years)

	if len(years) == 0 {
		return nil, eris.New("match: no years configured under match.accident_files")
	}
	for _, year := range years {
		if cfg.Match.AccidentFiles[year] == "" {
			return nil, eris.Errorf("match: no accidents file configured for year %s", year)
		}
		if cfg.Match.OutputFiles[year] == "" {
			return nil, eris.Errorf("match: no output file configured for year %s", year)
		}
	}
	return years, nil
}
