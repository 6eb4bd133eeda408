package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"vahanpulse/internal/config"
	"vahanpulse/internal/dataprocessing"
	"vahanpulse/internal/exporter"
	"vahanpulse/internal/infrastructure"
	"vahanpulse/pkg/contracts/domain"
)

// processor is the batch counterpart of the web dashboard: it loads both
// registration sources once, aggregates them, and writes the aggregate
// tables as CSV reports.
func main() {
	dataDir := flag.String("data", "", "directory holding the source tables (defaults to configured data dir)")
	outDir := flag.String("out", "", "output directory for CSV reports (defaults to configured reports dir)")
	evOnly := flag.Bool("ev", false, "restrict the yearly source to electric vehicles")
	granularity := flag.String("granularity", "monthly", "trend granularity: monthly, quarterly or yearly")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Sources.DataDir = *dataDir
	}
	if *outDir != "" {
		cfg.Sources.ReportsDir = *outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	gran, ok := parseGranularity(*granularity)
	if !ok {
		logger.Error("unknown granularity", "granularity", *granularity)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, logger, *evOnly, gran); err != nil {
		logger.Error("processing failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, evOnly bool, gran dataprocessing.Granularity) error {
	loader := dataprocessing.NewLoader(cfg.Sources, logger, nil)
	reports := exporter.NewReportExporter(cfg.Sources.ReportsDir)

	yearly, err := loader.LoadYearly(ctx, evOnly)
	if err != nil {
		return err
	}
	monthly, err := loader.LoadMonthly(ctx, evOnly)
	if err != nil {
		return err
	}

	yearlyTotals := dataprocessing.AggregateGroups(yearly.Records, dataprocessing.GranularityYearly)
	if err := reports.ExportGroupTotals(yearlyTotals, "yearly_group_totals.csv"); err != nil {
		return err
	}

	monthlyTotals := dataprocessing.AggregateGroups(monthly.Records, gran)
	if err := reports.ExportGroupTotals(monthlyTotals, "trend_group_totals.csv"); err != nil {
		return err
	}

	series := make(map[domain.VehicleGroup][]domain.SeriesPoint)
	for _, g := range domain.VehicleGroups {
		if points := dataprocessing.GroupSeries(monthlyTotals, g); len(points) > 0 {
			series[g] = points
		}
	}
	if err := reports.ExportTrendSeries(series, "trends"); err != nil {
		return err
	}

	if yearly.HasMaker {
		makerTotals := dataprocessing.AggregateMakers(yearly.Records, dataprocessing.GranularityYearly)
		growth := dataprocessing.MakerGrowthTable(makerTotals)
		if err := reports.ExportMakerGrowth(growth, "maker_growth.csv"); err != nil {
			return err
		}
	} else {
		logger.Info("yearly source has no maker column, skipping maker growth report")
	}

	logger.Info("reports written",
		"reports_dir", cfg.Sources.ReportsDir,
		"yearly_records", len(yearly.Records),
		"monthly_records", len(monthly.Records))
	return nil
}

func parseGranularity(raw string) (dataprocessing.Granularity, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "monthly":
		return dataprocessing.GranularityMonthly, true
	case "quarterly":
		return dataprocessing.GranularityQuarterly, true
	case "yearly":
		return dataprocessing.GranularityYearly, true
	default:
		return "", false
	}
}
