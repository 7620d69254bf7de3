package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	stable "github.com/RobertTeunissen/ArmouredSouls-sub004/stable"
	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/analytics"
	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/logger"
	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/migration"
)

var (
	version = "dev"
	commit  = "unknown"
)

const defaultLookbackCycles = 10

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "roi":
		err = runROI(args)
	case "recommend":
		err = runRecommend(args)
	case "activity":
		err = runActivity(args)
	case "finance":
		err = runFinance(args)
	case "migrate":
		err = runMigrate(args)
	case "export-cycle":
		err = runExportCycle(args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("Command failed",
			slog.String("type", "cmd"),
			slog.String("name", cmd),
			slog.Any("error", err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: stableworks <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  roi           report realized ROI for facilities")
	fmt.Fprintln(os.Stderr, "  recommend     rank upgrade recommendations for an owner")
	fmt.Fprintln(os.Stderr, "  activity      report activity metrics for an owner")
	fmt.Fprintln(os.Stderr, "  finance       report per-cycle finances for an owner")
	fmt.Fprintln(os.Stderr, "  migrate       import the legacy battle archive")
	fmt.Fprintln(os.Stderr, "  export-cycle  upload a cycle's battle CSV to Spaces")
}

// setup loads config and connects. The returned cleanup closes the database.
func setup(ctx context.Context, configPath string) (*stable.App, func(), error) {
	cfg, err := stable.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	app := stable.New(*cfg, version, commit)
	if err := app.Setup(ctx); err != nil {
		return nil, nil, err
	}
	return app, app.Close, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runROI(args []string) error {
	fs := flag.NewFlagSet("roi", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "path to config")
	userID := fs.Int64("user", 0, "owner id")
	facility := fs.String("facility", "", "facility type or name (all facilities when empty)")
	asOf := fs.Int("as-of", 0, "cycle to evaluate at (current cycle when 0)")
	fs.Parse(args)

	if *userID == 0 {
		return fmt.Errorf("-user is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	app, cleanup, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	asOfCycle := *asOf
	if asOfCycle == 0 {
		asOfCycle, err = app.LedgerRepository.CurrentCycle(ctx)
		if err != nil {
			return err
		}
	}

	if *facility == "" {
		results, err := app.ROICalculator.CalculateAll(ctx, *userID, asOfCycle)
		if err != nil {
			return err
		}
		return printJSON(results)
	}

	facilityType, ok := analytics.ResolveFacilityType(*facility)
	if !ok {
		return fmt.Errorf("no facility matches %q", *facility)
	}
	result, err := app.ROICalculator.Calculate(ctx, *userID, facilityType, asOfCycle)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("owner %d has no %s", *userID, facilityType)
	}
	return printJSON(result)
}

func runRecommend(args []string) error {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "path to config")
	userID := fs.Int64("user", 0, "owner id")
	lookback := fs.Int("lookback", 0, "cycles to analyze (config default when 0)")
	fs.Parse(args)

	if *userID == 0 {
		return fmt.Errorf("-user is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	app, cleanup, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	lookbackCycles := *lookback
	if lookbackCycles <= 0 {
		lookbackCycles = app.Cfg.Analytics.DefaultLookbackCycles
	}
	if lookbackCycles <= 0 {
		lookbackCycles = defaultLookbackCycles
	}

	summary, err := app.Recommendations.Generate(ctx, *userID, lookbackCycles)
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func runActivity(args []string) error {
	fs := flag.NewFlagSet("activity", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "path to config")
	userID := fs.Int64("user", 0, "owner id")
	startCycle := fs.Int("start", 1, "first cycle of the window")
	endCycle := fs.Int("end", 0, "last cycle of the window (current cycle when 0)")
	fs.Parse(args)

	if *userID == 0 {
		return fmt.Errorf("-user is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	app, cleanup, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	end := *endCycle
	if end == 0 {
		end, err = app.LedgerRepository.CurrentCycle(ctx)
		if err != nil {
			return err
		}
	}
	if end < *startCycle {
		return fmt.Errorf("window end %d is before start %d", end, *startCycle)
	}

	metrics, err := app.Analyzer.Analyze(ctx, *userID, *startCycle, end)
	if err != nil {
		return err
	}
	return printJSON(metrics)
}

func runFinance(args []string) error {
	fs := flag.NewFlagSet("finance", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "path to config")
	userID := fs.Int64("user", 0, "owner id")
	lastN := fs.Int("cycles", defaultLookbackCycles, "number of trailing cycles")
	fs.Parse(args)

	if *userID == 0 {
		return fmt.Errorf("-user is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	app, cleanup, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := app.Finance.Summarize(ctx, *userID, *lastN)
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func runMigrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "path to config")
	batchSize := fs.Int("batch-size", 0, "cursor batch size override")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	app, cleanup, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	mongoDB, disconnect, err := app.ConnectMongo(ctx)
	if err != nil {
		return err
	}
	defer disconnect()

	migrator := migration.NewMigrator(
		mongoDB,
		app.Cfg.Mongo.Collection,
		app.EventRepository,
		app.BattleRepository,
	)
	if *batchSize > 0 {
		migrator.SetBatchSize(*batchSize)
	}

	if err := migrator.Run(ctx); err != nil {
		return err
	}
	stats := migrator.Stats()
	return printJSON(stats)
}

func runExportCycle(args []string) error {
	fs := flag.NewFlagSet("export-cycle", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "path to config")
	cycle := fs.Int("cycle", 0, "cycle number to export (latest completed when 0)")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	app, cleanup, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	if app.CycleExporter == nil {
		return fmt.Errorf("spaces credentials not configured")
	}

	cycleNumber := *cycle
	if cycleNumber == 0 {
		cycleNumber, err = app.SnapshotRepository.LatestCycle(ctx)
		if err != nil {
			return err
		}
		if cycleNumber == 0 {
			return fmt.Errorf("no completed cycles to export")
		}
	}

	key, err := app.CycleExporter.Export(ctx, cycleNumber)
	if err != nil {
		return err
	}
	slog.Info("Cycle export uploaded",
		slog.String("type", "cmd"),
		slog.Int("cycle", cycleNumber),
		slog.String("key", key),
		slog.String("bucket", app.SpacesService.GetBucket()))
	return nil
}
