package stable

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/analytics"
	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database"
	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/repositories"
	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/services"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func New(cfg Config, version string, commit string) *App {
	return &App{
		Cfg:     cfg,
		Version: version,
		Commit:  commit,
	}
}

// App wires the repositories and analytics engines over one database handle.
type App struct {
	Cfg     Config
	Version string
	Commit  string

	DB                 *database.DB
	EventRepository    repositories.EventRepository
	LedgerRepository   repositories.LedgerRepository
	SnapshotRepository repositories.SnapshotRepository
	BattleRepository   repositories.BattleRepository

	ROICalculator   *analytics.Calculator
	Analyzer        *analytics.Analyzer
	Recommendations *analytics.Engine
	Finance         *analytics.FinanceReporter
	SpacesService   *services.SpacesService
	CycleExporter   *services.CycleExporter
}

// Setup connects to Postgres, ensures the schema, and builds the engines.
func (a *App) Setup(ctx context.Context) error {
	db, err := database.New(ctx, a.Cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.DB = db

	if err := db.InitializeSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	bunDB := db.BunDB()
	a.EventRepository = repositories.NewEventRepository(bunDB)
	a.LedgerRepository = repositories.NewLedgerRepository(bunDB)
	a.SnapshotRepository = repositories.NewSnapshotRepository(bunDB)
	a.BattleRepository = repositories.NewBattleRepository(bunDB)

	a.ROICalculator = analytics.NewCalculator(a.EventRepository, a.LedgerRepository, a.BattleRepository)
	a.Analyzer = analytics.NewAnalyzer(a.EventRepository, a.SnapshotRepository, a.LedgerRepository)
	a.Recommendations = analytics.NewEngine(a.Analyzer, a.LedgerRepository)
	a.Finance = analytics.NewFinanceReporter(a.SnapshotRepository)

	if a.Cfg.Spaces.Key != "" {
		a.SpacesService = services.NewSpacesService(
			a.Cfg.Spaces.Key,
			a.Cfg.Spaces.Secret,
			a.Cfg.Spaces.Region,
			a.Cfg.Spaces.Bucket,
			a.Cfg.Spaces.ExportRoot,
		)
		a.CycleExporter = services.NewCycleExporter(
			a.EventRepository,
			a.BattleRepository,
			a.LedgerRepository,
			a.SpacesService,
		)
	}

	slog.Info("Analytics engine ready",
		slog.String("version", a.Version),
		slog.String("commit", a.Commit))
	return nil
}

// ConnectMongo opens the legacy archive connection for imports.
func (a *App) ConnectMongo(ctx context.Context) (*mongo.Database, func(), error) {
	if a.Cfg.Mongo.URI == "" {
		return nil, nil, fmt.Errorf("mongo uri not configured")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(a.Cfg.Mongo.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	cleanup := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect mongo", slog.Any("error", err))
		}
	}
	return client.Database(a.Cfg.Mongo.Database), cleanup, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
