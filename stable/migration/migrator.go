package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultBatchSize = 500

// Migrator imports the legacy Mongo battle archive into the economic event
// log and the battle participants table. It can be re-run: already imported
// battles are skipped by battle id.
type Migrator struct {
	mongoDB    *mongo.Database
	collection string
	events     repositories.EventRepository
	battles    repositories.BattleRepository
	batchSize  int
	stats      MigrationStats
}

func NewMigrator(
	mongoDB *mongo.Database,
	collection string,
	events repositories.EventRepository,
	battles repositories.BattleRepository,
) *Migrator {
	return &Migrator{
		mongoDB:    mongoDB,
		collection: collection,
		events:     events,
		battles:    battles,
		batchSize:  defaultBatchSize,
		stats:      MigrationStats{StartTime: time.Now()},
	}
}

// SetBatchSize overrides the cursor batch size (useful behind poolers)
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

func (m *Migrator) Stats() MigrationStats {
	return m.stats
}

// Run streams the archive in createdAt order and imports every battle. The
// first archived battle anchors the cycle estimate, so it must come first.
func (m *Migrator) Run(ctx context.Context) error {
	coll := m.mongoDB.Collection(m.collection)

	epoch, err := m.findEpoch(ctx, coll)
	if err != nil {
		return err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetBatchSize(int32(m.batchSize))
	cursor, err := coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return fmt.Errorf("failed to open archive cursor: %w", err)
	}
	defer cursor.Close(ctx)

	imported := make(map[int64]bool)
	for cursor.Next(ctx) {
		var battle LegacyBattle
		if err := cursor.Decode(&battle); err != nil {
			return fmt.Errorf("failed to decode archive battle: %w", err)
		}
		m.stats.BattlesRead++

		if battle.BattleID == 0 || imported[battle.BattleID] {
			m.stats.BattlesSkipped++
			continue
		}
		imported[battle.BattleID] = true

		if err := m.importBattle(ctx, &battle, epoch); err != nil {
			return fmt.Errorf("failed to import battle %d: %w", battle.BattleID, err)
		}

		if m.stats.FirstBattleAt.IsZero() {
			m.stats.FirstBattleAt = battle.CreatedAt
		}
		m.stats.LastBattleAt = battle.CreatedAt

		if m.stats.BattlesImported%1000 == 0 {
			slog.Info("Archive import progress",
				slog.String("type", "db"),
				slog.Int("imported", m.stats.BattlesImported),
				slog.Int("read", m.stats.BattlesRead),
			)
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("archive cursor failed: %w", err)
	}

	m.stats.EstimatedCycles = cycleForTimestamp(epoch, m.stats.LastBattleAt)
	slog.Info("Archive import complete",
		slog.String("type", "db"),
		slog.Int("battles", m.stats.BattlesImported),
		slog.Int("events", m.stats.EventsWritten),
		slog.Int("skipped", m.stats.BattlesSkipped),
		slog.Int("cycles", m.stats.EstimatedCycles),
		slog.Duration("took", time.Since(m.stats.StartTime)),
	)
	return nil
}

func (m *Migrator) findEpoch(ctx context.Context, coll *mongo.Collection) (time.Time, error) {
	findOpts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	var first LegacyBattle
	err := coll.FindOne(ctx, bson.D{}, findOpts).Decode(&first)
	if err == mongo.ErrNoDocuments {
		return time.Time{}, fmt.Errorf("battle archive is empty")
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to find first archived battle: %w", err)
	}
	return first.CreatedAt.Truncate(24 * time.Hour), nil
}

func (m *Migrator) importBattle(ctx context.Context, battle *LegacyBattle, epoch time.Time) error {
	events, participants := convertBattle(battle, epoch)

	if err := m.battles.Insert(ctx, participants); err != nil {
		return err
	}
	m.stats.ParticipantsRows += len(participants)

	for _, event := range events {
		if err := m.events.Log(ctx, event); err != nil {
			return err
		}
		m.stats.EventsWritten++
	}
	m.stats.BattlesImported++
	return nil
}
