package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
	"github.com/uptrace/bun"
)

// SnapshotRepository serves cycle snapshots written by the cycle scheduler.
type SnapshotRepository interface {
	Snapshots(ctx context.Context, startCycle, endCycle int) ([]*models.CycleSnapshot, error)
	Snapshot(ctx context.Context, cycleNumber int) (*models.CycleSnapshot, error)
	LatestCycle(ctx context.Context) (int, error)
	Save(ctx context.Context, snapshot *models.CycleSnapshot) error
}

type snapshotRepository struct {
	db *bun.DB
}

func NewSnapshotRepository(db *bun.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Snapshots(ctx context.Context, startCycle, endCycle int) ([]*models.CycleSnapshot, error) {
	var snapshots []*models.CycleSnapshot
	err := r.db.NewSelect().
		Model(&snapshots).
		Where("cs.cycle_number >= ?", startCycle).
		Where("cs.cycle_number <= ?", endCycle).
		Order("cycle_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots %d-%d: %w", startCycle, endCycle, err)
	}
	return snapshots, nil
}

func (r *snapshotRepository) Snapshot(ctx context.Context, cycleNumber int) (*models.CycleSnapshot, error) {
	snapshot := new(models.CycleSnapshot)
	err := r.db.NewSelect().
		Model(snapshot).
		Where("cs.cycle_number = ?", cycleNumber).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot for cycle %d: %w", cycleNumber, err)
	}
	return snapshot, nil
}

func (r *snapshotRepository) LatestCycle(ctx context.Context) (int, error) {
	var latest int
	err := r.db.NewSelect().
		Model((*models.CycleSnapshot)(nil)).
		ColumnExpr("COALESCE(MAX(cycle_number), 0)").
		Scan(ctx, &latest)
	if err != nil {
		return 0, fmt.Errorf("failed to find latest snapshot: %w", err)
	}
	return latest, nil
}

// Save upserts one cycle's snapshot, keyed by cycle number. Used by the
// legacy importer to backfill cycles.
func (r *snapshotRepository) Save(ctx context.Context, snapshot *models.CycleSnapshot) error {
	_, err := r.db.NewInsert().
		Model(snapshot).
		On("CONFLICT (cycle_number) DO UPDATE").
		Set("total_battles = EXCLUDED.total_battles").
		Set("stable_metrics = EXCLUDED.stable_metrics").
		Set("robot_metrics = EXCLUDED.robot_metrics").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save snapshot for cycle %d: %w", snapshot.CycleNumber, err)
	}
	return nil
}
