package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
	"github.com/uptrace/bun"
)

// LedgerRepository serves the current game state the analytics engines read.
// Absent rows come back as nil results, not errors.
type LedgerRepository interface {
	User(ctx context.Context, userID int64) (*models.User, error)
	Facility(ctx context.Context, userID int64, facilityType string) (*models.Facility, error)
	Facilities(ctx context.Context, userID int64) ([]*models.Facility, error)
	Robots(ctx context.Context, userID int64) ([]*models.Robot, error)
	RobotsByID(ctx context.Context, robotIDs []int64) (map[int64]*models.Robot, error)
	RobotCount(ctx context.Context, userID int64) (int, error)
	CurrentCycle(ctx context.Context) (int, error)
}

type ledgerRepository struct {
	db *bun.DB
}

func NewLedgerRepository(db *bun.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) User(ctx context.Context, userID int64) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return user, nil
}

func (r *ledgerRepository) Facility(ctx context.Context, userID int64, facilityType string) (*models.Facility, error) {
	facility := new(models.Facility)
	err := r.db.NewSelect().
		Model(facility).
		Where("f.user_id = ?", userID).
		Where("f.facility_type = ?", facilityType).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get facility %s: %w", facilityType, err)
	}
	return facility, nil
}

func (r *ledgerRepository) Facilities(ctx context.Context, userID int64) ([]*models.Facility, error) {
	var facilities []*models.Facility
	err := r.db.NewSelect().
		Model(&facilities).
		Where("f.user_id = ?", userID).
		Order("facility_type ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}
	return facilities, nil
}

// Robots excludes the reserved bye robot so roster counts reflect robots the
// owner actually fields.
func (r *ledgerRepository) Robots(ctx context.Context, userID int64) ([]*models.Robot, error) {
	var robots []*models.Robot
	err := r.db.NewSelect().
		Model(&robots).
		Where("r.user_id = ?", userID).
		Where("r.name != ?", models.ByeRobotName).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list robots: %w", err)
	}
	return robots, nil
}

func (r *ledgerRepository) RobotsByID(ctx context.Context, robotIDs []int64) (map[int64]*models.Robot, error) {
	if len(robotIDs) == 0 {
		return map[int64]*models.Robot{}, nil
	}
	var robots []*models.Robot
	err := r.db.NewSelect().
		Model(&robots).
		Where("r.id IN (?)", bun.In(robotIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve robots: %w", err)
	}
	byID := make(map[int64]*models.Robot, len(robots))
	for _, robot := range robots {
		byID[robot.ID] = robot
	}
	return byID, nil
}

func (r *ledgerRepository) RobotCount(ctx context.Context, userID int64) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.Robot)(nil)).
		Where("r.user_id = ?", userID).
		Where("r.name != ?", models.ByeRobotName).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count robots: %w", err)
	}
	return count, nil
}

// CurrentCycle reads the singleton cycle counter. A missing row means no
// cycle has ever run, reported as cycle 0.
func (r *ledgerRepository) CurrentCycle(ctx context.Context) (int, error) {
	meta := new(models.CycleMetadata)
	err := r.db.NewSelect().
		Model(meta).
		Where("cm.id = 1").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cycle metadata: %w", err)
	}
	return meta.TotalCycles, nil
}
