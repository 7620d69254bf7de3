package analytics

import (
	"context"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
)

// EventFilter narrows an audit-log query. Zero fields are ignored. The cycle
// range is inclusive on both ends.
type EventFilter struct {
	UserID  int64
	RobotID int64
	Types   []models.EventType
	// FacilityType filters on the payload's facilityType field.
	FacilityType string
	StartCycle   int
	EndCycle     int
}

// EventStore is the append-only audit log, queried read-only. Results are
// ordered by (cycle_number, sequence_number) ascending.
type EventStore interface {
	Events(ctx context.Context, filter EventFilter) ([]*models.EconomicEvent, error)
}

// SnapshotSource serves cycle snapshots for an inclusive cycle range.
type SnapshotSource interface {
	Snapshots(ctx context.Context, startCycle, endCycle int) ([]*models.CycleSnapshot, error)
	// LatestCycle returns the highest snapshotted cycle number, or 0 when no
	// cycle has completed yet.
	LatestCycle(ctx context.Context) (int, error)
}

// Ledger reads the current game state the engines need: owners, facility
// levels, rosters and the global cycle counter. All reads; the analytics
// engines never write.
type Ledger interface {
	User(ctx context.Context, userID int64) (*models.User, error)
	Facility(ctx context.Context, userID int64, facilityType string) (*models.Facility, error)
	Facilities(ctx context.Context, userID int64) ([]*models.Facility, error)
	// Robots returns the owner's roster excluding the reserved bye robot.
	Robots(ctx context.Context, userID int64) ([]*models.Robot, error)
	RobotCount(ctx context.Context, userID int64) (int, error)
	CurrentCycle(ctx context.Context) (int, error)
}

// BattleLookup resolves the streaming revenue an owner's robot earned in one
// specific battle.
type BattleLookup interface {
	StreamingRevenue(ctx context.Context, battleID, userID int64) (float64, error)
}
