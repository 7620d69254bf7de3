package models

import (
	"time"

	"github.com/uptrace/bun"
)

// StableMetric is the per-owner slice of a cycle snapshot. It is written by
// the cycle scheduler as a side channel next to the raw event stream so that
// window aggregation does not have to replay battle events.
type StableMetric struct {
	UserID              int64   `json:"userId"`
	BattlesParticipated int     `json:"battlesParticipated"`
	TotalCreditsEarned  float64 `json:"totalCreditsEarned"`
	TotalPrestigeEarned float64 `json:"totalPrestigeEarned"`
	TotalRepairCosts    float64 `json:"totalRepairCosts"`
	MerchandisingIncome float64 `json:"merchandisingIncome"`
	StreamingIncome     float64 `json:"streamingIncome"`
	OperatingCosts      float64 `json:"operatingCosts"`
	WeaponPurchases     float64 `json:"weaponPurchases"`
	FacilityPurchases   float64 `json:"facilityPurchases"`
	RobotPurchases      float64 `json:"robotPurchases"`
	AttributeUpgrades   float64 `json:"attributeUpgrades"`
	NetProfit           float64 `json:"netProfit"`
	Balance             float64 `json:"balance"`
}

// RobotMetric is the per-robot slice of a cycle snapshot.
type RobotMetric struct {
	RobotID             int64   `json:"robotId"`
	BattlesParticipated int     `json:"battlesParticipated"`
	StreamingRevenue    float64 `json:"streamingRevenue"`
	RepairCosts         float64 `json:"repairCosts"`
}

// CycleSnapshot summarizes one completed cycle. One row per cycle.
type CycleSnapshot struct {
	bun.BaseModel `bun:"table:cycle_snapshots,alias:cs"`

	ID            int64          `bun:"id,pk,autoincrement"`
	CycleNumber   int            `bun:"cycle_number,notnull,unique"`
	TotalBattles  int            `bun:"total_battles,notnull,default:0"`
	StableMetrics []StableMetric `bun:"stable_metrics,type:jsonb"`
	RobotMetrics  []RobotMetric  `bun:"robot_metrics,type:jsonb"`
	CreatedAt     time.Time      `bun:"created_at,notnull,default:current_timestamp"`
}

// MetricsFor returns the snapshot's stable metrics for one owner, or nil if
// the owner had no activity that cycle.
func (s *CycleSnapshot) MetricsFor(userID int64) *StableMetric {
	for i := range s.StableMetrics {
		if s.StableMetrics[i].UserID == userID {
			return &s.StableMetrics[i]
		}
	}
	return nil
}

// CycleMetadata is the global cycle counter. A single row with ID 1.
type CycleMetadata struct {
	bun.BaseModel `bun:"table:cycle_metadata,alias:cm"`

	ID          int64     `bun:"id,pk"`
	TotalCycles int       `bun:"total_cycles,notnull,default:0"`
	LastCycleAt time.Time `bun:"last_cycle_at,nullzero"`
}
