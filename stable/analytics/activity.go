package analytics

import (
	"context"
	"fmt"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
)

// ActivityMetrics aggregates an owner's economic activity over a cycle
// window. Averages are per cycle in the window, so idle cycles dilute them.
type ActivityMetrics struct {
	AvgRepairCostPerCycle  float64 `json:"avgRepairCostPerCycle"`
	AvgUpgradeCostPerCycle float64 `json:"avgUpgradeCostPerCycle"`
	AvgWeaponCostPerCycle  float64 `json:"avgWeaponCostPerCycle"`
	AvgBattlesPerCycle     float64 `json:"avgBattlesPerCycle"`
	TotalRepairCost        float64 `json:"totalRepairCost"`
	TotalUpgradeCost       float64 `json:"totalUpgradeCost"`
	TotalWeaponCost        float64 `json:"totalWeaponCost"`
	TotalBattles           int     `json:"totalBattles"`
	RobotCount             int     `json:"robotCount"`
}

// Analyzer scans a cycle window of snapshots and events for one owner.
type Analyzer struct {
	events    EventStore
	snapshots SnapshotSource
	ledger    Ledger
}

func NewAnalyzer(events EventStore, snapshots SnapshotSource, ledger Ledger) *Analyzer {
	return &Analyzer{
		events:    events,
		snapshots: snapshots,
		ledger:    ledger,
	}
}

// Analyze aggregates activity for the inclusive window [startCycle, endCycle].
// An owner with no data yields all-zero metrics, never an error.
func (a *Analyzer) Analyze(ctx context.Context, userID int64, startCycle, endCycle int) (*ActivityMetrics, error) {
	metrics := &ActivityMetrics{}

	// Repair spend and battle participation come from the cycle snapshots'
	// stable metrics, not from replaying battle events.
	snapshots, err := a.snapshots.Snapshots(ctx, startCycle, endCycle)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cycle snapshots: %w", err)
	}
	for _, snapshot := range snapshots {
		if m := snapshot.MetricsFor(userID); m != nil {
			metrics.TotalRepairCost += m.TotalRepairCosts
			metrics.TotalBattles += m.BattlesParticipated
		}
	}

	upgradeTotal, err := a.sumEventCosts(ctx, userID, models.EventAttributeUpgrade, startCycle, endCycle)
	if err != nil {
		return nil, err
	}
	weaponTotal, err := a.sumEventCosts(ctx, userID, models.EventWeaponPurchase, startCycle, endCycle)
	if err != nil {
		return nil, err
	}
	metrics.TotalUpgradeCost = upgradeTotal
	metrics.TotalWeaponCost = weaponTotal

	// Divide by the window length, not the event count: cycles with zero
	// activity must pull the averages down.
	cycleCount := float64(endCycle - startCycle + 1)
	metrics.AvgRepairCostPerCycle = metrics.TotalRepairCost / cycleCount
	metrics.AvgBattlesPerCycle = float64(metrics.TotalBattles) / cycleCount
	metrics.AvgUpgradeCostPerCycle = upgradeTotal / cycleCount
	metrics.AvgWeaponCostPerCycle = weaponTotal / cycleCount

	count, err := a.ledger.RobotCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count robots: %w", err)
	}
	metrics.RobotCount = count

	return metrics, nil
}

func (a *Analyzer) sumEventCosts(ctx context.Context, userID int64, eventType models.EventType, startCycle, endCycle int) (float64, error) {
	events, err := a.events.Events(ctx, EventFilter{
		UserID:     userID,
		Types:      []models.EventType{eventType},
		StartCycle: startCycle,
		EndCycle:   endCycle,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s events: %w", eventType, err)
	}

	var total float64
	for _, event := range events {
		total += event.Payload.Cost
	}
	return total, nil
}
