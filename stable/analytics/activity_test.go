package analytics

import (
	"context"
	"math"
	"testing"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
)

func TestAnalyzeAveragesOverWindow(t *testing.T) {
	snapshots := &fakeSnapshotSource{snapshots: []*models.CycleSnapshot{
		{CycleNumber: 1, StableMetrics: []models.StableMetric{
			{UserID: testUserID, BattlesParticipated: 2, TotalRepairCosts: 100},
		}},
		{CycleNumber: 2},
		{CycleNumber: 3, StableMetrics: []models.StableMetric{
			{UserID: testUserID, BattlesParticipated: 4, TotalRepairCosts: 300},
			{UserID: 99, BattlesParticipated: 8, TotalRepairCosts: 9999},
		}},
		{CycleNumber: 4},
	}}
	events := &fakeEventStore{events: []*models.EconomicEvent{
		newEvent(2, 1, models.EventAttributeUpgrade, testUserID, models.EventPayload{Cost: 500}),
		newEvent(4, 1, models.EventWeaponPurchase, testUserID, models.EventPayload{Cost: 1000}),
		// Outside the window, must not count.
		newEvent(9, 1, models.EventWeaponPurchase, testUserID, models.EventPayload{Cost: 7777}),
		// Another owner's spend, must not count.
		newEvent(3, 1, models.EventAttributeUpgrade, 99, models.EventPayload{Cost: 8888}),
	}}
	ledger := newFakeLedger()
	ledger.robots[testUserID] = []*models.Robot{
		{ID: 1, UserID: testUserID, Name: "Crusher"},
		{ID: 2, UserID: testUserID, Name: "Welder"},
		{ID: 3, UserID: testUserID, Name: models.ByeRobotName},
	}

	analyzer := NewAnalyzer(events, snapshots, ledger)
	metrics, err := analyzer.Analyze(context.Background(), testUserID, 1, 4)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if metrics.TotalRepairCost != 400 {
		t.Errorf("TotalRepairCost = %v, want 400", metrics.TotalRepairCost)
	}
	if metrics.TotalBattles != 6 {
		t.Errorf("TotalBattles = %d, want 6", metrics.TotalBattles)
	}
	if metrics.TotalUpgradeCost != 500 {
		t.Errorf("TotalUpgradeCost = %v, want 500", metrics.TotalUpgradeCost)
	}
	if metrics.TotalWeaponCost != 1000 {
		t.Errorf("TotalWeaponCost = %v, want 1000", metrics.TotalWeaponCost)
	}

	// Idle cycles stay in the denominator: a 4-cycle window divides by 4.
	if math.Abs(metrics.AvgRepairCostPerCycle-100) > 1e-9 {
		t.Errorf("AvgRepairCostPerCycle = %v, want 100", metrics.AvgRepairCostPerCycle)
	}
	if math.Abs(metrics.AvgBattlesPerCycle-1.5) > 1e-9 {
		t.Errorf("AvgBattlesPerCycle = %v, want 1.5", metrics.AvgBattlesPerCycle)
	}
	if math.Abs(metrics.AvgUpgradeCostPerCycle-125) > 1e-9 {
		t.Errorf("AvgUpgradeCostPerCycle = %v, want 125", metrics.AvgUpgradeCostPerCycle)
	}
	if math.Abs(metrics.AvgWeaponCostPerCycle-250) > 1e-9 {
		t.Errorf("AvgWeaponCostPerCycle = %v, want 250", metrics.AvgWeaponCostPerCycle)
	}

	// The bye robot does not count toward the roster.
	if metrics.RobotCount != 2 {
		t.Errorf("RobotCount = %d, want 2", metrics.RobotCount)
	}
}

func TestAnalyzeNoActivity(t *testing.T) {
	analyzer := NewAnalyzer(&fakeEventStore{}, &fakeSnapshotSource{}, newFakeLedger())

	metrics, err := analyzer.Analyze(context.Background(), testUserID, 1, 10)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if metrics.TotalBattles != 0 || metrics.TotalRepairCost != 0 ||
		metrics.AvgRepairCostPerCycle != 0 || metrics.RobotCount != 0 {
		t.Errorf("expected zero metrics, got %+v", metrics)
	}
}
