package analytics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
)

const testUserID = int64(7)

func newTestCalculator(events []*models.EconomicEvent, facilities []*models.Facility, revenue map[string]float64) *Calculator {
	ledger := newFakeLedger()
	ledger.facilities[testUserID] = facilities
	return NewCalculator(
		&fakeEventStore{events: events},
		ledger,
		&fakeBattleLookup{revenue: revenue},
	)
}

func purchaseEvent(cycle, seq int, facilityType string) *models.EconomicEvent {
	return newEvent(cycle, seq, models.EventFacilityPurchase, testUserID,
		models.EventPayload{FacilityType: facilityType, ToLevel: 1})
}

func TestCalculateMerchandisingHub(t *testing.T) {
	events := []*models.EconomicEvent{
		// Income before the purchase must not count.
		newEvent(2, 1, models.EventPassiveIncome, testUserID,
			models.EventPayload{Merchandising: 100000, Streaming: 20000}),
		purchaseEvent(3, 1, FacilityMerchandisingHub),
		newEvent(3, 2, models.EventPassiveIncome, testUserID,
			models.EventPayload{Merchandising: 100000, Streaming: 20000}),
		newEvent(4, 1, models.EventPassiveIncome, testUserID,
			models.EventPayload{Merchandising: 100000, Streaming: 20000}),
		newEvent(4, 2, models.EventOperatingCosts, testUserID,
			models.EventPayload{Costs: []models.OperatingCostEntry{
				{FacilityType: FacilityMerchandisingHub, Level: 2, Cost: 2500},
				{FacilityType: FacilityRepairBay, Level: 1, Cost: 500},
			}}),
		newEvent(5, 1, models.EventPassiveIncome, testUserID,
			models.EventPayload{Merchandising: 100000, Streaming: 20000}),
		newEvent(5, 2, models.EventOperatingCosts, testUserID,
			models.EventPayload{Costs: []models.OperatingCostEntry{
				{FacilityType: FacilityMerchandisingHub, Level: 2, Cost: 2500},
			}}),
	}
	facilities := []*models.Facility{
		{UserID: testUserID, FacilityType: FacilityMerchandisingHub, Level: 2},
	}

	calc := newTestCalculator(events, facilities, nil)
	roi, err := calc.Calculate(context.Background(), testUserID, FacilityMerchandisingHub, 5)
	if err != nil {
		t.Fatalf("Calculate() error: %v", err)
	}
	if roi == nil {
		t.Fatal("Calculate() returned nil for a purchased facility")
	}

	// Catalog prices the investment: 150000 + 300000 for levels 1-2.
	if roi.TotalInvestment != 450000 {
		t.Errorf("TotalInvestment = %v, want 450000", roi.TotalInvestment)
	}
	if roi.TotalReturns != 360000 {
		t.Errorf("TotalReturns = %v, want 360000", roi.TotalReturns)
	}
	// Only the hub's own share of operating costs counts.
	if roi.TotalOperatingCosts != 5000 {
		t.Errorf("TotalOperatingCosts = %v, want 5000", roi.TotalOperatingCosts)
	}

	wantROI := (360000.0 - 5000.0 - 450000.0) / 450000.0
	if math.Abs(roi.NetROI-wantROI) > 1e-9 {
		t.Errorf("NetROI = %v, want %v", roi.NetROI, wantROI)
	}
	if roi.IsProfitable {
		t.Error("IsProfitable = true for a negative net ROI")
	}
	if roi.CyclesSincePurchase != 3 {
		t.Errorf("CyclesSincePurchase = %d, want 3", roi.CyclesSincePurchase)
	}
	if roi.BreakevenCycle != nil {
		t.Errorf("BreakevenCycle = %d, want nil", *roi.BreakevenCycle)
	}
}

func TestBreakevenCycle(t *testing.T) {
	events := []*models.EconomicEvent{
		purchaseEvent(1, 1, FacilityMerchandisingHub),
		newEvent(1, 2, models.EventPassiveIncome, testUserID,
			models.EventPayload{Merchandising: 60000}),
		newEvent(1, 3, models.EventOperatingCosts, testUserID,
			models.EventPayload{Costs: []models.OperatingCostEntry{
				{FacilityType: FacilityMerchandisingHub, Level: 1, Cost: 10000},
			}}),
		newEvent(2, 1, models.EventPassiveIncome, testUserID,
			models.EventPayload{Merchandising: 60000}),
		newEvent(2, 2, models.EventOperatingCosts, testUserID,
			models.EventPayload{Costs: []models.OperatingCostEntry{
				{FacilityType: FacilityMerchandisingHub, Level: 1, Cost: 10000},
			}}),
		newEvent(3, 1, models.EventPassiveIncome, testUserID,
			models.EventPayload{Merchandising: 60000}),
	}
	facilities := []*models.Facility{
		{UserID: testUserID, FacilityType: FacilityMerchandisingHub, Level: 1},
	}

	calc := newTestCalculator(events, facilities, nil)
	roi, err := calc.Calculate(context.Background(), testUserID, FacilityMerchandisingHub, 3)
	if err != nil {
		t.Fatalf("Calculate() error: %v", err)
	}

	// Cumulative net returns: 50000 after cycle 1, 100000 after cycle 2,
	// 160000 at the cycle 3 income event. Investment is 150000.
	if roi.BreakevenCycle == nil {
		t.Fatal("BreakevenCycle = nil, want 3")
	}
	if *roi.BreakevenCycle != 3 {
		t.Errorf("BreakevenCycle = %d, want 3", *roi.BreakevenCycle)
	}
}

func TestDiscountInversion(t *testing.T) {
	events := []*models.EconomicEvent{
		purchaseEvent(1, 1, FacilityRepairBay),
		// 800 paid at 20% off: full price 1000, so 200 saved.
		newEvent(1, 2, models.EventRobotRepair, testUserID,
			models.EventPayload{Cost: 800, DiscountPercent: 20}),
		// No discount recorded: no return attributed.
		newEvent(2, 1, models.EventRobotRepair, testUserID,
			models.EventPayload{Cost: 500}),
	}
	facilities := []*models.Facility{
		{UserID: testUserID, FacilityType: FacilityRepairBay, Level: 1},
	}

	calc := newTestCalculator(events, facilities, nil)
	roi, err := calc.Calculate(context.Background(), testUserID, FacilityRepairBay, 2)
	if err != nil {
		t.Fatalf("Calculate() error: %v", err)
	}
	if math.Abs(roi.TotalReturns-200) > 1e-9 {
		t.Errorf("TotalReturns = %v, want 200", roi.TotalReturns)
	}
}

func TestStreamingStudioJoinsBattles(t *testing.T) {
	battle1 := newEvent(1, 2, models.EventBattleComplete, testUserID,
		models.EventPayload{Winnings: 5000})
	battle1.BattleID = 11
	battle2 := newEvent(2, 1, models.EventBattleComplete, testUserID,
		models.EventPayload{Winnings: 3000})
	battle2.BattleID = 12

	events := []*models.EconomicEvent{
		purchaseEvent(1, 1, FacilityStreamingStudio),
		battle1,
		battle2,
	}
	facilities := []*models.Facility{
		{UserID: testUserID, FacilityType: FacilityStreamingStudio, Level: 1},
	}
	revenue := map[string]float64{
		battleRevenueKey(11, testUserID): 400,
		battleRevenueKey(12, testUserID): 600,
	}

	calc := newTestCalculator(events, facilities, revenue)
	roi, err := calc.Calculate(context.Background(), testUserID, FacilityStreamingStudio, 2)
	if err != nil {
		t.Fatalf("Calculate() error: %v", err)
	}

	// Returns are the streaming slice of each battle, not the winnings.
	if math.Abs(roi.TotalReturns-1000) > 1e-9 {
		t.Errorf("TotalReturns = %v, want 1000", roi.TotalReturns)
	}
}

func TestCalculateAbsentResults(t *testing.T) {
	tests := []struct {
		name       string
		facilities []*models.Facility
		events     []*models.EconomicEvent
	}{
		{
			name: "never purchased",
		},
		{
			name: "level zero row",
			facilities: []*models.Facility{
				{UserID: testUserID, FacilityType: FacilityRepairBay, Level: 0},
			},
		},
		{
			name: "no purchase event in the log",
			facilities: []*models.Facility{
				{UserID: testUserID, FacilityType: FacilityRepairBay, Level: 2},
			},
			events: []*models.EconomicEvent{
				newEvent(1, 1, models.EventRobotRepair, testUserID,
					models.EventPayload{Cost: 800, DiscountPercent: 20}),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := newTestCalculator(tt.events, tt.facilities, nil)
			roi, err := calc.Calculate(context.Background(), testUserID, FacilityRepairBay, 5)
			if err != nil {
				t.Fatalf("Calculate() error: %v", err)
			}
			if roi != nil {
				t.Errorf("Calculate() = %+v, want nil", roi)
			}
		})
	}
}

func TestCalculateUnknownFacilityType(t *testing.T) {
	facilities := []*models.Facility{
		{UserID: testUserID, FacilityType: "cafeteria", Level: 1},
	}
	calc := newTestCalculator(nil, facilities, nil)

	_, err := calc.Calculate(context.Background(), testUserID, "cafeteria", 5)
	if !errors.Is(err, ErrUnknownFacilityType) {
		t.Errorf("Calculate() error = %v, want ErrUnknownFacilityType", err)
	}
}

func TestCalculateAllKeepsFacilitiesIndependent(t *testing.T) {
	events := []*models.EconomicEvent{
		purchaseEvent(1, 1, FacilityRepairBay),
		purchaseEvent(1, 2, FacilityTrainingFacility),
		newEvent(2, 1, models.EventRobotRepair, testUserID,
			models.EventPayload{Cost: 800, DiscountPercent: 20}),
		newEvent(2, 2, models.EventAttributeUpgrade, testUserID,
			models.EventPayload{Cost: 900, DiscountPercent: 10}),
	}
	facilities := []*models.Facility{
		{UserID: testUserID, FacilityType: FacilityRepairBay, Level: 1},
		{UserID: testUserID, FacilityType: FacilityTrainingFacility, Level: 1},
	}

	calc := newTestCalculator(events, facilities, nil)
	results, err := calc.CalculateAll(context.Background(), testUserID, 2)
	if err != nil {
		t.Fatalf("CalculateAll() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("CalculateAll() returned %d results, want 2", len(results))
	}

	byType := map[string]*FacilityROI{}
	for _, roi := range results {
		byType[roi.FacilityType] = roi
	}

	// Each facility only sees its own event family: repair savings stay out
	// of the training facility's returns and vice versa.
	if got := byType[FacilityRepairBay].TotalReturns; math.Abs(got-200) > 1e-9 {
		t.Errorf("repair bay TotalReturns = %v, want 200", got)
	}
	if got := byType[FacilityTrainingFacility].TotalReturns; math.Abs(got-100) > 1e-9 {
		t.Errorf("training facility TotalReturns = %v, want 100", got)
	}

	// Ledger order survives the concurrent fan-out.
	if results[0].FacilityType != FacilityRepairBay || results[1].FacilityType != FacilityTrainingFacility {
		t.Errorf("result order = [%s, %s], want ledger order",
			results[0].FacilityType, results[1].FacilityType)
	}
}

func TestCalculateDeterministic(t *testing.T) {
	events := []*models.EconomicEvent{
		purchaseEvent(1, 1, FacilityMerchandisingHub),
		newEvent(2, 1, models.EventPassiveIncome, testUserID,
			models.EventPayload{Merchandising: 50000, Streaming: 5000}),
	}
	facilities := []*models.Facility{
		{UserID: testUserID, FacilityType: FacilityMerchandisingHub, Level: 1},
	}

	calc := newTestCalculator(events, facilities, nil)
	first, err := calc.Calculate(context.Background(), testUserID, FacilityMerchandisingHub, 4)
	if err != nil {
		t.Fatalf("Calculate() error: %v", err)
	}
	second, err := calc.Calculate(context.Background(), testUserID, FacilityMerchandisingHub, 4)
	if err != nil {
		t.Fatalf("Calculate() error: %v", err)
	}

	if *first != *second {
		t.Errorf("repeated Calculate() differs: %+v vs %+v", first, second)
	}
}
