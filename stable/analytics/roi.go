package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrUnknownFacilityType is returned when a caller asks about a facility type
// the catalog does not carry. This is a caller error, distinct from the
// legitimate "not purchased" absent result.
var ErrUnknownFacilityType = errors.New("unknown facility type")

const maxConcurrentROIs = 4

// FacilityROI describes the realized historical performance of one purchased
// facility, reconstructed from the audit log since its first purchase event.
type FacilityROI struct {
	FacilityType        string  `json:"facilityType"`
	CurrentLevel        int     `json:"currentLevel"`
	TotalInvestment     float64 `json:"totalInvestment"`
	TotalReturns        float64 `json:"totalReturns"`
	TotalOperatingCosts float64 `json:"totalOperatingCosts"`
	NetROI              float64 `json:"netROI"`
	BreakevenCycle      *int    `json:"breakevenCycle"`
	CyclesSincePurchase int     `json:"cyclesSincePurchase"`
	IsProfitable        bool    `json:"isProfitable"`
}

// returnsStrategy maps a facility family to the events that carry its returns
// and the arithmetic that extracts credit value from one such event. Facility
// types without a strategy have no direct financial channel and earn zero.
type returnsStrategy struct {
	eventTypes []models.EventType
	apply      func(ctx context.Context, c *Calculator, userID int64, event *models.EconomicEvent) (float64, error)
}

func passiveIncomeReturns(_ context.Context, _ *Calculator, _ int64, event *models.EconomicEvent) (float64, error) {
	return event.Payload.Merchandising + event.Payload.Streaming, nil
}

func streamingReturns(ctx context.Context, c *Calculator, userID int64, event *models.EconomicEvent) (float64, error) {
	revenue, err := c.battles.StreamingRevenue(ctx, event.BattleID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to look up streaming revenue for battle %d: %w", event.BattleID, err)
	}
	return revenue, nil
}

// discountReturns inverts a logged discount to recover what the transaction
// would have cost at full price. A discount of exactly 100% is a
// data-integrity violation and is deliberately not guarded: the resulting
// +Inf surfaces at the boundary instead of being silently corrected here.
func discountReturns(_ context.Context, _ *Calculator, _ int64, event *models.EconomicEvent) (float64, error) {
	actualCost := event.Payload.Cost
	discountPercent := event.Payload.DiscountPercent
	if discountPercent <= 0 {
		return 0, nil
	}
	originalCost := actualCost / (1 - discountPercent/100)
	return originalCost - actualCost, nil
}

var returnsStrategies = map[string]*returnsStrategy{
	FacilityMerchandisingHub: {
		eventTypes: []models.EventType{models.EventPassiveIncome},
		apply:      passiveIncomeReturns,
	},
	FacilityStreamingStudio: {
		eventTypes: []models.EventType{models.EventBattleComplete},
		apply:      streamingReturns,
	},
	FacilityRepairBay: {
		eventTypes: []models.EventType{models.EventRobotRepair},
		apply:      discountReturns,
	},
	FacilityTrainingFacility: {
		eventTypes: []models.EventType{models.EventAttributeUpgrade},
		apply:      discountReturns,
	},
	FacilityWeaponsWorkshop: {
		eventTypes: []models.EventType{models.EventWeaponPurchase},
		apply:      discountReturns,
	},
}

// Calculator reconstructs facility ROI from the audit log. It is stateless
// and safe for concurrent use.
type Calculator struct {
	events  EventStore
	ledger  Ledger
	battles BattleLookup
	sem     *semaphore.Weighted
}

func NewCalculator(events EventStore, ledger Ledger, battles BattleLookup) *Calculator {
	return &Calculator{
		events:  events,
		ledger:  ledger,
		battles: battles,
		sem:     semaphore.NewWeighted(maxConcurrentROIs),
	}
}

// Calculate reconstructs the ROI of one facility as of the given cycle.
// Returns (nil, nil) when the facility was never purchased or no purchase
// event exists to anchor the reconstruction.
func (c *Calculator) Calculate(ctx context.Context, userID int64, facilityType string, asOfCycle int) (*FacilityROI, error) {
	facility, err := c.ledger.Facility(ctx, userID, facilityType)
	if err != nil {
		return nil, fmt.Errorf("failed to load facility: %w", err)
	}
	if facility == nil || facility.Level == 0 {
		return nil, nil
	}

	cfg := GetFacilityConfig(facilityType)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFacilityType, facilityType)
	}

	// The catalog, not the logged purchase costs, prices the investment.
	// Historical price drift must not change what the owner is considered
	// to have invested.
	var totalInvestment float64
	for _, cost := range cfg.Costs[:facility.Level] {
		totalInvestment += float64(cost)
	}

	purchaseCycle, found, err := c.firstPurchaseCycle(ctx, userID, facilityType)
	if err != nil {
		return nil, err
	}
	if !found {
		// Facility row exists but the audit trail has no purchase event:
		// nothing to reconstruct from.
		return nil, nil
	}

	if asOfCycle <= 0 {
		asOfCycle = purchaseCycle
	}
	cyclesSincePurchase := asOfCycle - purchaseCycle + 1

	strategy := returnsStrategies[facilityType]
	totalReturns, err := c.totalReturns(ctx, strategy, userID, purchaseCycle, asOfCycle)
	if err != nil {
		return nil, err
	}

	totalOperatingCosts, err := c.operatingCosts(ctx, userID, facilityType, purchaseCycle, asOfCycle)
	if err != nil {
		return nil, err
	}

	netProfit := totalReturns - totalOperatingCosts - totalInvestment
	var netROI float64
	if totalInvestment > 0 {
		netROI = netProfit / totalInvestment
	}

	breakevenCycle, err := c.breakevenCycle(ctx, strategy, userID, facilityType, purchaseCycle, asOfCycle, totalInvestment)
	if err != nil {
		return nil, err
	}

	return &FacilityROI{
		FacilityType:        facilityType,
		CurrentLevel:        facility.Level,
		TotalInvestment:     totalInvestment,
		TotalReturns:        totalReturns,
		TotalOperatingCosts: totalOperatingCosts,
		NetROI:              netROI,
		BreakevenCycle:      breakevenCycle,
		CyclesSincePurchase: cyclesSincePurchase,
		IsProfitable:        netROI > 0,
	}, nil
}

// CalculateAll computes the ROI of every purchased facility independently.
// Each facility's computation shares no intermediate state with the others;
// discount facilities queried over the same window must not leak returns
// into each other.
func (c *Calculator) CalculateAll(ctx context.Context, userID int64, asOfCycle int) ([]*FacilityROI, error) {
	facilities, err := c.ledger.Facilities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load facilities: %w", err)
	}

	results := make([]*FacilityROI, len(facilities))
	g, gctx := errgroup.WithContext(ctx)
	for i, facility := range facilities {
		if facility.Level == 0 {
			continue
		}
		i, facilityType := i, facility.FacilityType
		g.Go(func() error {
			if err := c.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer c.sem.Release(1)

			roi, err := c.Calculate(gctx, userID, facilityType, asOfCycle)
			if err != nil {
				return err
			}
			results[i] = roi
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rois := make([]*FacilityROI, 0, len(results))
	for _, roi := range results {
		if roi != nil {
			rois = append(rois, roi)
		}
	}
	return rois, nil
}

func (c *Calculator) firstPurchaseCycle(ctx context.Context, userID int64, facilityType string) (int, bool, error) {
	events, err := c.events.Events(ctx, EventFilter{
		UserID:       userID,
		Types:        []models.EventType{models.EventFacilityPurchase},
		FacilityType: facilityType,
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to fetch purchase events: %w", err)
	}
	if len(events) == 0 {
		return 0, false, nil
	}
	return events[0].CycleNumber, true, nil
}

func (c *Calculator) totalReturns(ctx context.Context, strategy *returnsStrategy, userID int64, startCycle, endCycle int) (float64, error) {
	if strategy == nil {
		return 0, nil
	}

	events, err := c.events.Events(ctx, EventFilter{
		UserID:     userID,
		Types:      strategy.eventTypes,
		StartCycle: startCycle,
		EndCycle:   endCycle,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch return events: %w", err)
	}

	var total float64
	for _, event := range events {
		value, err := strategy.apply(ctx, c, userID, event)
		if err != nil {
			return 0, err
		}
		total += value
	}
	return total, nil
}

func (c *Calculator) operatingCosts(ctx context.Context, userID int64, facilityType string, startCycle, endCycle int) (float64, error) {
	events, err := c.events.Events(ctx, EventFilter{
		UserID:     userID,
		Types:      []models.EventType{models.EventOperatingCosts},
		StartCycle: startCycle,
		EndCycle:   endCycle,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch operating cost events: %w", err)
	}

	var total float64
	for _, event := range events {
		total += operatingCostFor(event, facilityType)
	}
	return total, nil
}

// operatingCostFor extracts the given facility's share of one operating_costs
// event, or 0 when the event carries no entry for it.
func operatingCostFor(event *models.EconomicEvent, facilityType string) float64 {
	for _, entry := range event.Payload.Costs {
		if entry.FacilityType == facilityType {
			return entry.Cost
		}
	}
	return 0
}

// breakevenAccumulator is the running state of the breakeven replay.
type breakevenAccumulator struct {
	returns        float64
	operatingCosts float64
}

func (acc breakevenAccumulator) brokeEven(totalInvestment float64) bool {
	return acc.returns-acc.operatingCosts >= totalInvestment
}

// breakevenCycle replays the facility's return and operating-cost events in
// (cycle, sequence) order and reports the first cycle where cumulative net
// returns reach the total investment. The search window is bounded by
// [purchaseCycle, asOfCycle]; nil means the facility never broke even inside
// that window.
func (c *Calculator) breakevenCycle(ctx context.Context, strategy *returnsStrategy, userID int64, facilityType string, startCycle, endCycle int, totalInvestment float64) (*int, error) {
	if strategy == nil {
		// No returns channel: the accumulator can never reach a positive
		// investment.
		return nil, nil
	}

	types := append([]models.EventType{models.EventOperatingCosts}, strategy.eventTypes...)
	events, err := c.events.Events(ctx, EventFilter{
		UserID:     userID,
		Types:      types,
		StartCycle: startCycle,
		EndCycle:   endCycle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch breakeven events: %w", err)
	}

	var acc breakevenAccumulator
	for _, event := range events {
		if event.EventType == models.EventOperatingCosts {
			acc.operatingCosts += operatingCostFor(event, facilityType)
		} else {
			value, err := strategy.apply(ctx, c, userID, event)
			if err != nil {
				return nil, err
			}
			acc.returns += value
		}

		if acc.brokeEven(totalInvestment) {
			cycle := event.CycleNumber
			return &cycle, nil
		}
	}
	return nil, nil
}
