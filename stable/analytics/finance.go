package analytics

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSnapshots is returned when a finance summary is requested before any
// cycle has completed.
var ErrNoSnapshots = errors.New("no cycle snapshots found")

// CycleBreakdown splits one cycle's flows into their sources.
type CycleBreakdown struct {
	BattleCredits     float64 `json:"battleCredits"`
	Merchandising     float64 `json:"merchandising"`
	Streaming         float64 `json:"streaming"`
	RepairCosts       float64 `json:"repairCosts"`
	OperatingCosts    float64 `json:"operatingCosts"`
	WeaponPurchases   float64 `json:"weaponPurchases"`
	FacilityPurchases float64 `json:"facilityPurchases"`
	RobotPurchases    float64 `json:"robotPurchases"`
	AttributeUpgrades float64 `json:"attributeUpgrades"`
}

// CycleFinance is one cycle's income statement for an owner.
type CycleFinance struct {
	CycleNumber int            `json:"cycleNumber"`
	Income      float64        `json:"income"`
	Expenses    float64        `json:"expenses"`
	Purchases   float64        `json:"purchases"`
	NetProfit   float64        `json:"netProfit"`
	Balance     float64        `json:"balance"`
	Breakdown   CycleBreakdown `json:"breakdown"`
}

// FinanceSummary aggregates an owner's income, expenses and purchases over a
// trailing cycle window.
type FinanceSummary struct {
	UserID         int64          `json:"userId"`
	CycleRange     [2]int         `json:"cycleRange"`
	TotalIncome    float64        `json:"totalIncome"`
	TotalExpenses  float64        `json:"totalExpenses"`
	TotalPurchases float64        `json:"totalPurchases"`
	NetProfit      float64        `json:"netProfit"`
	Cycles         []CycleFinance `json:"cycles"`
}

// FinanceReporter builds per-cycle income statements from cycle snapshots.
// Purchases are tracked separately from expenses: buying a weapon converts
// credits into an asset, it does not burn them the way a repair bill does.
type FinanceReporter struct {
	snapshots SnapshotSource
}

func NewFinanceReporter(snapshots SnapshotSource) *FinanceReporter {
	return &FinanceReporter{snapshots: snapshots}
}

// Summarize reports the owner's finances over the last lastNCycles completed
// cycles. A cycle where the owner has no snapshot entry contributes a zero
// line rather than being skipped, so the series stays contiguous.
func (r *FinanceReporter) Summarize(ctx context.Context, userID int64, lastNCycles int) (*FinanceSummary, error) {
	latestCycle, err := r.snapshots.LatestCycle(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest snapshot: %w", err)
	}
	if latestCycle == 0 {
		return nil, ErrNoSnapshots
	}

	startCycle := latestCycle - lastNCycles + 1
	if startCycle < 1 {
		startCycle = 1
	}
	snapshots, err := r.snapshots.Snapshots(ctx, startCycle, latestCycle)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots %d-%d: %w", startCycle, latestCycle, err)
	}
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w for cycles %d to %d", ErrNoSnapshots, startCycle, latestCycle)
	}

	summary := &FinanceSummary{
		UserID:     userID,
		CycleRange: [2]int{startCycle, latestCycle},
		Cycles:     make([]CycleFinance, 0, len(snapshots)),
	}
	for _, snapshot := range snapshots {
		cycle := CycleFinance{CycleNumber: snapshot.CycleNumber}
		if m := snapshot.MetricsFor(userID); m != nil {
			cycle.Income = m.TotalCreditsEarned + m.MerchandisingIncome + m.StreamingIncome
			cycle.Expenses = m.TotalRepairCosts + m.OperatingCosts
			cycle.Purchases = m.WeaponPurchases + m.FacilityPurchases + m.RobotPurchases + m.AttributeUpgrades
			cycle.NetProfit = m.NetProfit
			cycle.Balance = m.Balance
			cycle.Breakdown = CycleBreakdown{
				BattleCredits:     m.TotalCreditsEarned,
				Merchandising:     m.MerchandisingIncome,
				Streaming:         m.StreamingIncome,
				RepairCosts:       m.TotalRepairCosts,
				OperatingCosts:    m.OperatingCosts,
				WeaponPurchases:   m.WeaponPurchases,
				FacilityPurchases: m.FacilityPurchases,
				RobotPurchases:    m.RobotPurchases,
				AttributeUpgrades: m.AttributeUpgrades,
			}
		}
		summary.TotalIncome += cycle.Income
		summary.TotalExpenses += cycle.Expenses
		summary.TotalPurchases += cycle.Purchases
		summary.NetProfit += cycle.NetProfit
		summary.Cycles = append(summary.Cycles, cycle)
	}
	return summary, nil
}
