package analytics

import (
	"fmt"
	"math"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database/models"
)

// projectionHorizonCycles is the horizon all per-cycle benefits are
// annualized over when turning them into a projected ROI.
const projectionHorizonCycles = 30

type projectionContext struct {
	cfg          *FacilityConfig
	currentLevel int
	nextLevel    int
	upgradeCost  int64
	metrics      *ActivityMetrics
	user         *models.User
	robots       []*models.Robot
}

type projection struct {
	roi          float64
	payoffCycles *int
	reason       string
	priority     Priority
	exclude      bool
}

type projectionFunc func(*projectionContext) projection

var projections = map[string]projectionFunc{
	FacilityMerchandisingHub: projectMerchandisingHub,
	FacilityRepairBay:        projectRepairBay,
	FacilityTrainingFacility: projectTrainingFacility,
	FacilityWeaponsWorkshop:  projectWeaponsWorkshop,
	FacilityRosterExpansion:  projectRosterExpansion,
	FacilityStreamingStudio:  projectStreamingStudio,
	FacilityStorageFacility:  projectStorageFacility,
}

func projectionFor(facilityType string) projectionFunc {
	if fn, ok := projections[facilityType]; ok {
		return fn
	}
	if IsTrainingAcademy(facilityType) {
		return projectTrainingAcademy
	}
	return projectNone
}

// projectNone keeps unvalued facility types in the pipeline; the zero
// projection is dropped by the engine's low-value filter.
func projectNone(*projectionContext) projection {
	return projection{priority: PriorityLow}
}

// merchandisingBaseIncome is the passive income per cycle at each hub level.
var merchandisingBaseIncome = [...]float64{
	5000, 8000, 11000, 12000, 15000, 18000, 20000, 25000, 30000, 35000,
}

func projectMerchandisingHub(pc *projectionContext) projection {
	income := merchandisingBaseIncome[pc.nextLevel-1] * 1.5
	payoff := payoffCycles(pc.upgradeCost, income)
	return projection{
		roi:          horizonROI(income, pc.upgradeCost),
		payoffCycles: payoff,
		reason:       fmt.Sprintf("Generates ₡%.0f/cycle passive income", income),
		priority:     payoffPriority(payoff, 10, 20),
	}
}

// repairBayDiscount scales with both level and roster size, capped at 90%.
func repairBayDiscount(level, robotCount int) int {
	discount := level * (5 + robotCount)
	if discount > 90 {
		return 90
	}
	return discount
}

func projectRepairBay(pc *projectionContext) projection {
	robotCount := len(pc.robots)
	currentDiscount := repairBayDiscount(pc.currentLevel, robotCount)
	nextDiscount := repairBayDiscount(pc.nextLevel, robotCount)
	additionalDiscount := nextDiscount - currentDiscount

	estimatedRepairCost := pc.metrics.AvgRepairCostPerCycle
	dataSource := ""
	if estimatedRepairCost == 0 && robotCount > 0 {
		// No repair history yet. Synthesize a cost from battle frequency,
		// assuming damage in roughly a third of battles, at most 60% of the
		// roster's baseline hull value per cycle.
		avgBattlesPerRobot := pc.metrics.AvgBattlesPerCycle / float64(robotCount)
		damageRate := math.Min(avgBattlesPerRobot*0.3, 0.6)
		estimatedRepairCost = float64(robotCount) * 10000 * damageRate
		dataSource = " (estimated)"
	}

	savings := estimatedRepairCost * float64(additionalDiscount) / 100
	if pc.currentLevel == 0 {
		savings = estimatedRepairCost * float64(nextDiscount) / 100
	}
	if savings <= 0 {
		// Surfaced anyway: the engine's filter exempts the repair bay.
		return projection{priority: PriorityLow}
	}

	transition := ""
	if pc.currentLevel > 0 {
		transition = fmt.Sprintf("%d%% → ", currentDiscount)
	}
	plural := "s"
	if robotCount == 1 {
		plural = ""
	}
	payoff := payoffCycles(pc.upgradeCost, savings)
	return projection{
		roi:          horizonROI(savings, pc.upgradeCost),
		payoffCycles: payoff,
		reason: fmt.Sprintf("Saves ₡%.0f/cycle on repairs%s (%s%d%% discount with %d robot%s)",
			savings, dataSource, transition, nextDiscount, robotCount, plural),
		priority: payoffPriority(payoff, 15, 30),
	}
}

func projectTrainingFacility(pc *projectionContext) projection {
	discountPercent := pc.nextLevel * 10
	savings := pc.metrics.AvgUpgradeCostPerCycle * float64(discountPercent) / 100
	if savings <= 0 {
		return projection{priority: PriorityLow}
	}
	payoff := payoffCycles(pc.upgradeCost, savings)
	return projection{
		roi:          horizonROI(savings, pc.upgradeCost),
		payoffCycles: payoff,
		reason:       fmt.Sprintf("Saves ₡%.0f/cycle on upgrades (%d%% discount)", savings, discountPercent),
		priority:     payoffPriority(payoff, 20, 40),
	}
}

func projectWeaponsWorkshop(pc *projectionContext) projection {
	discountPercent := pc.nextLevel * 5
	savings := pc.metrics.AvgWeaponCostPerCycle * float64(discountPercent) / 100
	if savings <= 0 {
		return projection{priority: PriorityLow}
	}
	payoff := payoffCycles(pc.upgradeCost, savings)
	return projection{
		roi:          horizonROI(savings, pc.upgradeCost),
		payoffCycles: payoff,
		reason:       fmt.Sprintf("Saves ₡%.0f/cycle on weapons (%d%% discount)", savings, discountPercent),
		priority:     payoffPriority(payoff, 20, 40),
	}
}

func projectRosterExpansion(pc *projectionContext) projection {
	robotCount := len(pc.robots)
	maxRobots := GetRosterLimit(pc.currentLevel)
	if robotCount >= maxRobots {
		return projection{
			roi:      0.5,
			reason:   fmt.Sprintf("Unlock slot for robot %d (currently at capacity)", pc.nextLevel+1),
			priority: PriorityHigh,
		}
	}
	return projection{
		roi:      0.2,
		reason:   fmt.Sprintf("Unlock slot for robot %d", pc.nextLevel+1),
		priority: PriorityLow,
	}
}

// academyCapLevels maps academy level to the attribute cap it unlocks.
var academyCapLevels = [...]int{15, 20, 25, 30, 35, 40, 42, 45, 48, 50}

func academyCap(level int) int {
	if level < 1 || level > len(academyCapLevels) {
		return 10
	}
	return academyCapLevels[level-1]
}

func projectTrainingAcademy(pc *projectionContext) projection {
	return projection{
		roi:      0.3,
		reason:   fmt.Sprintf("Increase attribute cap to level %d", academyCap(pc.nextLevel)),
		priority: PriorityMedium,
	}
}

func projectStreamingStudio(pc *projectionContext) projection {
	currentMultiplier := 1 + float64(pc.currentLevel)*0.1
	nextMultiplier := 1 + float64(pc.nextLevel)*0.1
	multiplierIncrease := nextMultiplier - currentMultiplier

	avgRevenuePerBattle := averageStreamingRevenue(pc.robots, pc.currentLevel)
	revenueIncreasePerBattle := avgRevenuePerBattle * (multiplierIncrease / currentMultiplier)
	revenuePerCycle := revenueIncreasePerBattle * pc.metrics.AvgBattlesPerCycle
	operatingCostIncrease := float64(pc.nextLevel*100 - pc.currentLevel*100)
	netBenefit := revenuePerCycle - operatingCostIncrease

	if pc.metrics.AvgBattlesPerCycle == 0 {
		return projection{
			roi: 0.2,
			reason: fmt.Sprintf("Increases streaming revenue by %.0f%% per battle (no battle history to estimate ROI)",
				multiplierIncrease/currentMultiplier*100),
			priority: PriorityMedium,
		}
	}
	if netBenefit <= 0 || revenuePerCycle <= 0 {
		// Upgrading would lose credits on current activity, so the studio is
		// excluded outright rather than shown with a negative ROI.
		return projection{exclude: true}
	}

	payoff := payoffCycles(pc.upgradeCost, netBenefit)
	percentIncrease := (nextMultiplier/currentMultiplier - 1) * 100
	return projection{
		roi:          horizonROI(netBenefit, pc.upgradeCost),
		payoffCycles: payoff,
		reason: fmt.Sprintf("Increases streaming revenue by %.0f%% per battle (₡%.0f more per battle, ₡%.0f/day operating cost)",
			percentIncrease, revenueIncreasePerBattle, operatingCostIncrease),
		priority: payoffPriority(payoff, 15, 30),
	}
}

// averageStreamingRevenue estimates per-battle streaming income across the
// roster. The revenue model applies a full 100% multiplier per studio level,
// unlike the 10%-per-level figure shown to owners, and that asymmetry is kept
// so projections match what battles actually pay out.
func averageStreamingRevenue(robots []*models.Robot, studioLevel int) float64 {
	if len(robots) == 0 {
		return 1000 * (1 + float64(studioLevel)*0.1)
	}
	studioMultiplier := 1 + float64(studioLevel)*1.0
	var total float64
	for _, robot := range robots {
		battleCount := robot.TotalBattles + robot.TotalTagTeamBattles
		battleMultiplier := 1 + float64(battleCount)/1000
		fameMultiplier := 1 + float64(robot.Fame)/5000
		total += 1000 * battleMultiplier * fameMultiplier * studioMultiplier
	}
	return total / float64(len(robots))
}

func projectStorageFacility(pc *projectionContext) projection {
	return projection{
		roi:      0.1,
		reason:   fmt.Sprintf("Increase weapon storage to %d slots", 5+pc.nextLevel*5),
		priority: PriorityLow,
	}
}

// horizonROI annualizes a per-cycle benefit over the projection horizon and
// nets the upgrade cost.
func horizonROI(perCycle float64, cost int64) float64 {
	return (perCycle*projectionHorizonCycles - float64(cost)) / float64(cost)
}

func payoffCycles(cost int64, perCycle float64) *int {
	cycles := int(math.Ceil(float64(cost) / perCycle))
	return &cycles
}

func payoffPriority(payoff *int, high, medium int) Priority {
	switch {
	case *payoff <= high:
		return PriorityHigh
	case *payoff <= medium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
