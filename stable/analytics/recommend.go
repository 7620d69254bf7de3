package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrUserNotFound is returned when recommendations are requested for an owner
// that does not exist.
var ErrUserNotFound = errors.New("user not found")

// Priority buckets a recommendation by urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// FacilityRecommendation is one suggested upgrade with its projected payoff.
type FacilityRecommendation struct {
	FacilityType          string   `json:"facilityType"`
	FacilityName          string   `json:"facilityName"`
	CurrentLevel          int      `json:"currentLevel"`
	RecommendedLevel      int      `json:"recommendedLevel"`
	UpgradeCost           int64    `json:"upgradeCost"`
	ProjectedROI          float64  `json:"projectedROI"`
	ProjectedPayoffCycles *int     `json:"projectedPayoffCycles"`
	Reason                string   `json:"reason"`
	Priority              Priority `json:"priority"`
}

// AnalysisWindow records the cycle range the recommendations were derived
// from.
type AnalysisWindow struct {
	StartCycle int `json:"startCycle"`
	EndCycle   int `json:"endCycle"`
	CycleCount int `json:"cycleCount"`
}

// RecommendationSummary is the full response for one owner.
type RecommendationSummary struct {
	Recommendations            []*FacilityRecommendation `json:"recommendations"`
	TotalRecommendedInvestment int64                     `json:"totalRecommendedInvestment"`
	UserCurrency               int64                     `json:"userCurrency"`
	UserPrestige               int64                     `json:"userPrestige"`
	AnalysisWindow             AnalysisWindow            `json:"analysisWindow"`
}

// Engine produces ranked upgrade recommendations. It projects forward from
// the activity analyzer's averages; realized ROI is served separately by the
// Calculator and the two paths share no intermediate state.
type Engine struct {
	analyzer *Analyzer
	ledger   Ledger
}

func NewEngine(analyzer *Analyzer, ledger Ledger) *Engine {
	return &Engine{
		analyzer: analyzer,
		ledger:   ledger,
	}
}

// Generate evaluates every catalog facility for the owner over the last
// lookbackCycles cycles and returns the surviving candidates sorted by
// projected ROI, highest first. Ties keep catalog order, so output is
// deterministic for a given input.
func (e *Engine) Generate(ctx context.Context, userID int64, lookbackCycles int) (*RecommendationSummary, error) {
	user, err := e.ledger.User(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}

	// The cycle counter is read once and used throughout, so a concurrent
	// cycle advance cannot split the computation across two windows.
	currentCycle, err := e.ledger.CurrentCycle(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cycle counter: %w", err)
	}
	startCycle := currentCycle - lookbackCycles + 1
	if startCycle < 1 {
		startCycle = 1
	}

	facilities, err := e.ledger.Facilities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load facilities: %w", err)
	}
	levelByType := make(map[string]int, len(facilities))
	for _, facility := range facilities {
		levelByType[facility.FacilityType] = facility.Level
	}

	metrics, err := e.analyzer.Analyze(ctx, userID, startCycle, currentCycle)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze activity: %w", err)
	}

	robots, err := e.ledger.Robots(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load robots: %w", err)
	}

	var recommendations []*FacilityRecommendation
	for i := range FacilityTypes {
		cfg := &FacilityTypes[i]
		currentLevel := levelByType[cfg.Type]
		if currentLevel >= cfg.MaxLevel {
			continue
		}

		nextLevel := currentLevel + 1
		// Strict gate: an under-prestige upgrade is never surfaced, not even
		// deprioritized. The boundary is inclusive.
		if user.Prestige < cfg.PrestigeRequired(nextLevel) {
			continue
		}

		proj := projectionFor(cfg.Type)(&projectionContext{
			cfg:          cfg,
			currentLevel: currentLevel,
			nextLevel:    nextLevel,
			upgradeCost:  cfg.Costs[nextLevel-1],
			metrics:      metrics,
			user:         user,
			robots:       robots,
		})
		if proj.exclude {
			continue
		}

		// Drop zero-value low-priority candidates, except the repair bay:
		// it is always surfaced so the owner can judge marginal upgrades.
		if proj.roi <= 0 && proj.priority == PriorityLow && cfg.Type != FacilityRepairBay {
			continue
		}

		recommendations = append(recommendations, &FacilityRecommendation{
			FacilityType:          cfg.Type,
			FacilityName:          cfg.Name,
			CurrentLevel:          currentLevel,
			RecommendedLevel:      nextLevel,
			UpgradeCost:           cfg.Costs[nextLevel-1],
			ProjectedROI:          proj.roi,
			ProjectedPayoffCycles: proj.payoffCycles,
			Reason:                proj.reason,
			Priority:              proj.priority,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].ProjectedROI > recommendations[j].ProjectedROI
	})

	var totalInvestment int64
	for _, rec := range recommendations {
		totalInvestment += rec.UpgradeCost
	}

	return &RecommendationSummary{
		Recommendations:            recommendations,
		TotalRecommendedInvestment: totalInvestment,
		UserCurrency:               user.Currency,
		UserPrestige:               user.Prestige,
		AnalysisWindow: AnalysisWindow{
			StartCycle: startCycle,
			EndCycle:   currentCycle,
			CycleCount: lookbackCycles,
		},
	}, nil
}
