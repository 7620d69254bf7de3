package analytics

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// FacilityConfig is the static configuration for one facility type. Costs,
// benefits and prestige requirements are indexed by level-1 (index 0 holds
// the level 1 entry). Never mutated at runtime.
type FacilityConfig struct {
	Type        string
	Name        string
	Description string
	MaxLevel    int
	Costs       []int64
	Benefits    []string
	// PrestigeRequirements, when present, holds the minimum prestige needed
	// to buy each level. 0 means unrestricted.
	PrestigeRequirements []int64
	Implemented          bool
}

// PrestigeRequired returns the prestige gate for buying the given level.
func (c *FacilityConfig) PrestigeRequired(level int) int64 {
	if c.PrestigeRequirements == nil || level < 1 || level > len(c.PrestigeRequirements) {
		return 0
	}
	return c.PrestigeRequirements[level-1]
}

// Facility type identifiers.
const (
	FacilityRepairBay               = "repair_bay"
	FacilityTrainingFacility        = "training_facility"
	FacilityWeaponsWorkshop         = "weapons_workshop"
	FacilityResearchLab             = "research_lab"
	FacilityMedicalBay              = "medical_bay"
	FacilityRosterExpansion         = "roster_expansion"
	FacilityStorageFacility         = "storage_facility"
	FacilityCoachingStaff           = "coaching_staff"
	FacilityBookingOffice           = "booking_office"
	FacilityCombatTrainingAcademy   = "combat_training_academy"
	FacilityDefenseTrainingAcademy  = "defense_training_academy"
	FacilityMobilityTrainingAcademy = "mobility_training_academy"
	FacilityAITrainingAcademy       = "ai_training_academy"
	FacilityMerchandisingHub        = "merchandising_hub"
	FacilityStreamingStudio         = "streaming_studio"
)

const academySuffix = "_training_academy"

// IsTrainingAcademy reports whether the type belongs to the academy family
// (attribute-cap facilities with no financial projection).
func IsTrainingAcademy(facilityType string) bool {
	return strings.HasSuffix(facilityType, academySuffix)
}

func repeatBenefit(desc string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = desc
	}
	return out
}

// FacilityTypes is the full catalog in canonical order. Iteration order is the
// deterministic tie-break for equal-ROI recommendations.
var FacilityTypes = []FacilityConfig{
	{
		Type:        FacilityRepairBay,
		Name:        "Repair Bay",
		Description: "Reduces repair costs for damaged robots (scales with number of robots)",
		MaxLevel:    10,
		Costs:       []int64{100000, 200000, 300000, 400000, 500000, 600000, 750000, 1000000, 1250000, 1500000},
		Benefits: append(repeatBenefit("Repair cost discount", 9),
			"Repair cost discount (maximum 90%)"),
		PrestigeRequirements: []int64{0, 0, 0, 1000, 0, 0, 5000, 0, 10000, 0},
		Implemented:          true,
	},
	{
		Type:        FacilityTrainingFacility,
		Name:        "Training Facility",
		Description: "Reduces costs for upgrading robot attributes",
		MaxLevel:    10,
		Costs:       []int64{150000, 300000, 450000, 600000, 750000, 900000, 1100000, 1400000, 1750000, 2250000},
		Benefits: []string{
			"5% discount on attribute upgrades",
			"10% discount on attribute upgrades",
			"15% discount on attribute upgrades",
			"20% discount on attribute upgrades",
			"25% discount on attribute upgrades",
			"30% discount on attribute upgrades",
			"35% discount on attribute upgrades",
			"40% discount on attribute upgrades",
			"45% discount on attribute upgrades",
			"50% discount on attribute upgrades, unlock special training programs",
		},
		PrestigeRequirements: []int64{0, 0, 0, 1000, 0, 0, 5000, 0, 10000, 0},
		Implemented:          true,
	},
	{
		Type:        FacilityWeaponsWorkshop,
		Name:        "Weapons Workshop",
		Description: "Reduces costs for purchasing weapons",
		MaxLevel:    10,
		Costs:       []int64{125000, 250000, 375000, 500000, 650000, 800000, 1000000, 1250000, 1500000, 2000000},
		Benefits: []string{
			"5% discount on weapon purchases",
			"10% discount on weapon purchases",
			"15% discount on weapon purchases",
			"20% discount on weapon purchases",
			"25% discount on weapon purchases",
			"30% discount on weapon purchases",
			"35% discount on weapon purchases",
			"40% discount on weapon purchases",
			"45% discount on weapon purchases",
			"50% discount on weapon purchases",
		},
		PrestigeRequirements: []int64{0, 0, 0, 1500, 0, 0, 5000, 0, 10000, 0},
		Implemented:          true,
	},
	{
		Type:        FacilityResearchLab,
		Name:        "Research Lab",
		Description: "Unlock advanced analytics and loadout features",
		MaxLevel:    10,
		Costs:       []int64{200000, 400000, 600000, 800000, 1000000, 1250000, 1500000, 1750000, 2000000, 2500000},
		Benefits: []string{
			"Unlock advanced battle analytics",
			"Unlock loadout presets (save 3 configurations per robot)",
			"Unlock AI behavior customization",
			"Unlock 5 loadout presets per robot",
			"Unlock battle simulation (test matchups without cost)",
			"Unlock advanced statistics dashboard",
			"Unlock predictive AI (opponent analysis)",
			"Unlock 8 loadout presets per robot",
			"Unlock experimental technology",
			"Unlock robot cloning",
		},
		PrestigeRequirements: []int64{0, 0, 0, 2000, 0, 0, 7500, 0, 15000, 0},
	},
	{
		Type:        FacilityMedicalBay,
		Name:        "Medical Bay",
		Description: "Reduces critical damage repair costs",
		MaxLevel:    10,
		Costs:       []int64{175000, 350000, 525000, 700000, 875000, 1050000, 1250000, 1500000, 1750000, 2250000},
		Benefits: []string{
			"15% reduction on critical damage repair costs",
			"25% reduction on critical damage repair costs",
			"35% reduction on critical damage repair costs",
			"45% reduction on critical damage repair costs",
			"55% reduction on critical damage repair costs",
			"65% reduction on critical damage repair costs, faster recovery protocols",
			"75% reduction on critical damage repair costs",
			"85% reduction on critical damage repair costs",
			"95% reduction on critical damage repair costs, prevent permanent damage",
			"Eliminate critical damage penalties entirely",
		},
		PrestigeRequirements: []int64{0, 0, 0, 2000, 0, 0, 7500, 0, 15000, 0},
	},
	{
		Type:        FacilityRosterExpansion,
		Name:        "Roster Expansion",
		Description: "Increases the number of robots you can own",
		MaxLevel:    9,
		Costs:       []int64{150000, 300000, 450000, 600000, 750000, 900000, 1100000, 1300000, 1500000},
		Benefits: []string{
			"2 robot slots",
			"3 robot slots",
			"4 robot slots",
			"5 robot slots",
			"6 robot slots",
			"7 robot slots",
			"8 robot slots",
			"9 robot slots",
			"10 robot slots (maximum)",
		},
		PrestigeRequirements: []int64{0, 0, 0, 1000, 0, 0, 5000, 0, 10000},
		Implemented:          true,
	},
	{
		Type:        FacilityStorageFacility,
		Name:        "Storage Facility",
		Description: "Increases weapon storage capacity",
		MaxLevel:    10,
		Costs:       []int64{75000, 150000, 225000, 300000, 375000, 450000, 550000, 650000, 750000, 1000000},
		Benefits: []string{
			"10 weapons storage (5 base + 5 from facility)",
			"15 weapons storage (5 base + 10 from facility)",
			"20 weapons storage (5 base + 15 from facility)",
			"25 weapons storage (5 base + 20 from facility)",
			"30 weapons storage (5 base + 25 from facility)",
			"35 weapons storage (5 base + 30 from facility)",
			"40 weapons storage (5 base + 35 from facility)",
			"45 weapons storage (5 base + 40 from facility)",
			"50 weapons storage (5 base + 45 from facility)",
			"55 weapons storage (5 base + 50 from facility - maximum)",
		},
		Implemented: true,
	},
	{
		Type:        FacilityCoachingStaff,
		Name:        "Coaching Staff",
		Description: "Hire coaches for stable-wide bonuses",
		MaxLevel:    10,
		Costs:       []int64{250000, 350000, 450000, 600000, 750000, 900000, 1100000, 1300000, 1500000, 1750000},
		Benefits: []string{
			"Unlock Offensive Coach (+3% Combat Power for all robots)",
			"Unlock Defensive Coach (+3% Armor Plating for all robots)",
			"Unlock Tactical Coach (+5% Threat Analysis for all robots)",
			"Improve Offensive Coach (+5% Combat Power)",
			"Improve Defensive Coach (+5% Armor Plating)",
			"Improve Tactical Coach (+8% Threat Analysis)",
			"Unlock Team Coach (+5% team coordination bonuses for arena battles)",
			"Improve Offensive Coach (+7% Combat Power)",
			"Improve Defensive Coach (+7% Armor Plating)",
			"Master Coach (combine two coach bonuses at 75% effectiveness)",
		},
		PrestigeRequirements: []int64{0, 0, 2000, 0, 0, 5000, 0, 0, 10000, 0},
	},
	{
		Type:        FacilityBookingOffice,
		Name:        "Booking Office",
		Description: "Access to tournaments and prestige events",
		MaxLevel:    10,
		Costs:       []int64{250000, 500000, 750000, 1000000, 1250000, 1500000, 1750000, 2000000, 2250000, 2500000},
		Benefits: []string{
			"Unlock Silver league tournaments",
			"Unlock Gold league tournaments, custom paint jobs",
			"Unlock Platinum tournaments, exclusive weapon skins",
			"Unlock Diamond tournaments, legendary frame designs",
			"Enhanced tournament rewards (+10%)",
			"Enhanced tournament rewards (+20%)",
			"Access to Champion tournaments, hall of fame listing",
			"Enhanced tournament rewards (+30%)",
			"Enhanced tournament rewards (+40%)",
			"Access to World Championship, custom arena design",
		},
		PrestigeRequirements: []int64{1000, 2500, 5000, 10000, 15000, 20000, 25000, 35000, 45000, 50000},
	},
	{
		Type:        FacilityCombatTrainingAcademy,
		Name:        "Combat Training Academy",
		Description: "Increases Combat Systems attribute caps",
		MaxLevel:    10,
		Costs:       []int64{200000, 600000, 800000, 1000000, 1200000, 1400000, 1600000, 1800000, 2000000, 2500000},
		Benefits: []string{
			"Combat Systems cap to level 15",
			"Combat Systems cap to level 20",
			"Combat Systems cap to level 25",
			"Combat Systems cap to level 30",
			"Combat Systems cap to level 35",
			"Combat Systems cap to level 40",
			"Combat Systems cap to level 42",
			"Combat Systems cap to level 45",
			"Combat Systems cap to level 48",
			"Combat Systems cap to level 50 (maximum)",
		},
		PrestigeRequirements: []int64{0, 0, 2000, 0, 4000, 0, 7000, 0, 10000, 15000},
		Implemented:          true,
	},
	{
		Type:        FacilityDefenseTrainingAcademy,
		Name:        "Defense Training Academy",
		Description: "Increases Defensive Systems attribute caps",
		MaxLevel:    10,
		Costs:       []int64{200000, 600000, 800000, 1000000, 1200000, 1400000, 1600000, 1800000, 2000000, 2500000},
		Benefits: []string{
			"Defensive Systems cap to level 15",
			"Defensive Systems cap to level 20",
			"Defensive Systems cap to level 25",
			"Defensive Systems cap to level 30",
			"Defensive Systems cap to level 35",
			"Defensive Systems cap to level 40",
			"Defensive Systems cap to level 42",
			"Defensive Systems cap to level 45",
			"Defensive Systems cap to level 48",
			"Defensive Systems cap to level 50 (maximum)",
		},
		PrestigeRequirements: []int64{0, 0, 2000, 0, 4000, 0, 7000, 0, 10000, 15000},
		Implemented:          true,
	},
	{
		Type:        FacilityMobilityTrainingAcademy,
		Name:        "Mobility Training Academy",
		Description: "Increases Chassis & Mobility attribute caps",
		MaxLevel:    10,
		Costs:       []int64{200000, 600000, 800000, 1000000, 1200000, 1400000, 1600000, 1800000, 2000000, 2500000},
		Benefits: []string{
			"Chassis & Mobility cap to level 15",
			"Chassis & Mobility cap to level 20",
			"Chassis & Mobility cap to level 25",
			"Chassis & Mobility cap to level 30",
			"Chassis & Mobility cap to level 35",
			"Chassis & Mobility cap to level 40",
			"Chassis & Mobility cap to level 42",
			"Chassis & Mobility cap to level 45",
			"Chassis & Mobility cap to level 48",
			"Chassis & Mobility cap to level 50 (maximum)",
		},
		PrestigeRequirements: []int64{0, 0, 2000, 0, 4000, 0, 7000, 0, 10000, 15000},
		Implemented:          true,
	},
	{
		Type:        FacilityAITrainingAcademy,
		Name:        "AI Training Academy",
		Description: "Increases AI Processing + Team Coordination attribute caps",
		MaxLevel:    10,
		Costs:       []int64{250000, 750000, 1000000, 1250000, 1500000, 1750000, 2000000, 2250000, 2500000, 3000000},
		Benefits: []string{
			"AI & Team cap to level 15",
			"AI & Team cap to level 20",
			"AI & Team cap to level 25",
			"AI & Team cap to level 30",
			"AI & Team cap to level 35",
			"AI & Team cap to level 40",
			"AI & Team cap to level 42",
			"AI & Team cap to level 45",
			"AI & Team cap to level 48",
			"AI & Team cap to level 50 (maximum)",
		},
		PrestigeRequirements: []int64{0, 0, 2000, 0, 4000, 0, 7000, 0, 10000, 15000},
		Implemented:          true,
	},
	{
		Type:        FacilityMerchandisingHub,
		Name:        "Merchandising Hub",
		Description: "Unlocks merchandising revenue from your stable's brand. Scales with prestige.",
		MaxLevel:    10,
		Costs:       []int64{150000, 300000, 450000, 600000, 750000, 900000, 1050000, 1200000, 1350000, 1500000},
		Benefits: []string{
			"Unlock Merchandising (₡5,000/day base, scales with prestige)",
			"Improve Merchandising (₡10,000/day base)",
			"Improve Merchandising (₡15,000/day base)",
			"Improve Merchandising (₡20,000/day base)",
			"Improve Merchandising (₡25,000/day base)",
			"Improve Merchandising (₡30,000/day base)",
			"Improve Merchandising (₡35,000/day base)",
			"Improve Merchandising (₡40,000/day base)",
			"Improve Merchandising (₡45,000/day base)",
			"Master Merchandising (₡50,000/day base)",
		},
		PrestigeRequirements: []int64{0, 0, 0, 3000, 0, 0, 7500, 0, 15000, 0},
		Implemented:          true,
	},
	{
		Type:        FacilityStreamingStudio,
		Name:        "Streaming Studio",
		Description: "Dramatically increases streaming revenue earned per battle. Rewards active multi-robot play.",
		MaxLevel:    10,
		Costs:       []int64{100000, 200000, 300000, 400000, 500000, 600000, 700000, 800000, 900000, 1000000},
		Benefits: []string{
			"Double streaming revenue per battle (2× multiplier, ₡100/day operating cost)",
			"Triple streaming revenue per battle (3× multiplier, ₡200/day operating cost)",
			"Quadruple streaming revenue per battle (4× multiplier, ₡300/day operating cost)",
			"5× streaming revenue per battle (₡400/day operating cost)",
			"6× streaming revenue per battle (₡500/day operating cost)",
			"7× streaming revenue per battle (₡600/day operating cost)",
			"8× streaming revenue per battle (₡700/day operating cost)",
			"9× streaming revenue per battle (₡800/day operating cost)",
			"10× streaming revenue per battle (₡900/day operating cost)",
			"11× streaming revenue per battle - maximum multiplier (₡1,000/day operating cost)",
		},
		PrestigeRequirements: []int64{0, 0, 0, 1000, 2500, 5000, 10000, 15000, 25000, 50000},
		Implemented:          true,
	},
}

// GetFacilityConfig returns the catalog entry for a type, or nil when the
// type is unknown.
func GetFacilityConfig(facilityType string) *FacilityConfig {
	for i := range FacilityTypes {
		if FacilityTypes[i].Type == facilityType {
			return &FacilityTypes[i]
		}
	}
	return nil
}

// GetUpgradeCost returns the cost of going from currentLevel to
// currentLevel+1, or 0 when the type is unknown or already at max level.
func GetUpgradeCost(facilityType string, currentLevel int) int64 {
	cfg := GetFacilityConfig(facilityType)
	if cfg == nil || currentLevel >= cfg.MaxLevel || currentLevel < 0 {
		return 0
	}
	return cfg.Costs[currentLevel]
}

// GetRosterLimit returns the robot capacity granted by a Roster Expansion
// level. Level 0 = 1 slot, level 1 = 2 slots, and so on.
func GetRosterLimit(rosterExpansionLevel int) int {
	return rosterExpansionLevel + 1
}

// facilitySearchItems implements fuzzy.Source over the catalog.
type facilitySearchItems []FacilityConfig

func (s facilitySearchItems) String(i int) string { return s[i].Name }
func (s facilitySearchItems) Len() int            { return len(s) }

// ResolveFacilityType maps free-form input ("repair bay", "Weapons Workshop")
// to a canonical facility type. Exact type identifiers resolve first, then
// fuzzy matching on display names.
func ResolveFacilityType(query string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if cfg := GetFacilityConfig(strings.ReplaceAll(normalized, " ", "_")); cfg != nil {
		return cfg.Type, true
	}

	matches := fuzzy.FindFrom(normalized, facilitySearchItems(FacilityTypes))
	if len(matches) == 0 {
		return "", false
	}
	return FacilityTypes[matches[0].Index].Type, true
}
