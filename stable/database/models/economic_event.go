package models

import (
	"time"

	"github.com/uptrace/bun"
)

// EventType identifies the kind of economic event stored in the audit log.
type EventType string

const (
	// Battle events
	EventBattleComplete EventType = "battle_complete"
	EventTagTeamBattle  EventType = "tag_team_battle"

	// Robot events
	EventRobotRepair      EventType = "robot_repair"
	EventAttributeUpgrade EventType = "attribute_upgrade"
	EventLeagueChange     EventType = "league_change"

	// Stable events
	EventCreditChange   EventType = "credit_change"
	EventPrestigeChange EventType = "prestige_change"
	EventPassiveIncome  EventType = "passive_income"
	EventOperatingCosts EventType = "operating_costs"

	// Facility events
	EventFacilityPurchase EventType = "facility_purchase"
	EventFacilityUpgrade  EventType = "facility_upgrade"

	// Weapon events
	EventWeaponPurchase EventType = "weapon_purchase"
	EventWeaponSale     EventType = "weapon_sale"

	// Tournament events
	EventTournamentMatch    EventType = "tournament_match"
	EventTournamentComplete EventType = "tournament_complete"

	// Cycle bookkeeping events
	EventCycleStart        EventType = "cycle_start"
	EventCycleStepComplete EventType = "cycle_step_complete"
	EventCycleComplete     EventType = "cycle_complete"
	EventCycleEndBalance   EventType = "cycle_end_balance"
)

// OperatingCostEntry is one facility's share of an operating_costs event.
type OperatingCostEntry struct {
	FacilityType string  `json:"facilityType"`
	Level        int     `json:"level"`
	Cost         float64 `json:"cost"`
}

// EventPayload carries the type-specific fields of an event. Only the fields
// relevant to the event's type are populated; everything else stays zero and
// is omitted from the stored JSON.
type EventPayload struct {
	// facility_purchase / facility_upgrade
	FacilityType string `json:"facilityType,omitempty"`
	FromLevel    int    `json:"fromLevel,omitempty"`
	ToLevel      int    `json:"toLevel,omitempty"`

	// robot_repair / attribute_upgrade / weapon_purchase / facility_*
	Cost            float64 `json:"cost,omitempty"`
	DiscountPercent float64 `json:"discountPercent,omitempty"`

	// passive_income
	Merchandising float64 `json:"merchandising,omitempty"`
	Streaming     float64 `json:"streaming,omitempty"`

	// operating_costs
	Costs []OperatingCostEntry `json:"costs,omitempty"`

	// battle_complete
	Winnings        float64 `json:"winnings,omitempty"`
	PrestigeAwarded float64 `json:"prestigeAwarded,omitempty"`
	FameAwarded     float64 `json:"fameAwarded,omitempty"`

	// credit_change / prestige_change
	Amount float64 `json:"amount,omitempty"`
	Source string  `json:"source,omitempty"`
}

// EconomicEvent is one append-only row in the audit log. Within a cycle the
// sequence number gives a strict total order; events are never updated once
// written.
type EconomicEvent struct {
	bun.BaseModel `bun:"table:economic_events,alias:ev"`

	ID             int64        `bun:"id,pk,autoincrement"`
	CycleNumber    int          `bun:"cycle_number,notnull"`
	SequenceNumber int          `bun:"sequence_number,notnull"`
	EventType      EventType    `bun:"event_type,notnull"`
	UserID         int64        `bun:"user_id,nullzero"`
	RobotID        int64        `bun:"robot_id,nullzero"`
	BattleID       int64        `bun:"battle_id,nullzero"`
	Payload        EventPayload `bun:"payload,type:jsonb"`
	EventTimestamp time.Time    `bun:"event_timestamp,notnull,default:current_timestamp"`
}
