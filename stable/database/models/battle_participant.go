package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BattleParticipant records one robot's side of a completed battle, including
// the streaming revenue awarded for it. The ROI calculator joins these rows
// against battle_complete events when reconstructing streaming returns.
type BattleParticipant struct {
	bun.BaseModel `bun:"table:battle_participants,alias:bp"`

	ID               int64     `bun:"id,pk,autoincrement"`
	BattleID         int64     `bun:"battle_id,notnull"`
	RobotID          int64     `bun:"robot_id,notnull"`
	UserID           int64     `bun:"user_id,notnull"`
	OpponentRobotID  int64     `bun:"opponent_robot_id,nullzero"`
	Result           string    `bun:"result,notnull"`
	Winnings         float64   `bun:"winnings,notnull,default:0"`
	StreamingRevenue float64   `bun:"streaming_revenue,notnull,default:0"`
	RepairCost       float64   `bun:"repair_cost,notnull,default:0"`
	PrestigeAwarded  float64   `bun:"prestige_awarded,notnull,default:0"`
	FameAwarded      float64   `bun:"fame_awarded,notnull,default:0"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
