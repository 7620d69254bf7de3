package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ByeRobotName is the reserved placeholder robot used to fill odd-sized
// brackets. It is excluded from every roster count and revenue estimate.
const ByeRobotName = "Bye Robot"

// Robot is one combatant in a stable's roster.
type Robot struct {
	bun.BaseModel `bun:"table:robots,alias:r"`

	ID                  int64     `bun:"id,pk,autoincrement"`
	UserID              int64     `bun:"user_id,notnull"`
	Name                string    `bun:"name,notnull"`
	Fame                int64     `bun:"fame,notnull,default:0"`
	TotalBattles        int       `bun:"total_battles,notnull,default:0"`
	TotalTagTeamBattles int       `bun:"total_tag_team_battles,notnull,default:0"`
	CreatedAt           time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt           time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// IsBye reports whether the robot is the reserved bracket filler.
func (r *Robot) IsBye() bool {
	return r.Name == ByeRobotName
}
