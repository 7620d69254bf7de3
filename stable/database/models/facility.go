package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Facility is one upgradeable building owned by a stable. Level 0 means the
// facility has not been purchased; one row exists per (user, type).
type Facility struct {
	bun.BaseModel `bun:"table:facilities,alias:f"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       int64     `bun:"user_id,notnull"`
	FacilityType string    `bun:"facility_type,notnull"`
	Level        int       `bun:"level,notnull,default:0"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
