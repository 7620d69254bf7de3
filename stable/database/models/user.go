package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a stable owner: the economic actor all analytics are keyed on.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Username   string    `bun:"username,notnull,unique"`
	StableName string    `bun:"stable_name"`
	Currency   int64     `bun:"currency,notnull,default:0"`
	Prestige   int64     `bun:"prestige,notnull,default:0"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
