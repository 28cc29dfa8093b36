package models

import (
	"time"
)

// Account represents a Discord user holding a balance that can buy tickets
// and receive payouts
type Account struct {
	DiscordID int64     `db:"discord_id"`
	Username  string    `db:"username"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
