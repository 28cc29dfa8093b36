package models

import (
	"time"
)

// RoundState is the singleton lottery round state. RoundID starts at 1 and
// advances by one each time a winner is drawn; Pool holds the funds collected
// from entries of the current round.
type RoundState struct {
	RoundID     int64     `db:"round_id"`
	TicketPrice int64     `db:"ticket_price"`
	Pool        int64     `db:"pool"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Entrant is a single ticket purchase. The same account may hold several
// entrants in one round; insertion order is the selection order.
type Entrant struct {
	ID         int64     `db:"id"`
	RoundID    int64     `db:"round_id"`
	DiscordID  int64     `db:"discord_id"`
	PaidAmount int64     `db:"paid_amount"`
	CreatedAt  time.Time `db:"created_at"`
}

// WinnerRecord is the immutable history entry written when a round closes.
type WinnerRecord struct {
	RoundID         int64     `db:"round_id"`
	WinnerDiscordID int64     `db:"winner_discord_id"`
	Prize           int64     `db:"prize"`
	DecidedAt       time.Time `db:"decided_at"`
}

// DrawResult is the outcome of a successful winner selection.
type DrawResult struct {
	RoundID         int64
	WinnerDiscordID int64
	Prize           int64
	WinningIndex    int
	EntrantCount    int
}

// Entropy holds the draw inputs supplied by the environment. Winner selection
// is a deterministic function of these values plus the entrant count and the
// caller identity; it is not cryptographically secure and is not meant to be.
type Entropy struct {
	Timestamp int64
	Seed      string
}
