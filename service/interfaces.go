package service

import (
	"context"

	"lotto/events"
	"lotto/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByDiscordID retrieves an account by its Discord ID
	GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error)

	// Create creates a new account with the initial balance
	Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*models.Account, error)

	// AddBalance adds to an account's balance atomically
	AddBalance(ctx context.Context, discordID int64, amount int64) error

	// DeductBalance deducts from an account's balance atomically, failing if insufficient funds
	DeductBalance(ctx context.Context, discordID int64, amount int64) error

	// GetAll returns all accounts
	GetAll(ctx context.Context) ([]*models.Account, error)
}

// RoundRepository defines the interface for round state, entrant and winner
// history data access
type RoundRepository interface {
	// EnsureState creates the singleton state row if missing
	EnsureState(ctx context.Context, initialTicketPrice int64) error

	// GetState retrieves the current round state
	GetState(ctx context.Context) (*models.RoundState, error)

	// GetStateForUpdate retrieves the current round state with a row lock
	GetStateForUpdate(ctx context.Context) (*models.RoundState, error)

	// AddEntrant appends a ticket purchase and moves the payment into the pool
	AddEntrant(ctx context.Context, entrant *models.Entrant) error

	// GetEntrants returns the entrants of a round in insertion order
	GetEntrants(ctx context.Context, roundID int64) ([]*models.Entrant, error)

	// CountEntrants returns the number of entrants in a round
	CountEntrants(ctx context.Context, roundID int64) (int, error)

	// ClearEntrants removes all entrants of a round
	ClearEntrants(ctx context.Context, roundID int64) error

	// AdvanceRound increments the round id and empties the pool
	AdvanceRound(ctx context.Context) error

	// SetTicketPrice replaces the ticket price for subsequent entries
	SetTicketPrice(ctx context.Context, newPrice int64) error

	// RecordWinner writes the history entry for a closed round
	RecordWinner(ctx context.Context, record *models.WinnerRecord) error

	// GetWinner returns the winner record for a round, nil when unknown
	GetWinner(ctx context.Context, roundID int64) (*models.WinnerRecord, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByAccount returns balance history for a specific account
	GetByAccount(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error)
}

// LotteryService defines the interface for the lottery round lifecycle
type LotteryService interface {
	// EnsureRound bootstraps the round state with the configured initial price
	EnsureRound(ctx context.Context) error

	// Enter buys a ticket for the caller; paidAmount must equal the ticket price exactly
	Enter(ctx context.Context, callerID int64, paidAmount int64) (*models.Entrant, error)

	// SelectWinner draws a winner for the current round and pays out the pool.
	// Only the configured owner may call this.
	SelectWinner(ctx context.Context, callerID int64) (*models.DrawResult, error)

	// UpdateTicketPrice replaces the ticket price for subsequent entries.
	// Only the configured owner may call this.
	UpdateTicketPrice(ctx context.Context, callerID int64, newPrice int64) error

	// GetRoundInfo returns the current round id, ticket price and pool
	GetRoundInfo(ctx context.Context) (*models.RoundState, error)

	// GetEntrants returns the current round's entrants in insertion order
	GetEntrants(ctx context.Context) ([]*models.Entrant, error)

	// GetEntrantCount returns the current round's entrant count
	GetEntrantCount(ctx context.Context) (int, error)

	// GetWinner returns the winner identity for a past round, 0 when the
	// round id is unknown
	GetWinner(ctx context.Context, roundID int64) (int64, error)
}

// AccountService defines the interface for account operations
type AccountService interface {
	// GetOrCreateAccount retrieves an existing account or creates a new one
	// with the starting balance
	GetOrCreateAccount(ctx context.Context, discordID int64, username string) (*models.Account, error)

	// Transfer moves amount from one account to another
	Transfer(ctx context.Context, fromDiscordID, toDiscordID int64, amount int64) (*models.Account, error)
}

// EntropySource supplies the draw inputs used for winner index derivation.
// It is treated as an opaque, untrusted entropy source; implementations with
// fixed values make selection fully reproducible.
type EntropySource interface {
	Draw() models.Entropy
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	RoundRepository() RoundRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
