package repository

import (
	"context"
	"fmt"

	"lotto/database"
	"lotto/models"

	"github.com/jackc/pgx/v5"
)

// RoundRepository implements the round state, entrant and winner history
// data access
type RoundRepository struct {
	q queryable
}

// NewRoundRepository creates a new round repository
func NewRoundRepository(db *database.DB) *RoundRepository {
	return &RoundRepository{q: db.Pool}
}

// newRoundRepositoryWithTx creates a new round repository with a transaction
func newRoundRepositoryWithTx(tx queryable) *RoundRepository {
	return &RoundRepository{q: tx}
}

// EnsureState creates the singleton state row with the initial ticket price
// if it does not exist yet. The price applies only on first creation.
func (r *RoundRepository) EnsureState(ctx context.Context, initialTicketPrice int64) error {
	if initialTicketPrice <= 0 {
		return fmt.Errorf("initial ticket price must be positive")
	}

	query := `
		INSERT INTO lottery_state (id, round_id, ticket_price, pool)
		VALUES (1, 1, $1, 0)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, initialTicketPrice); err != nil {
		return fmt.Errorf("failed to ensure lottery state: %w", err)
	}

	return nil
}

// GetState retrieves the current round state
func (r *RoundRepository) GetState(ctx context.Context) (*models.RoundState, error) {
	query := `
		SELECT round_id, ticket_price, pool, updated_at
		FROM lottery_state
		WHERE id = 1
	`

	var state models.RoundState
	err := r.q.QueryRow(ctx, query).Scan(
		&state.RoundID,
		&state.TicketPrice,
		&state.Pool,
		&state.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("lottery state not initialized")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery state: %w", err)
	}

	return &state, nil
}

// GetStateForUpdate retrieves the current round state with a row lock.
// Every state-changing operation goes through this to serialize mutations.
func (r *RoundRepository) GetStateForUpdate(ctx context.Context) (*models.RoundState, error) {
	query := `
		SELECT round_id, ticket_price, pool, updated_at
		FROM lottery_state
		WHERE id = 1
		FOR UPDATE
	`

	var state models.RoundState
	err := r.q.QueryRow(ctx, query).Scan(
		&state.RoundID,
		&state.TicketPrice,
		&state.Pool,
		&state.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("lottery state not initialized")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery state for update: %w", err)
	}

	return &state, nil
}

// AddEntrant appends a ticket purchase to the current round and moves the
// paid amount into the pool
func (r *RoundRepository) AddEntrant(ctx context.Context, entrant *models.Entrant) error {
	query := `
		INSERT INTO entrants (round_id, discord_id, paid_amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entrant.RoundID,
		entrant.DiscordID,
		entrant.PaidAmount,
	).Scan(&entrant.ID, &entrant.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add entrant for round %d: %w", entrant.RoundID, err)
	}

	poolQuery := `
		UPDATE lottery_state
		SET pool = pool + $1, updated_at = NOW()
		WHERE id = 1
	`

	result, err := r.q.Exec(ctx, poolQuery, entrant.PaidAmount)
	if err != nil {
		return fmt.Errorf("failed to add %d to pool: %w", entrant.PaidAmount, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("lottery state not initialized")
	}

	return nil
}

// GetEntrants returns the entrants of a round in insertion order
func (r *RoundRepository) GetEntrants(ctx context.Context, roundID int64) ([]*models.Entrant, error) {
	query := `
		SELECT id, round_id, discord_id, paid_amount, created_at
		FROM entrants
		WHERE round_id = $1
		ORDER BY id ASC
	`

	rows, err := r.q.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entrants for round %d: %w", roundID, err)
	}
	defer rows.Close()

	var entrants []*models.Entrant
	for rows.Next() {
		var entrant models.Entrant
		err := rows.Scan(
			&entrant.ID,
			&entrant.RoundID,
			&entrant.DiscordID,
			&entrant.PaidAmount,
			&entrant.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entrant: %w", err)
		}
		entrants = append(entrants, &entrant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entrants: %w", err)
	}

	return entrants, nil
}

// CountEntrants returns the number of entrants in a round
func (r *RoundRepository) CountEntrants(ctx context.Context, roundID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM entrants
		WHERE round_id = $1
	`

	var count int
	if err := r.q.QueryRow(ctx, query, roundID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entrants for round %d: %w", roundID, err)
	}

	return count, nil
}

// ClearEntrants removes all entrants of a round
func (r *RoundRepository) ClearEntrants(ctx context.Context, roundID int64) error {
	query := `
		DELETE FROM entrants
		WHERE round_id = $1
	`

	if _, err := r.q.Exec(ctx, query, roundID); err != nil {
		return fmt.Errorf("failed to clear entrants for round %d: %w", roundID, err)
	}

	return nil
}

// AdvanceRound increments the round id and empties the pool
func (r *RoundRepository) AdvanceRound(ctx context.Context) error {
	query := `
		UPDATE lottery_state
		SET round_id = round_id + 1, pool = 0, updated_at = NOW()
		WHERE id = 1
	`

	result, err := r.q.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to advance round: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("lottery state not initialized")
	}

	return nil
}

// SetTicketPrice replaces the ticket price for subsequent entries
func (r *RoundRepository) SetTicketPrice(ctx context.Context, newPrice int64) error {
	if newPrice <= 0 {
		return fmt.Errorf("ticket price must be positive")
	}

	query := `
		UPDATE lottery_state
		SET ticket_price = $1, updated_at = NOW()
		WHERE id = 1
	`

	result, err := r.q.Exec(ctx, query, newPrice)
	if err != nil {
		return fmt.Errorf("failed to set ticket price: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("lottery state not initialized")
	}

	return nil
}

// RecordWinner writes the immutable history entry for a closed round
func (r *RoundRepository) RecordWinner(ctx context.Context, record *models.WinnerRecord) error {
	query := `
		INSERT INTO round_winners (round_id, winner_discord_id, prize)
		VALUES ($1, $2, $3)
		RETURNING decided_at
	`

	err := r.q.QueryRow(ctx, query,
		record.RoundID,
		record.WinnerDiscordID,
		record.Prize,
	).Scan(&record.DecidedAt)
	if err != nil {
		return fmt.Errorf("failed to record winner for round %d: %w", record.RoundID, err)
	}

	return nil
}

// GetWinner returns the winner record for a round, or nil when the round id
// is unknown. Callers that need the zero-value sentinel map this to 0.
func (r *RoundRepository) GetWinner(ctx context.Context, roundID int64) (*models.WinnerRecord, error) {
	query := `
		SELECT round_id, winner_discord_id, prize, decided_at
		FROM round_winners
		WHERE round_id = $1
	`

	var record models.WinnerRecord
	err := r.q.QueryRow(ctx, query, roundID).Scan(
		&record.RoundID,
		&record.WinnerDiscordID,
		&record.Prize,
		&record.DecidedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get winner for round %d: %w", roundID, err)
	}

	return &record, nil
}
