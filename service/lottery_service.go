package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"lotto/events"
	"lotto/models"
)

type lotteryService struct {
	uowFactory     UnitOfWorkFactory
	entropy        EntropySource
	ownerDiscordID int64
	initialPrice   int64
}

// NewLotteryService creates a new lottery service. ownerDiscordID is the only
// identity allowed to draw winners or change the ticket price; initialPrice
// is applied once when the round state row is first created.
func NewLotteryService(uowFactory UnitOfWorkFactory, entropy EntropySource, ownerDiscordID, initialPrice int64) LotteryService {
	return &lotteryService{
		uowFactory:     uowFactory,
		entropy:        entropy,
		ownerDiscordID: ownerDiscordID,
		initialPrice:   initialPrice,
	}
}

// EnsureRound bootstraps the singleton round state with the configured
// initial ticket price
func (s *lotteryService) EnsureRound(ctx context.Context) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := uow.RoundRepository().EnsureState(ctx, s.initialPrice); err != nil {
		return fmt.Errorf("failed to initialize round state: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Enter buys a ticket for the caller. The payment must equal the ticket
// price exactly; a mismatch is rejected before any funds move. The same
// account may enter multiple times, each entry raising its selection odds.
func (s *lotteryService) Enter(ctx context.Context, callerID int64, paidAmount int64) (*models.Entrant, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	state, err := uow.RoundRepository().GetStateForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get round state: %w", err)
	}

	if paidAmount != state.TicketPrice {
		return nil, fmt.Errorf("%w: paid %d, ticket price is %d", ErrInvalidPayment, paidAmount, state.TicketPrice)
	}

	account, err := uow.AccountRepository().GetByDiscordID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account not found")
	}

	// Move the payment from the caller into the pool
	if err := uow.AccountRepository().DeductBalance(ctx, callerID, paidAmount); err != nil {
		return nil, fmt.Errorf("failed to collect ticket payment: %w", err)
	}

	entrant := &models.Entrant{
		RoundID:    state.RoundID,
		DiscordID:  callerID,
		PaidAmount: paidAmount,
	}
	if err := uow.RoundRepository().AddEntrant(ctx, entrant); err != nil {
		return nil, fmt.Errorf("failed to add entrant: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       callerID,
		BalanceBefore:   account.Balance,
		BalanceAfter:    account.Balance - paidAmount,
		ChangeAmount:    -paidAmount,
		TransactionType: models.TransactionTypeTicket,
		TransactionMetadata: map[string]any{
			"round_id": state.RoundID,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	uow.EventBus().Publish(events.PlayerEnteredEvent{
		DiscordID:  callerID,
		PaidAmount: paidAmount,
		RoundID:    state.RoundID,
		PoolAfter:  state.Pool + paidAmount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entrant, nil
}

// SelectWinner draws a winner for the current round and transfers the pooled
// funds. The history write, round advance, entrant reset and payout are one
// transaction: if the payout cannot complete, everything is rolled back.
func (s *lotteryService) SelectWinner(ctx context.Context, callerID int64) (*models.DrawResult, error) {
	if callerID != s.ownerDiscordID {
		return nil, ErrUnauthorized
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	state, err := uow.RoundRepository().GetStateForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get round state: %w", err)
	}

	entrants, err := uow.RoundRepository().GetEntrants(ctx, state.RoundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entrants: %w", err)
	}
	if len(entrants) == 0 {
		return nil, ErrNoEntrants
	}

	entropy := s.entropy.Draw()
	index := winnerIndex(entropy, len(entrants), callerID)
	winner := entrants[index]
	prize := state.Pool

	record := &models.WinnerRecord{
		RoundID:         state.RoundID,
		WinnerDiscordID: winner.DiscordID,
		Prize:           prize,
	}
	if err := uow.RoundRepository().RecordWinner(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record winner: %w", err)
	}

	uow.EventBus().Publish(events.WinnerSelectedEvent{
		WinnerDiscordID: winner.DiscordID,
		Prize:           prize,
		RoundID:         state.RoundID,
		EntrantCount:    len(entrants),
	})

	if err := uow.RoundRepository().AdvanceRound(ctx); err != nil {
		return nil, fmt.Errorf("failed to advance round: %w", err)
	}

	if err := uow.RoundRepository().ClearEntrants(ctx, state.RoundID); err != nil {
		return nil, fmt.Errorf("failed to clear entrants: %w", err)
	}

	// Pay out last so any transfer failure aborts the whole draw
	if prize > 0 {
		winnerAccount, err := uow.AccountRepository().GetByDiscordID(ctx, winner.DiscordID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPayoutFailed, err)
		}
		if winnerAccount == nil {
			return nil, fmt.Errorf("%w: winner account %d not found", ErrPayoutFailed, winner.DiscordID)
		}

		if err := uow.AccountRepository().AddBalance(ctx, winner.DiscordID, prize); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPayoutFailed, err)
		}

		history := &models.BalanceHistory{
			DiscordID:       winner.DiscordID,
			BalanceBefore:   winnerAccount.Balance,
			BalanceAfter:    winnerAccount.Balance + prize,
			ChangeAmount:    prize,
			TransactionType: models.TransactionTypePrize,
			TransactionMetadata: map[string]any{
				"round_id":      state.RoundID,
				"entrant_count": len(entrants),
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPayoutFailed, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"roundID":      state.RoundID,
		"winner":       winner.DiscordID,
		"prize":        prize,
		"entrantCount": len(entrants),
		"winningIndex": index,
	}).Info("Winner selected")

	return &models.DrawResult{
		RoundID:         state.RoundID,
		WinnerDiscordID: winner.DiscordID,
		Prize:           prize,
		WinningIndex:    index,
		EntrantCount:    len(entrants),
	}, nil
}

// UpdateTicketPrice replaces the ticket price for subsequent entries. Already
// collected pool funds are unaffected.
func (s *lotteryService) UpdateTicketPrice(ctx context.Context, callerID int64, newPrice int64) error {
	if callerID != s.ownerDiscordID {
		return ErrUnauthorized
	}
	if newPrice <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPrice, newPrice)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	state, err := uow.RoundRepository().GetStateForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("failed to get round state: %w", err)
	}

	if err := uow.RoundRepository().SetTicketPrice(ctx, newPrice); err != nil {
		return fmt.Errorf("failed to set ticket price: %w", err)
	}

	uow.EventBus().Publish(events.TicketPriceUpdatedEvent{
		OldPrice: state.TicketPrice,
		NewPrice: newPrice,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRoundInfo returns the current round id, ticket price and pool
func (s *lotteryService) GetRoundInfo(ctx context.Context) (*models.RoundState, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	state, err := uow.RoundRepository().GetState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get round state: %w", err)
	}

	return state, nil
}

// GetEntrants returns the current round's entrants in insertion order
func (s *lotteryService) GetEntrants(ctx context.Context) ([]*models.Entrant, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	state, err := uow.RoundRepository().GetState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get round state: %w", err)
	}

	entrants, err := uow.RoundRepository().GetEntrants(ctx, state.RoundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entrants: %w", err)
	}

	return entrants, nil
}

// GetEntrantCount returns the current round's entrant count
func (s *lotteryService) GetEntrantCount(ctx context.Context) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	state, err := uow.RoundRepository().GetState(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get round state: %w", err)
	}

	count, err := uow.RoundRepository().CountEntrants(ctx, state.RoundID)
	if err != nil {
		return 0, fmt.Errorf("failed to count entrants: %w", err)
	}

	return count, nil
}

// GetWinner returns the winner identity for a past round. An unknown round id
// yields 0, matching the zero-value lookup convention callers rely on.
func (s *lotteryService) GetWinner(ctx context.Context, roundID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	record, err := uow.RoundRepository().GetWinner(ctx, roundID)
	if err != nil {
		return 0, fmt.Errorf("failed to get winner: %w", err)
	}
	if record == nil {
		return 0, nil
	}

	return record.WinnerDiscordID, nil
}
