package service

import (
	"context"
	"fmt"

	"lotto/events"
	"lotto/models"
)

type accountService struct {
	uowFactory      UnitOfWorkFactory
	startingBalance int64
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory, startingBalance int64) AccountService {
	return &accountService{
		uowFactory:      uowFactory,
		startingBalance: startingBalance,
	}
}

// GetOrCreateAccount retrieves an existing account or creates a new one with
// the starting balance
func (s *accountService) GetOrCreateAccount(ctx context.Context, discordID int64, username string) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	if account == nil {
		// Database primary key on discord_id prevents duplicates
		account, err = uow.AccountRepository().Create(ctx, discordID, username, s.startingBalance)
		if err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}

		history := &models.BalanceHistory{
			DiscordID:       discordID,
			BalanceBefore:   0,
			BalanceAfter:    s.startingBalance,
			ChangeAmount:    s.startingBalance,
			TransactionType: models.TransactionTypeInitial,
			TransactionMetadata: map[string]any{
				"username": username,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}

		uow.EventBus().Publish(events.AccountCreatedEvent{
			DiscordID:      discordID,
			Username:       username,
			InitialBalance: s.startingBalance,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account, nil
}

// Transfer moves amount from one account to another and returns the sender's
// updated account
func (s *accountService) Transfer(ctx context.Context, fromDiscordID, toDiscordID int64, amount int64) (*models.Account, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("transfer amount must be positive")
	}
	if fromDiscordID == toDiscordID {
		return nil, fmt.Errorf("cannot transfer to yourself")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	fromAccount, err := uow.AccountRepository().GetByDiscordID(ctx, fromDiscordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sender account: %w", err)
	}
	if fromAccount == nil {
		return nil, fmt.Errorf("sender account not found")
	}

	toAccount, err := uow.AccountRepository().GetByDiscordID(ctx, toDiscordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient account: %w", err)
	}
	if toAccount == nil {
		return nil, fmt.Errorf("recipient account not found")
	}

	if err := uow.AccountRepository().DeductBalance(ctx, fromDiscordID, amount); err != nil {
		return nil, fmt.Errorf("failed to deduct transfer amount: %w", err)
	}
	if err := uow.AccountRepository().AddBalance(ctx, toDiscordID, amount); err != nil {
		return nil, fmt.Errorf("failed to add transfer amount: %w", err)
	}

	fromHistory := &models.BalanceHistory{
		DiscordID:       fromDiscordID,
		BalanceBefore:   fromAccount.Balance,
		BalanceAfter:    fromAccount.Balance - amount,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeTransferOut,
		TransactionMetadata: map[string]any{
			"recipient_discord_id": toDiscordID,
			"transfer_amount":      amount,
		},
	}
	if err := RecordBalanceChange(ctx, uow, fromHistory); err != nil {
		return nil, fmt.Errorf("failed to record sender balance change: %w", err)
	}

	toHistory := &models.BalanceHistory{
		DiscordID:       toDiscordID,
		BalanceBefore:   toAccount.Balance,
		BalanceAfter:    toAccount.Balance + amount,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeTransferIn,
		TransactionMetadata: map[string]any{
			"sender_discord_id": fromDiscordID,
			"transfer_amount":   amount,
		},
	}
	if err := RecordBalanceChange(ctx, uow, toHistory); err != nil {
		return nil, fmt.Errorf("failed to record recipient balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	fromAccount.Balance -= amount
	return fromAccount, nil
}
