package testutil

import (
	"time"

	"lotto/models"
)

// CreateTestAccount creates a test account with default values
func CreateTestAccount(discordID int64, username string) *models.Account {
	now := time.Now()
	return &models.Account{
		DiscordID: discordID,
		Username:  username,
		Balance:   10000,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestAccountWithBalance creates a test account with a specific balance
func CreateTestAccountWithBalance(discordID int64, username string, balance int64) *models.Account {
	account := CreateTestAccount(discordID, username)
	account.Balance = balance
	return account
}

// CreateTestEntrant creates a test entrant for a round
func CreateTestEntrant(roundID, discordID, paidAmount int64) *models.Entrant {
	return &models.Entrant{
		RoundID:    roundID,
		DiscordID:  discordID,
		PaidAmount: paidAmount,
	}
}

// CreateTestBalanceHistory creates a test balance history entry
func CreateTestBalanceHistory(discordID int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   10000,
		BalanceAfter:    9900,
		ChangeAmount:    -100,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}
