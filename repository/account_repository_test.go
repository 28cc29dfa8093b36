package repository

import (
	"context"
	"testing"

	"lotto/models"
	"lotto/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("get missing account returns nil", func(t *testing.T) {
		account, err := repo.GetByDiscordID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("create and read back", func(t *testing.T) {
		created, err := repo.Create(ctx, 123456, "player", 10000)
		require.NoError(t, err)
		assert.Equal(t, int64(123456), created.DiscordID)
		assert.Equal(t, "player", created.Username)
		assert.Equal(t, int64(10000), created.Balance)
		assert.False(t, created.CreatedAt.IsZero())

		got, err := repo.GetByDiscordID(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.Balance, got.Balance)
	})

	t.Run("duplicate create fails", func(t *testing.T) {
		_, err := repo.Create(ctx, 123456, "player", 10000)
		assert.Error(t, err)
	})
}

func TestAccountRepository_Balances(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 123456, "player", 1000)
	require.NoError(t, err)

	t.Run("add balance", func(t *testing.T) {
		err := repo.AddBalance(ctx, 123456, 500)
		require.NoError(t, err)

		account, err := repo.GetByDiscordID(ctx, 123456)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), account.Balance)
	})

	t.Run("deduct balance", func(t *testing.T) {
		err := repo.DeductBalance(ctx, 123456, 300)
		require.NoError(t, err)

		account, err := repo.GetByDiscordID(ctx, 123456)
		require.NoError(t, err)
		assert.Equal(t, int64(1200), account.Balance)
	})

	t.Run("deduct more than balance fails and leaves balance untouched", func(t *testing.T) {
		err := repo.DeductBalance(ctx, 123456, 5000)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient balance")

		account, err := repo.GetByDiscordID(ctx, 123456)
		require.NoError(t, err)
		assert.Equal(t, int64(1200), account.Balance)
	})

	t.Run("operations on missing account fail", func(t *testing.T) {
		assert.Error(t, repo.AddBalance(ctx, 999, 100))
		assert.Error(t, repo.DeductBalance(ctx, 999, 100))
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		assert.Error(t, repo.AddBalance(ctx, 123456, 0))
		assert.Error(t, repo.DeductBalance(ctx, 123456, -50))
	})
}

func TestAccountRepository_GetAll(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	for i, balance := range []int64{500, 2000, 1000} {
		_, err := repo.Create(ctx, int64(100+i), "player", balance)
		require.NoError(t, err)
	}

	accounts, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	// Ordered by balance, richest first
	assert.Equal(t, int64(2000), accounts[0].Balance)
	assert.Equal(t, int64(1000), accounts[1].Balance)
	assert.Equal(t, int64(500), accounts[2].Balance)
}

func TestBalanceHistoryRepository_Record(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceHistoryRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := accountRepo.Create(ctx, 123456, "player", 10000)
	require.NoError(t, err)

	t.Run("record with metadata", func(t *testing.T) {
		history := testutil.CreateTestBalanceHistory(123456, models.TransactionTypeTicket)
		history.TransactionMetadata = map[string]any{
			"round_id": 1,
		}

		err := repo.Record(ctx, history)
		require.NoError(t, err)
		assert.NotZero(t, history.ID)
		assert.False(t, history.CreatedAt.IsZero())
	})

	t.Run("record with nil metadata", func(t *testing.T) {
		history := testutil.CreateTestBalanceHistory(123456, models.TransactionTypePrize)
		history.TransactionMetadata = nil

		err := repo.Record(ctx, history)
		require.NoError(t, err)
		assert.NotZero(t, history.ID)
	})

	t.Run("get by account newest first", func(t *testing.T) {
		histories, err := repo.GetByAccount(ctx, 123456, 10)
		require.NoError(t, err)
		assert.Len(t, histories, 2)
	})

	t.Run("no history for unknown account", func(t *testing.T) {
		histories, err := repo.GetByAccount(ctx, 999, 10)
		require.NoError(t, err)
		assert.Empty(t, histories)
	})
}
