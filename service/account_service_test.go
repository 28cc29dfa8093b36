package service

import (
	"context"
	"testing"

	"lotto/events"
	"lotto/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAccountService_GetOrCreateAccount_Existing(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockAccountRepo, _, mockBalanceHistoryRepo := newLotteryMocks()
	service := NewAccountService(mockFactory, 10000)

	existing := &models.Account{DiscordID: 123456, Username: "player", Balance: 4200}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(existing, nil)

	account, err := service.GetOrCreateAccount(ctx, 123456, "player")

	assert.NoError(t, err)
	assert.Equal(t, existing, account)

	mockAccountRepo.AssertNotCalled(t, "Create")
	mockBalanceHistoryRepo.AssertNotCalled(t, "Record")
	assert.Empty(t, mockUoW.PublishedEvents())
}

func TestAccountService_GetOrCreateAccount_New(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockAccountRepo, _, mockBalanceHistoryRepo := newLotteryMocks()
	service := NewAccountService(mockFactory, 10000)

	created := &models.Account{DiscordID: 123456, Username: "player", Balance: 10000}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(nil, nil)
	mockAccountRepo.On("Create", ctx, int64(123456), "player", int64(10000)).Return(created, nil)

	mockBalanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.DiscordID == 123456 &&
			h.BalanceBefore == 0 &&
			h.BalanceAfter == 10000 &&
			h.TransactionType == models.TransactionTypeInitial
	})).Return(nil)

	account, err := service.GetOrCreateAccount(ctx, 123456, "player")

	assert.NoError(t, err)
	assert.Equal(t, created, account)

	published := mockUoW.PublishedEvents()
	assert.Len(t, published, 1)
	_, ok := published[0].(events.AccountCreatedEvent)
	assert.True(t, ok)

	mockAccountRepo.AssertExpectations(t)
	mockBalanceHistoryRepo.AssertExpectations(t)
}

func TestAccountService_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		service := NewAccountService(mockFactory, 10000)

		for _, amount := range []int64{0, -5} {
			account, err := service.Transfer(ctx, 111, 222, amount)
			assert.Error(t, err)
			assert.Nil(t, account)
		}
		mockFactory.AssertNotCalled(t, "Create")
	})

	t.Run("rejects self transfer", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		service := NewAccountService(mockFactory, 10000)

		account, err := service.Transfer(ctx, 111, 111, 50)
		assert.Error(t, err)
		assert.Nil(t, account)
		mockFactory.AssertNotCalled(t, "Create")
	})

	t.Run("moves funds and records both sides", func(t *testing.T) {
		mockUoW, mockFactory, mockAccountRepo, _, mockBalanceHistoryRepo := newLotteryMocks()
		service := NewAccountService(mockFactory, 10000)

		sender := &models.Account{DiscordID: 111, Balance: 1000}
		recipient := &models.Account{DiscordID: 222, Balance: 300}

		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockAccountRepo.On("GetByDiscordID", ctx, int64(111)).Return(sender, nil)
		mockAccountRepo.On("GetByDiscordID", ctx, int64(222)).Return(recipient, nil)
		mockAccountRepo.On("DeductBalance", ctx, int64(111), int64(250)).Return(nil)
		mockAccountRepo.On("AddBalance", ctx, int64(222), int64(250)).Return(nil)

		mockBalanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
			return h.DiscordID == 111 && h.TransactionType == models.TransactionTypeTransferOut && h.ChangeAmount == -250
		})).Return(nil)
		mockBalanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
			return h.DiscordID == 222 && h.TransactionType == models.TransactionTypeTransferIn && h.ChangeAmount == 250
		})).Return(nil)

		account, err := service.Transfer(ctx, 111, 222, 250)

		assert.NoError(t, err)
		assert.Equal(t, int64(750), account.Balance)

		mockAccountRepo.AssertExpectations(t)
		mockBalanceHistoryRepo.AssertExpectations(t)
	})
}
