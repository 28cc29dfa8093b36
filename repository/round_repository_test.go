package repository

import (
	"context"
	"testing"

	"lotto/models"
	"lotto/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRepository_EnsureState(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoundRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates initial state", func(t *testing.T) {
		err := repo.EnsureState(ctx, 100)
		require.NoError(t, err)

		state, err := repo.GetState(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), state.RoundID)
		assert.Equal(t, int64(100), state.TicketPrice)
		assert.Equal(t, int64(0), state.Pool)
	})

	t.Run("second call does not overwrite", func(t *testing.T) {
		err := repo.EnsureState(ctx, 999)
		require.NoError(t, err)

		state, err := repo.GetState(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(100), state.TicketPrice)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		err := repo.EnsureState(ctx, 0)
		assert.Error(t, err)
	})
}

func TestRoundRepository_GetState_Uninitialized(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoundRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.GetState(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestRoundRepository_Entrants(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoundRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.EnsureState(ctx, 100))
	for _, id := range []int64{111, 222} {
		_, err := accountRepo.Create(ctx, id, "player", 10000)
		require.NoError(t, err)
	}

	t.Run("empty round", func(t *testing.T) {
		entrants, err := repo.GetEntrants(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, entrants)

		count, err := repo.CountEntrants(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("add entrants grows pool and preserves order", func(t *testing.T) {
		for _, discordID := range []int64{111, 222, 111} {
			err := repo.AddEntrant(ctx, testutil.CreateTestEntrant(1, discordID, 100))
			require.NoError(t, err)
		}

		entrants, err := repo.GetEntrants(ctx, 1)
		require.NoError(t, err)
		require.Len(t, entrants, 3)
		assert.Equal(t, int64(111), entrants[0].DiscordID)
		assert.Equal(t, int64(222), entrants[1].DiscordID)
		assert.Equal(t, int64(111), entrants[2].DiscordID)

		count, err := repo.CountEntrants(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		state, err := repo.GetState(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(300), state.Pool)
	})

	t.Run("clear entrants", func(t *testing.T) {
		err := repo.ClearEntrants(ctx, 1)
		require.NoError(t, err)

		count, err := repo.CountEntrants(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestRoundRepository_AdvanceRound(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoundRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.EnsureState(ctx, 100))
	_, err := accountRepo.Create(ctx, 111, "player", 10000)
	require.NoError(t, err)
	require.NoError(t, repo.AddEntrant(ctx, testutil.CreateTestEntrant(1, 111, 100)))

	err = repo.AdvanceRound(ctx)
	require.NoError(t, err)

	state, err := repo.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), state.RoundID)
	assert.Equal(t, int64(0), state.Pool)
	// Ticket price carries over across rounds
	assert.Equal(t, int64(100), state.TicketPrice)
}

func TestRoundRepository_SetTicketPrice(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoundRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.EnsureState(ctx, 100))

	t.Run("updates price", func(t *testing.T) {
		err := repo.SetTicketPrice(ctx, 250)
		require.NoError(t, err)

		state, err := repo.GetState(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(250), state.TicketPrice)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		assert.Error(t, repo.SetTicketPrice(ctx, 0))
		assert.Error(t, repo.SetTicketPrice(ctx, -10))
	})
}

func TestRoundRepository_Winners(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoundRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.EnsureState(ctx, 100))
	for _, id := range []int64{111, 222} {
		_, err := accountRepo.Create(ctx, id, "player", 10000)
		require.NoError(t, err)
	}

	t.Run("unknown round yields nil", func(t *testing.T) {
		record, err := repo.GetWinner(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("record and read back", func(t *testing.T) {
		record := &models.WinnerRecord{
			RoundID:         1,
			WinnerDiscordID: 111,
			Prize:           300,
		}
		err := repo.RecordWinner(ctx, record)
		require.NoError(t, err)
		assert.False(t, record.DecidedAt.IsZero())

		got, err := repo.GetWinner(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(111), got.WinnerDiscordID)
		assert.Equal(t, int64(300), got.Prize)
	})

	t.Run("round winner is immutable", func(t *testing.T) {
		err := repo.RecordWinner(ctx, &models.WinnerRecord{
			RoundID:         1,
			WinnerDiscordID: 222,
			Prize:           999,
		})
		assert.Error(t, err)
	})
}
