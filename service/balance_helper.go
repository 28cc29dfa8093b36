package service

import (
	"context"
	"fmt"

	"lotto/models"
)

// RecordBalanceChange records a balance history entry through the unit of
// work. This is the single entry point for all balance audit records.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}
	return nil
}
