package balances

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/exceptions"
)

type ledgerUsecase struct {
	BalanceRepository      contracts.BalanceRepository
	BalanceEntryRepository contracts.BalanceEntryRepository
	TransactionManager     contracts.TransactionManager
	Log                    *zap.Logger
}

var (
	ledgerUsecaseInstance contracts.BalanceLedger
	onceLedgerUsecase     sync.Once
)

func NewLedgerUsecase(
	balanceRepository contracts.BalanceRepository,
	balanceEntryRepository contracts.BalanceEntryRepository,
	transactionManager contracts.TransactionManager,
	logger *zap.Logger,
) contracts.BalanceLedger {
	onceLedgerUsecase.Do(func() {
		ledgerUsecaseInstance = &ledgerUsecase{
			BalanceRepository:      balanceRepository,
			BalanceEntryRepository: balanceEntryRepository,
			TransactionManager:     transactionManager,
			Log:                    logger,
		}
	})
	return ledgerUsecaseInstance
}

func (uc *ledgerUsecase) Credit(ctx context.Context, mutation *contracts.BalanceMutation) (*models.BalanceEntry, error) {
	return uc.mutate(ctx, mutation, models.BalanceEntryIncome, func(balance *models.Balance) error {
		balance.Balance = balance.Balance.Add(mutation.Amount)
		balance.TotalIncome = balance.TotalIncome.Add(mutation.Amount)
		return nil
	})
}

func (uc *ledgerUsecase) Debit(ctx context.Context, mutation *contracts.BalanceMutation) (*models.BalanceEntry, error) {
	return uc.mutate(ctx, mutation, models.BalanceEntryExpense, func(balance *models.Balance) error {
		if balance.Balance.LessThan(mutation.Amount) {
			return exceptions.ErrInsufficientBalance(fmt.Errorf("available %s, needed %s", balance.Balance, mutation.Amount))
		}
		balance.Balance = balance.Balance.Sub(mutation.Amount)
		balance.TotalExpense = balance.TotalExpense.Add(mutation.Amount)
		return nil
	})
}

func (uc *ledgerUsecase) Freeze(ctx context.Context, mutation *contracts.BalanceMutation) (*models.BalanceEntry, error) {
	return uc.mutate(ctx, mutation, models.BalanceEntryFreeze, func(balance *models.Balance) error {
		if balance.Balance.LessThan(mutation.Amount) {
			return exceptions.ErrInsufficientBalance(fmt.Errorf("available %s, needed %s", balance.Balance, mutation.Amount))
		}
		balance.Balance = balance.Balance.Sub(mutation.Amount)
		balance.FrozenBalance = balance.FrozenBalance.Add(mutation.Amount)
		return nil
	})
}

func (uc *ledgerUsecase) Unfreeze(ctx context.Context, mutation *contracts.BalanceMutation) (*models.BalanceEntry, error) {
	return uc.mutate(ctx, mutation, models.BalanceEntryUnfreeze, func(balance *models.Balance) error {
		if balance.FrozenBalance.LessThan(mutation.Amount) {
			return exceptions.ErrFrozenBalanceInsufficient(fmt.Errorf("frozen %s, needed %s", balance.FrozenBalance, mutation.Amount))
		}
		balance.FrozenBalance = balance.FrozenBalance.Sub(mutation.Amount)
		balance.Balance = balance.Balance.Add(mutation.Amount)
		return nil
	})
}

func (uc *ledgerUsecase) GetBalance(ctx context.Context, userID string) (*models.Balance, error) {
	balance, err := uc.BalanceRepository.FindBalanceByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		// A user without a row simply has a zero balance
		return &models.Balance{UserID: userID}, nil
	}
	return balance, nil
}

func (uc *ledgerUsecase) ListEntries(ctx context.Context, userID string, page, pageSize int) ([]models.BalanceEntry, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = constvars.DefaultPageSize
	}
	return uc.BalanceEntryRepository.ListBalanceEntries(ctx, userID, page, pageSize)
}

// mutate runs one ledger movement: lock the balance row, apply the change to
// the stored figures, persist both the snapshot and the entry in the same
// transaction. apply sees the locked row and may refuse the movement.
func (uc *ledgerUsecase) mutate(ctx context.Context, mutation *contracts.BalanceMutation, entryType models.BalanceEntryType, apply func(balance *models.Balance) error) (*models.BalanceEntry, error) {
	if !mutation.Amount.IsPositive() {
		return nil, exceptions.ErrInvalidAmount(fmt.Errorf("ledger amounts must be positive, got %s", mutation.Amount))
	}

	var entry *models.BalanceEntry
	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context) error {
		balance, err := uc.lockOrCreateBalance(ctx, mutation.UserID)
		if err != nil {
			return err
		}

		before := balance.Balance
		if err := apply(balance); err != nil {
			return err
		}

		if err := uc.BalanceRepository.UpdateBalanceFigures(ctx, balance); err != nil {
			return err
		}

		entry = &models.BalanceEntry{
			ID:            uuid.NewString(),
			UserID:        mutation.UserID,
			EntryType:     entryType,
			Amount:        mutation.Amount,
			BalanceBefore: before,
			BalanceAfter:  balance.Balance,
			RelatedType:   mutation.RelatedType,
			RelatedID:     mutation.RelatedID,
			Description:   mutation.Description,
		}
		return uc.BalanceEntryRepository.CreateBalanceEntry(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.Log.Debug("ledgerUsecase.mutate applied entry",
		zap.String(constvars.LoggingUserIDKey, mutation.UserID),
		zap.String("entry_type", string(entryType)),
		zap.String(constvars.LoggingAmountKey, mutation.Amount.String()),
	)
	return entry, nil
}

func (uc *ledgerUsecase) lockOrCreateBalance(ctx context.Context, userID string) (*models.Balance, error) {
	balance, err := uc.BalanceRepository.FindBalanceByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance != nil {
		return balance, nil
	}

	balance = &models.Balance{
		ID:            uuid.NewString(),
		UserID:        userID,
		Balance:       decimal.Zero,
		FrozenBalance: decimal.Zero,
		TotalIncome:   decimal.Zero,
		TotalExpense:  decimal.Zero,
	}
	if err := uc.BalanceRepository.CreateBalance(ctx, balance); err != nil {
		return nil, err
	}

	// The insert tolerates a concurrent creator winning the race; the
	// re-read under lock serializes both on whichever row landed.
	return uc.BalanceRepository.FindBalanceByUserIDForUpdate(ctx, userID)
}
