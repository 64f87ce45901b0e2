package contracts

import (
	"context"

	"github.com/shopspring/decimal"

	"mediline-service/internal/app/models"
)

// BalanceMutation describes one ledger movement against a user's balance.
type BalanceMutation struct {
	UserID      string
	Amount      decimal.Decimal
	RelatedType string
	RelatedID   string
	Description string
}

// BalanceLedger is the only writer of user balances. Every mutation locks the
// balance row, re-derives the new figures from the stored ones and appends an
// entry carrying the before/after snapshot.
type BalanceLedger interface {
	Credit(ctx context.Context, mutation *BalanceMutation) (*models.BalanceEntry, error)
	Debit(ctx context.Context, mutation *BalanceMutation) (*models.BalanceEntry, error)
	Freeze(ctx context.Context, mutation *BalanceMutation) (*models.BalanceEntry, error)
	Unfreeze(ctx context.Context, mutation *BalanceMutation) (*models.BalanceEntry, error)

	GetBalance(ctx context.Context, userID string) (*models.Balance, error)
	ListEntries(ctx context.Context, userID string, page, pageSize int) ([]models.BalanceEntry, int64, error)
}

type BalanceRepository interface {
	CreateBalance(ctx context.Context, balance *models.Balance) error
	FindBalanceByUserID(ctx context.Context, userID string) (*models.Balance, error)
	FindBalanceByUserIDForUpdate(ctx context.Context, userID string) (*models.Balance, error)
	UpdateBalanceFigures(ctx context.Context, balance *models.Balance) error
}

type BalanceEntryRepository interface {
	CreateBalanceEntry(ctx context.Context, entry *models.BalanceEntry) error
	ListBalanceEntries(ctx context.Context, userID string, page, pageSize int) ([]models.BalanceEntry, int64, error)
}
