package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BalanceEntryType string

const (
	BalanceEntryIncome   BalanceEntryType = "income"
	BalanceEntryExpense  BalanceEntryType = "expense"
	BalanceEntryFreeze   BalanceEntryType = "freeze"
	BalanceEntryUnfreeze BalanceEntryType = "unfreeze"
)

// Balance is the per-user snapshot derived from the entry log. It is never
// written directly; only the ledger operations mutate it.
type Balance struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Balance       decimal.Decimal `json:"balance"`
	FrozenBalance decimal.Decimal `json:"frozen_balance"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpense  decimal.Decimal `json:"total_expense"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BalanceEntry is one append-only ledger line. Entries are immutable;
// replaying a user's entries from zero must reproduce the Balance snapshot.
type BalanceEntry struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	EntryType     BalanceEntryType `json:"entry_type"`
	Amount        decimal.Decimal  `json:"amount"`
	BalanceBefore decimal.Decimal  `json:"balance_before"`
	BalanceAfter  decimal.Decimal  `json:"balance_after"`
	RelatedType   string           `json:"related_type,omitempty"`
	RelatedID     string           `json:"related_id,omitempty"`
	Description   string           `json:"description"`
	CreatedAt     time.Time        `json:"created_at"`
}
