package responses

import (
	"time"

	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
)

type Balance struct {
	UserID        string    `json:"user_id"`
	Balance       string    `json:"balance"`
	FrozenBalance string    `json:"frozen_balance"`
	TotalIncome   string    `json:"total_income"`
	TotalExpense  string    `json:"total_expense"`
	Currency      string    `json:"currency"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewBalanceResponse(balance *models.Balance) *Balance {
	return &Balance{
		UserID:        balance.UserID,
		Balance:       balance.Balance.StringFixed(constvars.MoneyFractionDigits),
		FrozenBalance: balance.FrozenBalance.StringFixed(constvars.MoneyFractionDigits),
		TotalIncome:   balance.TotalIncome.StringFixed(constvars.MoneyFractionDigits),
		TotalExpense:  balance.TotalExpense.StringFixed(constvars.MoneyFractionDigits),
		Currency:      constvars.DefaultCurrency,
		UpdatedAt:     balance.UpdatedAt,
	}
}

type BalanceEntry struct {
	EntryID       string    `json:"entry_id"`
	EntryType     string    `json:"entry_type"`
	Amount        string    `json:"amount"`
	BalanceBefore string    `json:"balance_before"`
	BalanceAfter  string    `json:"balance_after"`
	RelatedType   string    `json:"related_type,omitempty"`
	RelatedID     string    `json:"related_id,omitempty"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewBalanceEntryListResponse(entries []models.BalanceEntry) []BalanceEntry {
	list := make([]BalanceEntry, 0, len(entries))
	for _, entry := range entries {
		list = append(list, BalanceEntry{
			EntryID:       entry.ID,
			EntryType:     string(entry.EntryType),
			Amount:        entry.Amount.StringFixed(constvars.MoneyFractionDigits),
			BalanceBefore: entry.BalanceBefore.StringFixed(constvars.MoneyFractionDigits),
			BalanceAfter:  entry.BalanceAfter.StringFixed(constvars.MoneyFractionDigits),
			RelatedType:   entry.RelatedType,
			RelatedID:     entry.RelatedID,
			Description:   entry.Description,
			CreatedAt:     entry.CreatedAt,
		})
	}
	return list
}
