package requests

import "github.com/shopspring/decimal"

type CreateRefund struct {
	OrderID string          `json:"order_id" validate:"required,uuid"`
	Amount  decimal.Decimal `json:"amount" validate:"money"`
	Reason  string          `json:"reason" validate:"required,min=1,max=500"`
}

type ReviewRefund struct {
	Approved    bool   `json:"approved"`
	ReviewNotes string `json:"review_notes,omitempty" validate:"omitempty,max=500"`
}
