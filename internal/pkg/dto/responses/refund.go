package responses

import (
	"time"

	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
)

type Refund struct {
	RefundID    string     `json:"refund_id"`
	RefundNo    string     `json:"refund_no"`
	OrderID     string     `json:"order_id"`
	UserID      string     `json:"user_id"`
	Amount      string     `json:"amount"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes string     `json:"review_notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func NewRefundResponse(refund *models.RefundRequest) *Refund {
	return &Refund{
		RefundID:    refund.ID,
		RefundNo:    refund.RefundNo,
		OrderID:     refund.OrderID,
		UserID:      refund.UserID,
		Amount:      refund.Amount.StringFixed(constvars.MoneyFractionDigits),
		Reason:      refund.Reason,
		Status:      string(refund.Status),
		ReviewedBy:  refund.ReviewedBy,
		ReviewedAt:  refund.ReviewedAt,
		ReviewNotes: refund.ReviewNotes,
		CreatedAt:   refund.CreatedAt,
		CompletedAt: refund.CompletedAt,
	}
}
