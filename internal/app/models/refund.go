package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundStatusPending    RefundStatus = "pending"
	RefundStatusProcessing RefundStatus = "processing"
	RefundStatusSuccess    RefundStatus = "success"
	RefundStatusFailed     RefundStatus = "failed"
	RefundStatusCancelled  RefundStatus = "cancelled"
)

// CanTransitionTo encodes the refund review workflow: pending requests are
// either cancelled by the requester, rejected (failed) or pushed into
// processing by a reviewer; processing ends in success or failed.
func (s RefundStatus) CanTransitionTo(target RefundStatus) bool {
	switch s {
	case RefundStatusPending:
		return target == RefundStatusProcessing ||
			target == RefundStatusFailed ||
			target == RefundStatusCancelled
	case RefundStatusProcessing:
		return target == RefundStatusSuccess || target == RefundStatusFailed
	default:
		return false
	}
}

// RefundRequest is a user-initiated ask to reverse a paid Order.
type RefundRequest struct {
	ID            string          `json:"id"`
	RefundNo      string          `json:"refund_no"`
	OrderID       string          `json:"order_id"`
	TransactionID string          `json:"transaction_id"`
	UserID        string          `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
	Status        RefundStatus    `json:"status"`
	ReviewedBy    string          `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty"`
	ReviewNotes   string          `json:"review_notes,omitempty"`
	ExternalRef   string          `json:"external_ref,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}
