package contracts

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	NotificationEventOrderPaid     = "order.paid"
	NotificationEventOrderExpired  = "order.expired"
	NotificationEventRefundSuccess = "refund.success"
	NotificationEventRefundFailed  = "refund.failed"
)

type NotificationMessage struct {
	UserID     string          `json:"user_id"`
	Event      string          `json:"event"`
	OrderNo    string          `json:"order_no,omitempty"`
	RefundNo   string          `json:"refund_no,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NotificationService publishes settlement events for downstream consumers.
// Publish failures must never affect the ledger transaction that produced
// the event.
type NotificationService interface {
	Publish(ctx context.Context, message *NotificationMessage) error
}
