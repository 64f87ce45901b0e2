package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderKind string

const (
	OrderKindAppointment  OrderKind = "appointment"
	OrderKindConsultation OrderKind = "consultation"
	OrderKindPrescription OrderKind = "prescription"
	OrderKindOther        OrderKind = "other"
)

func (k OrderKind) Valid() bool {
	switch k {
	case OrderKindAppointment, OrderKindConsultation, OrderKindPrescription, OrderKindOther:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusPaid            OrderStatus = "paid"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusRefunded        OrderStatus = "refunded"
	OrderStatusPartialRefunded OrderStatus = "partial_refunded"
	OrderStatusExpired         OrderStatus = "expired"
)

// CanTransitionTo encodes the order state machine. The only transitions out
// of a non-pending status are paid -> refunded and paid -> partial_refunded;
// partial_refunded may keep absorbing refunds until fully refunded.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusPaid ||
			target == OrderStatusCancelled ||
			target == OrderStatusExpired
	case OrderStatusPaid:
		return target == OrderStatusRefunded || target == OrderStatusPartialRefunded
	case OrderStatusPartialRefunded:
		return target == OrderStatusRefunded || target == OrderStatusPartialRefunded
	default:
		return false
	}
}

// Order is a billable unit of service awaiting or having received payment.
type Order struct {
	ID            string          `json:"id"`
	OrderNo       string          `json:"order_no"`
	UserID        string          `json:"user_id"`
	AppointmentID string          `json:"appointment_id,omitempty"`
	Kind          OrderKind       `json:"order_kind"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod PaymentMethod   `json:"payment_method,omitempty"`
	PaymentTime   *time.Time      `json:"payment_time,omitempty"`
	ExpireTime    time.Time       `json:"expire_time"`
	Description   string          `json:"description,omitempty"`
	Metadata      []byte          `json:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (o *Order) IsExpiredAt(now time.Time) bool {
	return now.After(o.ExpireTime)
}

type OrderFilter struct {
	UserID    string
	Status    OrderStatus
	Kind      OrderKind
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

type PaymentStatistics struct {
	TotalOrders    int64           `json:"total_orders"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidOrders     int64           `json:"paid_orders"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	RefundedOrders int64           `json:"refunded_orders"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
}
