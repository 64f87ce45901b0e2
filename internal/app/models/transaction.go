package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodWechat  PaymentMethod = "wechat"
	PaymentMethodAlipay  PaymentMethod = "alipay"
	PaymentMethodBalance PaymentMethod = "balance"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodWechat, PaymentMethodAlipay, PaymentMethodBalance:
		return true
	}
	return false
}

// IsGateway reports whether completion of the method arrives asynchronously
// through an external callback instead of synchronously.
func (m PaymentMethod) IsGateway() bool {
	return m == PaymentMethodWechat || m == PaymentMethodAlipay
}

type TransactionKind string

const (
	TransactionKindPayment TransactionKind = "payment"
	TransactionKindRefund  TransactionKind = "refund"
)

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Transaction is one attempt to move money against an Order. It is created
// pending and finalized exactly once; request/response/callback snapshots
// are opaque audit payloads.
type Transaction struct {
	ID            string            `json:"id"`
	TransactionNo string            `json:"transaction_no"`
	OrderID       string            `json:"order_id"`
	RefundID      string            `json:"refund_id,omitempty"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	Kind          TransactionKind   `json:"transaction_kind"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
	Status        TransactionStatus `json:"status"`
	ExternalRef   string            `json:"external_ref,omitempty"`
	RequestData   []byte            `json:"request_data,omitempty"`
	ResponseData  []byte            `json:"response_data,omitempty"`
	CallbackData  []byte            `json:"callback_data,omitempty"`
	ErrorCode     string            `json:"error_code,omitempty"`
	ErrorMessage  string            `json:"error_message,omitempty"`
	InitiatedAt   time.Time         `json:"initiated_at"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
