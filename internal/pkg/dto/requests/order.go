package requests

import "github.com/shopspring/decimal"

// CreateOrder either carries an explicit amount or names a service type the
// price catalog resolves at creation time. Exactly one of the two is used;
// an explicit amount wins.
type CreateOrder struct {
	AppointmentID string          `json:"appointment_id,omitempty" validate:"omitempty,uuid"`
	OrderKind     string          `json:"order_kind" validate:"required,oneof=appointment consultation prescription other"`
	Amount        decimal.Decimal `json:"amount,omitempty"`
	ServiceType   string          `json:"service_type,omitempty" validate:"omitempty,max=100"`
	Currency      string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Description   string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
}

type ListOrders struct {
	UserID    string `json:"user_id,omitempty"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=pending paid cancelled refunded partial_refunded expired"`
	OrderKind string `json:"order_kind,omitempty" validate:"omitempty,oneof=appointment consultation prescription other"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Page      int    `json:"page,omitempty" validate:"omitempty,gte=1"`
	PageSize  int    `json:"page_size,omitempty" validate:"omitempty,gte=1,lte=100"`
}
