package responses

import (
	"time"

	json "github.com/goccy/go-json"

	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
)

type Order struct {
	OrderID       string          `json:"order_id"`
	OrderNo       string          `json:"order_no"`
	UserID        string          `json:"user_id"`
	AppointmentID string          `json:"appointment_id,omitempty"`
	OrderKind     string          `json:"order_kind"`
	Amount        string          `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	PaymentTime   *time.Time      `json:"payment_time,omitempty"`
	ExpireTime    time.Time       `json:"expire_time"`
	Description   string          `json:"description,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func NewOrderResponse(order *models.Order) *Order {
	return &Order{
		OrderID:       order.ID,
		OrderNo:       order.OrderNo,
		UserID:        order.UserID,
		AppointmentID: order.AppointmentID,
		OrderKind:     string(order.Kind),
		Amount:        order.Amount.StringFixed(constvars.MoneyFractionDigits),
		Currency:      order.Currency,
		Status:        string(order.Status),
		PaymentMethod: string(order.PaymentMethod),
		PaymentTime:   order.PaymentTime,
		ExpireTime:    order.ExpireTime,
		Description:   order.Description,
		Metadata:      json.RawMessage(order.Metadata),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func NewOrderListResponse(orders []models.Order) []Order {
	list := make([]Order, 0, len(orders))
	for i := range orders {
		list = append(list, *NewOrderResponse(&orders[i]))
	}
	return list
}

type PaymentStatistics struct {
	TotalOrders    int64  `json:"total_orders"`
	TotalAmount    string `json:"total_amount"`
	PaidOrders     int64  `json:"paid_orders"`
	PaidAmount     string `json:"paid_amount"`
	RefundedOrders int64  `json:"refunded_orders"`
	RefundedAmount string `json:"refunded_amount"`
	Currency       string `json:"currency"`
}

func NewPaymentStatisticsResponse(statistics *models.PaymentStatistics) *PaymentStatistics {
	return &PaymentStatistics{
		TotalOrders:    statistics.TotalOrders,
		TotalAmount:    statistics.TotalAmount.StringFixed(constvars.MoneyFractionDigits),
		PaidOrders:     statistics.PaidOrders,
		PaidAmount:     statistics.PaidAmount.StringFixed(constvars.MoneyFractionDigits),
		RefundedOrders: statistics.RefundedOrders,
		RefundedAmount: statistics.RefundedAmount.StringFixed(constvars.MoneyFractionDigits),
		Currency:       constvars.DefaultCurrency,
	}
}
