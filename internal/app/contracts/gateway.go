package contracts

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/dto/responses"
)

type PaymentEventStatus string

const (
	PaymentEventSuccess PaymentEventStatus = "success"
	PaymentEventFailed  PaymentEventStatus = "failed"
)

// PaymentEvent is a gateway callback normalized into provider-neutral form.
// RefundNo is empty for payment events and set for refund events.
type PaymentEvent struct {
	Gateway     string
	OrderNo     string
	RefundNo    string
	ExternalRef string
	Status      PaymentEventStatus
	Amount      decimal.Decimal
	ErrorCode   string
	ErrorMsg    string
	OccurredAt  time.Time
	Raw         []byte
}

// PaymentGatewayService adapts one external provider. Implementations verify
// callback authenticity before normalizing the payload.
type PaymentGatewayService interface {
	Name() string
	BuildPaymentRequest(ctx context.Context, order *models.Order, transaction *models.Transaction, returnURL string) (*responses.PaymentInstructions, []byte, error)
	BuildRefundRequest(ctx context.Context, order *models.Order, refund *models.RefundRequest) (string, []byte, error)
	ParseCallback(ctx context.Context, payload []byte) (*PaymentEvent, error)
	SuccessAck() string
	FailureAck() string
}

type CallbackUsecase interface {
	ApplyExternalEvent(ctx context.Context, event *PaymentEvent) error
}
