package contracts

import (
	"context"

	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/dto/requests"
	"mediline-service/internal/pkg/dto/responses"
)

type PaymentUsecase interface {
	InitiatePayment(ctx context.Context, requester *models.Requester, request *requests.InitiatePayment) (*responses.PaymentInstructions, error)
	GetPaymentStatistics(ctx context.Context, requester *models.Requester, request *requests.PaymentStatistics) (*models.PaymentStatistics, error)
}

// PaymentStrategy settles one payment method. Balance settles synchronously
// inside the caller's transaction; gateway methods return instructions the
// client completes out of band.
type PaymentStrategy interface {
	Method() models.PaymentMethod
	Pay(ctx context.Context, order *models.Order, transaction *models.Transaction, returnURL string) (*responses.PaymentInstructions, error)
}
