package payments

import (
	"context"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/dto/responses"
)

type gatewayStrategy struct {
	PayMethod             models.PaymentMethod
	Gateway               contracts.PaymentGatewayService
	TransactionRepository contracts.TransactionRepository
}

// NewGatewayStrategy defers settlement to an external provider: it records
// the signed request on the pending transaction and returns instructions the
// client completes out of band. The order stays pending until the callback.
func NewGatewayStrategy(
	method models.PaymentMethod,
	gateway contracts.PaymentGatewayService,
	transactionRepository contracts.TransactionRepository,
) contracts.PaymentStrategy {
	return &gatewayStrategy{
		PayMethod:             method,
		Gateway:               gateway,
		TransactionRepository: transactionRepository,
	}
}

func (s *gatewayStrategy) Method() models.PaymentMethod {
	return s.PayMethod
}

func (s *gatewayStrategy) Pay(ctx context.Context, order *models.Order, transaction *models.Transaction, returnURL string) (*responses.PaymentInstructions, error) {
	instructions, requestData, err := s.Gateway.BuildPaymentRequest(ctx, order, transaction, returnURL)
	if err != nil {
		return nil, err
	}

	if err := s.TransactionRepository.UpdateTransactionRequest(ctx, transaction.ID, "", requestData, nil); err != nil {
		return nil, err
	}

	return instructions, nil
}
