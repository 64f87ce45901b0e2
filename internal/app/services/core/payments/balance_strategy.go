package payments

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/dto/responses"
	"mediline-service/internal/pkg/exceptions"
)

type balanceStrategy struct {
	Ledger                contracts.BalanceLedger
	OrderUsecase          contracts.OrderUsecase
	TransactionRepository contracts.TransactionRepository
}

// NewBalanceStrategy settles orders from the payer's stored balance. It runs
// inside the dispatcher's transaction, so the debit, the transaction row and
// the order flip commit or roll back as one.
func NewBalanceStrategy(
	ledger contracts.BalanceLedger,
	orderUsecase contracts.OrderUsecase,
	transactionRepository contracts.TransactionRepository,
) contracts.PaymentStrategy {
	return &balanceStrategy{
		Ledger:                ledger,
		OrderUsecase:          orderUsecase,
		TransactionRepository: transactionRepository,
	}
}

func (s *balanceStrategy) Method() models.PaymentMethod {
	return models.PaymentMethodBalance
}

func (s *balanceStrategy) Pay(ctx context.Context, order *models.Order, transaction *models.Transaction, returnURL string) (*responses.PaymentInstructions, error) {
	_, err := s.Ledger.Debit(ctx, &contracts.BalanceMutation{
		UserID:      order.UserID,
		Amount:      order.Amount,
		RelatedType: constvars.RelatedTypeOrder,
		RelatedID:   order.ID,
		Description: fmt.Sprintf("payment for order %s", order.OrderNo),
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	changed, err := s.TransactionRepository.MarkTransactionSuccess(ctx, transaction.ID, "", nil, now)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, exceptions.ErrTransactionNotFound(fmt.Errorf("transaction %s is no longer pending", transaction.ID))
	}

	if _, err := s.OrderUsecase.MarkPaid(ctx, order.ID, models.PaymentMethodBalance, now); err != nil {
		return nil, err
	}

	// Consultation fees flow straight to the payee named in the order
	if payeeUserID := payeeFromMetadata(order.Metadata); payeeUserID != "" && payeeUserID != order.UserID {
		_, err := s.Ledger.Credit(ctx, &contracts.BalanceMutation{
			UserID:      payeeUserID,
			Amount:      order.Amount,
			RelatedType: constvars.RelatedTypeOrder,
			RelatedID:   order.ID,
			Description: fmt.Sprintf("income from order %s", order.OrderNo),
		})
		if err != nil {
			return nil, err
		}
	}

	return &responses.PaymentInstructions{
		OrderID:       order.ID,
		OrderNo:       order.OrderNo,
		PaymentMethod: string(models.PaymentMethodBalance),
		Paid:          true,
	}, nil
}

func payeeFromMetadata(metadata []byte) string {
	if len(metadata) == 0 {
		return ""
	}
	var decoded struct {
		PayeeUserID string `json:"payee_user_id"`
	}
	if err := json.Unmarshal(metadata, &decoded); err != nil {
		return ""
	}
	return decoded.PayeeUserID
}
