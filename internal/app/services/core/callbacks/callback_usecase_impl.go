package callbacks

import (
	"context"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/exceptions"
)

type callbackUsecase struct {
	OrderRepository       contracts.OrderRepository
	TransactionRepository contracts.TransactionRepository
	RefundRepository      contracts.RefundRepository
	OrderUsecase          contracts.OrderUsecase
	Ledger                contracts.BalanceLedger
	TransactionManager    contracts.TransactionManager
	NotificationService   contracts.NotificationService
	ArchiveService        contracts.CallbackArchiveService
	Log                   *zap.Logger
}

var (
	callbackUsecaseInstance contracts.CallbackUsecase
	onceCallbackUsecase     sync.Once
)

func NewCallbackUsecase(
	orderRepository contracts.OrderRepository,
	transactionRepository contracts.TransactionRepository,
	refundRepository contracts.RefundRepository,
	orderUsecase contracts.OrderUsecase,
	ledger contracts.BalanceLedger,
	transactionManager contracts.TransactionManager,
	notificationService contracts.NotificationService,
	archiveService contracts.CallbackArchiveService,
	logger *zap.Logger,
) contracts.CallbackUsecase {
	onceCallbackUsecase.Do(func() {
		callbackUsecaseInstance = &callbackUsecase{
			OrderRepository:       orderRepository,
			TransactionRepository: transactionRepository,
			RefundRepository:      refundRepository,
			OrderUsecase:          orderUsecase,
			Ledger:                ledger,
			TransactionManager:    transactionManager,
			NotificationService:   notificationService,
			ArchiveService:        archiveService,
			Log:                   logger,
		}
	})
	return callbackUsecaseInstance
}

// ApplyExternalEvent applies one verified gateway event. It is safe to call
// any number of times with the same payload: the status guard on the Order
// (or RefundRequest) is the dedup key, so replays become success no-ops.
func (uc *callbackUsecase) ApplyExternalEvent(ctx context.Context, event *contracts.PaymentEvent) error {
	// The raw payload is archived regardless of the settlement outcome
	if _, err := uc.ArchiveService.ArchiveCallback(ctx, event.Gateway, event.Raw); err != nil {
		uc.Log.Warn("callbackUsecase.ApplyExternalEvent failed to archive callback payload",
			zap.String(constvars.LoggingGatewayKey, event.Gateway),
			zap.Error(err),
		)
	}

	if event.RefundNo != "" {
		return uc.applyRefundEvent(ctx, event)
	}
	return uc.applyPaymentEvent(ctx, event)
}

func (uc *callbackUsecase) applyPaymentEvent(ctx context.Context, event *contracts.PaymentEvent) error {
	var mismatchErr error
	var paidOrder *models.Order

	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := uc.OrderRepository.FindOrderByOrderNoForUpdate(ctx, event.OrderNo)
		if err != nil {
			return err
		}
		if order == nil {
			return exceptions.ErrOrderNotFound(fmt.Errorf("callback for unknown order %s", event.OrderNo))
		}

		// Replays and late deliveries land here once the order moved on
		if order.Status != models.OrderStatusPending {
			uc.Log.Info("callbackUsecase.applyPaymentEvent order no longer pending; ignoring",
				zap.String(constvars.LoggingOrderNoKey, event.OrderNo),
				zap.String("order_status", string(order.Status)),
			)
			return nil
		}

		transaction, err := uc.TransactionRepository.FindLatestPendingByOrder(ctx, order.ID, models.TransactionKindPayment)
		if err != nil {
			return err
		}
		if transaction == nil {
			return exceptions.ErrTransactionNotFound(fmt.Errorf("no pending payment transaction for order %s", event.OrderNo))
		}

		now := time.Now()

		if event.Status == contracts.PaymentEventFailed {
			_, err := uc.TransactionRepository.MarkTransactionFailed(ctx, transaction.ID,
				event.ErrorCode, event.ErrorMsg, event.Raw, now)
			return err
		}

		if !event.Amount.Equal(order.Amount) {
			mismatchErr = exceptions.ErrAmountMismatch(fmt.Errorf("order %s expects %s, callback reported %s",
				event.OrderNo, order.Amount, event.Amount))
			_, err := uc.TransactionRepository.MarkTransactionFailed(ctx, transaction.ID,
				"AMOUNT_MISMATCH", fmt.Sprintf("expected %s, got %s", order.Amount, event.Amount), event.Raw, now)
			return err
		}

		changed, err := uc.TransactionRepository.MarkTransactionSuccess(ctx, transaction.ID, event.ExternalRef, event.Raw, now)
		if err != nil {
			return err
		}
		if !changed {
			return exceptions.ErrTransactionNotFound(fmt.Errorf("transaction %s is no longer pending", transaction.ID))
		}

		if _, err := uc.OrderUsecase.MarkPaid(ctx, order.ID, transaction.PaymentMethod, event.OccurredAt); err != nil {
			return err
		}

		if payeeUserID := payeeFromMetadata(order.Metadata); payeeUserID != "" && payeeUserID != order.UserID {
			_, err := uc.Ledger.Credit(ctx, &contracts.BalanceMutation{
				UserID:      payeeUserID,
				Amount:      order.Amount,
				RelatedType: constvars.RelatedTypeOrder,
				RelatedID:   order.ID,
				Description: fmt.Sprintf("income from order %s", order.OrderNo),
			})
			if err != nil {
				return err
			}
		}

		paidOrder = order
		return nil
	})
	if err != nil {
		return err
	}
	if mismatchErr != nil {
		return mismatchErr
	}

	if paidOrder != nil {
		uc.notify(ctx, &contracts.NotificationMessage{
			UserID:     paidOrder.UserID,
			Event:      contracts.NotificationEventOrderPaid,
			OrderNo:    paidOrder.OrderNo,
			Amount:     paidOrder.Amount,
			OccurredAt: time.Now(),
		})
	}
	return nil
}

func (uc *callbackUsecase) applyRefundEvent(ctx context.Context, event *contracts.PaymentEvent) error {
	var outcome *contracts.NotificationMessage

	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context) error {
		refund, err := uc.RefundRepository.FindRefundByRefundNoForUpdate(ctx, event.RefundNo)
		if err != nil {
			return err
		}
		if refund == nil {
			return exceptions.ErrRefundNotFound(fmt.Errorf("callback for unknown refund %s", event.RefundNo))
		}

		if refund.Status != models.RefundStatusProcessing {
			uc.Log.Info("callbackUsecase.applyRefundEvent refund no longer processing; ignoring",
				zap.String(constvars.LoggingRefundNoKey, event.RefundNo),
				zap.String("refund_status", string(refund.Status)),
			)
			return nil
		}

		transaction, err := uc.TransactionRepository.FindTransactionByRefundID(ctx, refund.ID)
		if err != nil {
			return err
		}
		if transaction == nil {
			return exceptions.ErrTransactionNotFound(fmt.Errorf("no refund transaction for refund %s", event.RefundNo))
		}

		now := time.Now()

		if event.Status == contracts.PaymentEventFailed {
			if _, err := uc.TransactionRepository.MarkTransactionFailed(ctx, transaction.ID,
				event.ErrorCode, event.ErrorMsg, event.Raw, now); err != nil {
				return err
			}
			if _, err := uc.RefundRepository.CompleteRefund(ctx, refund.ID, models.RefundStatusFailed, now); err != nil {
				return err
			}
			outcome = &contracts.NotificationMessage{
				UserID:     refund.UserID,
				Event:      contracts.NotificationEventRefundFailed,
				RefundNo:   refund.RefundNo,
				Amount:     refund.Amount,
				OccurredAt: now,
			}
			return nil
		}

		if _, err := uc.TransactionRepository.MarkTransactionSuccess(ctx, transaction.ID, event.ExternalRef, event.Raw, now); err != nil {
			return err
		}
		if _, err := uc.RefundRepository.CompleteRefund(ctx, refund.ID, models.RefundStatusSuccess, now); err != nil {
			return err
		}

		refundedTotal, err := uc.TransactionRepository.SumSuccessfulRefunds(ctx, refund.OrderID)
		if err != nil {
			return err
		}
		if _, err := uc.OrderUsecase.MarkRefunded(ctx, refund.OrderID, refundedTotal); err != nil {
			return err
		}

		outcome = &contracts.NotificationMessage{
			UserID:     refund.UserID,
			Event:      contracts.NotificationEventRefundSuccess,
			RefundNo:   refund.RefundNo,
			Amount:     refund.Amount,
			OccurredAt: now,
		}
		return nil
	})
	if err != nil {
		return err
	}

	if outcome != nil {
		uc.notify(ctx, outcome)
	}
	return nil
}

func (uc *callbackUsecase) notify(ctx context.Context, message *contracts.NotificationMessage) {
	if err := uc.NotificationService.Publish(ctx, message); err != nil {
		uc.Log.Warn("callbackUsecase failed to publish notification",
			zap.String("event", message.Event),
			zap.Error(err),
		)
	}
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
