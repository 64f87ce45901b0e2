package refunds

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/dto/requests"
	"mediline-service/internal/pkg/exceptions"
	"mediline-service/internal/pkg/utils"
)

const refundNoMaxAttempts = 3

type refundUsecase struct {
	RefundRepository      contracts.RefundRepository
	OrderRepository       contracts.OrderRepository
	TransactionRepository contracts.TransactionRepository
	OrderUsecase          contracts.OrderUsecase
	Ledger                contracts.BalanceLedger
	TransactionManager    contracts.TransactionManager
	NotificationService   contracts.NotificationService
	Gateways              map[string]contracts.PaymentGatewayService
	Log                   *zap.Logger
}

var (
	refundUsecaseInstance contracts.RefundUsecase
	onceRefundUsecase     sync.Once
)

func NewRefundUsecase(
	refundRepository contracts.RefundRepository,
	orderRepository contracts.OrderRepository,
	transactionRepository contracts.TransactionRepository,
	orderUsecase contracts.OrderUsecase,
	ledger contracts.BalanceLedger,
	transactionManager contracts.TransactionManager,
	notificationService contracts.NotificationService,
	logger *zap.Logger,
	gateways ...contracts.PaymentGatewayService,
) contracts.RefundUsecase {
	onceRefundUsecase.Do(func() {
		gatewayByName := make(map[string]contracts.PaymentGatewayService, len(gateways))
		for _, gateway := range gateways {
			gatewayByName[gateway.Name()] = gateway
		}
		refundUsecaseInstance = &refundUsecase{
			RefundRepository:      refundRepository,
			OrderRepository:       orderRepository,
			TransactionRepository: transactionRepository,
			OrderUsecase:          orderUsecase,
			Ledger:                ledger,
			TransactionManager:    transactionManager,
			NotificationService:   notificationService,
			Gateways:              gatewayByName,
			Log:                   logger,
		}
	})
	return refundUsecaseInstance
}

func (uc *refundUsecase) RequestRefund(ctx context.Context, requester *models.Requester, request *requests.CreateRefund) (*models.RefundRequest, error) {
	var refund *models.RefundRequest

	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := uc.OrderRepository.FindOrderByIDForUpdate(ctx, request.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return exceptions.ErrOrderNotFound(nil)
		}
		if !requester.Owns(order.UserID) {
			return exceptions.ErrNotResourceOwner(nil)
		}
		if order.Status != models.OrderStatusPaid && order.Status != models.OrderStatusPartialRefunded {
			return exceptions.ErrOrderInvalidState(nil, string(order.Status), string(models.OrderStatusRefunded))
		}

		// Reserved refunds include dispatches still awaiting a gateway
		// verdict; the money is already spoken for either way.
		reserved, err := uc.TransactionRepository.SumReservedRefunds(ctx, order.ID)
		if err != nil {
			return err
		}
		refundable := order.Amount.Sub(reserved)
		if request.Amount.GreaterThan(refundable) {
			return exceptions.ErrAmountExceedsOrder(fmt.Errorf("requested %s exceeds refundable %s on order %s",
				request.Amount, refundable, order.OrderNo))
		}

		payment, err := uc.TransactionRepository.FindSuccessfulPaymentByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if payment == nil {
			return exceptions.ErrTransactionNotFound(fmt.Errorf("no successful payment on order %s", order.OrderNo))
		}

		refundNo, err := uc.newRefundNo(ctx, time.Now())
		if err != nil {
			return err
		}

		refund = &models.RefundRequest{
			ID:            uuid.NewString(),
			RefundNo:      refundNo,
			OrderID:       order.ID,
			TransactionID: payment.ID,
			UserID:        order.UserID,
			Amount:        request.Amount,
			Reason:        request.Reason,
			Status:        models.RefundStatusPending,
		}
		return uc.RefundRepository.CreateRefund(ctx, refund)
	})
	if err != nil {
		return nil, err
	}

	uc.Log.Info("refundUsecase.RequestRefund created refund request",
		zap.String(constvars.LoggingRefundNoKey, refund.RefundNo),
		zap.String(constvars.LoggingOrderIDKey, refund.OrderID),
		zap.String(constvars.LoggingAmountKey, refund.Amount.String()),
	)
	return refund, nil
}

func (uc *refundUsecase) GetRefund(ctx context.Context, requester *models.Requester, refundID string) (*models.RefundRequest, error) {
	refund, err := uc.RefundRepository.FindRefundByID(ctx, refundID)
	if err != nil {
		return nil, err
	}
	if refund == nil {
		return nil, exceptions.ErrRefundNotFound(nil)
	}
	if !requester.Owns(refund.UserID) {
		return nil, exceptions.ErrNotResourceOwner(nil)
	}
	return refund, nil
}

func (uc *refundUsecase) CancelRefund(ctx context.Context, requester *models.Requester, refundID string) (*models.RefundRequest, error) {
	var refund *models.RefundRequest

	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context) error {
		found, err := uc.RefundRepository.FindRefundByIDForUpdate(ctx, refundID)
		if err != nil {
			return err
		}
		if found == nil {
			return exceptions.ErrRefundNotFound(nil)
		}
		if !requester.Owns(found.UserID) {
			return exceptions.ErrNotResourceOwner(nil)
		}
		if found.Status != models.RefundStatusPending {
			return exceptions.ErrRefundInvalidState(nil, string(found.Status), string(models.RefundStatusCancelled))
		}

		changed, err := uc.RefundRepository.CancelRefund(ctx, refundID)
		if err != nil {
			return err
		}
		if !changed {
			return exceptions.ErrRefundInvalidState(nil, string(found.Status), string(models.RefundStatusCancelled))
		}

		found.Status = models.RefundStatusCancelled
		refund = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refund, nil
}

// ReviewRefund settles the review decision. A rejection closes the request.
// An approval on a balance-paid order refunds synchronously inside the same
// transaction; an approval on a gateway-paid order dispatches a refund
// request to the provider and leaves the request processing until the
// gateway confirms through its callback.
func (uc *refundUsecase) ReviewRefund(ctx context.Context, requester *models.Requester, refundID string, request *requests.ReviewRefund) (*models.RefundRequest, error) {
	if !requester.IsAdmin() {
		return nil, exceptions.ErrForbidden(nil)
	}

	var refund *models.RefundRequest
	var outcome *contracts.NotificationMessage

	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context) error {
		found, err := uc.RefundRepository.FindRefundByIDForUpdate(ctx, refundID)
		if err != nil {
			return err
		}
		if found == nil {
			return exceptions.ErrRefundNotFound(nil)
		}
		if found.Status != models.RefundStatusPending {
			return exceptions.ErrRefundInvalidState(nil, string(found.Status), string(models.RefundStatusProcessing))
		}

		now := time.Now()

		if !request.Approved {
			changed, err := uc.RefundRepository.MarkRefundReviewed(ctx, refundID,
				models.RefundStatusFailed, requester.UserID, request.ReviewNotes, now)
			if err != nil {
				return err
			}
			if !changed {
				return exceptions.ErrRefundInvalidState(nil, string(found.Status), string(models.RefundStatusFailed))
			}
			found.Status = models.RefundStatusFailed
			refund = found
			outcome = &contracts.NotificationMessage{
				UserID:     found.UserID,
				Event:      contracts.NotificationEventRefundFailed,
				RefundNo:   found.RefundNo,
				Amount:     found.Amount,
				OccurredAt: now,
			}
			return nil
		}

		order, err := uc.OrderRepository.FindOrderByIDForUpdate(ctx, found.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return exceptions.ErrOrderNotFound(nil)
		}

		// Re-check the remainder under the order lock: requests approved
		// since this one was filed may have consumed it, and approval is
		// the moment money actually moves (or is promised to a gateway).
		reserved, err := uc.TransactionRepository.SumReservedRefunds(ctx, order.ID)
		if err != nil {
			return err
		}
		if found.Amount.GreaterThan(order.Amount.Sub(reserved)) {
			return exceptions.ErrAmountExceedsOrder(fmt.Errorf("refund %s for %s no longer fits the refundable %s on order %s",
				found.RefundNo, found.Amount, order.Amount.Sub(reserved), order.OrderNo))
		}

		changed, err := uc.RefundRepository.MarkRefundReviewed(ctx, refundID,
			models.RefundStatusProcessing, requester.UserID, request.ReviewNotes, now)
		if err != nil {
			return err
		}
		if !changed {
			return exceptions.ErrRefundInvalidState(nil, string(found.Status), string(models.RefundStatusProcessing))
		}
		found.Status = models.RefundStatusProcessing

		transaction, err := uc.createRefundTransaction(ctx, order, found, now)
		if err != nil {
			return err
		}

		if order.PaymentMethod.IsGateway() {
			if err := uc.dispatchGatewayRefund(ctx, order, found, transaction); err != nil {
				return err
			}
			refund = found
			return nil
		}

		// Balance refunds settle in place: money back to the payer, the
		// refund transaction succeeds, the request completes and the order
		// flips to (partial_)refunded as one atomic unit.
		if _, err := uc.Ledger.Credit(ctx, &contracts.BalanceMutation{
			UserID:      found.UserID,
			Amount:      found.Amount,
			RelatedType: constvars.RelatedTypeRefund,
			RelatedID:   found.ID,
			Description: fmt.Sprintf("refund for order %s", order.OrderNo),
		}); err != nil {
			return err
		}

		settled, err := uc.TransactionRepository.MarkTransactionSuccess(ctx, transaction.ID, "", nil, now)
		if err != nil {
			return err
		}
		if !settled {
			return exceptions.ErrTransactionNotFound(fmt.Errorf("refund transaction %s is no longer pending", transaction.ID))
		}

		completed, err := uc.RefundRepository.CompleteRefund(ctx, refundID, models.RefundStatusSuccess, now)
		if err != nil {
			return err
		}
		if !completed {
			return exceptions.ErrRefundInvalidState(nil, string(found.Status), string(models.RefundStatusSuccess))
		}
		found.Status = models.RefundStatusSuccess
		found.CompletedAt = &now

		refundedTotal, err := uc.TransactionRepository.SumSuccessfulRefunds(ctx, order.ID)
		if err != nil {
			return err
		}
		if _, err := uc.OrderUsecase.MarkRefunded(ctx, order.ID, refundedTotal); err != nil {
			return err
		}

		refund = found
		outcome = &contracts.NotificationMessage{
			UserID:     found.UserID,
			Event:      contracts.NotificationEventRefundSuccess,
			RefundNo:   found.RefundNo,
			Amount:     found.Amount,
			OccurredAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Log.Info("refundUsecase.ReviewRefund reviewed refund request",
		zap.String(constvars.LoggingRefundNoKey, refund.RefundNo),
		zap.Bool("approved", request.Approved),
		zap.String("refund_status", string(refund.Status)),
	)

	if outcome != nil {
		if err := uc.NotificationService.Publish(ctx, outcome); err != nil {
			uc.Log.Warn("refundUsecase.ReviewRefund failed to publish notification",
				zap.String(constvars.LoggingRefundNoKey, refund.RefundNo),
				zap.Error(err),
			)
		}
	}
	return refund, nil
}

func (uc *refundUsecase) dispatchGatewayRefund(ctx context.Context, order *models.Order, refund *models.RefundRequest, transaction *models.Transaction) error {
	gateway, ok := uc.Gateways[string(order.PaymentMethod)]
	if !ok {
		return exceptions.ErrUnsupportedGateway(nil, string(order.PaymentMethod))
	}

	externalRef, requestData, err := gateway.BuildRefundRequest(ctx, order, refund)
	if err != nil {
		return err
	}
	return uc.TransactionRepository.UpdateTransactionRequest(ctx, transaction.ID, externalRef, requestData, nil)
}

func (uc *refundUsecase) createRefundTransaction(ctx context.Context, order *models.Order, refund *models.RefundRequest, now time.Time) (*models.Transaction, error) {
	transaction := &models.Transaction{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		RefundID:      refund.ID,
		PaymentMethod: order.PaymentMethod,
		Kind:          models.TransactionKindRefund,
		Amount:        refund.Amount,
		Currency:      order.Currency,
		Status:        models.TransactionStatusPending,
		InitiatedAt:   now,
	}

	for attempt := 0; ; attempt++ {
		transactionNo, err := utils.GenerateBusinessNo(constvars.TransactionNoPrefix, now)
		if err != nil {
			return nil, exceptions.ErrServerProcess(err)
		}

		exists, err := uc.TransactionRepository.TransactionNoExists(ctx, transactionNo)
		if err != nil {
			return nil, err
		}
		if !exists {
			transaction.TransactionNo = transactionNo
			break
		}
		if attempt+1 >= refundNoMaxAttempts {
			return nil, exceptions.ErrOrderNumberCollision(fmt.Errorf("no free transaction number after %d attempts", refundNoMaxAttempts))
		}
	}

	if err := uc.TransactionRepository.CreateTransaction(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

func (uc *refundUsecase) newRefundNo(ctx context.Context, now time.Time) (string, error) {
	for attempt := 0; ; attempt++ {
		refundNo, err := utils.GenerateBusinessNo(constvars.RefundNoPrefix, now)
		if err != nil {
			return "", exceptions.ErrServerProcess(err)
		}

		exists, err := uc.RefundRepository.RefundNoExists(ctx, refundNo)
		if err != nil {
			return "", err
		}
		if !exists {
			return refundNo, nil
		}
		if attempt+1 >= refundNoMaxAttempts {
			return "", exceptions.ErrOrderNumberCollision(fmt.Errorf("no free refund number after %d attempts", refundNoMaxAttempts))
		}
	}
}
