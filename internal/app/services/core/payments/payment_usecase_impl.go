package payments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/dto/requests"
	"mediline-service/internal/pkg/dto/responses"
	"mediline-service/internal/pkg/exceptions"
	"mediline-service/internal/pkg/utils"
)

const transactionNoMaxAttempts = 3

type paymentUsecase struct {
	OrderRepository       contracts.OrderRepository
	TransactionRepository contracts.TransactionRepository
	TransactionManager    contracts.TransactionManager
	NotificationService   contracts.NotificationService
	Strategies            map[models.PaymentMethod]contracts.PaymentStrategy
	Log                   *zap.Logger
}

var (
	paymentUsecaseInstance contracts.PaymentUsecase
	oncePaymentUsecase     sync.Once
)

func NewPaymentUsecase(
	orderRepository contracts.OrderRepository,
	transactionRepository contracts.TransactionRepository,
	transactionManager contracts.TransactionManager,
	notificationService contracts.NotificationService,
	logger *zap.Logger,
	strategies ...contracts.PaymentStrategy,
) contracts.PaymentUsecase {
	oncePaymentUsecase.Do(func() {
		strategyByMethod := make(map[models.PaymentMethod]contracts.PaymentStrategy, len(strategies))
		for _, strategy := range strategies {
			strategyByMethod[strategy.Method()] = strategy
		}
		paymentUsecaseInstance = &paymentUsecase{
			OrderRepository:       orderRepository,
			TransactionRepository: transactionRepository,
			TransactionManager:    transactionManager,
			NotificationService:   notificationService,
			Strategies:            strategyByMethod,
			Log:                   logger,
		}
	})
	return paymentUsecaseInstance
}

func (uc *paymentUsecase) InitiatePayment(ctx context.Context, requester *models.Requester, request *requests.InitiatePayment) (*responses.PaymentInstructions, error) {
	method := models.PaymentMethod(request.PaymentMethod)
	strategy, ok := uc.Strategies[method]
	if !ok {
		return nil, exceptions.ErrUnsupportedPaymentMethod(nil, request.PaymentMethod)
	}

	var instructions *responses.PaymentInstructions
	var paidOrder *models.Order
	var declineErr error

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
		if order.Status != models.OrderStatusPending {
			return exceptions.ErrOrderInvalidState(nil, string(order.Status), string(models.OrderStatusPaid))
		}

		// An overdue order is flipped here rather than waiting for the sweep
		now := time.Now()
		if order.IsExpiredAt(now) {
			if _, err := uc.OrderRepository.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPending, models.OrderStatusExpired); err != nil {
				return err
			}
			return exceptions.ErrOrderExpired(nil)
		}

		transaction, err := uc.createPendingTransaction(ctx, order, method, now)
		if err != nil {
			return err
		}

		instructions, err = strategy.Pay(ctx, order, transaction, request.ReturnURL)
		if err != nil {
			// A declined balance payment stays on record as a failed attempt
			// while the order remains payable, so commit instead of rolling
			// back and surface the decline after the fact.
			var customErr *exceptions.CustomError
			if errors.As(err, &customErr) && customErr.StatusCode == constvars.StatusPaymentRequired {
				if _, markErr := uc.TransactionRepository.MarkTransactionFailed(ctx, transaction.ID,
					"INSUFFICIENT_BALANCE", customErr.DevMessage, nil, time.Now()); markErr != nil {
					return markErr
				}
				declineErr = err
				return nil
			}
			return err
		}

		if instructions.Paid {
			paidOrder = order
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if declineErr != nil {
		return nil, declineErr
	}

	uc.Log.Info("paymentUsecase.InitiatePayment dispatched payment",
		zap.String(constvars.LoggingOrderIDKey, request.OrderID),
		zap.String(constvars.LoggingPaymentMethodKey, request.PaymentMethod),
		zap.Bool("paid", instructions.Paid),
	)

	// Settlement already committed; a lost notification must not undo it
	if paidOrder != nil {
		notifyErr := uc.NotificationService.Publish(ctx, &contracts.NotificationMessage{
			UserID:     paidOrder.UserID,
			Event:      contracts.NotificationEventOrderPaid,
			OrderNo:    paidOrder.OrderNo,
			Amount:     paidOrder.Amount,
			OccurredAt: time.Now(),
		})
		if notifyErr != nil {
			uc.Log.Warn("paymentUsecase.InitiatePayment failed to publish notification",
				zap.String(constvars.LoggingOrderNoKey, paidOrder.OrderNo),
				zap.Error(notifyErr),
			)
		}
	}

	return instructions, nil
}

func (uc *paymentUsecase) GetPaymentStatistics(ctx context.Context, requester *models.Requester, request *requests.PaymentStatistics) (*models.PaymentStatistics, error) {
	filter := &models.OrderFilter{UserID: request.UserID}
	if !requester.IsAdmin() {
		filter.UserID = requester.UserID
	}

	startDate, endDate, err := parseDateRange(request.StartDate, request.EndDate)
	if err != nil {
		return nil, err
	}
	filter.StartDate = startDate
	filter.EndDate = endDate

	return uc.OrderRepository.GetPaymentStatistics(ctx, filter)
}

func (uc *paymentUsecase) createPendingTransaction(ctx context.Context, order *models.Order, method models.PaymentMethod, now time.Time) (*models.Transaction, error) {
	transaction := &models.Transaction{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		PaymentMethod: method,
		Kind:          models.TransactionKindPayment,
		Amount:        order.Amount,
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
		if attempt+1 >= transactionNoMaxAttempts {
			return nil, exceptions.ErrOrderNumberCollision(fmt.Errorf("no free transaction number after %d attempts", transactionNoMaxAttempts))
		}
	}

	if err := uc.TransactionRepository.CreateTransaction(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

func parseDateRange(startDate, endDate string) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return nil, nil, exceptions.ErrInputValidation(fmt.Errorf("invalid start_date: %s", startDate))
		}
		start = &parsed
	}
	if endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return nil, nil, exceptions.ErrInputValidation(fmt.Errorf("invalid end_date: %s", endDate))
		}
		inclusive := parsed.AddDate(0, 0, 1)
		end = &inclusive
	}
	return start, end, nil
}
