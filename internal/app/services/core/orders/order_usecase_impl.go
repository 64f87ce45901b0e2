package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mediline-service/internal/app/config"
	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/dto/requests"
	"mediline-service/internal/pkg/exceptions"
	"mediline-service/internal/pkg/utils"
)

const orderNoMaxAttempts = 3

type orderUsecase struct {
	OrderRepository    contracts.OrderRepository
	PricingService     contracts.PricingService
	TransactionManager contracts.TransactionManager
	InternalConfig     *config.InternalConfig
	Log                *zap.Logger
}

var (
	orderUsecaseInstance contracts.OrderUsecase
	onceOrderUsecase     sync.Once
)

func NewOrderUsecase(
	orderRepository contracts.OrderRepository,
	pricingService contracts.PricingService,
	transactionManager contracts.TransactionManager,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.OrderUsecase {
	onceOrderUsecase.Do(func() {
		orderUsecaseInstance = &orderUsecase{
			OrderRepository:    orderRepository,
			PricingService:     pricingService,
			TransactionManager: transactionManager,
			InternalConfig:     internalConfig,
			Log:                logger,
		}
	})
	return orderUsecaseInstance
}

func (uc *orderUsecase) CreateOrder(ctx context.Context, requester *models.Requester, request *requests.CreateOrder) (*models.Order, error) {
	// Resolve the amount either from the request or the price catalog
	amount, err := uc.resolveAmount(ctx, request)
	if err != nil {
		return nil, err
	}

	currency := request.Currency
	if currency == "" {
		currency = constvars.DefaultCurrency
	}

	var metadata []byte
	if len(request.Metadata) > 0 {
		metadata, err = json.Marshal(request.Metadata)
		if err != nil {
			return nil, exceptions.ErrCannotMarshalJSON(err)
		}
	}

	now := time.Now()
	order := &models.Order{
		ID:            uuid.NewString(),
		UserID:        requester.UserID,
		AppointmentID: request.AppointmentID,
		Kind:          models.OrderKind(request.OrderKind),
		Amount:        amount,
		Currency:      currency,
		Status:        models.OrderStatusPending,
		ExpireTime:    now.Add(time.Duration(uc.InternalConfig.Payment.OrderExpiryInMinutes) * time.Minute),
		Description:   request.Description,
		Metadata:      metadata,
	}

	// Collisions on the generated number are possible within one second, so
	// retry a few times before giving up
	for attempt := 0; ; attempt++ {
		orderNo, err := utils.GenerateBusinessNo(constvars.OrderNoPrefix, now)
		if err != nil {
			return nil, exceptions.ErrServerProcess(err)
		}

		exists, err := uc.OrderRepository.OrderNoExists(ctx, orderNo)
		if err != nil {
			return nil, err
		}
		if !exists {
			order.OrderNo = orderNo
			break
		}
		if attempt+1 >= orderNoMaxAttempts {
			return nil, exceptions.ErrOrderNumberCollision(fmt.Errorf("no free order number after %d attempts", orderNoMaxAttempts))
		}
	}

	if err := uc.OrderRepository.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	order.CreatedAt = now
	order.UpdatedAt = now
	uc.Log.Info("orderUsecase.CreateOrder created order",
		zap.String(constvars.LoggingOrderIDKey, order.ID),
		zap.String(constvars.LoggingOrderNoKey, order.OrderNo),
		zap.String(constvars.LoggingUserIDKey, order.UserID),
		zap.String(constvars.LoggingAmountKey, order.Amount.String()),
	)
	return order, nil
}

func (uc *orderUsecase) GetOrder(ctx context.Context, requester *models.Requester, orderID string) (*models.Order, error) {
	order, err := uc.OrderRepository.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, exceptions.ErrOrderNotFound(nil)
	}
	if !requester.Owns(order.UserID) {
		return nil, exceptions.ErrNotResourceOwner(nil)
	}
	return order, nil
}

func (uc *orderUsecase) ListOrders(ctx context.Context, requester *models.Requester, request *requests.ListOrders) ([]models.Order, int64, error) {
	filter := &models.OrderFilter{
		UserID:   request.UserID,
		Status:   models.OrderStatus(request.Status),
		Kind:     models.OrderKind(request.OrderKind),
		Page:     request.Page,
		PageSize: request.PageSize,
	}

	// Non-admins only ever see their own orders
	if !requester.IsAdmin() {
		filter.UserID = requester.UserID
	}

	startDate, endDate, err := parseDateRange(request.StartDate, request.EndDate)
	if err != nil {
		return nil, 0, err
	}
	filter.StartDate = startDate
	filter.EndDate = endDate

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = constvars.DefaultPageSize
	}

	return uc.OrderRepository.ListOrders(ctx, filter)
}

func (uc *orderUsecase) CancelOrder(ctx context.Context, requester *models.Requester, orderID string) (*models.Order, error) {
	var cancelled *models.Order
	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := uc.OrderRepository.FindOrderByIDForUpdate(ctx, orderID)
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
			return exceptions.ErrOrderInvalidState(nil, string(order.Status), string(models.OrderStatusCancelled))
		}

		changed, err := uc.OrderRepository.UpdateOrderStatus(ctx, orderID, models.OrderStatusPending, models.OrderStatusCancelled)
		if err != nil {
			return err
		}
		if !changed {
			return exceptions.ErrOrderInvalidState(nil, string(order.Status), string(models.OrderStatusCancelled))
		}

		order.Status = models.OrderStatusCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Log.Info("orderUsecase.CancelOrder cancelled order",
		zap.String(constvars.LoggingOrderIDKey, orderID),
	)
	return cancelled, nil
}

func (uc *orderUsecase) MarkPaid(ctx context.Context, orderID string, method models.PaymentMethod, paymentTime time.Time) (*models.Order, error) {
	var paid *models.Order
	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := uc.OrderRepository.FindOrderByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return exceptions.ErrOrderNotFound(nil)
		}
		if !order.Status.CanTransitionTo(models.OrderStatusPaid) {
			return exceptions.ErrOrderInvalidState(nil, string(order.Status), string(models.OrderStatusPaid))
		}

		changed, err := uc.OrderRepository.MarkOrderPaid(ctx, orderID, method, paymentTime)
		if err != nil {
			return err
		}
		if !changed {
			return exceptions.ErrOrderInvalidState(nil, string(order.Status), string(models.OrderStatusPaid))
		}

		order.Status = models.OrderStatusPaid
		order.PaymentMethod = method
		order.PaymentTime = &paymentTime
		paid = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

func (uc *orderUsecase) MarkRefunded(ctx context.Context, orderID string, refundedTotal decimal.Decimal) (*models.Order, error) {
	var refunded *models.Order
	err := uc.TransactionManager.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := uc.OrderRepository.FindOrderByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return exceptions.ErrOrderNotFound(nil)
		}

		target := models.OrderStatusPartialRefunded
		if refundedTotal.GreaterThanOrEqual(order.Amount) {
			target = models.OrderStatusRefunded
		}
		if !order.Status.CanTransitionTo(target) {
			return exceptions.ErrOrderInvalidState(nil, string(order.Status), string(target))
		}

		changed, err := uc.OrderRepository.UpdateOrderStatus(ctx, orderID, order.Status, target)
		if err != nil {
			return err
		}
		if !changed {
			return exceptions.ErrOrderInvalidState(nil, string(order.Status), string(target))
		}

		order.Status = target
		refunded = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refunded, nil
}

func (uc *orderUsecase) ExpireDueOrders(ctx context.Context) (int64, error) {
	expired, err := uc.OrderRepository.ExpireDueOrders(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		uc.Log.Info("orderUsecase.ExpireDueOrders expired pending orders",
			zap.Int64("expired_count", expired),
		)
	}
	return expired, nil
}

func (uc *orderUsecase) resolveAmount(ctx context.Context, request *requests.CreateOrder) (decimal.Decimal, error) {
	if request.Amount.IsPositive() {
		if request.Amount.Exponent() < -constvars.MoneyFractionDigits {
			return decimal.Zero, exceptions.ErrInvalidAmount(fmt.Errorf("amount %s has more than %d fraction digits", request.Amount, constvars.MoneyFractionDigits))
		}
		return request.Amount, nil
	}

	if request.ServiceType == "" {
		return decimal.Zero, exceptions.ErrInvalidAmount(fmt.Errorf("either a positive amount or a service_type is required"))
	}

	price, err := uc.PricingService.GetActivePrice(ctx, request.ServiceType)
	if err != nil {
		return decimal.Zero, err
	}
	return price.EffectivePrice(), nil
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
		// End dates are inclusive, so filter strictly before the next day
		inclusive := parsed.AddDate(0, 0, 1)
		end = &inclusive
	}
	return start, end, nil
}
