package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mediline-service/internal/app/config"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/dto/requests"
	"mediline-service/internal/pkg/exceptions"
)

type fakeTxManager struct{}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOrderRepository struct {
	byID    map[string]*models.Order
	orderNo map[string]bool
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{
		byID:    make(map[string]*models.Order),
		orderNo: make(map[string]bool),
	}
}

func (r *fakeOrderRepository) CreateOrder(_ context.Context, order *models.Order) error {
	copied := *order
	r.byID[order.ID] = &copied
	r.orderNo[order.OrderNo] = true
	return nil
}

func (r *fakeOrderRepository) FindOrderByID(_ context.Context, orderID string) (*models.Order, error) {
	order, ok := r.byID[orderID]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepository) FindOrderByIDForUpdate(ctx context.Context, orderID string) (*models.Order, error) {
	return r.FindOrderByID(ctx, orderID)
}

func (r *fakeOrderRepository) FindOrderByOrderNoForUpdate(_ context.Context, orderNo string) (*models.Order, error) {
	for _, order := range r.byID {
		if order.OrderNo == orderNo {
			copied := *order
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepository) OrderNoExists(_ context.Context, orderNo string) (bool, error) {
	return r.orderNo[orderNo], nil
}

func (r *fakeOrderRepository) ListOrders(_ context.Context, filter *models.OrderFilter) ([]models.Order, int64, error) {
	var matched []models.Order
	for _, order := range r.byID {
		if filter.UserID != "" && order.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		matched = append(matched, *order)
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeOrderRepository) MarkOrderPaid(_ context.Context, orderID string, method models.PaymentMethod, paymentTime time.Time) (bool, error) {
	order, ok := r.byID[orderID]
	if !ok || order.Status != models.OrderStatusPending {
		return false, nil
	}
	order.Status = models.OrderStatusPaid
	order.PaymentMethod = method
	order.PaymentTime = &paymentTime
	return true, nil
}

func (r *fakeOrderRepository) UpdateOrderStatus(_ context.Context, orderID string, from, to models.OrderStatus) (bool, error) {
	order, ok := r.byID[orderID]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

func (r *fakeOrderRepository) ExpireDueOrders(_ context.Context, now time.Time) (int64, error) {
	var expired int64
	for _, order := range r.byID {
		if order.Status == models.OrderStatusPending && now.After(order.ExpireTime) {
			order.Status = models.OrderStatusExpired
			expired++
		}
	}
	return expired, nil
}

func (r *fakeOrderRepository) GetPaymentStatistics(_ context.Context, _ *models.OrderFilter) (*models.PaymentStatistics, error) {
	return &models.PaymentStatistics{}, nil
}

type fakePricingService struct {
	prices map[string]*models.PriceConfig
}

func (s *fakePricingService) GetActivePrice(_ context.Context, serviceType string) (*models.PriceConfig, error) {
	price, ok := s.prices[serviceType]
	if !ok {
		return nil, exceptions.ErrPriceNotFound(nil, serviceType)
	}
	return price, nil
}

func testInternalConfig() *config.InternalConfig {
	return &config.InternalConfig{
		Payment: config.AppPayment{
			OrderExpiryInMinutes: 120,
		},
	}
}

func newTestOrderUsecase(pricing *fakePricingService) (*orderUsecase, *fakeOrderRepository) {
	repo := newFakeOrderRepository()
	uc := &orderUsecase{
		OrderRepository:    repo,
		PricingService:     pricing,
		TransactionManager: &fakeTxManager{},
		InternalConfig:     testInternalConfig(),
		Log:                zap.NewNop(),
	}
	return uc, repo
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var testRequester = &models.Requester{UserID: "user-1", Role: constvars.RoleTypeUser}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit amount", func(t *testing.T) {
		uc, _ := newTestOrderUsecase(&fakePricingService{})

		order, err := uc.CreateOrder(ctx, testRequester, &requests.CreateOrder{
			OrderKind: "consultation",
			Amount:    money("88.50"),
		})
		require.NoError(t, err)

		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.True(t, order.Amount.Equal(money("88.50")))
		assert.Equal(t, constvars.DefaultCurrency, order.Currency)
		assert.Contains(t, order.OrderNo, constvars.OrderNoPrefix)
		assert.True(t, order.ExpireTime.After(time.Now().Add(119*time.Minute)))
	})

	t.Run("amount from price catalog", func(t *testing.T) {
		discount := money("59.00")
		pricing := &fakePricingService{prices: map[string]*models.PriceConfig{
			"video_visit": {ServiceType: "video_visit", Price: money("80.00"), DiscountPrice: &discount},
		}}
		uc, _ := newTestOrderUsecase(pricing)

		order, err := uc.CreateOrder(ctx, testRequester, &requests.CreateOrder{
			OrderKind:   "appointment",
			ServiceType: "video_visit",
		})
		require.NoError(t, err)
		assert.True(t, order.Amount.Equal(discount), "discount price wins over list price")
	})

	t.Run("no amount and no service type", func(t *testing.T) {
		uc, _ := newTestOrderUsecase(&fakePricingService{})

		_, err := uc.CreateOrder(ctx, testRequester, &requests.CreateOrder{OrderKind: "other"})
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	})

	t.Run("too many fraction digits", func(t *testing.T) {
		uc, _ := newTestOrderUsecase(&fakePricingService{})

		_, err := uc.CreateOrder(ctx, testRequester, &requests.CreateOrder{
			OrderKind: "other",
			Amount:    money("10.001"),
		})
		require.Error(t, err)
	})
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	uc, repo := newTestOrderUsecase(&fakePricingService{})

	order, err := uc.CreateOrder(ctx, testRequester, &requests.CreateOrder{
		OrderKind: "consultation",
		Amount:    money("30.00"),
	})
	require.NoError(t, err)

	t.Run("not the owner", func(t *testing.T) {
		stranger := &models.Requester{UserID: "user-2", Role: constvars.RoleTypeUser}
		_, err := uc.CancelOrder(ctx, stranger, order.ID)
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
	})

	t.Run("pending order cancels", func(t *testing.T) {
		cancelled, err := uc.CancelOrder(ctx, testRequester, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
		assert.Equal(t, models.OrderStatusCancelled, repo.byID[order.ID].Status)
	})

	t.Run("cancelling twice conflicts", func(t *testing.T) {
		_, err := uc.CancelOrder(ctx, testRequester, order.ID)
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	})
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()
	uc, repo := newTestOrderUsecase(&fakePricingService{})

	order, err := uc.CreateOrder(ctx, testRequester, &requests.CreateOrder{
		OrderKind: "consultation",
		Amount:    money("30.00"),
	})
	require.NoError(t, err)

	paymentTime := time.Now()
	paid, err := uc.MarkPaid(ctx, order.ID, models.PaymentMethodBalance, paymentTime)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, paid.Status)
	assert.Equal(t, models.PaymentMethodBalance, repo.byID[order.ID].PaymentMethod)

	// A settled order cannot be paid again
	_, err = uc.MarkPaid(ctx, order.ID, models.PaymentMethodBalance, paymentTime)
	require.Error(t, err)
}

func TestMarkRefunded(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTestOrderUsecase(&fakePricingService{})

	order, err := uc.CreateOrder(ctx, testRequester, &requests.CreateOrder{
		OrderKind: "consultation",
		Amount:    money("100.00"),
	})
	require.NoError(t, err)
	_, err = uc.MarkPaid(ctx, order.ID, models.PaymentMethodWechat, time.Now())
	require.NoError(t, err)

	partial, err := uc.MarkRefunded(ctx, order.ID, money("40.00"))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPartialRefunded, partial.Status)

	full, err := uc.MarkRefunded(ctx, order.ID, money("100.00"))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusRefunded, full.Status)

	_, err = uc.MarkRefunded(ctx, order.ID, money("100.00"))
	require.Error(t, err, "a fully refunded order is terminal")
}

func TestExpireDueOrders(t *testing.T) {
	ctx := context.Background()
	uc, repo := newTestOrderUsecase(&fakePricingService{})

	order, err := uc.CreateOrder(ctx, testRequester, &requests.CreateOrder{
		OrderKind: "consultation",
		Amount:    money("30.00"),
	})
	require.NoError(t, err)

	repo.byID[order.ID].ExpireTime = time.Now().Add(-time.Minute)

	expired, err := uc.ExpireDueOrders(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)
	assert.Equal(t, models.OrderStatusExpired, repo.byID[order.ID].Status)
}

func TestListOrdersScopedToOwner(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTestOrderUsecase(&fakePricingService{})

	_, err := uc.CreateOrder(ctx, testRequester, &requests.CreateOrder{
		OrderKind: "consultation",
		Amount:    money("30.00"),
	})
	require.NoError(t, err)

	// A non-admin asking for another user's orders gets their own instead
	orders, total, err := uc.ListOrders(ctx, testRequester, &requests.ListOrders{UserID: "someone-else"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, testRequester.UserID, orders[0].UserID)
}
