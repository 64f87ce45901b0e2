package payments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/dto/requests"
	"mediline-service/internal/pkg/dto/responses"
	"mediline-service/internal/pkg/exceptions"
)

type fakeTxManager struct{}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOrderRepository struct {
	byID map[string]*models.Order
}

func (r *fakeOrderRepository) CreateOrder(_ context.Context, order *models.Order) error {
	copied := *order
	r.byID[order.ID] = &copied
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

func (r *fakeOrderRepository) OrderNoExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (r *fakeOrderRepository) ListOrders(_ context.Context, _ *models.OrderFilter) ([]models.Order, int64, error) {
	return nil, 0, nil
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

func (r *fakeOrderRepository) ExpireDueOrders(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeOrderRepository) GetPaymentStatistics(_ context.Context, _ *models.OrderFilter) (*models.PaymentStatistics, error) {
	return &models.PaymentStatistics{}, nil
}

type fakeOrderUsecase struct {
	contracts.OrderUsecase
	repo *fakeOrderRepository
}

func (uc *fakeOrderUsecase) MarkPaid(ctx context.Context, orderID string, method models.PaymentMethod, paymentTime time.Time) (*models.Order, error) {
	changed, err := uc.repo.MarkOrderPaid(ctx, orderID, method, paymentTime)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, exceptions.ErrOrderInvalidState(nil, "", string(models.OrderStatusPaid))
	}
	return uc.repo.FindOrderByID(ctx, orderID)
}

type fakeTransactionRepository struct {
	byID map[string]*models.Transaction
}

func (r *fakeTransactionRepository) CreateTransaction(_ context.Context, transaction *models.Transaction) error {
	copied := *transaction
	r.byID[transaction.ID] = &copied
	return nil
}

func (r *fakeTransactionRepository) FindTransactionByID(_ context.Context, transactionID string) (*models.Transaction, error) {
	transaction, ok := r.byID[transactionID]
	if !ok {
		return nil, nil
	}
	copied := *transaction
	return &copied, nil
}

func (r *fakeTransactionRepository) FindLatestPendingByOrder(_ context.Context, orderID string, kind models.TransactionKind) (*models.Transaction, error) {
	for _, transaction := range r.byID {
		if transaction.OrderID == orderID && transaction.Kind == kind && transaction.Status == models.TransactionStatusPending {
			copied := *transaction
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepository) FindTransactionByRefundID(_ context.Context, refundID string) (*models.Transaction, error) {
	for _, transaction := range r.byID {
		if transaction.RefundID == refundID {
			copied := *transaction
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepository) FindSuccessfulPaymentByOrder(_ context.Context, orderID string) (*models.Transaction, error) {
	for _, transaction := range r.byID {
		if transaction.OrderID == orderID && transaction.Kind == models.TransactionKindPayment && transaction.Status == models.TransactionStatusSuccess {
			copied := *transaction
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepository) TransactionNoExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (r *fakeTransactionRepository) UpdateTransactionRequest(_ context.Context, transactionID, externalRef string, requestData, responseData []byte) error {
	transaction := r.byID[transactionID]
	transaction.ExternalRef = externalRef
	transaction.RequestData = requestData
	transaction.ResponseData = responseData
	return nil
}

func (r *fakeTransactionRepository) MarkTransactionSuccess(_ context.Context, transactionID, externalRef string, callbackData []byte, completedAt time.Time) (bool, error) {
	transaction, ok := r.byID[transactionID]
	if !ok || transaction.Status != models.TransactionStatusPending {
		return false, nil
	}
	transaction.Status = models.TransactionStatusSuccess
	transaction.ExternalRef = externalRef
	transaction.CallbackData = callbackData
	transaction.CompletedAt = &completedAt
	return true, nil
}

func (r *fakeTransactionRepository) MarkTransactionFailed(_ context.Context, transactionID, errorCode, errorMessage string, callbackData []byte, completedAt time.Time) (bool, error) {
	transaction, ok := r.byID[transactionID]
	if !ok || transaction.Status != models.TransactionStatusPending {
		return false, nil
	}
	transaction.Status = models.TransactionStatusFailed
	transaction.ErrorCode = errorCode
	transaction.ErrorMessage = errorMessage
	transaction.CallbackData = callbackData
	transaction.CompletedAt = &completedAt
	return true, nil
}

func (r *fakeTransactionRepository) SumSuccessfulRefunds(_ context.Context, orderID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, transaction := range r.byID {
		if transaction.OrderID == orderID && transaction.Kind == models.TransactionKindRefund && transaction.Status == models.TransactionStatusSuccess {
			total = total.Add(transaction.Amount)
		}
	}
	return total, nil
}

func (r *fakeTransactionRepository) SumReservedRefunds(_ context.Context, orderID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, transaction := range r.byID {
		if transaction.OrderID == orderID && transaction.Kind == models.TransactionKindRefund && transaction.Status != models.TransactionStatusFailed {
			total = total.Add(transaction.Amount)
		}
	}
	return total, nil
}

type fakeLedger struct {
	balances map[string]decimal.Decimal
	credits  []*contracts.BalanceMutation
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[string]decimal.Decimal)}
}

func (l *fakeLedger) Credit(_ context.Context, mutation *contracts.BalanceMutation) (*models.BalanceEntry, error) {
	l.balances[mutation.UserID] = l.balances[mutation.UserID].Add(mutation.Amount)
	l.credits = append(l.credits, mutation)
	return &models.BalanceEntry{}, nil
}

func (l *fakeLedger) Debit(_ context.Context, mutation *contracts.BalanceMutation) (*models.BalanceEntry, error) {
	available := l.balances[mutation.UserID]
	if available.LessThan(mutation.Amount) {
		return nil, exceptions.ErrInsufficientBalance(fmt.Errorf("available %s, needed %s", available, mutation.Amount))
	}
	l.balances[mutation.UserID] = available.Sub(mutation.Amount)
	return &models.BalanceEntry{}, nil
}

func (l *fakeLedger) Freeze(_ context.Context, _ *contracts.BalanceMutation) (*models.BalanceEntry, error) {
	return nil, nil
}

func (l *fakeLedger) Unfreeze(_ context.Context, _ *contracts.BalanceMutation) (*models.BalanceEntry, error) {
	return nil, nil
}

func (l *fakeLedger) GetBalance(_ context.Context, userID string) (*models.Balance, error) {
	return &models.Balance{UserID: userID, Balance: l.balances[userID]}, nil
}

func (l *fakeLedger) ListEntries(_ context.Context, _ string, _, _ int) ([]models.BalanceEntry, int64, error) {
	return nil, 0, nil
}

type fakeNotifier struct {
	published []*contracts.NotificationMessage
}

func (n *fakeNotifier) Publish(_ context.Context, message *contracts.NotificationMessage) error {
	n.published = append(n.published, message)
	return nil
}

type fakeGatewayService struct {
	name string
}

func (g *fakeGatewayService) Name() string { return g.name }

func (g *fakeGatewayService) BuildPaymentRequest(_ context.Context, order *models.Order, transaction *models.Transaction, returnURL string) (*responses.PaymentInstructions, []byte, error) {
	instructions := &responses.PaymentInstructions{
		OrderID:       order.ID,
		OrderNo:       order.OrderNo,
		PaymentMethod: g.name,
		PaymentURL:    "https://pay.example.com/" + transaction.TransactionNo,
	}
	return instructions, []byte(`{"out_trade_no":"` + order.OrderNo + `"}`), nil
}

func (g *fakeGatewayService) BuildRefundRequest(_ context.Context, _ *models.Order, refund *models.RefundRequest) (string, []byte, error) {
	return "ext-" + refund.RefundNo, []byte(`{}`), nil
}

func (g *fakeGatewayService) ParseCallback(_ context.Context, _ []byte) (*contracts.PaymentEvent, error) {
	return nil, nil
}

func (g *fakeGatewayService) SuccessAck() string { return "ok" }
func (g *fakeGatewayService) FailureAck() string { return "fail" }

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type paymentFixture struct {
	usecase         *paymentUsecase
	orderRepo       *fakeOrderRepository
	transactionRepo *fakeTransactionRepository
	ledger          *fakeLedger
	notifier        *fakeNotifier
}

func newPaymentFixture() *paymentFixture {
	orderRepo := &fakeOrderRepository{byID: make(map[string]*models.Order)}
	transactionRepo := &fakeTransactionRepository{byID: make(map[string]*models.Transaction)}
	ledger := newFakeLedger()
	notifier := &fakeNotifier{}

	orderUc := &fakeOrderUsecase{repo: orderRepo}
	strategies := map[models.PaymentMethod]contracts.PaymentStrategy{
		models.PaymentMethodBalance: NewBalanceStrategy(ledger, orderUc, transactionRepo),
		models.PaymentMethodWechat:  NewGatewayStrategy(models.PaymentMethodWechat, &fakeGatewayService{name: constvars.GatewayWechat}, transactionRepo),
	}

	return &paymentFixture{
		usecase: &paymentUsecase{
			OrderRepository:       orderRepo,
			TransactionRepository: transactionRepo,
			TransactionManager:    &fakeTxManager{},
			NotificationService:   notifier,
			Strategies:            strategies,
			Log:                   zap.NewNop(),
		},
		orderRepo:       orderRepo,
		transactionRepo: transactionRepo,
		ledger:          ledger,
		notifier:        notifier,
	}
}

func (f *paymentFixture) seedOrder(amount string, metadata []byte) *models.Order {
	order := &models.Order{
		ID:         "order-1",
		OrderNo:    "ORD202608290001",
		UserID:     "user-1",
		Kind:       models.OrderKindConsultation,
		Amount:     money(amount),
		Currency:   constvars.DefaultCurrency,
		Status:     models.OrderStatusPending,
		ExpireTime: time.Now().Add(time.Hour),
		Metadata:   metadata,
	}
	f.orderRepo.byID[order.ID] = order
	return order
}

var payer = &models.Requester{UserID: "user-1", Role: constvars.RoleTypeUser}

func TestInitiatePaymentWithBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("sufficient balance settles immediately", func(t *testing.T) {
		f := newPaymentFixture()
		f.seedOrder("30.00", []byte(`{"payee_user_id":"doctor-9"}`))
		f.ledger.balances["user-1"] = money("100.00")

		instructions, err := f.usecase.InitiatePayment(ctx, payer, &requests.InitiatePayment{
			OrderID:       "order-1",
			PaymentMethod: "balance",
		})
		require.NoError(t, err)
		assert.True(t, instructions.Paid)

		assert.Equal(t, models.OrderStatusPaid, f.orderRepo.byID["order-1"].Status)
		assert.True(t, f.ledger.balances["user-1"].Equal(money("70.00")))
		assert.True(t, f.ledger.balances["doctor-9"].Equal(money("30.00")), "payee receives the fee")

		require.Len(t, f.transactionRepo.byID, 1)
		for _, transaction := range f.transactionRepo.byID {
			assert.Equal(t, models.TransactionStatusSuccess, transaction.Status)
			assert.Equal(t, models.TransactionKindPayment, transaction.Kind)
		}

		require.Len(t, f.notifier.published, 1)
		assert.Equal(t, contracts.NotificationEventOrderPaid, f.notifier.published[0].Event)
	})

	t.Run("insufficient balance declines but keeps the attempt", func(t *testing.T) {
		f := newPaymentFixture()
		f.seedOrder("30.00", nil)
		f.ledger.balances["user-1"] = money("10.00")

		_, err := f.usecase.InitiatePayment(ctx, payer, &requests.InitiatePayment{
			OrderID:       "order-1",
			PaymentMethod: "balance",
		})
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusPaymentRequired, customErr.StatusCode)

		// The order stays payable and the failed attempt is on record
		assert.Equal(t, models.OrderStatusPending, f.orderRepo.byID["order-1"].Status)
		require.Len(t, f.transactionRepo.byID, 1)
		for _, transaction := range f.transactionRepo.byID {
			assert.Equal(t, models.TransactionStatusFailed, transaction.Status)
			assert.Equal(t, "INSUFFICIENT_BALANCE", transaction.ErrorCode)
		}
		assert.True(t, f.ledger.balances["user-1"].Equal(money("10.00")))
		assert.Empty(t, f.notifier.published)
	})
}

func TestInitiatePaymentWithGateway(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture()
	f.seedOrder("30.00", nil)

	instructions, err := f.usecase.InitiatePayment(ctx, payer, &requests.InitiatePayment{
		OrderID:       "order-1",
		PaymentMethod: "wechat",
	})
	require.NoError(t, err)

	assert.False(t, instructions.Paid)
	assert.NotEmpty(t, instructions.PaymentURL)
	assert.Equal(t, models.OrderStatusPending, f.orderRepo.byID["order-1"].Status, "gateway orders settle via callback")

	require.Len(t, f.transactionRepo.byID, 1)
	for _, transaction := range f.transactionRepo.byID {
		assert.Equal(t, models.TransactionStatusPending, transaction.Status)
		assert.NotEmpty(t, transaction.RequestData, "signed request is snapshotted")
	}
	assert.Empty(t, f.notifier.published)
}

func TestInitiatePaymentGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported method", func(t *testing.T) {
		f := newPaymentFixture()
		f.seedOrder("30.00", nil)

		_, err := f.usecase.InitiatePayment(ctx, payer, &requests.InitiatePayment{
			OrderID:       "order-1",
			PaymentMethod: "cash",
		})
		require.Error(t, err)
	})

	t.Run("expired order flips on touch", func(t *testing.T) {
		f := newPaymentFixture()
		order := f.seedOrder("30.00", nil)
		order.ExpireTime = time.Now().Add(-time.Minute)

		_, err := f.usecase.InitiatePayment(ctx, payer, &requests.InitiatePayment{
			OrderID:       "order-1",
			PaymentMethod: "balance",
		})
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusGone, customErr.StatusCode)
		assert.Equal(t, models.OrderStatusExpired, f.orderRepo.byID["order-1"].Status)
	})

	t.Run("someone else's order", func(t *testing.T) {
		f := newPaymentFixture()
		f.seedOrder("30.00", nil)

		stranger := &models.Requester{UserID: "user-2", Role: constvars.RoleTypeUser}
		_, err := f.usecase.InitiatePayment(ctx, stranger, &requests.InitiatePayment{
			OrderID:       "order-1",
			PaymentMethod: "balance",
		})
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
	})

	t.Run("already paid order", func(t *testing.T) {
		f := newPaymentFixture()
		order := f.seedOrder("30.00", nil)
		order.Status = models.OrderStatusPaid

		_, err := f.usecase.InitiatePayment(ctx, payer, &requests.InitiatePayment{
			OrderID:       "order-1",
			PaymentMethod: "balance",
		})
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	})
}
