package refunds

import (
	"context"
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

func (uc *fakeOrderUsecase) MarkRefunded(ctx context.Context, orderID string, refundedTotal decimal.Decimal) (*models.Order, error) {
	order := uc.repo.byID[orderID]
	if refundedTotal.GreaterThanOrEqual(order.Amount) {
		order.Status = models.OrderStatusRefunded
	} else {
		order.Status = models.OrderStatusPartialRefunded
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

type fakeRefundRepository struct {
	byID map[string]*models.RefundRequest
}

func (r *fakeRefundRepository) CreateRefund(_ context.Context, refund *models.RefundRequest) error {
	copied := *refund
	r.byID[refund.ID] = &copied
	return nil
}

func (r *fakeRefundRepository) FindRefundByID(_ context.Context, refundID string) (*models.RefundRequest, error) {
	refund, ok := r.byID[refundID]
	if !ok {
		return nil, nil
	}
	copied := *refund
	return &copied, nil
}

func (r *fakeRefundRepository) FindRefundByIDForUpdate(ctx context.Context, refundID string) (*models.RefundRequest, error) {
	return r.FindRefundByID(ctx, refundID)
}

func (r *fakeRefundRepository) FindRefundByRefundNoForUpdate(_ context.Context, refundNo string) (*models.RefundRequest, error) {
	for _, refund := range r.byID {
		if refund.RefundNo == refundNo {
			copied := *refund
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRefundRepository) RefundNoExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (r *fakeRefundRepository) MarkRefundReviewed(_ context.Context, refundID string, to models.RefundStatus, reviewerID, reviewNotes string, reviewedAt time.Time) (bool, error) {
	refund, ok := r.byID[refundID]
	if !ok || refund.Status != models.RefundStatusPending {
		return false, nil
	}
	refund.Status = to
	refund.ReviewedBy = reviewerID
	refund.ReviewNotes = reviewNotes
	refund.ReviewedAt = &reviewedAt
	return true, nil
}

func (r *fakeRefundRepository) CompleteRefund(_ context.Context, refundID string, to models.RefundStatus, completedAt time.Time) (bool, error) {
	refund, ok := r.byID[refundID]
	if !ok || refund.Status != models.RefundStatusProcessing {
		return false, nil
	}
	refund.Status = to
	refund.CompletedAt = &completedAt
	return true, nil
}

func (r *fakeRefundRepository) CancelRefund(_ context.Context, refundID string) (bool, error) {
	refund, ok := r.byID[refundID]
	if !ok || refund.Status != models.RefundStatusPending {
		return false, nil
	}
	refund.Status = models.RefundStatusCancelled
	return true, nil
}

type fakeLedger struct {
	contracts.BalanceLedger
	credits []*contracts.BalanceMutation
}

func (l *fakeLedger) Credit(_ context.Context, mutation *contracts.BalanceMutation) (*models.BalanceEntry, error) {
	l.credits = append(l.credits, mutation)
	return &models.BalanceEntry{}, nil
}

type fakeNotifier struct {
	published []*contracts.NotificationMessage
}

func (n *fakeNotifier) Publish(_ context.Context, message *contracts.NotificationMessage) error {
	n.published = append(n.published, message)
	return nil
}

type fakeGatewayService struct {
	refundRequests int
}

func (g *fakeGatewayService) Name() string { return constvars.GatewayWechat }

func (g *fakeGatewayService) BuildPaymentRequest(_ context.Context, _ *models.Order, _ *models.Transaction, _ string) (*responses.PaymentInstructions, []byte, error) {
	return nil, nil, nil
}

func (g *fakeGatewayService) BuildRefundRequest(_ context.Context, _ *models.Order, refund *models.RefundRequest) (string, []byte, error) {
	g.refundRequests++
	return "ext-" + refund.RefundNo, []byte(`{"out_refund_no":"` + refund.RefundNo + `"}`), nil
}

func (g *fakeGatewayService) ParseCallback(_ context.Context, _ []byte) (*contracts.PaymentEvent, error) {
	return nil, nil
}

func (g *fakeGatewayService) SuccessAck() string { return "ok" }
func (g *fakeGatewayService) FailureAck() string { return "fail" }

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	requesterUser  = &models.Requester{UserID: "user-1", Role: constvars.RoleTypeUser}
	requesterAdmin = &models.Requester{UserID: "admin-1", Role: constvars.RoleTypeAdmin}
)

type refundFixture struct {
	usecase         *refundUsecase
	orderRepo       *fakeOrderRepository
	transactionRepo *fakeTransactionRepository
	refundRepo      *fakeRefundRepository
	ledger          *fakeLedger
	notifier        *fakeNotifier
	gateway         *fakeGatewayService
}

func newRefundFixture() *refundFixture {
	orderRepo := &fakeOrderRepository{byID: make(map[string]*models.Order)}
	transactionRepo := &fakeTransactionRepository{byID: make(map[string]*models.Transaction)}
	refundRepo := &fakeRefundRepository{byID: make(map[string]*models.RefundRequest)}
	ledger := &fakeLedger{}
	notifier := &fakeNotifier{}
	gateway := &fakeGatewayService{}

	return &refundFixture{
		usecase: &refundUsecase{
			RefundRepository:      refundRepo,
			OrderRepository:       orderRepo,
			TransactionRepository: transactionRepo,
			OrderUsecase:          &fakeOrderUsecase{repo: orderRepo},
			Ledger:                ledger,
			TransactionManager:    &fakeTxManager{},
			NotificationService:   notifier,
			Gateways:              map[string]contracts.PaymentGatewayService{constvars.GatewayWechat: gateway},
			Log:                   zap.NewNop(),
		},
		orderRepo:       orderRepo,
		transactionRepo: transactionRepo,
		refundRepo:      refundRepo,
		ledger:          ledger,
		notifier:        notifier,
		gateway:         gateway,
	}
}

func (f *refundFixture) seedPaidOrder(amount string, method models.PaymentMethod) *models.Order {
	paidAt := time.Now().Add(-time.Hour)
	order := &models.Order{
		ID:            "order-1",
		OrderNo:       "ORD202608290001",
		UserID:        "user-1",
		Kind:          models.OrderKindConsultation,
		Amount:        money(amount),
		Currency:      constvars.DefaultCurrency,
		Status:        models.OrderStatusPaid,
		PaymentMethod: method,
		PaymentTime:   &paidAt,
	}
	payment := &models.Transaction{
		ID:            "txn-pay",
		TransactionNo: "TXN202608290001",
		OrderID:       order.ID,
		PaymentMethod: method,
		Kind:          models.TransactionKindPayment,
		Amount:        order.Amount,
		Currency:      order.Currency,
		Status:        models.TransactionStatusSuccess,
		InitiatedAt:   paidAt,
	}
	f.orderRepo.byID[order.ID] = order
	f.transactionRepo.byID[payment.ID] = payment
	return order
}

func (f *refundFixture) seedPendingRefund(amount string) *models.RefundRequest {
	refund := &models.RefundRequest{
		ID:            "refund-1",
		RefundNo:      "RFD202608290001",
		OrderID:       "order-1",
		TransactionID: "txn-pay",
		UserID:        "user-1",
		Amount:        money(amount),
		Reason:        "consultation cancelled",
		Status:        models.RefundStatusPending,
	}
	f.refundRepo.byID[refund.ID] = refund
	return refund
}

func TestRequestRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending request against the payment", func(t *testing.T) {
		f := newRefundFixture()
		f.seedPaidOrder("100.00", models.PaymentMethodWechat)

		refund, err := f.usecase.RequestRefund(ctx, requesterUser, &requests.CreateRefund{
			OrderID: "order-1",
			Amount:  money("40.00"),
			Reason:  "consultation cancelled",
		})
		require.NoError(t, err)

		assert.Equal(t, models.RefundStatusPending, refund.Status)
		assert.Equal(t, "txn-pay", refund.TransactionID)
		assert.Contains(t, refund.RefundNo, constvars.RefundNoPrefix)
		assert.True(t, refund.Amount.Equal(money("40.00")))
	})

	t.Run("unpaid order is rejected", func(t *testing.T) {
		f := newRefundFixture()
		order := f.seedPaidOrder("100.00", models.PaymentMethodWechat)
		order.Status = models.OrderStatusPending

		_, err := f.usecase.RequestRefund(ctx, requesterUser, &requests.CreateRefund{
			OrderID: "order-1",
			Amount:  money("40.00"),
			Reason:  "changed my mind",
		})
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	})

	t.Run("amount above the refundable remainder is rejected", func(t *testing.T) {
		f := newRefundFixture()
		f.seedPaidOrder("100.00", models.PaymentMethodWechat)

		// 70.00 already returned, so only 30.00 is left
		f.transactionRepo.byID["txn-prior"] = &models.Transaction{
			ID:      "txn-prior",
			OrderID: "order-1",
			Kind:    models.TransactionKindRefund,
			Amount:  money("70.00"),
			Status:  models.TransactionStatusSuccess,
		}

		_, err := f.usecase.RequestRefund(ctx, requesterUser, &requests.CreateRefund{
			OrderID: "order-1",
			Amount:  money("30.01"),
			Reason:  "overreach",
		})
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusUnprocessableEntity, customErr.StatusCode)
	})

	t.Run("stranger cannot ask for someone else's money", func(t *testing.T) {
		f := newRefundFixture()
		f.seedPaidOrder("100.00", models.PaymentMethodWechat)

		stranger := &models.Requester{UserID: "user-2", Role: constvars.RoleTypeUser}
		_, err := f.usecase.RequestRefund(ctx, stranger, &requests.CreateRefund{
			OrderID: "order-1",
			Amount:  money("40.00"),
			Reason:  "not mine",
		})
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
	})
}

func TestCancelRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("pending request can be withdrawn by its owner", func(t *testing.T) {
		f := newRefundFixture()
		f.seedPaidOrder("100.00", models.PaymentMethodWechat)
		f.seedPendingRefund("40.00")

		refund, err := f.usecase.CancelRefund(ctx, requesterUser, "refund-1")
		require.NoError(t, err)
		assert.Equal(t, models.RefundStatusCancelled, refund.Status)
	})

	t.Run("processing request is past the point of no return", func(t *testing.T) {
		f := newRefundFixture()
		f.seedPaidOrder("100.00", models.PaymentMethodWechat)
		refund := f.seedPendingRefund("40.00")
		f.refundRepo.byID[refund.ID].Status = models.RefundStatusProcessing

		_, err := f.usecase.CancelRefund(ctx, requesterUser, "refund-1")
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	})
}

func TestReviewRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("only admins review", func(t *testing.T) {
		f := newRefundFixture()
		f.seedPaidOrder("100.00", models.PaymentMethodWechat)
		f.seedPendingRefund("40.00")

		_, err := f.usecase.ReviewRefund(ctx, requesterUser, "refund-1", &requests.ReviewRefund{Approved: true})
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
	})

	t.Run("rejection closes the request", func(t *testing.T) {
		f := newRefundFixture()
		f.seedPaidOrder("100.00", models.PaymentMethodWechat)
		f.seedPendingRefund("40.00")

		refund, err := f.usecase.ReviewRefund(ctx, requesterAdmin, "refund-1", &requests.ReviewRefund{
			Approved:    false,
			ReviewNotes: "service was delivered",
		})
		require.NoError(t, err)

		assert.Equal(t, models.RefundStatusFailed, refund.Status)
		stored := f.refundRepo.byID["refund-1"]
		assert.Equal(t, "admin-1", stored.ReviewedBy)
		assert.Equal(t, "service was delivered", stored.ReviewNotes)
		assert.Equal(t, models.OrderStatusPaid, f.orderRepo.byID["order-1"].Status)

		require.Len(t, f.notifier.published, 1)
		assert.Equal(t, contracts.NotificationEventRefundFailed, f.notifier.published[0].Event)
	})

	t.Run("approval on a balance order settles in place", func(t *testing.T) {
		f := newRefundFixture()
		f.seedPaidOrder("100.00", models.PaymentMethodBalance)
		f.seedPendingRefund("40.00")

		refund, err := f.usecase.ReviewRefund(ctx, requesterAdmin, "refund-1", &requests.ReviewRefund{Approved: true})
		require.NoError(t, err)

		assert.Equal(t, models.RefundStatusSuccess, refund.Status)
		assert.Equal(t, models.OrderStatusPartialRefunded, f.orderRepo.byID["order-1"].Status)

		require.Len(t, f.ledger.credits, 1)
		assert.Equal(t, "user-1", f.ledger.credits[0].UserID)
		assert.True(t, f.ledger.credits[0].Amount.Equal(money("40.00")))
		assert.Equal(t, constvars.RelatedTypeRefund, f.ledger.credits[0].RelatedType)

		settled, err := f.transactionRepo.FindTransactionByRefundID(ctx, "refund-1")
		require.NoError(t, err)
		require.NotNil(t, settled)
		assert.Equal(t, models.TransactionStatusSuccess, settled.Status)
		assert.Equal(t, models.TransactionKindRefund, settled.Kind)

		require.Len(t, f.notifier.published, 1)
		assert.Equal(t, contracts.NotificationEventRefundSuccess, f.notifier.published[0].Event)
	})

	t.Run("full balance refund flips the order to refunded", func(t *testing.T) {
		f := newRefundFixture()
		f.seedPaidOrder("100.00", models.PaymentMethodBalance)
		f.seedPendingRefund("100.00")

		_, err := f.usecase.ReviewRefund(ctx, requesterAdmin, "refund-1", &requests.ReviewRefund{Approved: true})
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusRefunded, f.orderRepo.byID["order-1"].Status)
	})

	t.Run("approval on a gateway order waits for the callback", func(t *testing.T) {
		f := newRefundFixture()
		f.seedPaidOrder("100.00", models.PaymentMethodWechat)
		f.seedPendingRefund("40.00")

		refund, err := f.usecase.ReviewRefund(ctx, requesterAdmin, "refund-1", &requests.ReviewRefund{Approved: true})
		require.NoError(t, err)

		assert.Equal(t, models.RefundStatusProcessing, refund.Status)
		assert.Equal(t, models.OrderStatusPaid, f.orderRepo.byID["order-1"].Status)
		assert.Equal(t, 1, f.gateway.refundRequests)
		assert.Empty(t, f.ledger.credits)
		assert.Empty(t, f.notifier.published, "nothing to announce until the gateway confirms")

		dispatched, err := f.transactionRepo.FindTransactionByRefundID(ctx, "refund-1")
		require.NoError(t, err)
		require.NotNil(t, dispatched)
		assert.Equal(t, models.TransactionStatusPending, dispatched.Status)
		assert.NotEmpty(t, dispatched.ExternalRef)
		assert.NotEmpty(t, dispatched.RequestData)
	})

	t.Run("approval never over-commits the order", func(t *testing.T) {
		f := newRefundFixture()
		f.seedPaidOrder("100.00", models.PaymentMethodWechat)
		f.seedPendingRefund("100.00")
		second := &models.RefundRequest{
			ID:            "refund-2",
			RefundNo:      "RFD202608290002",
			OrderID:       "order-1",
			TransactionID: "txn-pay",
			UserID:        "user-1",
			Amount:        money("100.00"),
			Reason:        "asked twice",
			Status:        models.RefundStatusPending,
		}
		f.refundRepo.byID[second.ID] = second

		_, err := f.usecase.ReviewRefund(ctx, requesterAdmin, "refund-1", &requests.ReviewRefund{Approved: true})
		require.NoError(t, err)
		require.Equal(t, 1, f.gateway.refundRequests)

		// The first dispatch reserved the full amount, so the duplicate
		// request no longer fits even though it passed filing.
		_, err = f.usecase.ReviewRefund(ctx, requesterAdmin, "refund-2", &requests.ReviewRefund{Approved: true})
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusUnprocessableEntity, customErr.StatusCode)

		assert.Equal(t, 1, f.gateway.refundRequests, "no second refund instruction may reach the provider")
		assert.Equal(t, models.RefundStatusPending, f.refundRepo.byID["refund-2"].Status)
	})

	t.Run("in-flight dispatch reserves the remainder for new requests", func(t *testing.T) {
		f := newRefundFixture()
		f.seedPaidOrder("100.00", models.PaymentMethodWechat)

		// A dispatched-but-unconfirmed refund of 70.00 is already promised
		f.transactionRepo.byID["txn-inflight"] = &models.Transaction{
			ID:      "txn-inflight",
			OrderID: "order-1",
			Kind:    models.TransactionKindRefund,
			Amount:  money("70.00"),
			Status:  models.TransactionStatusPending,
		}

		_, err := f.usecase.RequestRefund(ctx, requesterUser, &requests.CreateRefund{
			OrderID: "order-1",
			Amount:  money("30.01"),
			Reason:  "overreach",
		})
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusUnprocessableEntity, customErr.StatusCode)

		_, err = f.usecase.RequestRefund(ctx, requesterUser, &requests.CreateRefund{
			OrderID: "order-1",
			Amount:  money("30.00"),
			Reason:  "fits the remainder",
		})
		require.NoError(t, err)
	})

	t.Run("second review is rejected", func(t *testing.T) {
		f := newRefundFixture()
		f.seedPaidOrder("100.00", models.PaymentMethodBalance)
		f.seedPendingRefund("40.00")

		_, err := f.usecase.ReviewRefund(ctx, requesterAdmin, "refund-1", &requests.ReviewRefund{Approved: true})
		require.NoError(t, err)

		_, err = f.usecase.ReviewRefund(ctx, requesterAdmin, "refund-1", &requests.ReviewRefund{Approved: true})
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	})
}
