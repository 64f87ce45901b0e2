package contracts

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/dto/requests"
)

type OrderUsecase interface {
	CreateOrder(ctx context.Context, requester *models.Requester, request *requests.CreateOrder) (*models.Order, error)
	GetOrder(ctx context.Context, requester *models.Requester, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, requester *models.Requester, request *requests.ListOrders) ([]models.Order, int64, error)
	CancelOrder(ctx context.Context, requester *models.Requester, orderID string) (*models.Order, error)

	// MarkPaid finalizes a pending order after a confirmed payment. Callers
	// are expected to run it inside a TransactionManager unit together with
	// the transaction and ledger writes.
	MarkPaid(ctx context.Context, orderID string, method models.PaymentMethod, paymentTime time.Time) (*models.Order, error)

	// MarkRefunded moves a paid order to refunded or partial_refunded
	// depending on how much of it has been returned so far.
	MarkRefunded(ctx context.Context, orderID string, refundedTotal decimal.Decimal) (*models.Order, error)

	ExpireDueOrders(ctx context.Context) (int64, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrderByID(ctx context.Context, orderID string) (*models.Order, error)
	FindOrderByIDForUpdate(ctx context.Context, orderID string) (*models.Order, error)
	FindOrderByOrderNoForUpdate(ctx context.Context, orderNo string) (*models.Order, error)
	OrderNoExists(ctx context.Context, orderNo string) (bool, error)
	ListOrders(ctx context.Context, filter *models.OrderFilter) ([]models.Order, int64, error)

	// MarkOrderPaid and UpdateOrderStatus are compare-and-set updates guarded
	// by the expected current status; they report whether a row changed.
	MarkOrderPaid(ctx context.Context, orderID string, method models.PaymentMethod, paymentTime time.Time) (bool, error)
	UpdateOrderStatus(ctx context.Context, orderID string, from, to models.OrderStatus) (bool, error)

	ExpireDueOrders(ctx context.Context, now time.Time) (int64, error)
	GetPaymentStatistics(ctx context.Context, filter *models.OrderFilter) (*models.PaymentStatistics, error)
}
