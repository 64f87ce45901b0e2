package contracts

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"mediline-service/internal/app/models"
)

type TransactionRepository interface {
	CreateTransaction(ctx context.Context, transaction *models.Transaction) error
	FindTransactionByID(ctx context.Context, transactionID string) (*models.Transaction, error)
	FindLatestPendingByOrder(ctx context.Context, orderID string, kind models.TransactionKind) (*models.Transaction, error)
	FindTransactionByRefundID(ctx context.Context, refundID string) (*models.Transaction, error)
	FindSuccessfulPaymentByOrder(ctx context.Context, orderID string) (*models.Transaction, error)
	TransactionNoExists(ctx context.Context, transactionNo string) (bool, error)

	UpdateTransactionRequest(ctx context.Context, transactionID string, externalRef string, requestData, responseData []byte) error

	// MarkTransactionSuccess and MarkTransactionFailed only apply while the
	// row is still pending; they report whether a row changed.
	MarkTransactionSuccess(ctx context.Context, transactionID, externalRef string, callbackData []byte, completedAt time.Time) (bool, error)
	MarkTransactionFailed(ctx context.Context, transactionID, errorCode, errorMessage string, callbackData []byte, completedAt time.Time) (bool, error)

	SumSuccessfulRefunds(ctx context.Context, orderID string) (decimal.Decimal, error)

	// SumReservedRefunds also counts refund transactions still in flight, so
	// money already promised to a gateway reduces the refundable remainder.
	SumReservedRefunds(ctx context.Context, orderID string) (decimal.Decimal, error)
}
