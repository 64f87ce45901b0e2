package payments

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/drivers/database"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/exceptions"
	"mediline-service/internal/pkg/queries"
)

type transactionPostgresRepository struct {
	DB *sql.DB
}

func NewTransactionPostgresRepository(db *sql.DB) contracts.TransactionRepository {
	return &transactionPostgresRepository{
		DB: db,
	}
}

func (repo *transactionPostgresRepository) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	querier := database.QuerierFrom(ctx, repo.DB)
	_, err := querier.ExecContext(ctx, queries.InsertTransaction,
		transaction.ID,
		transaction.TransactionNo,
		transaction.OrderID,
		nullableString(transaction.RefundID),
		transaction.Kind,
		transaction.PaymentMethod,
		transaction.Amount,
		transaction.Currency,
		transaction.Status,
		nullableString(transaction.ExternalRef),
		nullableBytes(transaction.RequestData),
		nullableBytes(transaction.ResponseData),
		transaction.InitiatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *transactionPostgresRepository) FindTransactionByID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return repo.findOne(ctx, queries.GetTransactionByID, transactionID)
}

func (repo *transactionPostgresRepository) FindLatestPendingByOrder(ctx context.Context, orderID string, kind models.TransactionKind) (*models.Transaction, error) {
	return repo.findOne(ctx, queries.GetLatestPendingTransactionByOrder, orderID, kind)
}

func (repo *transactionPostgresRepository) FindTransactionByRefundID(ctx context.Context, refundID string) (*models.Transaction, error) {
	return repo.findOne(ctx, queries.GetTransactionByRefundID, refundID)
}

func (repo *transactionPostgresRepository) FindSuccessfulPaymentByOrder(ctx context.Context, orderID string) (*models.Transaction, error) {
	return repo.findOne(ctx, queries.GetSuccessfulPaymentTransactionByOrder, orderID)
}

func (repo *transactionPostgresRepository) TransactionNoExists(ctx context.Context, transactionNo string) (bool, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	var count int
	err := querier.QueryRowContext(ctx, queries.CountTransactionByTransactionNo, transactionNo).Scan(&count)
	if err != nil {
		return false, exceptions.ErrPostgresDBFindData(err)
	}
	return count > 0, nil
}

func (repo *transactionPostgresRepository) UpdateTransactionRequest(ctx context.Context, transactionID string, externalRef string, requestData, responseData []byte) error {
	querier := database.QuerierFrom(ctx, repo.DB)
	_, err := querier.ExecContext(ctx, queries.UpdateTransactionRequest,
		nullableString(externalRef),
		nullableBytes(requestData),
		nullableBytes(responseData),
		transactionID,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func (repo *transactionPostgresRepository) MarkTransactionSuccess(ctx context.Context, transactionID, externalRef string, callbackData []byte, completedAt time.Time) (bool, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	result, err := querier.ExecContext(ctx, queries.MarkTransactionSuccess,
		nullableString(externalRef),
		nullableBytes(callbackData),
		completedAt,
		transactionID,
	)
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	return affected > 0, nil
}

func (repo *transactionPostgresRepository) MarkTransactionFailed(ctx context.Context, transactionID, errorCode, errorMessage string, callbackData []byte, completedAt time.Time) (bool, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	result, err := querier.ExecContext(ctx, queries.MarkTransactionFailed,
		nullableString(errorCode),
		nullableString(errorMessage),
		nullableBytes(callbackData),
		completedAt,
		transactionID,
	)
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	return affected > 0, nil
}

func (repo *transactionPostgresRepository) SumSuccessfulRefunds(ctx context.Context, orderID string) (decimal.Decimal, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	var total decimal.Decimal
	err := querier.QueryRowContext(ctx, queries.SumSuccessfulRefundsByOrder, orderID).Scan(&total)
	if err != nil {
		return decimal.Zero, exceptions.ErrPostgresDBFindData(err)
	}
	return total, nil
}

func (repo *transactionPostgresRepository) SumReservedRefunds(ctx context.Context, orderID string) (decimal.Decimal, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	var total decimal.Decimal
	err := querier.QueryRowContext(ctx, queries.SumReservedRefundsByOrder, orderID).Scan(&total)
	if err != nil {
		return decimal.Zero, exceptions.ErrPostgresDBFindData(err)
	}
	return total, nil
}

func (repo *transactionPostgresRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Transaction, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	var transaction models.Transaction
	var refundID, externalRef, errorCode, errorMessage sql.NullString
	var completedAt sql.NullTime

	err := querier.QueryRowContext(ctx, query, args...).Scan(
		&transaction.ID,
		&transaction.TransactionNo,
		&transaction.OrderID,
		&refundID,
		&transaction.Kind,
		&transaction.PaymentMethod,
		&transaction.Amount,
		&transaction.Currency,
		&transaction.Status,
		&externalRef,
		&transaction.RequestData,
		&transaction.ResponseData,
		&transaction.CallbackData,
		&errorCode,
		&errorMessage,
		&transaction.InitiatedAt,
		&completedAt,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}

	transaction.RefundID = refundID.String
	transaction.ExternalRef = externalRef.String
	transaction.ErrorCode = errorCode.String
	transaction.ErrorMessage = errorMessage.String
	if completedAt.Valid {
		transaction.CompletedAt = &completedAt.Time
	}
	return &transaction, nil
}

func nullableString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullableBytes(value []byte) []byte {
	if len(value) == 0 {
		return nil
	}
	return value
}
