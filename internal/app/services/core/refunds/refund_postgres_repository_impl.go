package refunds

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/drivers/database"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/exceptions"
	"mediline-service/internal/pkg/queries"
)

type refundPostgresRepository struct {
	DB *sql.DB
}

func NewRefundPostgresRepository(db *sql.DB) contracts.RefundRepository {
	return &refundPostgresRepository{
		DB: db,
	}
}

func (repo *refundPostgresRepository) CreateRefund(ctx context.Context, refund *models.RefundRequest) error {
	querier := database.QuerierFrom(ctx, repo.DB)
	_, err := querier.ExecContext(ctx, queries.InsertRefund,
		refund.ID,
		refund.RefundNo,
		refund.OrderID,
		refund.TransactionID,
		refund.UserID,
		refund.Amount,
		refund.Reason,
		refund.Status,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *refundPostgresRepository) FindRefundByID(ctx context.Context, refundID string) (*models.RefundRequest, error) {
	return repo.findOne(ctx, queries.GetRefundByID, refundID)
}

func (repo *refundPostgresRepository) FindRefundByIDForUpdate(ctx context.Context, refundID string) (*models.RefundRequest, error) {
	return repo.findOne(ctx, queries.GetRefundByIDForUpdate, refundID)
}

func (repo *refundPostgresRepository) FindRefundByRefundNoForUpdate(ctx context.Context, refundNo string) (*models.RefundRequest, error) {
	return repo.findOne(ctx, queries.GetRefundByRefundNoForUpdate, refundNo)
}

func (repo *refundPostgresRepository) RefundNoExists(ctx context.Context, refundNo string) (bool, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	var count int
	err := querier.QueryRowContext(ctx, queries.CountRefundByRefundNo, refundNo).Scan(&count)
	if err != nil {
		return false, exceptions.ErrPostgresDBFindData(err)
	}
	return count > 0, nil
}

func (repo *refundPostgresRepository) MarkRefundReviewed(ctx context.Context, refundID string, to models.RefundStatus, reviewerID, reviewNotes string, reviewedAt time.Time) (bool, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	result, err := querier.ExecContext(ctx, queries.MarkRefundReviewed, to, reviewerID, reviewedAt, reviewNotes, refundID)
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	return affected > 0, nil
}

func (repo *refundPostgresRepository) CompleteRefund(ctx context.Context, refundID string, to models.RefundStatus, completedAt time.Time) (bool, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	result, err := querier.ExecContext(ctx, queries.CompleteRefund, to, completedAt, refundID)
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	return affected > 0, nil
}

func (repo *refundPostgresRepository) CancelRefund(ctx context.Context, refundID string) (bool, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	result, err := querier.ExecContext(ctx, queries.CancelRefund, refundID)
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	return affected > 0, nil
}

func (repo *refundPostgresRepository) findOne(ctx context.Context, query string, arg any) (*models.RefundRequest, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	row := querier.QueryRowContext(ctx, query, arg)

	var refund models.RefundRequest
	var reviewedBy, reviewNotes, externalRef sql.NullString
	var reviewedAt, completedAt sql.NullTime

	err := row.Scan(
		&refund.ID,
		&refund.RefundNo,
		&refund.OrderID,
		&refund.TransactionID,
		&refund.UserID,
		&refund.Amount,
		&refund.Reason,
		&refund.Status,
		&reviewedBy,
		&reviewedAt,
		&reviewNotes,
		&externalRef,
		&refund.CreatedAt,
		&refund.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, exceptions.ErrPostgresDBFindData(err)
	}

	refund.ReviewedBy = reviewedBy.String
	refund.ReviewNotes = reviewNotes.String
	refund.ExternalRef = externalRef.String
	if reviewedAt.Valid {
		refund.ReviewedAt = &reviewedAt.Time
	}
	if completedAt.Valid {
		refund.CompletedAt = &completedAt.Time
	}
	return &refund, nil
}
