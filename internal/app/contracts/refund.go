package contracts

import (
	"context"
	"time"

	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/dto/requests"
)

type RefundUsecase interface {
	RequestRefund(ctx context.Context, requester *models.Requester, request *requests.CreateRefund) (*models.RefundRequest, error)
	GetRefund(ctx context.Context, requester *models.Requester, refundID string) (*models.RefundRequest, error)
	CancelRefund(ctx context.Context, requester *models.Requester, refundID string) (*models.RefundRequest, error)
	ReviewRefund(ctx context.Context, requester *models.Requester, refundID string, request *requests.ReviewRefund) (*models.RefundRequest, error)
}

type RefundRepository interface {
	CreateRefund(ctx context.Context, refund *models.RefundRequest) error
	FindRefundByID(ctx context.Context, refundID string) (*models.RefundRequest, error)
	FindRefundByIDForUpdate(ctx context.Context, refundID string) (*models.RefundRequest, error)
	FindRefundByRefundNoForUpdate(ctx context.Context, refundNo string) (*models.RefundRequest, error)
	RefundNoExists(ctx context.Context, refundNo string) (bool, error)

	// Compare-and-set transitions guarded by the expected current status.
	MarkRefundReviewed(ctx context.Context, refundID string, to models.RefundStatus, reviewerID, reviewNotes string, reviewedAt time.Time) (bool, error)
	CompleteRefund(ctx context.Context, refundID string, to models.RefundStatus, completedAt time.Time) (bool, error)
	CancelRefund(ctx context.Context, refundID string) (bool, error)
}
