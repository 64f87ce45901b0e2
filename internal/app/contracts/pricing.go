package contracts

import (
	"context"
	"time"

	"mediline-service/internal/app/models"
)

type PricingService interface {
	GetActivePrice(ctx context.Context, serviceType string) (*models.PriceConfig, error)
}

type PriceRepository interface {
	FindActivePriceByServiceType(ctx context.Context, serviceType string, now time.Time) (*models.PriceConfig, error)
}
