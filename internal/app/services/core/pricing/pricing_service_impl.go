package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/exceptions"
)

type pricingService struct {
	PriceRepository contracts.PriceRepository
	Log             *zap.Logger
}

var (
	pricingServiceInstance contracts.PricingService
	oncePricingService     sync.Once
)

func NewPricingService(priceRepository contracts.PriceRepository, logger *zap.Logger) contracts.PricingService {
	oncePricingService.Do(func() {
		pricingServiceInstance = &pricingService{
			PriceRepository: priceRepository,
			Log:             logger,
		}
	})
	return pricingServiceInstance
}

func (s *pricingService) GetActivePrice(ctx context.Context, serviceType string) (*models.PriceConfig, error) {
	price, err := s.PriceRepository.FindActivePriceByServiceType(ctx, serviceType, time.Now())
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, exceptions.ErrPriceNotFound(nil, serviceType)
	}
	return price, nil
}

func decimalFromString(value string) (*decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
