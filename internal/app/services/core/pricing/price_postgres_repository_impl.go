package pricing

import (
	"context"
	"database/sql"
	"time"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/drivers/database"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/exceptions"
	"mediline-service/internal/pkg/queries"
)

type pricePostgresRepository struct {
	DB *sql.DB
}

func NewPricePostgresRepository(db *sql.DB) contracts.PriceRepository {
	return &pricePostgresRepository{
		DB: db,
	}
}

func (repo *pricePostgresRepository) FindActivePriceByServiceType(ctx context.Context, serviceType string, now time.Time) (*models.PriceConfig, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	var price models.PriceConfig
	var discountPrice sql.NullString
	var effectiveDate, expiryDate sql.NullTime
	var description sql.NullString

	err := querier.QueryRowContext(ctx, queries.GetActivePriceByServiceType, serviceType, now).Scan(
		&price.ID,
		&price.ServiceType,
		&price.ServiceName,
		&price.Price,
		&discountPrice,
		&price.IsActive,
		&effectiveDate,
		&expiryDate,
		&description,
		&price.CreatedAt,
		&price.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}

	if discountPrice.Valid {
		parsed, err := decimalFromString(discountPrice.String)
		if err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		price.DiscountPrice = parsed
	}
	if effectiveDate.Valid {
		price.EffectiveDate = &effectiveDate.Time
	}
	if expiryDate.Valid {
		price.ExpiryDate = &expiryDate.Time
	}
	price.Description = description.String

	return &price, nil
}
