package queries

const (
	GetActivePriceByServiceType = `
		SELECT
			id,
			service_type,
			service_name,
			price,
			discount_price,
			is_active,
			effective_date,
			expiry_date,
			description,
			created_at,
			updated_at
		FROM price_configs
		WHERE service_type = $1
			AND is_active = TRUE
			AND (effective_date IS NULL OR effective_date <= $2)
			AND (expiry_date IS NULL OR expiry_date > $2)
		ORDER BY effective_date DESC NULLS LAST
		LIMIT 1
	`
)
