package queries

const (
	orderColumns = `
		id,
		order_no,
		user_id,
		appointment_id,
		order_kind,
		amount,
		currency,
		status,
		payment_method,
		payment_time,
		expire_time,
		description,
		metadata,
		created_at,
		updated_at`

	GetOrderByID = `
		SELECT ` + orderColumns + `
		FROM payment_orders
		WHERE id = $1
	`

	GetOrderByIDForUpdate = `
		SELECT ` + orderColumns + `
		FROM payment_orders
		WHERE id = $1
		FOR UPDATE
	`

	GetOrderByOrderNoForUpdate = `
		SELECT ` + orderColumns + `
		FROM payment_orders
		WHERE order_no = $1
		FOR UPDATE
	`

	CountOrderByOrderNo = `
		SELECT COUNT(1)
		FROM payment_orders
		WHERE order_no = $1
	`

	InsertOrder = `
		INSERT INTO payment_orders (
			id,
			order_no,
			user_id,
			appointment_id,
			order_kind,
			amount,
			currency,
			status,
			payment_method,
			payment_time,
			expire_time,
			description,
			metadata,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`

	MarkOrderPaid = `
		UPDATE payment_orders
		SET
			status = 'paid',
			payment_method = $1,
			payment_time = $2,
			updated_at = NOW()
		WHERE id = $3 AND status = 'pending'
	`

	UpdateOrderStatus = `
		UPDATE payment_orders
		SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	ExpireDueOrders = `
		UPDATE payment_orders
		SET
			status = 'expired',
			updated_at = NOW()
		WHERE status = 'pending' AND expire_time < $1
	`

	// ListOrdersBase and CountOrdersBase get their WHERE clause appended by
	// the repository according to the active filter.
	ListOrdersBase = `
		SELECT ` + orderColumns + `
		FROM payment_orders
	`

	CountOrdersBase = `
		SELECT COUNT(1)
		FROM payment_orders
	`

	GetPaymentStatistics = `
		SELECT
			COUNT(1) AS total_orders,
			COALESCE(SUM(payment_orders.amount), 0) AS total_amount,
			COUNT(1) FILTER (WHERE payment_orders.status IN ('paid', 'refunded', 'partial_refunded')) AS paid_orders,
			COALESCE(SUM(payment_orders.amount) FILTER (WHERE payment_orders.status IN ('paid', 'refunded', 'partial_refunded')), 0) AS paid_amount,
			COUNT(1) FILTER (WHERE payment_orders.status IN ('refunded', 'partial_refunded')) AS refunded_orders
		FROM payment_orders
	`

	// SumRefundedForOrdersBase totals successful refund transactions over the
	// same filtered order set as GetPaymentStatistics.
	SumRefundedForOrdersBase = `
		SELECT COALESCE(SUM(payment_transactions.amount), 0)
		FROM payment_transactions
		JOIN payment_orders ON payment_orders.id = payment_transactions.order_id
		WHERE payment_transactions.kind = 'refund' AND payment_transactions.status = 'success'
	`
)
