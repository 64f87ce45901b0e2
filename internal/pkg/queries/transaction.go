package queries

const (
	transactionColumns = `
		id,
		transaction_no,
		order_id,
		refund_id,
		kind,
		payment_method,
		amount,
		currency,
		status,
		external_ref,
		request_data,
		response_data,
		callback_data,
		error_code,
		error_message,
		initiated_at,
		completed_at,
		created_at,
		updated_at`

	GetTransactionByID = `
		SELECT ` + transactionColumns + `
		FROM payment_transactions
		WHERE id = $1
	`

	GetLatestPendingTransactionByOrder = `
		SELECT ` + transactionColumns + `
		FROM payment_transactions
		WHERE order_id = $1 AND kind = $2 AND status = 'pending'
		ORDER BY initiated_at DESC
		LIMIT 1
	`

	GetSuccessfulPaymentTransactionByOrder = `
		SELECT ` + transactionColumns + `
		FROM payment_transactions
		WHERE order_id = $1 AND kind = 'payment' AND status = 'success'
		ORDER BY completed_at DESC
		LIMIT 1
	`

	GetTransactionByRefundID = `
		SELECT ` + transactionColumns + `
		FROM payment_transactions
		WHERE refund_id = $1
		ORDER BY initiated_at DESC
		LIMIT 1
	`

	CountTransactionByTransactionNo = `
		SELECT COUNT(1)
		FROM payment_transactions
		WHERE transaction_no = $1
	`

	InsertTransaction = `
		INSERT INTO payment_transactions (
			id,
			transaction_no,
			order_id,
			refund_id,
			kind,
			payment_method,
			amount,
			currency,
			status,
			external_ref,
			request_data,
			response_data,
			initiated_at,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`

	UpdateTransactionRequest = `
		UPDATE payment_transactions
		SET
			external_ref = $1,
			request_data = $2,
			response_data = $3,
			updated_at = NOW()
		WHERE id = $4
	`

	MarkTransactionSuccess = `
		UPDATE payment_transactions
		SET
			status = 'success',
			external_ref = $1,
			callback_data = $2,
			completed_at = $3,
			updated_at = NOW()
		WHERE id = $4 AND status = 'pending'
	`

	MarkTransactionFailed = `
		UPDATE payment_transactions
		SET
			status = 'failed',
			error_code = $1,
			error_message = $2,
			callback_data = $3,
			completed_at = $4,
			updated_at = NOW()
		WHERE id = $5 AND status = 'pending'
	`

	SumSuccessfulRefundsByOrder = `
		SELECT COALESCE(SUM(amount), 0)
		FROM payment_transactions
		WHERE order_id = $1 AND kind = 'refund' AND status = 'success'
	`

	SumReservedRefundsByOrder = `
		SELECT COALESCE(SUM(amount), 0)
		FROM payment_transactions
		WHERE order_id = $1 AND kind = 'refund' AND status <> 'failed'
	`
)
