package queries

const (
	refundColumns = `
		id,
		refund_no,
		order_id,
		transaction_id,
		user_id,
		amount,
		reason,
		status,
		reviewed_by,
		reviewed_at,
		review_notes,
		external_ref,
		created_at,
		updated_at,
		completed_at`

	GetRefundByID = `
		SELECT ` + refundColumns + `
		FROM refund_requests
		WHERE id = $1
	`

	GetRefundByIDForUpdate = `
		SELECT ` + refundColumns + `
		FROM refund_requests
		WHERE id = $1
		FOR UPDATE
	`

	GetRefundByRefundNoForUpdate = `
		SELECT ` + refundColumns + `
		FROM refund_requests
		WHERE refund_no = $1
		FOR UPDATE
	`

	CountRefundByRefundNo = `
		SELECT COUNT(1)
		FROM refund_requests
		WHERE refund_no = $1
	`

	InsertRefund = `
		INSERT INTO refund_requests (
			id,
			refund_no,
			order_id,
			transaction_id,
			user_id,
			amount,
			reason,
			status,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`

	MarkRefundReviewed = `
		UPDATE refund_requests
		SET
			status = $1,
			reviewed_by = $2,
			reviewed_at = $3,
			review_notes = $4,
			updated_at = NOW()
		WHERE id = $5 AND status = 'pending'
	`

	CompleteRefund = `
		UPDATE refund_requests
		SET
			status = $1,
			completed_at = $2,
			updated_at = NOW()
		WHERE id = $3 AND status = 'processing'
	`

	CancelRefund = `
		UPDATE refund_requests
		SET
			status = 'cancelled',
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
)
