package queries

const (
	balanceColumns = `
		id,
		user_id,
		balance,
		frozen_balance,
		total_income,
		total_expense,
		created_at,
		updated_at`

	GetBalanceByUserID = `
		SELECT ` + balanceColumns + `
		FROM user_balances
		WHERE user_id = $1
	`

	GetBalanceByUserIDForUpdate = `
		SELECT ` + balanceColumns + `
		FROM user_balances
		WHERE user_id = $1
		FOR UPDATE
	`

	InsertBalance = `
		INSERT INTO user_balances (
			id,
			user_id,
			balance,
			frozen_balance,
			total_income,
			total_expense,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`

	UpdateBalanceFigures = `
		UPDATE user_balances
		SET
			balance = $1,
			frozen_balance = $2,
			total_income = $3,
			total_expense = $4,
			updated_at = NOW()
		WHERE user_id = $5
	`

	InsertBalanceEntry = `
		INSERT INTO balance_entries (
			id,
			user_id,
			entry_type,
			amount,
			balance_before,
			balance_after,
			related_type,
			related_id,
			description,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`

	ListBalanceEntriesByUserID = `
		SELECT
			id,
			user_id,
			entry_type,
			amount,
			balance_before,
			balance_after,
			related_type,
			related_id,
			description,
			created_at
		FROM balance_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	CountBalanceEntriesByUserID = `
		SELECT COUNT(1)
		FROM balance_entries
		WHERE user_id = $1
	`
)
