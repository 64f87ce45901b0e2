package balances

import (
	"context"
	"database/sql"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/drivers/database"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/exceptions"
	"mediline-service/internal/pkg/queries"
)

type balanceEntryPostgresRepository struct {
	DB *sql.DB
}

func NewBalanceEntryPostgresRepository(db *sql.DB) contracts.BalanceEntryRepository {
	return &balanceEntryPostgresRepository{
		DB: db,
	}
}

func (repo *balanceEntryPostgresRepository) CreateBalanceEntry(ctx context.Context, entry *models.BalanceEntry) error {
	querier := database.QuerierFrom(ctx, repo.DB)
	_, err := querier.ExecContext(ctx, queries.InsertBalanceEntry,
		entry.ID,
		entry.UserID,
		entry.EntryType,
		entry.Amount,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.RelatedType,
		entry.RelatedID,
		entry.Description,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *balanceEntryPostgresRepository) ListBalanceEntries(ctx context.Context, userID string, page, pageSize int) ([]models.BalanceEntry, int64, error) {
	querier := database.QuerierFrom(ctx, repo.DB)

	var total int64
	err := querier.QueryRowContext(ctx, queries.CountBalanceEntriesByUserID, userID).Scan(&total)
	if err != nil {
		return nil, 0, exceptions.ErrPostgresDBFindData(err)
	}

	rows, err := querier.QueryContext(ctx, queries.ListBalanceEntriesByUserID, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var entries []models.BalanceEntry
	for rows.Next() {
		var entry models.BalanceEntry
		var relatedType, relatedID sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.EntryType,
			&entry.Amount,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&relatedType,
			&relatedID,
			&entry.Description,
			&entry.CreatedAt,
		); err != nil {
			return nil, 0, exceptions.ErrPostgresDBFindData(err)
		}
		entry.RelatedType = relatedType.String
		entry.RelatedID = relatedID.String
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, exceptions.ErrPostgresDBIterateDataset(err)
	}

	return entries, total, nil
}
