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

type balancePostgresRepository struct {
	DB *sql.DB
}

func NewBalancePostgresRepository(db *sql.DB) contracts.BalanceRepository {
	return &balancePostgresRepository{
		DB: db,
	}
}

func (repo *balancePostgresRepository) CreateBalance(ctx context.Context, balance *models.Balance) error {
	querier := database.QuerierFrom(ctx, repo.DB)
	_, err := querier.ExecContext(ctx, queries.InsertBalance,
		balance.ID,
		balance.UserID,
		balance.Balance,
		balance.FrozenBalance,
		balance.TotalIncome,
		balance.TotalExpense,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *balancePostgresRepository) FindBalanceByUserID(ctx context.Context, userID string) (*models.Balance, error) {
	return repo.findOne(ctx, queries.GetBalanceByUserID, userID)
}

func (repo *balancePostgresRepository) FindBalanceByUserIDForUpdate(ctx context.Context, userID string) (*models.Balance, error) {
	return repo.findOne(ctx, queries.GetBalanceByUserIDForUpdate, userID)
}

func (repo *balancePostgresRepository) UpdateBalanceFigures(ctx context.Context, balance *models.Balance) error {
	querier := database.QuerierFrom(ctx, repo.DB)
	_, err := querier.ExecContext(ctx, queries.UpdateBalanceFigures,
		balance.Balance,
		balance.FrozenBalance,
		balance.TotalIncome,
		balance.TotalExpense,
		balance.UserID,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func (repo *balancePostgresRepository) findOne(ctx context.Context, query, userID string) (*models.Balance, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	var balance models.Balance
	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&balance.ID,
		&balance.UserID,
		&balance.Balance,
		&balance.FrozenBalance,
		&balance.TotalIncome,
		&balance.TotalExpense,
		&balance.CreatedAt,
		&balance.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &balance, nil
}
