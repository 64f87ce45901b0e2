package orders

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/drivers/database"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/exceptions"
	"mediline-service/internal/pkg/queries"
)

type orderPostgresRepository struct {
	DB *sql.DB
}

func NewOrderPostgresRepository(db *sql.DB) contracts.OrderRepository {
	return &orderPostgresRepository{
		DB: db,
	}
}

func (repo *orderPostgresRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	querier := database.QuerierFrom(ctx, repo.DB)
	_, err := querier.ExecContext(ctx, queries.InsertOrder,
		order.ID,
		order.OrderNo,
		order.UserID,
		nullableString(order.AppointmentID),
		order.Kind,
		order.Amount,
		order.Currency,
		order.Status,
		nullableString(string(order.PaymentMethod)),
		order.PaymentTime,
		order.ExpireTime,
		order.Description,
		nullableBytes(order.Metadata),
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *orderPostgresRepository) FindOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	return repo.findOne(ctx, queries.GetOrderByID, orderID)
}

func (repo *orderPostgresRepository) FindOrderByIDForUpdate(ctx context.Context, orderID string) (*models.Order, error) {
	return repo.findOne(ctx, queries.GetOrderByIDForUpdate, orderID)
}

func (repo *orderPostgresRepository) FindOrderByOrderNoForUpdate(ctx context.Context, orderNo string) (*models.Order, error) {
	return repo.findOne(ctx, queries.GetOrderByOrderNoForUpdate, orderNo)
}

func (repo *orderPostgresRepository) OrderNoExists(ctx context.Context, orderNo string) (bool, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	var count int
	err := querier.QueryRowContext(ctx, queries.CountOrderByOrderNo, orderNo).Scan(&count)
	if err != nil {
		return false, exceptions.ErrPostgresDBFindData(err)
	}
	return count > 0, nil
}

func (repo *orderPostgresRepository) ListOrders(ctx context.Context, filter *models.OrderFilter) ([]models.Order, int64, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	whereClause, args := buildOrderFilter(filter)

	var total int64
	err := querier.QueryRowContext(ctx, queries.CountOrdersBase+whereClause, args...).Scan(&total)
	if err != nil {
		return nil, 0, exceptions.ErrPostgresDBFindData(err)
	}

	listQuery := fmt.Sprintf("%s%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		queries.ListOrdersBase, whereClause, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := querier.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, exceptions.ErrPostgresDBFindData(err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, exceptions.ErrPostgresDBIterateDataset(err)
	}

	return orders, total, nil
}

func (repo *orderPostgresRepository) MarkOrderPaid(ctx context.Context, orderID string, method models.PaymentMethod, paymentTime time.Time) (bool, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	result, err := querier.ExecContext(ctx, queries.MarkOrderPaid, method, paymentTime, orderID)
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	return affected > 0, nil
}

func (repo *orderPostgresRepository) UpdateOrderStatus(ctx context.Context, orderID string, from, to models.OrderStatus) (bool, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	result, err := querier.ExecContext(ctx, queries.UpdateOrderStatus, to, orderID, from)
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	return affected > 0, nil
}

func (repo *orderPostgresRepository) ExpireDueOrders(ctx context.Context, now time.Time) (int64, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	result, err := querier.ExecContext(ctx, queries.ExpireDueOrders, now)
	if err != nil {
		return 0, exceptions.ErrPostgresDBUpdateData(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, exceptions.ErrPostgresDBUpdateData(err)
	}
	return affected, nil
}

func (repo *orderPostgresRepository) GetPaymentStatistics(ctx context.Context, filter *models.OrderFilter) (*models.PaymentStatistics, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	whereClause, args := buildOrderFilter(filter)

	var statistics models.PaymentStatistics
	err := querier.QueryRowContext(ctx, queries.GetPaymentStatistics+whereClause, args...).Scan(
		&statistics.TotalOrders,
		&statistics.TotalAmount,
		&statistics.PaidOrders,
		&statistics.PaidAmount,
		&statistics.RefundedOrders,
	)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}

	// The filter clause starts with WHERE, the refund sum query already has
	// one, so rewrite the head before appending.
	andClause := strings.Replace(whereClause, " WHERE ", " AND ", 1)
	err = querier.QueryRowContext(ctx, queries.SumRefundedForOrdersBase+andClause, args...).Scan(&statistics.RefundedAmount)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &statistics, nil
}

func (repo *orderPostgresRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.Order, error) {
	querier := database.QuerierFrom(ctx, repo.DB)
	order, err := scanOrder(querier.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return order, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	var appointmentID, paymentMethod sql.NullString
	var paymentTime sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.OrderNo,
		&order.UserID,
		&appointmentID,
		&order.Kind,
		&order.Amount,
		&order.Currency,
		&order.Status,
		&paymentMethod,
		&paymentTime,
		&order.ExpireTime,
		&order.Description,
		&order.Metadata,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.AppointmentID = appointmentID.String
	order.PaymentMethod = models.PaymentMethod(paymentMethod.String)
	if paymentTime.Valid {
		order.PaymentTime = &paymentTime.Time
	}
	return &order, nil
}

// buildOrderFilter renders the WHERE clause for list and statistics queries.
// Positional parameters start at $1 and callers append their own after.
func buildOrderFilter(filter *models.OrderFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	appendCondition := func(column string, operator string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s %s $%d", column, operator, len(args)))
	}

	if filter.UserID != "" {
		appendCondition("payment_orders.user_id", "=", filter.UserID)
	}
	if filter.Status != "" {
		appendCondition("payment_orders.status", "=", filter.Status)
	}
	if filter.Kind != "" {
		appendCondition("payment_orders.order_kind", "=", filter.Kind)
	}
	if filter.StartDate != nil {
		appendCondition("payment_orders.created_at", ">=", *filter.StartDate)
	}
	if filter.EndDate != nil {
		appendCondition("payment_orders.created_at", "<", *filter.EndDate)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func nullableString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullableBytes(value []byte) []byte {
	if len(value) == 0 {
		return nil
	}
	return value
}
