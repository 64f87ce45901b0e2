package utils

import (
	"context"
	"net/http"
	"strconv"

	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/dto/requests"
)

// RequesterFromContext pulls the authenticated identity stored by the auth
// middleware. It returns nil when the request was not authenticated.
func RequesterFromContext(ctx context.Context) *models.Requester {
	requester, ok := ctx.Value(constvars.CONTEXT_REQUESTER_KEY).(*models.Requester)
	if !ok {
		return nil
	}
	return requester
}

func RequestIDFromContext(ctx context.Context) string {
	requestID, ok := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		return ""
	}
	return requestID
}

func ParsePaginationQuery(r *http.Request) (page, pageSize int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}

	pageSize, err = strconv.Atoi(r.URL.Query().Get("page_size"))
	if err != nil || pageSize <= 0 {
		pageSize = constvars.DefaultPageSize
	}
	if pageSize > constvars.MaxPageSize {
		pageSize = constvars.MaxPageSize
	}

	return page, pageSize
}

func BuildListOrdersRequest(r *http.Request) *requests.ListOrders {
	page, pageSize := ParsePaginationQuery(r)
	query := r.URL.Query()

	return &requests.ListOrders{
		UserID:    query.Get("user_id"),
		Status:    query.Get("status"),
		OrderKind: query.Get("order_kind"),
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
		Page:      page,
		PageSize:  pageSize,
	}
}

func BuildPaymentStatisticsRequest(r *http.Request) *requests.PaymentStatistics {
	query := r.URL.Query()

	return &requests.PaymentStatistics{
		UserID:    query.Get("user_id"),
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}
}
