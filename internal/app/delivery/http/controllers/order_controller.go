package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"mediline-service/internal/app/config"
	"mediline-service/internal/app/contracts"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/dto/requests"
	"mediline-service/internal/pkg/dto/responses"
	"mediline-service/internal/pkg/exceptions"
	"mediline-service/internal/pkg/utils"
)

type OrderController struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	OrderUsecase   contracts.OrderUsecase
}

var (
	orderControllerInstance *OrderController
	onceOrderController     sync.Once
)

func NewOrderController(logger *zap.Logger, internalConfig *config.InternalConfig, orderUsecase contracts.OrderUsecase) *OrderController {
	onceOrderController.Do(func() {
		orderControllerInstance = &OrderController{
			Log:            logger,
			InternalConfig: internalConfig,
			OrderUsecase:   orderUsecase,
		}
	})
	return orderControllerInstance
}

func (ctrl *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requester := utils.RequesterFromContext(r.Context())
	if requester == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	request := new(requests.CreateOrder)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	order, err := ctrl.OrderUsecase.CreateOrder(ctx, requester, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("OrderController.CreateOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(r.Context())),
		zap.String(constvars.LoggingOrderNoKey, order.OrderNo),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.OrderCreatedSuccess, responses.NewOrderResponse(order))
}

func (ctrl *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	requester := utils.RequesterFromContext(r.Context())
	if requester == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	orderID := chi.URLParam(r, "orderID")
	if err := utils.ValidateUrlParamID(orderID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(err, "orderID"))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	order, err := ctrl.OrderUsecase.GetOrder(ctx, requester, orderID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OrderGetSuccess, responses.NewOrderResponse(order))
}

func (ctrl *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	requester := utils.RequesterFromContext(r.Context())
	if requester == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	request := utils.BuildListOrdersRequest(r)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	orders, total, err := ctrl.OrderUsecase.ListOrders(ctx, requester, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	pagination := utils.BuildPaginationResponse(total, request.Page, request.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.OrderListSuccess, pagination, responses.NewOrderListResponse(orders))
}

func (ctrl *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	requester := utils.RequesterFromContext(r.Context())
	if requester == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	orderID := chi.URLParam(r, "orderID")
	if err := utils.ValidateUrlParamID(orderID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(err, "orderID"))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	order, err := ctrl.OrderUsecase.CancelOrder(ctx, requester, orderID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("OrderController.CancelOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(r.Context())),
		zap.String(constvars.LoggingOrderNoKey, order.OrderNo),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OrderCancelledSuccess, responses.NewOrderResponse(order))
}

func (ctrl *OrderController) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := time.Duration(ctrl.InternalConfig.Payment.ProcessTimeoutInSeconds) * time.Second
	return context.WithTimeout(r.Context(), timeout)
}
