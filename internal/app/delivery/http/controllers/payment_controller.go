package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

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

type PaymentController struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	PaymentUsecase contracts.PaymentUsecase
}

var (
	paymentControllerInstance *PaymentController
	oncePaymentController     sync.Once
)

func NewPaymentController(logger *zap.Logger, internalConfig *config.InternalConfig, paymentUsecase contracts.PaymentUsecase) *PaymentController {
	oncePaymentController.Do(func() {
		paymentControllerInstance = &PaymentController{
			Log:            logger,
			InternalConfig: internalConfig,
			PaymentUsecase: paymentUsecase,
		}
	})
	return paymentControllerInstance
}

func (ctrl *PaymentController) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requester := utils.RequesterFromContext(r.Context())
	if requester == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	request := new(requests.InitiatePayment)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	timeout := time.Duration(ctrl.InternalConfig.Payment.GatewayTimeoutInSeconds) * time.Second
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	instructions, err := ctrl.PaymentUsecase.InitiatePayment(ctx, requester, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("PaymentController.InitiatePayment succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(r.Context())),
		zap.String(constvars.LoggingOrderIDKey, request.OrderID),
		zap.String(constvars.LoggingPaymentMethodKey, request.PaymentMethod),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentInitiatedSuccess, instructions)
}

func (ctrl *PaymentController) GetPaymentStatistics(w http.ResponseWriter, r *http.Request) {
	requester := utils.RequesterFromContext(r.Context())
	if requester == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	request := utils.BuildPaymentStatisticsRequest(r)

	timeout := time.Duration(ctrl.InternalConfig.Payment.ProcessTimeoutInSeconds) * time.Second
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	statistics, err := ctrl.PaymentUsecase.GetPaymentStatistics(ctx, requester, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentStatisticsSuccess, responses.NewPaymentStatisticsResponse(statistics))
}
