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

type RefundController struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	RefundUsecase  contracts.RefundUsecase
}

var (
	refundControllerInstance *RefundController
	onceRefundController     sync.Once
)

func NewRefundController(logger *zap.Logger, internalConfig *config.InternalConfig, refundUsecase contracts.RefundUsecase) *RefundController {
	onceRefundController.Do(func() {
		refundControllerInstance = &RefundController{
			Log:            logger,
			InternalConfig: internalConfig,
			RefundUsecase:  refundUsecase,
		}
	})
	return refundControllerInstance
}

func (ctrl *RefundController) RequestRefund(w http.ResponseWriter, r *http.Request) {
	requester := utils.RequesterFromContext(r.Context())
	if requester == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	request := new(requests.CreateRefund)
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

	refund, err := ctrl.RefundUsecase.RequestRefund(ctx, requester, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("RefundController.RequestRefund succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(r.Context())),
		zap.String(constvars.LoggingRefundNoKey, refund.RefundNo),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.RefundRequestedSuccess, responses.NewRefundResponse(refund))
}

func (ctrl *RefundController) GetRefund(w http.ResponseWriter, r *http.Request) {
	requester := utils.RequesterFromContext(r.Context())
	if requester == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	refundID := chi.URLParam(r, "refundID")
	if err := utils.ValidateUrlParamID(refundID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(err, "refundID"))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	refund, err := ctrl.RefundUsecase.GetRefund(ctx, requester, refundID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RefundGetSuccess, responses.NewRefundResponse(refund))
}

func (ctrl *RefundController) CancelRefund(w http.ResponseWriter, r *http.Request) {
	requester := utils.RequesterFromContext(r.Context())
	if requester == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	refundID := chi.URLParam(r, "refundID")
	if err := utils.ValidateUrlParamID(refundID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(err, "refundID"))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	refund, err := ctrl.RefundUsecase.CancelRefund(ctx, requester, refundID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("RefundController.CancelRefund succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(r.Context())),
		zap.String(constvars.LoggingRefundNoKey, refund.RefundNo),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RefundCancelledSuccess, responses.NewRefundResponse(refund))
}

func (ctrl *RefundController) ReviewRefund(w http.ResponseWriter, r *http.Request) {
	requester := utils.RequesterFromContext(r.Context())
	if requester == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	refundID := chi.URLParam(r, "refundID")
	if err := utils.ValidateUrlParamID(refundID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(err, "refundID"))
		return
	}

	request := new(requests.ReviewRefund)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	// A balance refund settles inside this call, so give it the gateway
	// budget rather than the ordinary one.
	timeout := time.Duration(ctrl.InternalConfig.Payment.GatewayTimeoutInSeconds) * time.Second
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	refund, err := ctrl.RefundUsecase.ReviewRefund(ctx, requester, refundID, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("RefundController.ReviewRefund succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(r.Context())),
		zap.String(constvars.LoggingRefundNoKey, refund.RefundNo),
		zap.Bool("approved", request.Approved),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RefundReviewedSuccess, responses.NewRefundResponse(refund))
}

func (ctrl *RefundController) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := time.Duration(ctrl.InternalConfig.Payment.ProcessTimeoutInSeconds) * time.Second
	return context.WithTimeout(r.Context(), timeout)
}
