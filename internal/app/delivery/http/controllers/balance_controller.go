package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"mediline-service/internal/app/config"
	"mediline-service/internal/app/contracts"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/dto/responses"
	"mediline-service/internal/pkg/exceptions"
	"mediline-service/internal/pkg/utils"
)

type BalanceController struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	Ledger         contracts.BalanceLedger
}

var (
	balanceControllerInstance *BalanceController
	onceBalanceController     sync.Once
)

func NewBalanceController(logger *zap.Logger, internalConfig *config.InternalConfig, ledger contracts.BalanceLedger) *BalanceController {
	onceBalanceController.Do(func() {
		balanceControllerInstance = &BalanceController{
			Log:            logger,
			InternalConfig: internalConfig,
			Ledger:         ledger,
		}
	})
	return balanceControllerInstance
}

func (ctrl *BalanceController) GetBalance(w http.ResponseWriter, r *http.Request) {
	requester := utils.RequesterFromContext(r.Context())
	if requester == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	balance, err := ctrl.Ledger.GetBalance(ctx, requester.UserID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.BalanceGetSuccess, responses.NewBalanceResponse(balance))
}

func (ctrl *BalanceController) ListBalanceEntries(w http.ResponseWriter, r *http.Request) {
	requester := utils.RequesterFromContext(r.Context())
	if requester == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	page, pageSize := utils.ParsePaginationQuery(r)

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	entries, total, err := ctrl.Ledger.ListEntries(ctx, requester.UserID, page, pageSize)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	pagination := utils.BuildPaginationResponse(total, page, pageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.BalanceEntryListSuccess, pagination, responses.NewBalanceEntryListResponse(entries))
}

func (ctrl *BalanceController) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := time.Duration(ctrl.InternalConfig.Payment.ProcessTimeoutInSeconds) * time.Second
	return context.WithTimeout(r.Context(), timeout)
}
