package controllers

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mediline-service/internal/app/config"
	"mediline-service/internal/app/contracts"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/exceptions"
	"mediline-service/internal/pkg/utils"
)

type WebhookController struct {
	Log             *zap.Logger
	InternalConfig  *config.InternalConfig
	CallbackUsecase contracts.CallbackUsecase
	Gateways        map[string]contracts.PaymentGatewayService
}

var (
	webhookControllerInstance *WebhookController
	onceWebhookController     sync.Once
)

func NewWebhookController(
	logger *zap.Logger,
	internalConfig *config.InternalConfig,
	callbackUsecase contracts.CallbackUsecase,
	gateways ...contracts.PaymentGatewayService,
) *WebhookController {
	onceWebhookController.Do(func() {
		gatewayByName := make(map[string]contracts.PaymentGatewayService, len(gateways))
		for _, gateway := range gateways {
			gatewayByName[gateway.Name()] = gateway
		}
		webhookControllerInstance = &WebhookController{
			Log:             logger,
			InternalConfig:  internalConfig,
			CallbackUsecase: callbackUsecase,
			Gateways:        gatewayByName,
		}
	})
	return webhookControllerInstance
}

// HandleGatewayCallback receives provider notifications. The response body is
// the provider-specific acknowledgement string; anything but the success ack
// makes the provider redeliver, which ApplyExternalEvent tolerates.
func (ctrl *WebhookController) HandleGatewayCallback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	gatewayName := chi.URLParam(r, "gateway")

	gateway, ok := ctrl.Gateways[gatewayName]
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrUnsupportedGateway(nil, gatewayName))
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrBuildRequest(err))
		return
	}

	timeout := time.Duration(ctrl.InternalConfig.Payment.ProcessTimeoutInSeconds) * time.Second
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	event, err := gateway.ParseCallback(ctx, payload)
	if err != nil {
		ctrl.Log.Warn("WebhookController.HandleGatewayCallback rejected callback",
			zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(r.Context())),
			zap.String(constvars.LoggingGatewayKey, gatewayName),
			zap.Error(err),
		)
		ctrl.writeAck(w, gateway.FailureAck())
		return
	}

	if err := ctrl.CallbackUsecase.ApplyExternalEvent(ctx, event); err != nil {
		ctrl.Log.Error("WebhookController.HandleGatewayCallback failed to apply event",
			zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(r.Context())),
			zap.String(constvars.LoggingGatewayKey, gatewayName),
			zap.String(constvars.LoggingOrderNoKey, event.OrderNo),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		ctrl.writeAck(w, gateway.FailureAck())
		return
	}

	ctrl.Log.Info("WebhookController.HandleGatewayCallback processed callback",
		zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(r.Context())),
		zap.String(constvars.LoggingGatewayKey, gatewayName),
		zap.String(constvars.LoggingOrderNoKey, event.OrderNo),
		zap.String(constvars.LoggingRefundNoKey, event.RefundNo),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	ctrl.writeAck(w, gateway.SuccessAck())
}

func (ctrl *WebhookController) writeAck(w http.ResponseWriter, ack string) {
	w.Header().Set(constvars.HeaderContentType, constvars.MIMETextPlain)
	w.WriteHeader(constvars.StatusOK)
	if _, err := w.Write([]byte(ack)); err != nil {
		ctrl.Log.Warn("WebhookController failed to write acknowledgement", zap.Error(err))
	}
}
