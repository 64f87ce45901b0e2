package routers

import (
	"github.com/go-chi/chi/v5"

	"mediline-service/internal/app/delivery/http/controllers"
)

func attachWebhookRoutes(router chi.Router, webhookController *controllers.WebhookController) {
	router.Post("/payments/{gateway}", webhookController.HandleGatewayCallback)
}
