package routers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"mediline-service/internal/app/config"
	"mediline-service/internal/app/delivery/http/controllers"
	"mediline-service/internal/app/delivery/http/middlewares"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	orderController *controllers.OrderController,
	paymentController *controllers.PaymentController,
	refundController *controllers.RefundController,
	balanceController *controllers.BalanceController,
	webhookController *controllers.WebhookController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second))

	router.Use(middlewares.RequestID)
	router.Use(middlewares.Logging)
	router.Use(middlewares.Recoverer)

	router.Route(internalConfig.App.EndpointPrefix, func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			attachOrderRoutes(r, middlewares, orderController)
		})

		r.Route("/payments", func(r chi.Router) {
			attachPaymentRoutes(r, middlewares, paymentController)
		})

		r.Route("/refunds", func(r chi.Router) {
			attachRefundRoutes(r, middlewares, refundController)
		})

		r.Route("/balance", func(r chi.Router) {
			attachBalanceRoutes(r, middlewares, balanceController)
		})

		// Gateways authenticate with signatures inside the payload, not JWTs
		r.Route("/webhooks", func(r chi.Router) {
			attachWebhookRoutes(r, webhookController)
		})
	})
}
