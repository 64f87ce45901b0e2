package routers

import (
	"github.com/go-chi/chi/v5"

	"mediline-service/internal/app/delivery/http/controllers"
	"mediline-service/internal/app/delivery/http/middlewares"
)

func attachPaymentRoutes(router chi.Router, middlewares *middlewares.Middlewares, paymentController *controllers.PaymentController) {
	router.Use(middlewares.Authenticate)

	router.Post("/", paymentController.InitiatePayment)
	router.Get("/statistics", paymentController.GetPaymentStatistics)
}
