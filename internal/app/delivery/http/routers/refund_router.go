package routers

import (
	"github.com/go-chi/chi/v5"

	"mediline-service/internal/app/delivery/http/controllers"
	"mediline-service/internal/app/delivery/http/middlewares"
)

func attachRefundRoutes(router chi.Router, middlewares *middlewares.Middlewares, refundController *controllers.RefundController) {
	router.Use(middlewares.Authenticate)

	router.Post("/", refundController.RequestRefund)
	router.Get("/{refundID}", refundController.GetRefund)
	router.Post("/{refundID}/cancel", refundController.CancelRefund)
	router.Post("/{refundID}/review", refundController.ReviewRefund)
}
