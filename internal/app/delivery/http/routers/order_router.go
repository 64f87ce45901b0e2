package routers

import (
	"github.com/go-chi/chi/v5"

	"mediline-service/internal/app/delivery/http/controllers"
	"mediline-service/internal/app/delivery/http/middlewares"
)

func attachOrderRoutes(router chi.Router, middlewares *middlewares.Middlewares, orderController *controllers.OrderController) {
	router.Use(middlewares.Authenticate)

	router.Post("/", orderController.CreateOrder)
	router.Get("/", orderController.ListOrders)
	router.Get("/{orderID}", orderController.GetOrder)
	router.Post("/{orderID}/cancel", orderController.CancelOrder)
}
