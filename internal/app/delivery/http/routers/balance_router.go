package routers

import (
	"github.com/go-chi/chi/v5"

	"mediline-service/internal/app/delivery/http/controllers"
	"mediline-service/internal/app/delivery/http/middlewares"
)

func attachBalanceRoutes(router chi.Router, middlewares *middlewares.Middlewares, balanceController *controllers.BalanceController) {
	router.Use(middlewares.Authenticate)

	router.Get("/", balanceController.GetBalance)
	router.Get("/entries", balanceController.ListBalanceEntries)
}
