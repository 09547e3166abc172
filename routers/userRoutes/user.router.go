package userRoutes

import (
	currencyControllers "subman/controllers/currency"
	userControllers "subman/controllers/user"
	"subman/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/users", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-users"))

	userGroup.Get("/", userControllers.ListUsers)
	userGroup.Patch("/:id/role", userControllers.UpdateUserRole)
	userGroup.Patch("/:id/block", userControllers.BlockUser)
	userGroup.Patch("/:id/unblock", userControllers.UnblockUser)

	currencyGroup := app.Group("/currency", middleware.JWTMiddleware)
	currencyGroup.Get("/rates", middleware.CheckPermissionMiddleware("view-currency-rates"), currencyControllers.ListRates)
	currencyGroup.Post("/rates/refresh", middleware.CheckPermissionMiddleware("manage-users"), currencyControllers.RefreshRates)
}
