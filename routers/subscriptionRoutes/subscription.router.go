package subscriptionRoutes

import (
	subscriptionControllers "subman/controllers/subscription"
	"subman/middleware"
	subscriptionValidators "subman/validators/subscription"

	"github.com/gofiber/fiber/v2"
)

func SetupSubscriptionRoutes(app *fiber.App) {
	group := app.Group("/subscriptions", middleware.JWTMiddleware)

	group.Get("/", middleware.CheckPermissionMiddleware("view-subscriptions"), subscriptionControllers.ListSubscriptions)
	group.Get("/:id", middleware.CheckPermissionMiddleware("view-subscriptions"), subscriptionControllers.GetSubscription)
	group.Post("/", subscriptionValidators.Save(), middleware.CheckPermissionMiddleware("create-subscription"), subscriptionControllers.CreateSubscription)
	group.Put("/:id", subscriptionValidators.Save(), middleware.CheckPermissionMiddleware("update-subscription"), subscriptionControllers.UpdateSubscription)
	group.Delete("/:id", middleware.CheckPermissionMiddleware("delete-subscription"), subscriptionControllers.DeleteSubscription)
}
