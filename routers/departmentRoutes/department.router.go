package departmentRoutes

import (
	departmentControllers "subman/controllers/department"
	"subman/middleware"
	departmentValidators "subman/validators/department"

	"github.com/gofiber/fiber/v2"
)

func SetupDepartmentRoutes(app *fiber.App) {
	group := app.Group("/departments", middleware.JWTMiddleware)

	group.Get("/", middleware.CheckPermissionMiddleware("view-departments"), departmentControllers.ListDepartments)
	group.Post("/", departmentValidators.Save(), middleware.CheckPermissionMiddleware("manage-departments"), departmentControllers.CreateDepartment)
	group.Put("/:id", departmentValidators.Save(), middleware.CheckPermissionMiddleware("manage-departments"), departmentControllers.UpdateDepartment)
	group.Delete("/:id", middleware.CheckPermissionMiddleware("manage-departments"), departmentControllers.DeleteDepartment)
}
