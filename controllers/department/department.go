package departmentController

import (
	"log"

	"subman/database"
	"subman/middleware"
	"subman/models"

	"github.com/gofiber/fiber/v2"
)

func CreateDepartment(c *fiber.Ctx) error {
	userId, _ := c.Locals("userId").(uint)

	reqData := new(struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	if err := db.Where("name = ?", reqData.Name).First(&models.Department{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Department already exists!", nil)
	}

	department := models.Department{
		Name:        reqData.Name,
		Description: reqData.Description,
		CreatedBy:   &userId,
	}

	if err := db.Create(&department).Error; err != nil {
		log.Printf("Error creating department: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create department!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Department created successfully.", department)
}

func ListDepartments(c *fiber.Ctx) error {
	var departments []models.Department
	if err := database.Database.Db.Order("name").Find(&departments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch departments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Department List.", departments)
}

func UpdateDepartment(c *fiber.Ctx) error {
	userId, _ := c.Locals("userId").(uint)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid department id!", nil)
	}

	reqData := new(struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var department models.Department
	if err := db.Where("id = ?", id).First(&department).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Department not found!", nil)
	}

	if reqData.Name != department.Name {
		if err := db.Where("name = ? AND id <> ?", reqData.Name, id).First(&models.Department{}).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Department already exists!", nil)
		}
	}

	department.Name = reqData.Name
	department.Description = reqData.Description
	department.UpdatedBy = &userId

	if err := db.Save(&department).Error; err != nil {
		log.Printf("Error updating department %d: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update department!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Department updated successfully.", department)
}

func DeleteDepartment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid department id!", nil)
	}

	db := database.Database.Db

	var department models.Department
	if err := db.Where("id = ?", id).First(&department).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Department not found!", nil)
	}

	// Refuse while live subscriptions still reference this department
	var count int64
	db.Model(&models.Subscription{}).Where("department_id = ?", id).Count(&count)
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Department has active subscriptions. Reassign them first!", nil)
	}

	if err := db.Delete(&department).Error; err != nil {
		log.Printf("Error deleting department %d: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete department!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Department deleted successfully.", nil)
}
