package userController

import (
	"log"
	"strings"
	"time"

	"subman/database"
	"subman/middleware"
	"subman/models"

	"github.com/gofiber/fiber/v2"
)

func ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	var users []models.User
	var total int64

	db := database.Database.Db
	db.Model(&models.User{}).Count(&total)

	if err := db.Select("id", "name", "email", "role", "is_blocked", "last_login", "created_at").
		Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	response := map[string]interface{}{
		"users": users,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", response)
}

func UpdateUserRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData := new(struct {
		Role string `json:"role"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	role := strings.ToUpper(reqData.Role)
	if role != "ADMIN" && role != "USER" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Role must be ADMIN or USER!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	if user.Role == role {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Role unchanged.", nil)
	}

	user.Role = role
	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error updating role for user %d: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update role!", nil)
	}

	// Replace the permission rows to match the new role
	db.Model(&models.Permission{}).Where("user_id = ?", user.ID).Update("is_deleted", true)
	var perms []models.Permission
	for _, p := range defaultPermissionsFor(role) {
		perms = append(perms, models.Permission{UserID: user.ID, Role: role, Permission: p})
	}
	if err := db.Create(&perms).Error; err != nil {
		log.Printf("Error reseeding permissions for user %d: %v", id, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Role updated successfully.", nil)
}

// defaultPermissionsFor mirrors the signup seeding for role changes.
func defaultPermissionsFor(role string) []string {
	base := []string{
		"view-subscriptions",
		"view-departments",
		"view-currency-rates",
	}
	if role != "ADMIN" {
		return base
	}
	return append(base,
		"create-subscription",
		"update-subscription",
		"delete-subscription",
		"manage-departments",
		"manage-users",
	)
}

func BlockUser(c *fiber.Ctx) error {
	return setBlocked(c, true)
}

func UnblockUser(c *fiber.Ctx) error {
	return setBlocked(c, false)
}

func setBlocked(c *fiber.Ctx, blocked bool) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	updates := map[string]interface{}{
		"is_blocked":    blocked,
		"blocked_until": nil,
	}
	if blocked {
		until := time.Now().Add(24 * time.Hour)
		updates["blocked_until"] = &until
	} else {
		updates["failed_login_attempts"] = 0
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Error updating block state for user %d: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	message := "User unblocked successfully."
	if blocked {
		message = "User blocked successfully."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, nil)
}
