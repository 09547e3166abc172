package subscriptionController

import (
	"log"
	"time"

	"subman/database"
	"subman/middleware"
	"subman/models"
	"subman/utils"

	"github.com/gofiber/fiber/v2"
)

type subscriptionRequest struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	RenewalDate  string  `json:"renewalDate"` // "2006-01-02", empty = lifetime
	DepartmentID *uint   `json:"departmentId"`
}

// parseRenewalDate returns nil for an empty string (lifetime subscription).
func parseRenewalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func CreateSubscription(c *fiber.Ctx) error {
	userId, _ := c.Locals("userId").(uint)

	reqData := new(subscriptionRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Name must be unique among non-deleted subscriptions
	if err := db.Where("name = ?", reqData.Name).First(&models.Subscription{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A subscription with this name already exists!", nil)
	}

	renewalDate, err := parseRenewalDate(reqData.RenewalDate)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid renewal date! Use YYYY-MM-DD.", nil)
	}

	if reqData.DepartmentID != nil {
		if err := db.Where("id = ?", *reqData.DepartmentID).First(&models.Department{}).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Department not found!", nil)
		}
	}

	subscription := models.Subscription{
		Name:         reqData.Name,
		Price:        reqData.Price,
		Currency:     reqData.Currency,
		RenewalDate:  renewalDate,
		Status:       utils.DeriveStatus(renewalDate, time.Now()),
		DepartmentID: reqData.DepartmentID,
		CreatedBy:    &userId,
	}

	if err := db.Create(&subscription).Error; err != nil {
		log.Printf("Error creating subscription: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create subscription!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Subscription created successfully.", subscription)
}

func ListSubscriptions(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := database.Database.Db.Model(&models.Subscription{}).Preload("Department")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if deptID := c.QueryInt("departmentId", 0); deptID > 0 {
		query = query.Where("department_id = ?", deptID)
	}

	var total int64
	query.Count(&total)

	var subscriptions []models.Subscription
	if err := query.Order("id").Offset(offset).Limit(limit).Find(&subscriptions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch subscriptions!", nil)
	}

	response := map[string]interface{}{
		"subscriptions": subscriptions,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription List.", response)
}

func GetSubscription(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid subscription id!", nil)
	}

	var subscription models.Subscription
	if err := database.Database.Db.Preload("Department").Where("id = ?", id).First(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Subscription not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription details.", subscription)
}

func UpdateSubscription(c *fiber.Ctx) error {
	userId, _ := c.Locals("userId").(uint)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid subscription id!", nil)
	}

	reqData := new(subscriptionRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var subscription models.Subscription
	if err := db.Where("id = ?", id).First(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Subscription not found!", nil)
	}

	// Name must stay unique among non-deleted subscriptions
	if reqData.Name != subscription.Name {
		if err := db.Where("name = ? AND id <> ?", reqData.Name, id).First(&models.Subscription{}).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A subscription with this name already exists!", nil)
		}
	}

	renewalDate, err := parseRenewalDate(reqData.RenewalDate)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid renewal date! Use YYYY-MM-DD.", nil)
	}

	if reqData.DepartmentID != nil {
		if err := db.Where("id = ?", *reqData.DepartmentID).First(&models.Department{}).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Department not found!", nil)
		}
	}

	subscription.Name = reqData.Name
	subscription.Price = reqData.Price
	subscription.Currency = reqData.Currency
	subscription.RenewalDate = renewalDate
	subscription.Status = utils.DeriveStatus(renewalDate, time.Now())
	subscription.DepartmentID = reqData.DepartmentID
	subscription.UpdatedBy = &userId

	if err := db.Save(&subscription).Error; err != nil {
		log.Printf("Error updating subscription %d: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update subscription!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription updated successfully.", subscription)
}

func DeleteSubscription(c *fiber.Ctx) error {
	userId, _ := c.Locals("userId").(uint)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid subscription id!", nil)
	}

	db := database.Database.Db

	var subscription models.Subscription
	if err := db.Where("id = ?", id).First(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Subscription not found!", nil)
	}

	// Record the actor before the soft delete sets deleted_at
	if err := db.Model(&subscription).Update("deleted_by", userId).Error; err != nil {
		log.Printf("Error recording delete actor for subscription %d: %v", id, err)
	}

	if err := db.Delete(&subscription).Error; err != nil {
		log.Printf("Error deleting subscription %d: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete subscription!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription deleted successfully.", nil)
}
