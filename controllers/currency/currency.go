package currencyController

import (
	"subman/database"
	"subman/middleware"
	"subman/models"
	"subman/utils"

	"github.com/gofiber/fiber/v2"
)

func ListRates(c *fiber.Ctx) error {
	var rates []models.CurrencyRate
	if err := database.Database.Db.Order("code").Find(&rates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch currency rates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Currency Rates.", rates)
}

// RefreshRates triggers the refresh job on demand through the same entry
// point the scheduler uses.
func RefreshRates(c *fiber.Ctx) error {
	job := &utils.CurrencyRefreshJob{}
	result := job.Run()
	if result.Err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Currency refresh failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Currency rates refreshed.", fiber.Map{
		"summary": result.Summary,
	})
}
