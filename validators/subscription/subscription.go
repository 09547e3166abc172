package subscriptionValidator

import (
	"strings"
	"time"

	"subman/middleware"
	"subman/models"

	"github.com/gofiber/fiber/v2"
)

// Save validates the create/update body shared by both operations.
func Save() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string  `json:"name"`
			Price       float64 `json:"price"`
			Currency    string  `json:"currency"`
			RenewalDate string  `json:"renewalDate"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Name)) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		}
		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}
		if reqData.Currency == "" || !models.IsValidCurrency(reqData.Currency) {
			errors["currency"] = "Currency must be one of: " + strings.Join(models.SupportedCurrencies, ", ")
		}
		if reqData.RenewalDate != "" {
			if _, err := time.Parse("2006-01-02", reqData.RenewalDate); err != nil {
				errors["renewalDate"] = "Renewal date must be YYYY-MM-DD!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}
