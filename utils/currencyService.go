package utils

import (
	"fmt"
	"time"

	"subman/config"
	"subman/models"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

// ratesResponse matches the open.er-api.com payload
type ratesResponse struct {
	Result   string             `json:"result"`
	BaseCode string             `json:"base_code"`
	Rates    map[string]float64 `json:"rates"`
}

// RefreshCurrencyRates fetches the latest exchange rates for the supported
// currency set and upserts one row per code. A fetch failure leaves the
// previously stored rates in place.
func RefreshCurrencyRates(db *gorm.DB) (int, error) {
	base := config.AppConfig.BaseCurrency
	url := fmt.Sprintf("%s/%s", config.AppConfig.CurrencyApiURL, base)

	client := resty.New().SetTimeout(15 * time.Second)

	var out ratesResponse
	resp, err := client.R().SetResult(&out).Get(url)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch rates: %v", err)
	}
	if resp.StatusCode() != 200 || out.Result != "success" {
		return 0, fmt.Errorf("rate API error: status %d, result %q", resp.StatusCode(), out.Result)
	}

	updated := 0
	fetchedAt := time.Now()
	for _, code := range models.SupportedCurrencies {
		rate, ok := out.Rates[code]
		if !ok {
			continue
		}

		var existing models.CurrencyRate
		err := db.Where("code = ?", code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			err = db.Create(&models.CurrencyRate{
				Code: code, Rate: rate, Base: base, FetchedAt: fetchedAt,
			}).Error
		} else if err == nil {
			err = db.Model(&existing).Updates(map[string]interface{}{
				"rate": rate, "base": base, "fetched_at": fetchedAt,
			}).Error
		}
		if err != nil {
			return updated, fmt.Errorf("failed to store rate for %s: %v", code, err)
		}
		updated++
	}
	return updated, nil
}
