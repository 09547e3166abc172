package models

import (
	"time"

	"gorm.io/gorm"
)

// CurrencyRate stores the latest exchange rate of a currency against the
// configured base currency. One row per currency code, upserted by the
// refresh job.
type CurrencyRate struct {
	gorm.Model
	Code      string    `gorm:"size:3;uniqueIndex;not null" json:"code"`
	Rate      float64   `gorm:"not null" json:"rate"`
	Base      string    `gorm:"size:3;not null" json:"base"`
	FetchedAt time.Time `json:"fetched_at"`
}
