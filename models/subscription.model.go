package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SubscriptionActive   = "Active"
	SubscriptionInactive = "Inactive"
)

// SupportedCurrencies is the closed set accepted on subscription create/update.
var SupportedCurrencies = []string{"INR", "USD", "EUR", "GBP", "JPY", "AUD", "CAD"}

type Subscription struct {
	gorm.Model
	Name     string  `gorm:"size:150;not null" json:"name"`
	Price    float64 `gorm:"not null" json:"price"`
	Currency string  `gorm:"size:3;default:'INR'" json:"currency"`

	// Nil means a lifetime subscription; it never auto-expires.
	RenewalDate *time.Time `json:"renewal_date,omitempty"`

	Status string `gorm:"size:10;default:'Active'" json:"status"`

	DepartmentID *uint       `json:"department_id,omitempty"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`

	CreatedBy *uint `json:"created_by,omitempty"`
	UpdatedBy *uint `json:"updated_by,omitempty"`
	DeletedBy *uint `json:"deleted_by,omitempty"`
}

// DepartmentName returns the owning department label used for reminder
// grouping, "N/A" when the subscription has no department or it was not joined.
func (s *Subscription) DepartmentName() string {
	if s.Department == nil || s.Department.Name == "" {
		return "N/A"
	}
	return s.Department.Name
}

// IsValidCurrency reports whether code is in the supported set.
func IsValidCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
