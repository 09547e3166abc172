package models

import "gorm.io/gorm"

type Department struct {
	gorm.Model
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description,omitempty"`
	CreatedBy   *uint  `json:"created_by,omitempty"`
	UpdatedBy   *uint  `json:"updated_by,omitempty"`
}
