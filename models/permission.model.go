package models

import "gorm.io/gorm"

type Permission struct {
	gorm.Model
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Role       string `gorm:"size:20" json:"role"`
	Permission string `gorm:"size:50;not null" json:"permission"`
	IsDeleted  bool   `gorm:"default:false"`
}
