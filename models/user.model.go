package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name     string `gorm:"default:''"`
	Email    string `gorm:"unique;not null"`
	Role     string `gorm:"default:'USER'"` // USER, ADMIN
	Password string `gorm:"not null"`

	// Step-up OTP state. All four fields are set together on generation and
	// nulled together on every terminal outcome (verified, expired, exhausted).
	OtpCode      *string    `gorm:"size:255" json:"-"` // encrypted at rest
	OtpExpiresAt *time.Time `json:"-"`
	OtpAttempts  int        `gorm:"default:0" json:"-"`
	OtpCreatedAt *time.Time `json:"-"`

	LastLogin           *time.Time
	FailedLoginAttempts int `gorm:"default:0"`
	LastFailedLogin     *time.Time
	IsBlocked           bool `gorm:"default:false"`
	BlockedUntil        *time.Time
}
