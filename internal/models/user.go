package models

import "gorm.io/gorm"

// User is an admin console account. The public status page needs no account.
type User struct {
	gorm.Model

	Username     string `gorm:"uniqueIndex;not null"`
	Email        string
	PasswordHash string `gorm:"not null"`
}
