package models

import "gorm.io/gorm"

type Subscriber struct {
	gorm.Model

	Email       string `gorm:"index"`
	WebhookURL  string
	NotifyType  string `gorm:"not null;default:'all'"` // "all" or "selected"
	Verified    bool   `gorm:"not null;default:false"`
	VerifyToken string `gorm:"uniqueIndex"`

	// Relationships
	Services []Service `gorm:"many2many:subscriber_services;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
