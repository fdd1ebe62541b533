package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationLog records one webhook dispatch attempt. Delivery is
// fire-and-forget; this row is the only durable trace of what went out and
// whether the endpoint accepted it.
type NotificationLog struct {
	gorm.Model

	Channel string `gorm:"not null"` // "mattermost"
	Event   string `gorm:"not null"` // "status_change", "incident_created", ...
	Success bool   `gorm:"not null"`
	Error   string
	Payload datatypes.JSON `gorm:"type:jsonb"`
	SentAt  time.Time      `gorm:"not null"`
}
