package models

import (
	"time"

	"gorm.io/gorm"
)

// DailySummary is the per-service-per-date compaction of observations. The
// (service, date) pair is unique; the roll-up upserts so reruns for a date
// overwrite rather than duplicate.
type DailySummary struct {
	gorm.Model

	ServiceID        uint      `gorm:"not null;uniqueIndex:idx_daily_summaries_service_date"`
	Date             time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_summaries_service_date"`
	UptimePercentage float64   `gorm:"not null;default:100"`
	TotalChecks      int       `gorm:"not null;default:0"`
	SuccessfulChecks int       `gorm:"not null;default:0"`
	AvgLatencyMS     *int64    // nil when no check recorded a latency that day

	// Relationships
	Service Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
