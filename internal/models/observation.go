package models

import (
	"time"

	"github.com/staytus-dev/staytus/internal/types"
	"gorm.io/gorm"
)

// Observation is one raw probe result. Rows are append-only: the monitor
// cycle creates them and the aggregation job bulk-deletes them once they age
// past the retention window. Nothing updates them in place.
type Observation struct {
	gorm.Model

	ServiceID uint                `gorm:"not null;index:idx_observations_service_checked"`
	Status    types.ServiceStatus `gorm:"type:varchar(32);not null"`
	LatencyMS *int64              // nil when the probe failed outright
	CheckedAt time.Time           `gorm:"not null;index:idx_observations_service_checked"`

	// Relationships
	Service Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
