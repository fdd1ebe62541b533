package models

import (
	"time"

	"github.com/staytus-dev/staytus/internal/types"
	"gorm.io/gorm"
)

type Service struct {
	gorm.Model

	GroupID       *uint  `gorm:"index"`
	Name          string `gorm:"not null"`
	Description   string
	Status        types.ServiceStatus `gorm:"type:varchar(32);not null;default:'operational'"`
	MonitorMode   types.MonitorMode   `gorm:"type:varchar(16);not null;default:'none'"`
	MonitorTarget string              // URL for http mode, hostname for ping mode
	ProbeInterval int                 `gorm:"not null;default:60"` // advisory, seconds
	LastCheckedAt *time.Time
	DisplayOrder  int `gorm:"not null;default:0"`

	// Relationships
	Group          *ServiceGroup  `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Observations   []Observation  `gorm:"foreignKey:ServiceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	DailySummaries []DailySummary `gorm:"foreignKey:ServiceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Incidents      []Incident     `gorm:"many2many:incident_services;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// Monitored reports whether the monitor cycle should probe this service.
func (s *Service) Monitored() bool {
	return s.MonitorMode != types.MonitorNone && s.MonitorMode != "" && s.MonitorTarget != ""
}
