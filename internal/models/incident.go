package models

import (
	"time"

	"github.com/staytus-dev/staytus/internal/types"
	"gorm.io/gorm"
)

type Incident struct {
	gorm.Model

	Title          string               `gorm:"not null"`
	Status         types.IncidentStatus `gorm:"type:varchar(32);not null;default:'investigating'"`
	Impact         types.ImpactLevel    `gorm:"type:varchar(16);not null;default:'minor'"`
	ResolvedAt     *time.Time
	IsScheduled    bool `gorm:"not null;default:false"`
	ScheduledFor   *time.Time
	ScheduledUntil *time.Time

	// Relationships
	Updates  []IncidentUpdate `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Services []Service        `gorm:"many2many:incident_services;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type IncidentUpdate struct {
	gorm.Model

	IncidentID uint                 `gorm:"not null;index"`
	Status     types.IncidentStatus `gorm:"type:varchar(32);not null"`
	Message    string               `gorm:"not null"`

	// Relationships
	Incident Incident `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
