package models

import (
	"github.com/staytus-dev/staytus/internal/types"
	"gorm.io/gorm"
)

// IncidentTemplate pre-fills the incident creation form for recurring
// situations.
type IncidentTemplate struct {
	gorm.Model

	Name    string               `gorm:"not null"`
	Title   string               `gorm:"not null"`
	Status  types.IncidentStatus `gorm:"type:varchar(32);not null;default:'investigating'"`
	Impact  types.ImpactLevel    `gorm:"type:varchar(16);not null;default:'minor'"`
	Message string
}
