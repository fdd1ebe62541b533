package models

import "gorm.io/gorm"

type ServiceGroup struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Description  string
	DisplayOrder int `gorm:"not null;default:0"`

	// Relationships
	Services []Service `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
