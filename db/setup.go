package db

import (
	"github.com/staytus-dev/staytus/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.ServiceGroup{},
		&models.Service{},
		&models.Observation{},
		&models.DailySummary{},
		&models.Incident{},
		&models.IncidentUpdate{},
		&models.IncidentTemplate{},
		&models.Subscriber{},
		&models.NotificationLog{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
