package store

import (
	"context"
	"time"

	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on a gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) MonitoredServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service

	err := s.db.WithContext(ctx).
		Where("monitor_mode <> ? AND monitor_target <> ''", types.MonitorNone).
		Find(&services).Error

	return services, err
}

func (s *GormStore) AllServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service

	err := s.db.WithContext(ctx).
		Order("display_order, name").
		Find(&services).Error

	return services, err
}

func (s *GormStore) UpdateServiceStatus(ctx context.Context, serviceID uint, status types.ServiceStatus, checkedAt time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("id = ?", serviceID).
		Updates(map[string]interface{}{
			"status":          status,
			"last_checked_at": checkedAt,
		}).Error
}

func (s *GormStore) AppendObservation(ctx context.Context, obs *models.Observation) error {
	return s.db.WithContext(ctx).Create(obs).Error
}

func (s *GormStore) ObservationsOn(ctx context.Context, serviceID uint, date time.Time) ([]models.Observation, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var observations []models.Observation

	err := s.db.WithContext(ctx).
		Where("service_id = ? AND checked_at >= ? AND checked_at < ?", serviceID, dayStart, dayEnd).
		Order("checked_at").
		Find(&observations).Error

	return observations, err
}

func (s *GormStore) UpsertDailySummary(ctx context.Context, summary *models.DailySummary) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "service_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"uptime_percentage",
				"total_checks",
				"successful_checks",
				"avg_latency_ms",
				"updated_at",
			}),
		}).
		Create(summary).Error
}

func (s *GormStore) DeleteObservationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Unscoped().
		Where("checked_at < ?", cutoff).
		Delete(&models.Observation{})

	return result.RowsAffected, result.Error
}

func (s *GormStore) RecordNotification(ctx context.Context, entry *models.NotificationLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}
