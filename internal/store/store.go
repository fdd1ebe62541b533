package store

import (
	"context"
	"time"

	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/types"
)

// Store is the persistence boundary of the monitoring engine. The monitor
// cycle and the aggregation job only ever touch the database through it, so
// both run against a fake in tests.
type Store interface {
	// MonitoredServices lists services eligible for automated checking
	// (monitor mode set and a target configured).
	MonitoredServices(ctx context.Context) ([]models.Service, error)

	// AllServices lists every service, monitored or not.
	AllServices(ctx context.Context) ([]models.Service, error)

	// UpdateServiceStatus writes status and last_checked_at in a single
	// statement so concurrent cycles never interleave a stale read-modify-
	// write on the row.
	UpdateServiceStatus(ctx context.Context, serviceID uint, status types.ServiceStatus, checkedAt time.Time) error

	// AppendObservation inserts one raw probe result.
	AppendObservation(ctx context.Context, obs *models.Observation) error

	// ObservationsOn returns all observations for a service whose checked_at
	// falls on the given calendar date (UTC).
	ObservationsOn(ctx context.Context, serviceID uint, date time.Time) ([]models.Observation, error)

	// UpsertDailySummary writes the summary for (service, date), overwriting
	// any existing row atomically.
	UpsertDailySummary(ctx context.Context, summary *models.DailySummary) error

	// DeleteObservationsBefore hard-deletes observations older than cutoff
	// across all services, returning the number removed.
	DeleteObservationsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RecordNotification persists the outcome of one webhook dispatch.
	RecordNotification(ctx context.Context, entry *models.NotificationLog) error
}
