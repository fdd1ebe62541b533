package monitor

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/store"
	"github.com/staytus-dev/staytus/internal/types"
)

// Aggregator compacts raw observations into per-service daily summaries and
// prunes observations past the retention window.
type Aggregator struct {
	store         store.Store
	logger        *logrus.Logger
	retentionDays int
}

func NewAggregator(st store.Store, logger *logrus.Logger, retentionDays int) *Aggregator {
	return &Aggregator{
		store:         st,
		logger:        logger,
		retentionDays: retentionDays,
	}
}

// RollUpYesterday finalizes the previous calendar day (UTC). The current day
// is never rolled up here: "today so far" views compute live from raw
// observations instead.
func (a *Aggregator) RollUpYesterday(ctx context.Context) error {
	return a.RollUp(ctx, time.Now().UTC().AddDate(0, 0, -1))
}

// RollUp summarizes every service's observations for the given date and then
// sweeps observations older than the retention window. Safe to rerun for
// the same date: the summary upsert overwrites. One service's bad data never
// aborts the others.
func (a *Aggregator) RollUp(ctx context.Context, date time.Time) error {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	services, err := a.store.AllServices(ctx)
	if err != nil {
		a.logger.WithError(err).Error("Roll-up aborted: cannot list services")
		return err
	}

	var summarized int

	for _, svc := range services {
		observations, err := a.store.ObservationsOn(ctx, svc.ID, day)
		if err != nil {
			a.logger.WithError(err).WithField("service", svc.Name).Error("Failed to load observations for roll-up")
			continue
		}

		if len(observations) == 0 {
			continue
		}

		summary := summarize(observations)
		summary.ServiceID = svc.ID
		summary.Date = day

		if err := a.store.UpsertDailySummary(ctx, &summary); err != nil {
			a.logger.WithError(err).WithField("service", svc.Name).Error("Failed to upsert daily summary")
			continue
		}

		summarized++
	}

	a.logger.WithFields(logrus.Fields{
		"date":     day.Format("2006-01-02"),
		"services": summarized,
	}).Info("Daily roll-up completed")

	// Retention is anchored to now, not the roll-up date, and runs
	// unconditionally.
	cutoff := time.Now().UTC().AddDate(0, 0, -a.retentionDays)

	deleted, err := a.store.DeleteObservationsBefore(ctx, cutoff)
	if err != nil {
		a.logger.WithError(err).Error("Failed to prune old observations")
		return nil
	}

	if deleted > 0 {
		a.logger.WithFields(logrus.Fields{
			"deleted": deleted,
			"cutoff":  cutoff.Format(time.RFC3339),
		}).Info("Pruned old observations")
	}

	return nil
}

// summarize computes the daily aggregate for one service's observations.
// Mean latency covers every observation that recorded one, successful or
// not; it is nil when none did.
func summarize(observations []models.Observation) models.DailySummary {
	total := len(observations)

	var successful int
	var latencySum int64
	var latencyCount int64

	for _, obs := range observations {
		if obs.Status == types.StatusOperational {
			successful++
		}
		if obs.LatencyMS != nil {
			latencySum += *obs.LatencyMS
			latencyCount++
		}
	}

	uptime := math.Round(float64(successful)/float64(total)*10000) / 100

	summary := models.DailySummary{
		UptimePercentage: uptime,
		TotalChecks:      total,
		SuccessfulChecks: successful,
	}

	if latencyCount > 0 {
		avg := int64(math.Round(float64(latencySum) / float64(latencyCount)))
		summary.AvgLatencyMS = &avg
	}

	return summary
}
