package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/notifier"
	"github.com/staytus-dev/staytus/internal/probes"
	"github.com/staytus-dev/staytus/internal/store"
	"github.com/staytus-dev/staytus/internal/types"
)

// StatusNotifier is what the cycle needs from the dispatcher: a blocking,
// non-throwing delivery whose failure comes back as data.
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, service models.Service, oldStatus, newStatus types.ServiceStatus) notifier.Result
}

// Runner executes one monitoring pass over all services configured for
// automated checking. Cycles may overlap; every per-service write is a
// single idempotent statement, so a late cycle simply overwrites with the
// latest observation.
type Runner struct {
	store    store.Store
	prober   *probes.Prober
	notifier StatusNotifier
	logger   *logrus.Logger

	mu       sync.RWMutex
	onChange func(service models.Service, oldStatus, newStatus types.ServiceStatus)
}

func NewRunner(st store.Store, prober *probes.Prober, n StatusNotifier, logger *logrus.Logger) *Runner {
	return &Runner{
		store:    st,
		prober:   prober,
		notifier: n,
		logger:   logger,
	}
}

// OnStatusChange registers a hook invoked after a service transitions, in
// addition to the webhook dispatch. Used to feed the live status stream.
func (r *Runner) OnStatusChange(fn func(service models.Service, oldStatus, newStatus types.ServiceStatus)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// RunCycle probes every monitored service once. Services are independent:
// they are checked concurrently and one service's failure never stops the
// rest. The returned error is non-nil only when the service list itself
// cannot be read, i.e. the store is globally down.
func (r *Runner) RunCycle(ctx context.Context) error {
	start := time.Now()

	services, err := r.store.MonitoredServices(ctx)
	if err != nil {
		r.logger.WithError(err).Error("Monitor cycle aborted: cannot list services")
		return err
	}

	var wg sync.WaitGroup

	for _, svc := range services {
		wg.Add(1)
		go func(svc models.Service) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.WithFields(logrus.Fields{
						"service": svc.Name,
						"panic":   rec,
					}).Error("Service check panicked")
				}
			}()
			r.checkService(ctx, svc)
		}(svc)
	}

	wg.Wait()

	r.logger.WithFields(logrus.Fields{
		"services": len(services),
		"duration": time.Since(start).String(),
	}).Info("Monitor cycle completed")

	return nil
}

// checkService runs one probe and persists the outcome. Probe failure is
// routine operating data, not an error: it drives the status taxonomy.
func (r *Runner) checkService(ctx context.Context, svc models.Service) {
	oldStatus := svc.Status

	result, probeErr := r.prober.Probe(ctx, svc.MonitorMode, svc.MonitorTarget)

	var (
		newStatus types.ServiceStatus
		latencyMS *int64
	)

	switch {
	case probeErr != nil:
		// Did not respond at all.
		newStatus = types.StatusMajorOutage
	case !result.Healthy:
		// Responded, but unhealthy.
		newStatus = types.StatusDegraded
		ms := result.Latency.Milliseconds()
		latencyMS = &ms
	default:
		newStatus = types.StatusOperational
		ms := result.Latency.Milliseconds()
		latencyMS = &ms
	}

	now := time.Now().UTC()

	if err := r.store.UpdateServiceStatus(ctx, svc.ID, newStatus, now); err != nil {
		r.logger.WithError(err).WithField("service", svc.Name).Error("Failed to update service status")
	}

	obs := &models.Observation{
		ServiceID: svc.ID,
		Status:    newStatus,
		LatencyMS: latencyMS,
		CheckedAt: now,
	}

	if err := r.store.AppendObservation(ctx, obs); err != nil {
		r.logger.WithError(err).WithField("service", svc.Name).Error("Failed to append observation")
	}

	if newStatus == oldStatus {
		return
	}

	r.logger.WithFields(logrus.Fields{
		"service": svc.Name,
		"from":    oldStatus.String(),
		"to":      newStatus.String(),
	}).Info("Service status changed")

	if res := r.notifier.NotifyStatusChange(ctx, svc, oldStatus, newStatus); !res.Success {
		r.logger.WithFields(logrus.Fields{
			"service": svc.Name,
			"reason":  res.Error,
		}).Warn("Status change notification failed")
	}

	r.mu.RLock()
	hook := r.onChange
	r.mu.RUnlock()

	if hook != nil {
		hook(svc, oldStatus, newStatus)
	}
}

// TestTarget probes a URL or host ad hoc, persisting nothing. The admin UI
// uses it for instant feedback; it goes through the exact executors the real
// cycle uses.
func (r *Runner) TestTarget(ctx context.Context, mode types.MonitorMode, target string) (probes.Result, error) {
	return r.prober.Probe(ctx, mode, target)
}
