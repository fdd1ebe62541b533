package handlers

import (
	"github.com/sirupsen/logrus"
	"github.com/staytus-dev/staytus/internal/monitor"
	"github.com/staytus-dev/staytus/internal/notifier"
	"github.com/staytus-dev/staytus/internal/scheduler"
)

var (
	sched  *scheduler.Scheduler
	runner *monitor.Runner
	notify *notifier.Mattermost
	logger = logrus.StandardLogger()
)

// Configure wires the monitoring engine into the HTTP layer. Must be called
// before the router starts serving.
func Configure(s *scheduler.Scheduler, r *monitor.Runner, n *notifier.Mattermost, l *logrus.Logger) {
	sched = s
	runner = r
	notify = n
	if l != nil {
		logger = l
	}
}
