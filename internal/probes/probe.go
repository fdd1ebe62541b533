package probes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/staytus-dev/staytus/internal/config"
	"github.com/staytus-dev/staytus/internal/types"
)

// UserAgent identifies probe traffic to the services being checked.
const UserAgent = "Staytus/1.0 (Status Monitor)"

// Result is the raw outcome of a single reachability check. Mapping it onto
// the status taxonomy is the caller's policy, not the probe's.
type Result struct {
	Reachable bool
	Healthy   bool
	Latency   time.Duration
	Detail    string
}

// Prober executes single checks against service targets. Every check is
// bounded by the hard probe timeout regardless of mode.
type Prober struct {
	client       *http.Client
	probeTimeout time.Duration
	pingTimeout  time.Duration
}

func New(cfg config.MonitorConfig) *Prober {
	return &Prober{
		client: &http.Client{
			Timeout: cfg.ProbeTimeout,
		},
		probeTimeout: cfg.ProbeTimeout,
		pingTimeout:  cfg.PingTimeout,
	}
}

// Probe dispatches a single check for the given monitor mode. A returned
// error means a hard failure: the target did not respond at all.
func (p *Prober) Probe(ctx context.Context, mode types.MonitorMode, target string) (Result, error) {
	switch mode {
	case types.MonitorHTTP:
		return p.HTTP(ctx, target)
	case types.MonitorPing:
		return p.Ping(ctx, target)
	default:
		return Result{}, fmt.Errorf("unsupported monitor mode: %s", mode)
	}
}

// extractHostname pulls the host out of a URL-shaped target, or returns the
// input unchanged when it is already a bare hostname.
func extractHostname(target string) string {
	if !strings.Contains(target, "://") {
		return strings.TrimSpace(target)
	}

	parsed, err := url.Parse(strings.TrimSpace(target))
	if err != nil || parsed.Hostname() == "" {
		return strings.TrimSpace(target)
	}

	return parsed.Hostname()
}
