package probes

import (
	"context"
	"fmt"

	probing "github.com/prometheus-community/pro-bing"
)

// Ping sends a single echo request to the target host. The echo has its own
// shorter reply timeout; the probe ceiling still bounds the whole call via
// the context. Resolution failure or a missing reply is a hard failure.
func (p *Prober) Ping(ctx context.Context, target string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.probeTimeout)
	defer cancel()

	pinger, err := probing.NewPinger(extractHostname(target))

	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve host: %w", err)
	}

	pinger.Count = 1
	pinger.Timeout = p.pingTimeout
	pinger.SetPrivileged(false)

	if err := pinger.RunWithContext(ctx); err != nil {
		return Result{}, fmt.Errorf("ping failed: %w", err)
	}

	stats := pinger.Statistics()

	if stats.PacketsRecv == 0 {
		return Result{}, fmt.Errorf("no echo reply from %s", stats.Addr)
	}

	return Result{
		Reachable: true,
		Healthy:   true,
		Latency:   stats.AvgRtt,
		Detail:    fmt.Sprintf("echo reply from %s", stats.Addr),
	}, nil
}
