package probes

import (
	"context"
	"io"
	"net/http"
	"time"
)

// HTTP issues one GET against the target URL. Any transport error (DNS, TLS,
// connect, timeout) is a hard failure. A completed response is reachable;
// it is healthy only when the status code is in the success/redirect range.
func (p *Prober) HTTP(ctx context.Context, target string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)

	if err != nil {
		return Result{}, err
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/json,*/*")

	start := time.Now()
	resp, err := p.client.Do(req)

	if err != nil {
		return Result{}, err
	}

	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return Result{
		Reachable: true,
		Healthy:   resp.StatusCode < http.StatusBadRequest,
		Latency:   time.Since(start),
		Detail:    resp.Status,
	}, nil
}
