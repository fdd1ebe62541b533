package probes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/staytus-dev/staytus/internal/config"
	"github.com/staytus-dev/staytus/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProber() *Prober {
	return New(config.MonitorConfig{
		ProbeTimeout: 2 * time.Second,
		PingTimeout:  time.Second,
	})
}

func TestHTTPHealthy(t *testing.T) {
	var gotUA string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result, err := testProber().HTTP(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.True(t, result.Reachable)
	assert.True(t, result.Healthy)
	assert.Greater(t, result.Latency, time.Duration(0))
	assert.Equal(t, UserAgent, gotUA)
}

func TestHTTPRedirectIsHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	result, err := testProber().HTTP(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.True(t, result.Healthy)
}

func TestHTTPErrorStatusIsUnhealthy(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError, http.StatusBadGateway} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		result, err := testProber().HTTP(context.Background(), srv.URL)
		srv.Close()

		require.NoError(t, err, code)
		assert.True(t, result.Reachable, code)
		assert.False(t, result.Healthy, code)
	}
}

func TestHTTPConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := testProber().HTTP(context.Background(), url)

	assert.Error(t, err)
}

func TestHTTPTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	prober := New(config.MonitorConfig{
		ProbeTimeout: 50 * time.Millisecond,
		PingTimeout:  time.Second,
	})

	_, err := prober.HTTP(context.Background(), srv.URL)

	assert.Error(t, err)
}

func TestProbeUnsupportedMode(t *testing.T) {
	_, err := testProber().Probe(context.Background(), types.MonitorNone, "https://example.com")

	assert.Error(t, err)
}

func TestExtractHostname(t *testing.T) {
	assert.Equal(t, "example.com", extractHostname("https://example.com/health"))
	assert.Equal(t, "example.com", extractHostname("http://example.com:8080"))
	assert.Equal(t, "example.com", extractHostname("example.com"))
	assert.Equal(t, "10.0.0.1", extractHostname(" 10.0.0.1 "))
}
