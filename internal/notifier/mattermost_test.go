package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/staytus-dev/staytus/internal/config"
	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	mu      sync.Mutex
	entries []models.NotificationLog
}

func (r *recordingStore) MonitoredServices(ctx context.Context) ([]models.Service, error) {
	return nil, nil
}

func (r *recordingStore) AllServices(ctx context.Context) ([]models.Service, error) {
	return nil, nil
}

func (r *recordingStore) UpdateServiceStatus(ctx context.Context, serviceID uint, status types.ServiceStatus, checkedAt time.Time) error {
	return nil
}

func (r *recordingStore) AppendObservation(ctx context.Context, obs *models.Observation) error {
	return nil
}

func (r *recordingStore) ObservationsOn(ctx context.Context, serviceID uint, date time.Time) ([]models.Observation, error) {
	return nil, nil
}

func (r *recordingStore) UpsertDailySummary(ctx context.Context, summary *models.DailySummary) error {
	return nil
}

func (r *recordingStore) DeleteObservationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (r *recordingStore) RecordNotification(ctx context.Context, entry *models.NotificationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func webhookConfig(url string) config.WebhookConfig {
	return config.WebhookConfig{
		Enabled:  true,
		URL:      url,
		Channel:  "status",
		Username: "Staytus",
		IconURL:  "https://example.com/icon.svg",
	}
}

func TestNotifyStatusChangeNotConfigured(t *testing.T) {
	m := NewMattermost(config.WebhookConfig{Enabled: false}, nil, quietLogger())

	result := m.NotifyStatusChange(context.Background(), models.Service{Name: "api"}, types.StatusOperational, types.StatusMajorOutage)

	assert.False(t, result.Success)
	assert.Equal(t, "not configured", result.Error)
}

func TestNotifyStatusChangeDelivers(t *testing.T) {
	var got Message

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	st := &recordingStore{}
	m := NewMattermost(webhookConfig(srv.URL), st, quietLogger())

	result := m.NotifyStatusChange(context.Background(), models.Service{Name: "api", Description: "public API"}, types.StatusOperational, types.StatusMajorOutage)

	assert.True(t, result.Success)
	assert.Empty(t, result.Error)

	assert.Equal(t, "Staytus", got.Username)
	assert.Equal(t, "status", got.Channel)
	assert.Contains(t, got.Text, "api")
	assert.Contains(t, got.Text, "Major Outage")

	require.Len(t, got.Attachments, 1)
	att := got.Attachments[0]
	assert.Equal(t, "#ef4444", att.Color)
	assert.Contains(t, att.Title, "api")
	assert.Equal(t, "public API", att.Text)
	require.Len(t, att.Fields, 2)
	assert.Equal(t, "Operational", att.Fields[0].Value)
	assert.Equal(t, "Major Outage", att.Fields[1].Value)
	assert.NotZero(t, att.TS)

	require.Len(t, st.entries, 1)
	assert.Equal(t, "mattermost", st.entries[0].Channel)
	assert.Equal(t, "status_change", st.entries[0].Event)
	assert.True(t, st.entries[0].Success)
}

func TestNotifyStatusChangeRecovery(t *testing.T) {
	var got Message

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	m := NewMattermost(webhookConfig(srv.URL), nil, quietLogger())

	result := m.NotifyStatusChange(context.Background(), models.Service{Name: "api"}, types.StatusMajorOutage, types.StatusOperational)

	assert.True(t, result.Success)
	require.Len(t, got.Attachments, 1)
	assert.Contains(t, got.Attachments[0].Title, "Recovered")
	assert.Equal(t, "#22c55e", got.Attachments[0].Color)
}

func TestNotifyStatusChangeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "channel archived", http.StatusGone)
	}))
	defer srv.Close()

	st := &recordingStore{}
	m := NewMattermost(webhookConfig(srv.URL), st, quietLogger())

	result := m.NotifyStatusChange(context.Background(), models.Service{Name: "api"}, types.StatusOperational, types.StatusDegraded)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "410")
	assert.Contains(t, result.Error, "channel archived")

	require.Len(t, st.entries, 1)
	assert.False(t, st.entries[0].Success)
}

func TestNotifyStatusChangeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	m := NewMattermost(webhookConfig(url), nil, quietLogger())

	result := m.NotifyStatusChange(context.Background(), models.Service{Name: "api"}, types.StatusOperational, types.StatusDegraded)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestNotifyIncidentEvents(t *testing.T) {
	var got Message

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	st := &recordingStore{}
	m := NewMattermost(webhookConfig(srv.URL), st, quietLogger())

	incident := models.Incident{
		Title:  "Database latency",
		Status: types.IncidentInvestigating,
		Impact: types.ImpactMajor,
	}

	result := m.NotifyIncident(context.Background(), incident, EventCreated)

	assert.True(t, result.Success)
	require.Len(t, got.Attachments, 1)
	assert.Contains(t, got.Attachments[0].Title, "New Incident")
	assert.Equal(t, "#f97316", got.Attachments[0].Color)

	incident.Status = types.IncidentResolved

	result = m.NotifyIncident(context.Background(), incident, EventResolved)

	assert.True(t, result.Success)
	assert.Contains(t, got.Attachments[0].Title, "Resolved")
	assert.Equal(t, "#22c55e", got.Attachments[0].Color)

	require.Len(t, st.entries, 2)
	assert.Equal(t, "incident_created", st.entries[0].Event)
	assert.Equal(t, "incident_resolved", st.entries[1].Event)
}

func TestNotifyIncidentUnknownEvent(t *testing.T) {
	m := NewMattermost(webhookConfig("https://example.com/hook"), nil, quietLogger())

	result := m.NotifyIncident(context.Background(), models.Incident{}, IncidentEvent("exploded"))

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unknown incident event")
}

func TestSendTestBypassesEnabledFlag(t *testing.T) {
	var got Message

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	m := NewMattermost(config.WebhookConfig{Enabled: false, Username: "Staytus"}, nil, quietLogger())

	result := m.SendTest(context.Background(), srv.URL, "ops", "")

	assert.True(t, result.Success)
	assert.Equal(t, "ops", got.Channel)
	assert.Equal(t, "Staytus", got.Username)
	assert.Contains(t, got.Text, "Test notification")
}

func TestSendTestRequiresURL(t *testing.T) {
	m := NewMattermost(config.WebhookConfig{}, nil, quietLogger())

	result := m.SendTest(context.Background(), "", "", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "required")
}
