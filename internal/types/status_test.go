package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseServiceStatus(t *testing.T) {
	assert.Equal(t, StatusOperational, ParseServiceStatus("operational"))
	assert.Equal(t, StatusMajorOutage, ParseServiceStatus("major_outage"))
	assert.Equal(t, StatusMaintenance, ParseServiceStatus("maintenance"))

	// Anything outside the closed set buckets to unknown instead of failing.
	assert.Equal(t, StatusUnknown, ParseServiceStatus("exploded"))
	assert.Equal(t, StatusUnknown, ParseServiceStatus(""))
	assert.Equal(t, StatusUnknown, ParseServiceStatus("OPERATIONAL"))
	assert.Equal(t, StatusUnknown, ParseServiceStatus("unknown"))
}

func TestServiceStatusValid(t *testing.T) {
	for _, status := range []ServiceStatus{
		StatusOperational, StatusDegraded, StatusPartialOutage, StatusMajorOutage, StatusMaintenance,
	} {
		assert.True(t, status.Valid(), status)
	}

	assert.False(t, StatusUnknown.Valid())
	assert.False(t, ServiceStatus("bogus").Valid())
}

func TestServiceStatusLabel(t *testing.T) {
	assert.Equal(t, "Operational", StatusOperational.Label())
	assert.Equal(t, "Degraded Performance", StatusDegraded.Label())
	assert.Equal(t, "Partial Outage", StatusPartialOutage.Label())
	assert.Equal(t, "Major Outage", StatusMajorOutage.Label())
	assert.Equal(t, "Under Maintenance", StatusMaintenance.Label())
	assert.Equal(t, "unknown", StatusUnknown.Label())
}

func TestIncidentStatusValid(t *testing.T) {
	for _, status := range []IncidentStatus{
		IncidentInvestigating, IncidentIdentified, IncidentMonitoring, IncidentResolved,
	} {
		assert.True(t, status.Valid(), status)
	}

	assert.False(t, IncidentStatus("open").Valid())
}

func TestImpactLevelValid(t *testing.T) {
	for _, level := range []ImpactLevel{ImpactNone, ImpactMinor, ImpactMajor, ImpactCritical} {
		assert.True(t, level.Valid(), level)
	}

	assert.False(t, ImpactLevel("catastrophic").Valid())
}

func TestMonitorModeValid(t *testing.T) {
	assert.True(t, MonitorNone.Valid())
	assert.True(t, MonitorHTTP.Valid())
	assert.True(t, MonitorPing.Valid())
	assert.False(t, MonitorMode("dns").Valid())
}
