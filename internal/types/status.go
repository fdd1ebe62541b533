package types

// ServiceStatus is the operational state shown for a service on the status
// page. The set is closed; unrecognized values coming out of the store parse
// to StatusUnknown instead of failing.
type ServiceStatus string

const (
	StatusOperational   ServiceStatus = "operational"
	StatusDegraded      ServiceStatus = "degraded"
	StatusPartialOutage ServiceStatus = "partial_outage"
	StatusMajorOutage   ServiceStatus = "major_outage"
	StatusMaintenance   ServiceStatus = "maintenance"
	StatusUnknown       ServiceStatus = "unknown"
)

var serviceStatuses = map[ServiceStatus]bool{
	StatusOperational:   true,
	StatusDegraded:      true,
	StatusPartialOutage: true,
	StatusMajorOutage:   true,
	StatusMaintenance:   true,
}

// ParseServiceStatus maps a raw string to a ServiceStatus, bucketing
// anything it does not recognize as StatusUnknown.
func ParseServiceStatus(s string) ServiceStatus {
	if serviceStatuses[ServiceStatus(s)] {
		return ServiceStatus(s)
	}
	return StatusUnknown
}

// Valid reports whether the status is one of the enumerated values.
func (s ServiceStatus) Valid() bool {
	return serviceStatuses[s]
}

func (s ServiceStatus) String() string {
	return string(s)
}

// Label returns the human-readable form used in notifications and UI
// payloads.
func (s ServiceStatus) Label() string {
	switch s {
	case StatusOperational:
		return "Operational"
	case StatusDegraded:
		return "Degraded Performance"
	case StatusPartialOutage:
		return "Partial Outage"
	case StatusMajorOutage:
		return "Major Outage"
	case StatusMaintenance:
		return "Under Maintenance"
	default:
		return string(s)
	}
}

// IncidentStatus is the lifecycle state of an incident.
type IncidentStatus string

const (
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentIdentified    IncidentStatus = "identified"
	IncidentMonitoring    IncidentStatus = "monitoring"
	IncidentResolved      IncidentStatus = "resolved"
)

var incidentStatuses = map[IncidentStatus]bool{
	IncidentInvestigating: true,
	IncidentIdentified:    true,
	IncidentMonitoring:    true,
	IncidentResolved:      true,
}

func (s IncidentStatus) Valid() bool {
	return incidentStatuses[s]
}

func (s IncidentStatus) String() string {
	return string(s)
}

// ImpactLevel is the severity attached to an incident, independent of its
// lifecycle status.
type ImpactLevel string

const (
	ImpactNone     ImpactLevel = "none"
	ImpactMinor    ImpactLevel = "minor"
	ImpactMajor    ImpactLevel = "major"
	ImpactCritical ImpactLevel = "critical"
)

var impactLevels = map[ImpactLevel]bool{
	ImpactNone:     true,
	ImpactMinor:    true,
	ImpactMajor:    true,
	ImpactCritical: true,
}

func (l ImpactLevel) Valid() bool {
	return impactLevels[l]
}

func (l ImpactLevel) String() string {
	return string(l)
}

// MonitorMode selects how (or whether) a service is checked automatically.
type MonitorMode string

const (
	MonitorNone MonitorMode = "none"
	MonitorHTTP MonitorMode = "http"
	MonitorPing MonitorMode = "ping"
)

var monitorModes = map[MonitorMode]bool{
	MonitorNone: true,
	MonitorHTTP: true,
	MonitorPing: true,
}

func (m MonitorMode) Valid() bool {
	return monitorModes[m]
}

func (m MonitorMode) String() string {
	return string(m)
}
