package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/staytus-dev/staytus/internal/config"
	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/store"
	"github.com/staytus-dev/staytus/internal/types"
	"gorm.io/datatypes"
)

// IncidentEvent names the lifecycle moment an incident notification is sent
// for.
type IncidentEvent string

const (
	EventCreated  IncidentEvent = "created"
	EventUpdated  IncidentEvent = "updated"
	EventResolved IncidentEvent = "resolved"
)

type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type Attachment struct {
	Fallback string  `json:"fallback"`
	Color    string  `json:"color"`
	Title    string  `json:"title"`
	Text     string  `json:"text"`
	Fields   []Field `json:"fields"`
	Footer   string  `json:"footer"`
	TS       int64   `json:"ts"`
}

type Message struct {
	Text        string       `json:"text"`
	Username    string       `json:"username"`
	IconURL     string       `json:"icon_url"`
	Channel     string       `json:"channel,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Result reports a single delivery attempt back to the caller. Delivery is
// fire-and-forget: failures are data, never errors that propagate.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

const footer = "Staytus Status Monitor"

var statusEmoji = map[types.ServiceStatus]string{
	types.StatusOperational:   "✅",
	types.StatusDegraded:      "⚠️",
	types.StatusPartialOutage: "🟠",
	types.StatusMajorOutage:   "🔴",
	types.StatusMaintenance:   "🔧",
}

var statusColor = map[types.ServiceStatus]string{
	types.StatusOperational:   "#22c55e",
	types.StatusDegraded:      "#eab308",
	types.StatusPartialOutage: "#f97316",
	types.StatusMajorOutage:   "#ef4444",
	types.StatusMaintenance:   "#6366f1",
}

var impactEmoji = map[types.ImpactLevel]string{
	types.ImpactNone:     "ℹ️",
	types.ImpactMinor:    "⚠️",
	types.ImpactMajor:    "🟠",
	types.ImpactCritical: "🔴",
}

var impactColor = map[types.ImpactLevel]string{
	types.ImpactNone:     "#64748b",
	types.ImpactMinor:    "#eab308",
	types.ImpactMajor:    "#f97316",
	types.ImpactCritical: "#ef4444",
}

const fallbackColor = "#64748b"

// Mattermost delivers status-change and incident events to a single
// externally configured incoming webhook.
type Mattermost struct {
	cfg    config.WebhookConfig
	client *http.Client
	store  store.Store
	logger *logrus.Logger
}

// NewMattermost builds a dispatcher. The store may be nil, in which case
// dispatch attempts are not recorded.
func NewMattermost(cfg config.WebhookConfig, st store.Store, logger *logrus.Logger) *Mattermost {
	return &Mattermost{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		store:  st,
		logger: logger,
	}
}

// NotifyStatusChange sends a rich-attachment message describing a service
// moving from oldStatus to newStatus.
func (m *Mattermost) NotifyStatusChange(ctx context.Context, service models.Service, oldStatus, newStatus types.ServiceStatus) Result {
	emoji, ok := statusEmoji[newStatus]
	if !ok {
		emoji = "❓"
	}

	color, ok := statusColor[newStatus]
	if !ok {
		color = fallbackColor
	}

	recovered := newStatus == types.StatusOperational && oldStatus != types.StatusOperational

	title := fmt.Sprintf("%s Service Status Change: %s", emoji, service.Name)
	text := fmt.Sprintf("**%s** status changed from %s to **%s**.", service.Name, oldStatus.Label(), newStatus.Label())

	if recovered {
		title = fmt.Sprintf("%s Service Recovered: %s", emoji, service.Name)
		text = fmt.Sprintf("**%s** is now operational again.", service.Name)
	}

	msg := m.baseMessage(text)
	msg.Attachments = []Attachment{
		{
			Fallback: fmt.Sprintf("%s: %s", service.Name, newStatus.Label()),
			Color:    color,
			Title:    title,
			Text:     service.Description,
			Fields: []Field{
				{Title: "Previous Status", Value: oldStatus.Label(), Short: true},
				{Title: "Current Status", Value: newStatus.Label(), Short: true},
			},
			Footer: footer,
			TS:     time.Now().Unix(),
		},
	}

	return m.send(ctx, "status_change", msg)
}

// NotifyIncident sends an incident lifecycle event.
func (m *Mattermost) NotifyIncident(ctx context.Context, incident models.Incident, event IncidentEvent) Result {
	emoji, ok := impactEmoji[incident.Impact]
	if !ok {
		emoji = "❓"
	}

	color, ok := impactColor[incident.Impact]
	if !ok {
		color = fallbackColor
	}

	var title, text string

	switch event {
	case EventCreated:
		title = fmt.Sprintf("%s New Incident: %s", emoji, incident.Title)
		text = "A new incident has been reported."
	case EventUpdated:
		title = fmt.Sprintf("%s Incident Updated: %s", emoji, incident.Title)
		text = "The incident has been updated."
	case EventResolved:
		title = fmt.Sprintf("✅ Incident Resolved: %s", incident.Title)
		text = "The incident has been resolved."
		color = statusColor[types.StatusOperational]
	default:
		return Result{Success: false, Error: fmt.Sprintf("unknown incident event: %s", event)}
	}

	msg := m.baseMessage(text)
	msg.Attachments = []Attachment{
		{
			Fallback: title,
			Color:    color,
			Title:    title,
			Fields: []Field{
				{Title: "Status", Value: incident.Status.String(), Short: true},
				{Title: "Impact", Value: incident.Impact.String(), Short: true},
			},
			Footer: footer,
			TS:     time.Now().Unix(),
		},
	}

	return m.send(ctx, "incident_"+string(event), msg)
}

// SendTest posts a test message to an arbitrary webhook URL so admins can
// verify their integration before enabling it. It bypasses the enabled flag
// but still reports delivery as a Result.
func (m *Mattermost) SendTest(ctx context.Context, webhookURL, channel, username string) Result {
	if webhookURL == "" {
		return Result{Success: false, Error: "webhook URL is required"}
	}

	if username == "" {
		username = m.cfg.Username
	}

	msg := Message{
		Text:     "✅ **Test notification from Staytus**\n\nYour Mattermost integration is working correctly!",
		Username: username,
		IconURL:  m.cfg.IconURL,
		Channel:  channel,
	}

	return m.deliver(ctx, "test", webhookURL, msg)
}

func (m *Mattermost) baseMessage(text string) Message {
	return Message{
		Text:     text,
		Username: m.cfg.Username,
		IconURL:  m.cfg.IconURL,
		Channel:  m.cfg.Channel,
	}
}

func (m *Mattermost) send(ctx context.Context, event string, msg Message) Result {
	if !m.cfg.Enabled || m.cfg.URL == "" {
		return Result{Success: false, Error: "not configured"}
	}

	return m.deliver(ctx, event, m.cfg.URL, msg)
}

func (m *Mattermost) deliver(ctx context.Context, event, webhookURL string, msg Message) Result {
	body, err := json.Marshal(msg)

	if err != nil {
		return m.record(ctx, event, body, Result{Success: false, Error: fmt.Sprintf("failed to marshal payload: %v", err)})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))

	if err != nil {
		return m.record(ctx, event, body, Result{Success: false, Error: err.Error()})
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)

	if err != nil {
		return m.record(ctx, event, body, Result{Success: false, Error: err.Error()})
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return m.record(ctx, event, body, Result{
			Success: false,
			Error:   fmt.Sprintf("webhook returned %d: %s", resp.StatusCode, string(detail)),
		})
	}

	return m.record(ctx, event, body, Result{Success: true})
}

// record persists the attempt when a store is wired; a failed insert only
// logs since the dispatch outcome already belongs to the caller.
func (m *Mattermost) record(ctx context.Context, event string, payload []byte, result Result) Result {
	if m.store == nil {
		return result
	}

	entry := &models.NotificationLog{
		Channel: "mattermost",
		Event:   event,
		Success: result.Success,
		Error:   result.Error,
		Payload: datatypes.JSON(payload),
		SentAt:  time.Now().UTC(),
	}

	if err := m.store.RecordNotification(ctx, entry); err != nil {
		m.logger.WithError(err).Warn("Failed to record notification attempt")
	}

	return result
}
