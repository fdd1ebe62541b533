package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staytus-dev/staytus/db"
	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/types"
	"github.com/staytus-dev/staytus/internal/utils"
)

type TestTargetRequest struct {
	Mode   string `json:"mode" binding:"required"`
	Target string `json:"target" binding:"required"`
}

type TestWebhookRequest struct {
	WebhookURL string `json:"webhook_url" binding:"required"`
	Channel    string `json:"channel"`
	Username   string `json:"username"`
}

type ObservationRecord struct {
	ID        uint      `json:"id"`
	Status    string    `json:"status"`
	LatencyMS *int64    `json:"latency_ms"`
	CheckedAt time.Time `json:"checked_at"`
}

type DashboardResponse struct {
	Services        ServicesSummary    `json:"services_summary"`
	RecentIncidents []IncidentResponse `json:"recent_incidents"`
	Scheduler       map[string]any     `json:"scheduler"`
}

type ServicesSummary struct {
	Total       int `json:"total"`
	Operational int `json:"operational"`
	Degraded    int `json:"degraded"`
	Outage      int `json:"outage"`
	Maintenance int `json:"maintenance"`
}

// RunCheck triggers an immediate probe cycle across all monitored services,
// admin only.
func RunCheck(ctx *gin.Context) {
	if err := sched.RunCycleNow(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Check cycle failed: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Check cycle completed"})
}

// RunRollup triggers the daily aggregation immediately, admin only. Accepts
// an optional ?date=YYYY-MM-DD, defaulting to yesterday.
func RunRollup(ctx *gin.Context) {
	date := time.Now().UTC().AddDate(0, 0, -1)
	if raw := ctx.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	if err := sched.RunRollupNow(ctx.Request.Context(), date); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Rollup failed: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Rollup completed"})
}

// GetServiceRecords returns recent raw observations for one service, admin
// only.
func GetServiceRecords(ctx *gin.Context) {
	serviceID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := 50
	if raw := ctx.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	var observations []models.Observation

	if err := db.DB.Where("service_id = ?", serviceID).
		Order("checked_at DESC").
		Limit(limit).
		Find(&observations).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve records"})
		return
	}

	records := make([]ObservationRecord, 0, len(observations))
	for _, obs := range observations {
		records = append(records, ObservationRecord{
			ID:        obs.ID,
			Status:    obs.Status.String(),
			LatencyMS: obs.LatencyMS,
			CheckedAt: obs.CheckedAt,
		})
	}

	ctx.JSON(http.StatusOK, records)
}

// TestTarget probes an arbitrary target without persisting anything, admin
// only.
func TestTarget(ctx *gin.Context) {
	var req TestTargetRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Mode and target are required"})
		return
	}

	mode := types.MonitorMode(req.Mode)
	if !mode.Valid() || mode == types.MonitorNone {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid monitor mode"})
		return
	}

	result, probeErr := runner.TestTarget(ctx.Request.Context(), mode, req.Target)

	if probeErr != nil {
		ctx.JSON(http.StatusOK, gin.H{
			"status": types.StatusMajorOutage.String(),
			"error":  probeErr.Error(),
		})
		return
	}

	status := types.StatusOperational
	if !result.Healthy {
		status = types.StatusDegraded
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":     status.String(),
		"latency_ms": result.Latency.Milliseconds(),
		"detail":     result.Detail,
	})
}

// TestWebhook sends a test message to a webhook URL, bypassing the enabled
// flag. Admin only.
func TestWebhook(ctx *gin.Context) {
	var req TestWebhookRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Webhook URL is required"})
		return
	}

	result := notify.SendTest(ctx.Request.Context(), req.WebhookURL, req.Channel, req.Username)

	if !result.Success {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": result.Error})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Test notification sent"})
}

// GetSchedulerStatus reports whether the scheduler is running and when the
// next cycle fires, admin only.
func GetSchedulerStatus(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, sched.Status())
}

// GetDashboard returns the admin overview: service status counts, recent
// incidents and scheduler state.
func GetDashboard(ctx *gin.Context) {
	var services []models.Service

	if err := db.DB.Find(&services).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve services"})
		return
	}

	summary := ServicesSummary{Total: len(services)}
	for _, svc := range services {
		switch svc.Status {
		case types.StatusOperational:
			summary.Operational++
		case types.StatusDegraded:
			summary.Degraded++
		case types.StatusPartialOutage, types.StatusMajorOutage:
			summary.Outage++
		case types.StatusMaintenance:
			summary.Maintenance++
		}
	}

	var incidents []models.Incident

	db.DB.Preload("Services").
		Where("created_at > ?", time.Now().Add(-7*24*time.Hour)).
		Order("created_at DESC").
		Limit(10).
		Find(&incidents)

	recentIncidents := make([]IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		recentIncidents = append(recentIncidents, incidentResponse(incident, false))
	}

	ctx.JSON(http.StatusOK, DashboardResponse{
		Services:        summary,
		RecentIncidents: recentIncidents,
		Scheduler:       sched.Status(),
	})
}
