package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staytus-dev/staytus/db"
	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/types"
	"github.com/staytus-dev/staytus/internal/utils"
	"gorm.io/gorm"
)

type CreateServiceRequest struct {
	GroupID       *uint  `json:"group_id"`
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	MonitorMode   string `json:"monitor_mode"`
	MonitorTarget string `json:"monitor_target"`
	ProbeInterval int    `json:"probe_interval"`
	DisplayOrder  int    `json:"display_order"`
}

type UpdateServiceRequest struct {
	GroupID       *uint   `json:"group_id"`
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Status        *string `json:"status"`
	MonitorMode   *string `json:"monitor_mode"`
	MonitorTarget *string `json:"monitor_target"`
	ProbeInterval *int    `json:"probe_interval"`
	DisplayOrder  *int    `json:"display_order"`
}

type UpdateServiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ServiceResponse struct {
	ID            uint       `json:"id"`
	GroupID       *uint      `json:"group_id"`
	GroupName     string     `json:"group_name,omitempty"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	MonitorMode   string     `json:"monitor_mode"`
	MonitorTarget string     `json:"monitor_target"`
	ProbeInterval int        `json:"probe_interval"`
	LastCheckedAt *time.Time `json:"last_checked_at"`
	DisplayOrder  int        `json:"display_order"`
	CreatedAt     time.Time  `json:"created_at"`
}

type UptimeDay struct {
	Date             string  `json:"date"`
	UptimePercentage float64 `json:"uptime_percentage"`
	TotalChecks      int     `json:"total_checks"`
	SuccessfulChecks int     `json:"successful_checks"`
	AvgLatencyMS     *int64  `json:"avg_response_time"`
}

func serviceResponse(svc models.Service) ServiceResponse {
	resp := ServiceResponse{
		ID:            svc.ID,
		GroupID:       svc.GroupID,
		Name:          svc.Name,
		Description:   svc.Description,
		Status:        types.ParseServiceStatus(svc.Status.String()).String(),
		MonitorMode:   svc.MonitorMode.String(),
		MonitorTarget: svc.MonitorTarget,
		ProbeInterval: svc.ProbeInterval,
		LastCheckedAt: svc.LastCheckedAt,
		DisplayOrder:  svc.DisplayOrder,
		CreatedAt:     svc.CreatedAt,
	}

	if svc.Group != nil {
		resp.GroupName = svc.Group.Name
	}

	return resp
}

func uptimeDay(summary models.DailySummary) UptimeDay {
	return UptimeDay{
		Date:             summary.Date.Format("2006-01-02"),
		UptimePercentage: summary.UptimePercentage,
		TotalChecks:      summary.TotalChecks,
		SuccessfulChecks: summary.SuccessfulChecks,
		AvgLatencyMS:     summary.AvgLatencyMS,
	}
}

// ListServices returns every service with its group, public.
func ListServices(ctx *gin.Context) {
	var services []models.Service

	if err := db.DB.Preload("Group").
		Order("display_order, name").
		Find(&services).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve services"})
		return
	}

	responses := make([]ServiceResponse, 0, len(services))
	for _, svc := range services {
		responses = append(responses, serviceResponse(svc))
	}

	ctx.JSON(http.StatusOK, responses)
}

// GetService returns one service with 90 days of uptime history, public.
func GetService(ctx *gin.Context) {
	serviceID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var svc models.Service

	if err := db.DB.Preload("Group").First(&svc, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve service"})
		}
		return
	}

	var summaries []models.DailySummary

	if err := db.DB.Where("service_id = ?", serviceID).
		Order("date DESC").
		Limit(90).
		Find(&summaries).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve uptime history"})
		return
	}

	history := make([]UptimeDay, 0, len(summaries))
	for i := len(summaries) - 1; i >= 0; i-- {
		history = append(history, uptimeDay(summaries[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"service":        serviceResponse(svc),
		"uptime_history": history,
	})
}

// GetServiceUptime returns finalized daily summaries plus a live "today so
// far" bucket computed from raw observations, since the roll-up only ever
// finalizes past days.
func GetServiceUptime(ctx *gin.Context) {
	serviceID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	days := 90
	if raw := ctx.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}

	var summaries []models.DailySummary

	if err := db.DB.Where("service_id = ?", serviceID).
		Order("date DESC").
		Limit(days).
		Find(&summaries).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve uptime history"})
		return
	}

	history := make([]UptimeDay, 0, len(summaries))
	var totalPercentage float64

	for i := len(summaries) - 1; i >= 0; i-- {
		history = append(history, uptimeDay(summaries[i]))
		totalPercentage += summaries[i].UptimePercentage
	}

	overall := 100.0
	if len(history) > 0 {
		overall = totalPercentage / float64(len(history))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"overall_uptime": overall,
		"days":           history,
		"today":          todaySoFar(serviceID),
	})
}

// todaySoFar computes the current day's uptime live from raw observations.
func todaySoFar(serviceID uint) *UptimeDay {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var observations []models.Observation

	if err := db.DB.Where("service_id = ? AND checked_at >= ?", serviceID, dayStart).
		Find(&observations).Error; err != nil || len(observations) == 0 {
		return nil
	}

	var successful int
	var latencySum, latencyCount int64

	for _, obs := range observations {
		if obs.Status == types.StatusOperational {
			successful++
		}
		if obs.LatencyMS != nil {
			latencySum += *obs.LatencyMS
			latencyCount++
		}
	}

	day := &UptimeDay{
		Date:             dayStart.Format("2006-01-02"),
		UptimePercentage: float64(successful) / float64(len(observations)) * 100,
		TotalChecks:      len(observations),
		SuccessfulChecks: successful,
	}

	if latencyCount > 0 {
		avg := latencySum / latencyCount
		day.AvgLatencyMS = &avg
	}

	return day
}

// CreateService creates a service, admin only.
func CreateService(ctx *gin.Context) {
	var req CreateServiceRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	status := types.StatusOperational
	if req.Status != "" {
		status = types.ServiceStatus(req.Status)
		if !status.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
	}

	mode := types.MonitorNone
	if req.MonitorMode != "" {
		mode = types.MonitorMode(req.MonitorMode)
		if !mode.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid monitor mode"})
			return
		}
	}

	interval := req.ProbeInterval
	if interval <= 0 {
		interval = 60
	}

	svc := models.Service{
		GroupID:       req.GroupID,
		Name:          req.Name,
		Description:   req.Description,
		Status:        status,
		MonitorMode:   mode,
		MonitorTarget: req.MonitorTarget,
		ProbeInterval: interval,
		DisplayOrder:  req.DisplayOrder,
	}

	if err := db.DB.Create(&svc).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}

	ctx.JSON(http.StatusCreated, serviceResponse(svc))
}

// UpdateService applies a partial update, admin only.
func UpdateService(ctx *gin.Context) {
	serviceID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var svc models.Service

	if err := db.DB.First(&svc, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve service"})
		}
		return
	}

	var req UpdateServiceRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.GroupID != nil {
		svc.GroupID = req.GroupID
	}
	if req.Name != nil && *req.Name != "" {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Status != nil {
		status := types.ServiceStatus(*req.Status)
		if !status.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		svc.Status = status
	}
	if req.MonitorMode != nil {
		mode := types.MonitorMode(*req.MonitorMode)
		if !mode.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid monitor mode"})
			return
		}
		svc.MonitorMode = mode
	}
	if req.MonitorTarget != nil {
		svc.MonitorTarget = *req.MonitorTarget
	}
	if req.ProbeInterval != nil && *req.ProbeInterval > 0 {
		svc.ProbeInterval = *req.ProbeInterval
	}
	if req.DisplayOrder != nil {
		svc.DisplayOrder = *req.DisplayOrder
	}

	if err := db.DB.Save(&svc).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service"})
		return
	}

	ctx.JSON(http.StatusOK, serviceResponse(svc))
}

// UpdateServiceStatus is the quick manual status override, admin only. A
// manual change still notifies subscribers like a probed one.
func UpdateServiceStatus(ctx *gin.Context) {
	serviceID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateServiceStatusRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	status := types.ServiceStatus(req.Status)

	if !status.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	var svc models.Service

	if err := db.DB.First(&svc, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve service"})
		}
		return
	}

	oldStatus := svc.Status

	if err := db.DB.Model(&svc).Update("status", status).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	svc.Status = status

	if oldStatus != status && notify != nil {
		if res := notify.NotifyStatusChange(ctx.Request.Context(), svc, oldStatus, status); !res.Success {
			logger.WithField("reason", res.Error).Warn("Status change notification failed")
		}
		BroadcastStatusChange(svc, oldStatus, status)
	}

	ctx.JSON(http.StatusOK, serviceResponse(svc))
}

// DeleteService removes a service and, via cascades, its observations and
// summaries. Admin only.
func DeleteService(ctx *gin.Context) {
	serviceID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := db.DB.Delete(&models.Service{}, serviceID)

	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
