package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staytus-dev/staytus/db"
	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/notifier"
	"github.com/staytus-dev/staytus/internal/types"
	"github.com/staytus-dev/staytus/internal/utils"
	"gorm.io/gorm"
)

type CreateIncidentRequest struct {
	Title          string     `json:"title" binding:"required"`
	Status         string     `json:"status"`
	Impact         string     `json:"impact"`
	Message        string     `json:"message"`
	ServiceIDs     []uint     `json:"service_ids"`
	IsScheduled    bool       `json:"is_scheduled"`
	ScheduledFor   *time.Time `json:"scheduled_for"`
	ScheduledUntil *time.Time `json:"scheduled_until"`
}

type UpdateIncidentRequest struct {
	Title          *string    `json:"title"`
	Status         *string    `json:"status"`
	Impact         *string    `json:"impact"`
	IsScheduled    *bool      `json:"is_scheduled"`
	ScheduledFor   *time.Time `json:"scheduled_for"`
	ScheduledUntil *time.Time `json:"scheduled_until"`
	ServiceIDs     []uint     `json:"service_ids"`
}

type AddIncidentUpdateRequest struct {
	Status  string `json:"status"`
	Message string `json:"message" binding:"required"`
}

type AffectedService struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type IncidentUpdateResponse struct {
	ID        uint      `json:"id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type IncidentResponse struct {
	ID               uint                     `json:"id"`
	Title            string                   `json:"title"`
	Status           string                   `json:"status"`
	Impact           string                   `json:"impact"`
	CreatedAt        time.Time                `json:"created_at"`
	ResolvedAt       *time.Time               `json:"resolved_at"`
	IsScheduled      bool                     `json:"is_scheduled"`
	ScheduledFor     *time.Time               `json:"scheduled_for"`
	ScheduledUntil   *time.Time               `json:"scheduled_until"`
	AffectedServices []AffectedService        `json:"affected_services"`
	Updates          []IncidentUpdateResponse `json:"updates,omitempty"`
}

func incidentResponse(incident models.Incident, includeUpdates bool) IncidentResponse {
	resp := IncidentResponse{
		ID:               incident.ID,
		Title:            incident.Title,
		Status:           incident.Status.String(),
		Impact:           incident.Impact.String(),
		CreatedAt:        incident.CreatedAt,
		ResolvedAt:       incident.ResolvedAt,
		IsScheduled:      incident.IsScheduled,
		ScheduledFor:     incident.ScheduledFor,
		ScheduledUntil:   incident.ScheduledUntil,
		AffectedServices: []AffectedService{},
	}

	for _, svc := range incident.Services {
		resp.AffectedServices = append(resp.AffectedServices, AffectedService{ID: svc.ID, Name: svc.Name})
	}

	if includeUpdates {
		resp.Updates = make([]IncidentUpdateResponse, 0, len(incident.Updates))
		for _, update := range incident.Updates {
			resp.Updates = append(resp.Updates, IncidentUpdateResponse{
				ID:        update.ID,
				Status:    update.Status.String(),
				Message:   update.Message,
				CreatedAt: update.CreatedAt,
			})
		}
	}

	return resp
}

// ListIncidents returns incidents with optional status/scheduled/limit
// filters, public. Resolved incidents are hidden unless include_resolved is
// set.
func ListIncidents(ctx *gin.Context) {
	query := db.DB.Preload("Services").Order("created_at DESC")

	switch ctx.Query("scheduled") {
	case "true":
		query = query.Where("is_scheduled = ?", true)
	case "false":
		query = query.Where("is_scheduled = ?", false)
	}

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if ctx.Query("include_resolved") != "true" {
		query = query.Where("status <> ?", types.IncidentResolved)
	}

	if raw := ctx.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			query = query.Limit(limit)
		}
	}

	var incidents []models.Incident

	if err := query.Find(&incidents).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incidents"})
		return
	}

	responses := make([]IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		responses = append(responses, incidentResponse(incident, false))
	}

	ctx.JSON(http.StatusOK, responses)
}

// ListActiveIncidents returns unresolved, non-scheduled incidents, public.
func ListActiveIncidents(ctx *gin.Context) {
	var incidents []models.Incident

	if err := db.DB.Preload("Services").
		Where("status <> ? AND is_scheduled = ?", types.IncidentResolved, false).
		Order("created_at DESC").
		Find(&incidents).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incidents"})
		return
	}

	responses := make([]IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		responses = append(responses, incidentResponse(incident, false))
	}

	ctx.JSON(http.StatusOK, responses)
}

// ListScheduledMaintenance returns upcoming or in-progress maintenance
// windows, public.
func ListScheduledMaintenance(ctx *gin.Context) {
	var incidents []models.Incident

	if err := db.DB.Preload("Services").
		Where("is_scheduled = ? AND (status <> ? OR scheduled_for > ?)", true, types.IncidentResolved, time.Now()).
		Order("scheduled_for ASC").
		Find(&incidents).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve maintenance windows"})
		return
	}

	responses := make([]IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		responses = append(responses, incidentResponse(incident, false))
	}

	ctx.JSON(http.StatusOK, responses)
}

// ListIncidentHistory returns incidents created within the past N days,
// public.
func ListIncidentHistory(ctx *gin.Context) {
	days := 7
	if raw := ctx.Param("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}

	since := time.Now().AddDate(0, 0, -days)

	var incidents []models.Incident

	if err := db.DB.Preload("Services").
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Find(&incidents).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incident history"})
		return
	}

	responses := make([]IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		responses = append(responses, incidentResponse(incident, false))
	}

	ctx.JSON(http.StatusOK, responses)
}

// GetIncident returns one incident with its ordered updates, public.
func GetIncident(ctx *gin.Context) {
	incidentID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var incident models.Incident

	if err := db.DB.Preload("Services").
		Preload("Updates", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC")
		}).
		First(&incident, incidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incident"})
		}
		return
	}

	ctx.JSON(http.StatusOK, incidentResponse(incident, true))
}

// CreateIncident creates an incident with its initial update and service
// links, then notifies. Admin only.
func CreateIncident(ctx *gin.Context) {
	var req CreateIncidentRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	status := types.IncidentInvestigating
	if req.Status != "" {
		status = types.IncidentStatus(req.Status)
		if !status.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
	}

	impact := types.ImpactMinor
	if req.Impact != "" {
		impact = types.ImpactLevel(req.Impact)
		if !impact.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid impact"})
			return
		}
	}

	incident := models.Incident{
		Title:          req.Title,
		Status:         status,
		Impact:         impact,
		IsScheduled:    req.IsScheduled,
		ScheduledFor:   req.ScheduledFor,
		ScheduledUntil: req.ScheduledUntil,
	}

	if status == types.IncidentResolved {
		now := time.Now()
		incident.ResolvedAt = &now
	}

	if err := db.DB.Create(&incident).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create incident"})
		return
	}

	if req.Message != "" {
		update := models.IncidentUpdate{
			IncidentID: incident.ID,
			Status:     status,
			Message:    req.Message,
		}
		if err := db.DB.Create(&update).Error; err != nil {
			logger.WithError(err).Warn("Failed to create initial incident update")
		}
	}

	if len(req.ServiceIDs) > 0 {
		var services []models.Service
		if err := db.DB.Find(&services, req.ServiceIDs).Error; err == nil {
			if err := db.DB.Model(&incident).Association("Services").Append(&services); err != nil {
				logger.WithError(err).Warn("Failed to link services to incident")
			}
		}
	}

	if notify != nil {
		if res := notify.NotifyIncident(ctx.Request.Context(), incident, notifier.EventCreated); !res.Success {
			logger.WithField("reason", res.Error).Warn("Incident notification failed")
		}
	}

	db.DB.Preload("Services").First(&incident, incident.ID)
	ctx.JSON(http.StatusCreated, incidentResponse(incident, false))
}

// UpdateIncident applies a partial update. The resolution timestamp is set
// exactly when status transitions into resolved and cleared when it
// transitions back out. Admin only.
func UpdateIncident(ctx *gin.Context) {
	incidentID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var incident models.Incident

	if err := db.DB.First(&incident, incidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incident"})
		}
		return
	}

	var req UpdateIncidentRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	oldStatus := incident.Status

	if req.Title != nil && *req.Title != "" {
		incident.Title = *req.Title
	}
	if req.Status != nil {
		status := types.IncidentStatus(*req.Status)
		if !status.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		incident.Status = status
	}
	if req.Impact != nil {
		impact := types.ImpactLevel(*req.Impact)
		if !impact.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid impact"})
			return
		}
		incident.Impact = impact
	}
	if req.IsScheduled != nil {
		incident.IsScheduled = *req.IsScheduled
	}
	if req.ScheduledFor != nil {
		incident.ScheduledFor = req.ScheduledFor
	}
	if req.ScheduledUntil != nil {
		incident.ScheduledUntil = req.ScheduledUntil
	}

	if incident.Status == types.IncidentResolved && oldStatus != types.IncidentResolved {
		now := time.Now()
		incident.ResolvedAt = &now
	} else if incident.Status != types.IncidentResolved {
		incident.ResolvedAt = nil
	}

	if err := db.DB.Save(&incident).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update incident"})
		return
	}

	if req.ServiceIDs != nil {
		var services []models.Service
		if len(req.ServiceIDs) > 0 {
			if err := db.DB.Find(&services, req.ServiceIDs).Error; err != nil {
				logger.WithError(err).Warn("Failed to load services for incident links")
			}
		}
		if err := db.DB.Model(&incident).Association("Services").Replace(&services); err != nil {
			logger.WithError(err).Warn("Failed to replace incident service links")
		}
	}

	if notify != nil && incident.Status != oldStatus {
		event := notifier.EventUpdated
		if incident.Status == types.IncidentResolved {
			event = notifier.EventResolved
		}
		if res := notify.NotifyIncident(ctx.Request.Context(), incident, event); !res.Success {
			logger.WithField("reason", res.Error).Warn("Incident notification failed")
		}
	}

	db.DB.Preload("Services").First(&incident, incident.ID)
	ctx.JSON(http.StatusOK, incidentResponse(incident, false))
}

// AddIncidentUpdate appends a timeline entry and optionally advances the
// incident's status with it. Admin only.
func AddIncidentUpdate(ctx *gin.Context) {
	incidentID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req AddIncidentUpdateRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	var incident models.Incident

	if err := db.DB.First(&incident, incidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incident"})
		}
		return
	}

	status := incident.Status
	if req.Status != "" {
		status = types.IncidentStatus(req.Status)
		if !status.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
	}

	update := models.IncidentUpdate{
		IncidentID: incident.ID,
		Status:     status,
		Message:    req.Message,
	}

	if err := db.DB.Create(&update).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create update"})
		return
	}

	if status != incident.Status {
		incident.Status = status

		if status == types.IncidentResolved {
			now := time.Now()
			incident.ResolvedAt = &now
		} else {
			incident.ResolvedAt = nil
		}

		if err := db.DB.Save(&incident).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update incident status"})
			return
		}

		if notify != nil {
			event := notifier.EventUpdated
			if status == types.IncidentResolved {
				event = notifier.EventResolved
			}
			if res := notify.NotifyIncident(ctx.Request.Context(), incident, event); !res.Success {
				logger.WithField("reason", res.Error).Warn("Incident notification failed")
			}
		}
	}

	ctx.JSON(http.StatusCreated, IncidentUpdateResponse{
		ID:        update.ID,
		Status:    update.Status.String(),
		Message:   update.Message,
		CreatedAt: update.CreatedAt,
	})
}

// DeleteIncident removes an incident and its updates. Admin only.
func DeleteIncident(ctx *gin.Context) {
	incidentID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := db.DB.Delete(&models.Incident{}, incidentID)

	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete incident"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Incident deleted successfully"})
}

// DeleteIncidentUpdate removes a single timeline entry. Admin only.
func DeleteIncidentUpdate(ctx *gin.Context) {
	incidentID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updateID, err := utils.GetIDParam(ctx, "update_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := db.DB.Where("id = ? AND incident_id = ?", updateID, incidentID).Delete(&models.IncidentUpdate{})

	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete update"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Update not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Update deleted successfully"})
}
