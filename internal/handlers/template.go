package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staytus-dev/staytus/db"
	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/types"
	"github.com/staytus-dev/staytus/internal/utils"
	"gorm.io/gorm"
)

type TemplateRequest struct {
	Name    string `json:"name" binding:"required"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	Impact  string `json:"impact"`
	Message string `json:"message"`
}

// ListTemplates returns all incident templates, admin only.
func ListTemplates(ctx *gin.Context) {
	var templates []models.IncidentTemplate

	if err := db.DB.Order("name ASC").Find(&templates).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve templates"})
		return
	}

	ctx.JSON(http.StatusOK, templates)
}

// GetTemplate returns one incident template, admin only.
func GetTemplate(ctx *gin.Context) {
	templateID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var template models.IncidentTemplate

	if err := db.DB.First(&template, templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve template"})
		}
		return
	}

	ctx.JSON(http.StatusOK, template)
}

// CreateTemplate stores a reusable incident template, admin only.
func CreateTemplate(ctx *gin.Context) {
	var req TemplateRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
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

	template := models.IncidentTemplate{
		Name:    req.Name,
		Title:   req.Title,
		Status:  status,
		Impact:  impact,
		Message: req.Message,
	}

	if err := db.DB.Create(&template).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template"})
		return
	}

	ctx.JSON(http.StatusCreated, template)
}

// UpdateTemplate replaces a template's fields, admin only.
func UpdateTemplate(ctx *gin.Context) {
	templateID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var template models.IncidentTemplate

	if err := db.DB.First(&template, templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve template"})
		}
		return
	}

	var req TemplateRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	if req.Status != "" {
		status := types.IncidentStatus(req.Status)
		if !status.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		template.Status = status
	}

	if req.Impact != "" {
		impact := types.ImpactLevel(req.Impact)
		if !impact.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid impact"})
			return
		}
		template.Impact = impact
	}

	template.Name = req.Name
	template.Title = req.Title
	template.Message = req.Message

	if err := db.DB.Save(&template).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update template"})
		return
	}

	ctx.JSON(http.StatusOK, template)
}

// DeleteTemplate removes a template, admin only.
func DeleteTemplate(ctx *gin.Context) {
	templateID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := db.DB.Delete(&models.IncidentTemplate{}, templateID)

	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete template"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}
