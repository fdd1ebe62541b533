package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staytus-dev/staytus/db"
	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/utils"
	"gorm.io/gorm"
)

type CreateGroupRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

type UpdateGroupRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"display_order"`
}

type GroupResponse struct {
	ID           *uint             `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	DisplayOrder int               `json:"display_order"`
	Services     []ServiceResponse `json:"services"`
}

// ListGroups returns service groups with their services, public. Ungrouped
// services are appended under a synthetic "Other Services" bucket.
func ListGroups(ctx *gin.Context) {
	var groups []models.ServiceGroup

	if err := db.DB.Order("display_order, name").Find(&groups).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve groups"})
		return
	}

	var services []models.Service

	if err := db.DB.Order("display_order, name").Find(&services).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve services"})
		return
	}

	result := make([]GroupResponse, 0, len(groups)+1)

	for _, group := range groups {
		groupID := group.ID
		resp := GroupResponse{
			ID:           &groupID,
			Name:         group.Name,
			Description:  group.Description,
			DisplayOrder: group.DisplayOrder,
			Services:     []ServiceResponse{},
		}

		for _, svc := range services {
			if svc.GroupID != nil && *svc.GroupID == group.ID {
				resp.Services = append(resp.Services, serviceResponse(svc))
			}
		}

		result = append(result, resp)
	}

	var ungrouped []ServiceResponse
	for _, svc := range services {
		if svc.GroupID == nil {
			ungrouped = append(ungrouped, serviceResponse(svc))
		}
	}

	if len(ungrouped) > 0 {
		result = append(result, GroupResponse{
			Name:     "Other Services",
			Services: ungrouped,
		})
	}

	ctx.JSON(http.StatusOK, result)
}

// CreateGroup creates a service group, admin only.
func CreateGroup(ctx *gin.Context) {
	var req CreateGroupRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	group := models.ServiceGroup{
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	}

	if err := db.DB.Create(&group).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	ctx.JSON(http.StatusCreated, group)
}

// UpdateGroup applies a partial update, admin only.
func UpdateGroup(ctx *gin.Context) {
	groupID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var group models.ServiceGroup

	if err := db.DB.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve group"})
		}
		return
	}

	var req UpdateGroupRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != nil && *req.Name != "" {
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.DisplayOrder != nil {
		group.DisplayOrder = *req.DisplayOrder
	}

	if err := db.DB.Save(&group).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}

	ctx.JSON(http.StatusOK, group)
}

// DeleteGroup removes a group; its services fall back to ungrouped. Admin
// only.
func DeleteGroup(ctx *gin.Context) {
	groupID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := db.DB.Delete(&models.ServiceGroup{}, groupID)

	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete group"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Group deleted successfully"})
}
