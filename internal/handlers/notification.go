package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/staytus-dev/staytus/db"
	"github.com/staytus-dev/staytus/internal/models"
)

// ListNotifications returns the recent notification delivery log, admin
// only.
func ListNotifications(ctx *gin.Context) {
	limit := 50
	if raw := ctx.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	var logs []models.NotificationLog

	query := db.DB.Order("sent_at DESC").Limit(limit)

	if ctx.Query("failed") == "true" {
		query = query.Where("success = ?", false)
	}

	if err := query.Find(&logs).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	ctx.JSON(http.StatusOK, logs)
}
