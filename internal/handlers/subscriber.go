package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staytus-dev/staytus/db"
	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/utils"
	"gorm.io/gorm"
)

type SubscribeRequest struct {
	Email      string `json:"email"`
	WebhookURL string `json:"webhook_url"`
	ServiceIDs []uint `json:"service_ids"`
}

// Subscribe registers an email or webhook subscriber, public. Subscribers
// start unverified and must confirm via their token.
func Subscribe(ctx *gin.Context) {
	var req SubscribeRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.WebhookURL = strings.TrimSpace(req.WebhookURL)

	if req.Email == "" && req.WebhookURL == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email or webhook URL is required"})
		return
	}

	notifyType := "all"
	if len(req.ServiceIDs) > 0 {
		notifyType = "selected"
	}

	if req.Email != "" {
		var existing models.Subscriber
		if err := db.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Already subscribed"})
			return
		}
	}

	subscriber := models.Subscriber{
		Email:       req.Email,
		WebhookURL:  req.WebhookURL,
		NotifyType:  notifyType,
		Verified:    false,
		VerifyToken: uuid.NewString(),
	}

	if err := db.DB.Create(&subscriber).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	if len(req.ServiceIDs) > 0 {
		var services []models.Service
		if err := db.DB.Find(&services, req.ServiceIDs).Error; err == nil {
			if err := db.DB.Model(&subscriber).Association("Services").Append(&services); err != nil {
				logger.WithError(err).Warn("Failed to link services to subscriber")
			}
		}
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":      "Subscribed. Check your inbox to confirm.",
		"verify_token": subscriber.VerifyToken,
	})
}

// VerifySubscriber confirms a subscription via its token, public.
func VerifySubscriber(ctx *gin.Context) {
	token := ctx.Param("token")

	var subscriber models.Subscriber

	if err := db.DB.Where("verify_token = ?", token).First(&subscriber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Invalid token"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify subscription"})
		}
		return
	}

	if !subscriber.Verified {
		subscriber.Verified = true
		if err := db.DB.Save(&subscriber).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify subscription"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Subscription confirmed"})
}

// Unsubscribe removes a subscriber via its token, public.
func Unsubscribe(ctx *gin.Context) {
	token := ctx.Param("token")

	result := db.DB.Where("verify_token = ?", token).Delete(&models.Subscriber{})

	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Invalid token"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Unsubscribed"})
}

// ListSubscribers returns all subscribers, admin only.
func ListSubscribers(ctx *gin.Context) {
	var subscribers []models.Subscriber

	if err := db.DB.Preload("Services").Order("created_at DESC").Find(&subscribers).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subscribers"})
		return
	}

	ctx.JSON(http.StatusOK, subscribers)
}

// DeleteSubscriber removes a subscriber by ID, admin only.
func DeleteSubscriber(ctx *gin.Context) {
	subscriberID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := db.DB.Delete(&models.Subscriber{}, subscriberID)

	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subscriber"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Subscriber not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Subscriber deleted successfully"})
}
