package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/staytus-dev/staytus/internal/handlers"
	"github.com/staytus-dev/staytus/internal/middleware"
	"github.com/staytus-dev/staytus/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", handlers.StatusStream)

		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.Login)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.POST("/password", middleware.AuthMiddleware(), handlers.ChangePassword)
		}

		// Public status page surface.
		api.GET("/services", handlers.ListServices)
		api.GET("/services/:id", handlers.GetService)
		api.GET("/services/:id/uptime", handlers.GetServiceUptime)
		api.GET("/groups", handlers.ListGroups)

		incidents := api.Group("/incidents")
		{
			incidents.GET("", handlers.ListIncidents)
			incidents.GET("/active", handlers.ListActiveIncidents)
			incidents.GET("/scheduled", handlers.ListScheduledMaintenance)
			incidents.GET("/history/:days", handlers.ListIncidentHistory)
			incidents.GET("/:id", handlers.GetIncident)
		}

		subscribe := api.Group("/subscribe")
		{
			subscribe.POST("", handlers.Subscribe)
			subscribe.GET("/verify/:token", handlers.VerifySubscriber)
			subscribe.GET("/unsubscribe/:token", handlers.Unsubscribe)
		}

		admin := api.Group("/admin", middleware.AuthMiddleware())
		{
			admin.GET("/dashboard", handlers.GetDashboard)

			admin.POST("/services", handlers.CreateService)
			admin.PUT("/services/:id", handlers.UpdateService)
			admin.PATCH("/services/:id/status", handlers.UpdateServiceStatus)
			admin.DELETE("/services/:id", handlers.DeleteService)

			admin.POST("/groups", handlers.CreateGroup)
			admin.PUT("/groups/:id", handlers.UpdateGroup)
			admin.DELETE("/groups/:id", handlers.DeleteGroup)

			admin.POST("/incidents", handlers.CreateIncident)
			admin.PUT("/incidents/:id", handlers.UpdateIncident)
			admin.POST("/incidents/:id/updates", handlers.AddIncidentUpdate)
			admin.DELETE("/incidents/:id", handlers.DeleteIncident)
			admin.DELETE("/incidents/:id/updates/:update_id", handlers.DeleteIncidentUpdate)

			admin.GET("/templates", handlers.ListTemplates)
			admin.GET("/templates/:id", handlers.GetTemplate)
			admin.POST("/templates", handlers.CreateTemplate)
			admin.PUT("/templates/:id", handlers.UpdateTemplate)
			admin.DELETE("/templates/:id", handlers.DeleteTemplate)

			admin.GET("/subscribers", handlers.ListSubscribers)
			admin.DELETE("/subscribers/:id", handlers.DeleteSubscriber)

			admin.GET("/notifications", handlers.ListNotifications)

			monitor := admin.Group("/monitor")
			{
				monitor.POST("/check", handlers.RunCheck)
				monitor.POST("/rollup", handlers.RunRollup)
				monitor.GET("/records/:id", handlers.GetServiceRecords)
				monitor.POST("/test", handlers.TestTarget)
				monitor.POST("/webhook/test", handlers.TestWebhook)
				monitor.GET("/status", handlers.GetSchedulerStatus)
			}
		}
	}

	return r
}
