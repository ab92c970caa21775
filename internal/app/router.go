// internal/app/router.go
package app

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	adminHandler "jobmatch-service/internal/handlers/admin"
	authHandler "jobmatch-service/internal/handlers/auth"
	applicationHandler "jobmatch-service/internal/handlers/application"
	jobHandler "jobmatch-service/internal/handlers/job"
	notifyHandler "jobmatch-service/internal/handlers/notification"
	planHandler "jobmatch-service/internal/handlers/plan"
	profileHandler "jobmatch-service/internal/handlers/profile"
	wsHandler "jobmatch-service/internal/handlers/ws"
	"jobmatch-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	AuthHandler        *authHandler.AuthHandler
	JobHandler         *jobHandler.JobHandler
	ApplicationHandler *applicationHandler.ApplicationHandler
	PlanHandler        *planHandler.PlanHandler
	NotifHandler       *notifyHandler.NotificationHandler
	ProfileHandler     *profileHandler.ProfileHandler
	AdminHandler       *adminHandler.AdminHandler
	WSHandler          *wsHandler.WebSocketHandler
	AuthMiddleware     *middleware.AuthMiddleware
	Gate               *middleware.RouteGate
}

func SetupRouter(r *gin.Engine, staticDir string, h *Handlers) {
	// ==================== Health & Metrics ====================
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Auth ====================
	auth := r.Group("/api/auth")
	{
		auth.GET("/login", h.AuthHandler.Login)
		auth.GET("/callback", h.AuthHandler.Callback)
		auth.POST("/callback", h.AuthHandler.Exchange)
		auth.GET("/me", h.AuthHandler.Me)
		auth.POST("/logout", h.AuthHandler.Logout)
	}

	// ==================== Jobs ====================
	jobs := r.Group("/api/jobs")
	jobs.Use(h.AuthMiddleware.RequireSession(), h.AuthMiddleware.RequireApproved())
	{
		jobs.GET("", h.JobHandler.ListJobs)
		jobs.GET("/:id", h.JobHandler.GetJob)
	}

	// ==================== Applications ====================
	applications := r.Group("/api/applications")
	applications.Use(h.AuthMiddleware.RequireSession(), h.AuthMiddleware.RequireApproved())
	{
		applications.POST("", h.ApplicationHandler.Apply)
		applications.GET("", h.ApplicationHandler.ListApplications)
		applications.GET("/stats", h.ApplicationHandler.GetStats)
		applications.PUT("/:id/withdraw", h.ApplicationHandler.Withdraw)
	}

	// ==================== Pricing Plans ====================
	plans := r.Group("/api/plans")
	plans.Use(h.AuthMiddleware.RequireSession())
	{
		plans.GET("", h.PlanHandler.ListPlans)
		plans.GET("/:code", h.PlanHandler.GetPlan)
	}

	// ==================== Notifications ====================
	notifications := r.Group("/api/notifications")
	notifications.Use(h.AuthMiddleware.RequireSession())
	{
		notifications.GET("", h.NotifHandler.ListNotifications)
		notifications.GET("/summary", h.NotifHandler.GetSummary)
		notifications.PUT("/:id/read", h.NotifHandler.MarkRead)
		notifications.PUT("/read-all", h.NotifHandler.MarkAllRead)
		notifications.DELETE("/:id", h.NotifHandler.DeleteNotification)
	}

	// ==================== Profile ====================
	profile := r.Group("/api/profile")
	profile.Use(h.AuthMiddleware.RequireSession())
	{
		profile.GET("", h.ProfileHandler.GetProfile)
		profile.PUT("", h.ProfileHandler.UpdateProfile)
	}

	// ==================== Admin ====================
	admin := r.Group("/api/admin")
	admin.Use(h.AuthMiddleware.RequireAdminKey())
	{
		admin.GET("/users", h.AdminHandler.ListUsers)
		admin.PUT("/users/:id/approve", h.AdminHandler.ApproveUser)
		admin.PUT("/users/:id/revoke", h.AdminHandler.RevokeUser)
		admin.POST("/jobs", h.JobHandler.CreateJob)
		admin.PUT("/applications/:id/status", h.ApplicationHandler.SetStatus)
		admin.POST("/notifications/broadcast", h.NotifHandler.Broadcast)
		admin.GET("/ws/stats", h.WSHandler.GetStats)
	}

	// ==================== Pages ====================
	// Everything else is a page request. The gate decides between serving
	// the app shell and bouncing to /login.
	r.NoRoute(h.Gate.Gate(), spaHandler(staticDir))
}

// spaHandler serves the built frontend: real files as-is, everything else
// falls back to index.html for client-side routing.
func spaHandler(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		reqPath := filepath.Clean(c.Request.URL.Path)
		if strings.Contains(reqPath, "..") {
			c.Status(http.StatusBadRequest)
			return
		}

		full := filepath.Join(staticDir, reqPath)
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			c.File(full)
			return
		}

		c.File(filepath.Join(staticDir, "index.html"))
	}
}
