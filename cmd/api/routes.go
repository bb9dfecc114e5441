package main

import (
	"database/sql"
	"net/http"
	"time"

	"itam-platform/internal/auth"
	"itam-platform/internal/httpapi"
	"itam-platform/internal/rbac"
	"itam-platform/pkg/utils"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
//
// Access model:
// - Reads are public; a valid token attributes document views.
// - Writes require a token plus an allowed role (ADMIN or TI).
// - Deletes and the audit listing are ADMIN only.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, m *auth.Manager, revoker auth.Revoker, db *sql.DB) {
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	optionalAuth := auth.OptionalAccessToken(m, revoker)
	requireAuth := auth.RequireAccessToken(m, revoker)
	staff := rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleTI)
	adminOnly := rbac.RequireAnyRole(rbac.RoleAdmin)

	v1 := r.Group("/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", requireAuth, h.Logout)
	}

	v1.GET("/me", requireAuth, h.Me)

	assetsGroup := v1.Group("/assets")
	{
		assetsGroup.GET("", optionalAuth, h.ListAssets)
		assetsGroup.GET("/:id", optionalAuth, h.GetAsset)
		assetsGroup.GET("/:id/history", optionalAuth, h.AssetHistory)
		assetsGroup.POST("", requireAuth, staff, h.CreateAsset)
		assetsGroup.PUT("/:id", requireAuth, staff, h.UpdateAsset)
	}

	docsGroup := v1.Group("/docs")
	{
		docsGroup.GET("", optionalAuth, h.ListDocuments)
		docsGroup.GET("/:id", optionalAuth, h.GetDocument)
		docsGroup.POST("", requireAuth, staff, h.CreateDocument)
		docsGroup.PUT("/:id", requireAuth, staff, h.UpdateDocument)
		docsGroup.DELETE("/:id", requireAuth, adminOnly, h.DeleteDocument)
		docsGroup.POST("/:id/reveal", requireAuth, staff, h.RevealCredential)

		categories := docsGroup.Group("/categories")
		{
			categories.GET("", optionalAuth, h.ListCategories)
			categories.POST("", requireAuth, staff, h.CreateCategory)
			categories.PUT("/:id", requireAuth, staff, h.UpdateCategory)
			categories.DELETE("/:id", requireAuth, adminOnly, h.DeleteCategory)
		}
	}

	backupsGroup := v1.Group("/backups")
	{
		backupsGroup.GET("/routines", optionalAuth, h.ListBackupRoutines)
		backupsGroup.GET("/routines/:id", optionalAuth, h.GetBackupRoutine)
		backupsGroup.POST("/routines", requireAuth, staff, h.CreateBackupRoutine)
		backupsGroup.PUT("/routines/:id", requireAuth, staff, h.UpdateBackupRoutine)
		backupsGroup.POST("/routines/:id/execute", requireAuth, staff, h.ExecuteBackup)
		backupsGroup.GET("/logs", optionalAuth, h.ListBackupLogs)
	}

	admin := v1.Group("/admin")
	admin.Use(requireAuth, adminOnly)
	{
		admin.GET("/logs", h.AuditLogs)
	}

	v1.GET("/dashboard/summary", optionalAuth, h.DashboardSummary)
}
