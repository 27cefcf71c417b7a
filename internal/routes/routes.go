package routes

import (
	"github.com/gin-gonic/gin"

	handler "ota-reconciliation-backend/internal/handlers"
	service "ota-reconciliation-backend/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, reconService *service.ReconciliationService, maxUploadBytes int64) {
	reconHandler := handler.NewReconciliationHandler(reconService)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	recon := api.Group("/reconciliation")
	{
		uploads := recon.Group("", handler.LimitUploads(maxUploadBytes))
		uploads.POST("/audit", reconHandler.Audit)
		uploads.POST("/date-compare", reconHandler.CompareDates)
		uploads.POST("/meituan", reconHandler.MeituanLookup)
	}

	// Run history
	recon.GET("/runs", reconHandler.ListRuns)
	recon.GET("/runs/:runId", reconHandler.GetRun)
	recon.GET("/runs/:runId/matches", reconHandler.ListMatches)
}
