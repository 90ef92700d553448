package routes

import (
	"github.com/gin-gonic/gin"

	"prohealth/internal/handlers"
)

func SetupAnalyticsRoutes(r *gin.RouterGroup, analyticsHandler *handlers.AnalyticsHandler) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/program", analyticsHandler.GetProgramAnalytics)
		analytics.GET("/top-orders", analyticsHandler.GetTopPartnerOrders)
		analytics.GET("/partners/:id/orders", analyticsHandler.GetPartnerOrders)
		analytics.GET("/partners/:id/deposits", analyticsHandler.GetPartnerDeposits)
		analytics.GET("/deposits/failed", analyticsHandler.GetFailedDeposits)
	}
}
