package routes

import (
	"github.com/gin-gonic/gin"

	"prohealth/internal/handlers"
)

func SetupSettingsRoutes(r *gin.RouterGroup, settingsHandler *handlers.SettingsHandler, editUnlock gin.HandlerFunc) {
	settings := r.Group("/settings")
	{
		settings.GET("", settingsHandler.GetSettings)
		settings.PUT("", editUnlock, settingsHandler.UpdateSettings)
	}
}
