package routes

import (
	"github.com/gin-gonic/gin"

	"prohealth/internal/handlers"
)

// SetupOAuthRoutes wires the public OAuth endpoints.
func SetupOAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	auth := r.Group("/auth")
	{
		auth.GET("", authHandler.Install)
		auth.GET("/callback", authHandler.Callback)
	}
}

// SetupEditModeRoutes wires the edit-mode lock endpoints, which live behind
// the admin session like the rest of the API.
func SetupEditModeRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	editMode := r.Group("/edit-mode")
	{
		editMode.GET("", authHandler.EditStatus)
		editMode.POST("/unlock", authHandler.UnlockEdit)
		editMode.POST("/lock", authHandler.LockEdit)
	}
}
