package routes

import (
	"github.com/gin-gonic/gin"

	"prohealth/internal/handlers"
)

func SetupSignupRoutes(r *gin.RouterGroup, signupHandler *handlers.SignupHandler, editUnlock gin.HandlerFunc) {
	signups := r.Group("/signups")
	{
		signups.GET("", signupHandler.ListSignups)
		signups.GET("/count", signupHandler.CountSignups)

		signups.POST("/accept", editUnlock, signupHandler.BulkAccept)
		signups.POST("/reject", editUnlock, signupHandler.BulkReject)
		signups.POST("/:id/accept", editUnlock, signupHandler.AcceptSignup)
		signups.POST("/:id/reject", editUnlock, signupHandler.RejectSignup)
	}
}
