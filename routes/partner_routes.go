package routes

import (
	"github.com/gin-gonic/gin"

	"prohealth/internal/handlers"
)

// SetupPartnerRoutes wires partner CRUD. Reads are open to any authenticated
// admin session; every mutation additionally requires a live edit token.
func SetupPartnerRoutes(r *gin.RouterGroup, partnerHandler *handlers.PartnerHandler, editUnlock gin.HandlerFunc) {
	partners := r.Group("/partners")
	{
		partners.GET("", partnerHandler.ListPartners)
		partners.GET("/:id", partnerHandler.GetPartner)

		partners.POST("", editUnlock, partnerHandler.CreatePartner)
		partners.PUT("/:id", editUnlock, partnerHandler.UpdatePartner)
		partners.PUT("/:id/activation", editUnlock, partnerHandler.SetPartnerActivation)
		partners.DELETE("/:id", editUnlock, partnerHandler.DeletePartner)
	}
}
