package routes

import (
	handlers "goshop/internal/handlers/shared"
	"goshop/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCheckoutRoutes sets up the settlement endpoint
func SetupCheckoutRoutes(r *gin.RouterGroup, checkoutHandler *handlers.CheckoutHandler, jwtSecret string) {
	checkout := r.Group("/checkout")
	checkout.Use(middleware.AuthRequired(jwtSecret))
	{
		checkout.POST("/settle", checkoutHandler.Settle)
	}
}
