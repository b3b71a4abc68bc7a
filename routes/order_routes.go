package routes

import (
	handlers "goshop/internal/handlers/shared"
	"goshop/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes sets up the order read surface
func SetupOrderRoutes(r *gin.RouterGroup, orderHandler *handlers.OrderHandler, jwtSecret string) {
	orders := r.Group("/orders")
	orders.Use(middleware.AuthRequired(jwtSecret))
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
	}
}
