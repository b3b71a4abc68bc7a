package routes

import (
	handlers "goshop/internal/handlers/shared"
	"goshop/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCouponRoutes sets up the coupon admin surface
func SetupCouponRoutes(r *gin.RouterGroup, couponHandler *handlers.CouponHandler, jwtSecret string) {
	admin := r.Group("/admin/coupons")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("", couponHandler.CreateCoupon)
		admin.GET("", couponHandler.ListCoupons)
		admin.GET("/:id", couponHandler.GetCoupon)
		admin.PUT("/:id", couponHandler.UpdateCoupon)
		admin.DELETE("/:id", couponHandler.DeleteCoupon)
	}
}
