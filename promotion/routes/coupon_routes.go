package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Herzon-Palma/Coders/pkg/middleware"
	"github.com/Herzon-Palma/Coders/promotion/controllers"
)

// RegisterCouponRoutes sets up all coupon management routes.
func RegisterCouponRoutes(r *gin.Engine, cc *controllers.CouponController) {
	coupons := r.Group("/coupons")
	coupons.Use(middleware.AuthMiddleware())

	coupons.GET("/:code", cc.GetCoupon)
	coupons.GET("", cc.ListCoupons)
	coupons.POST("", cc.CreateCoupon)
	coupons.DELETE("/:code", cc.DeactivateCoupon)
}
