package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Herzon-Palma/Coders/checkout/controllers"
	"github.com/Herzon-Palma/Coders/pkg/middleware"
)

// RegisterCheckoutRoutes sets up all checkout saga routes.
func RegisterCheckoutRoutes(r *gin.Engine, cc *controllers.CheckoutController) {
	checkouts := r.Group("/checkouts")
	checkouts.Use(middleware.AuthMiddleware())

	checkouts.POST("", cc.StartCheckout)
	checkouts.GET("/:id", cc.GetCheckout)
	checkouts.POST("/:id/data", cc.CaptureData)
	checkouts.POST("/:id/coupon", cc.ApplyCoupon)
	checkouts.POST("/:id/validate-stock", cc.ValidateStock)
	checkouts.POST("/:id/pay", cc.Pay)
	checkouts.POST("/:id/order", cc.CreateOrder)
	checkouts.POST("/:id/cancel", cc.Cancel)
}
