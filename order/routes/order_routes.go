package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Herzon-Palma/Coders/order/controllers"
	"github.com/Herzon-Palma/Coders/pkg/middleware"
)

// RegisterOrderRoutes sets up all order fulfillment routes.
func RegisterOrderRoutes(r *gin.Engine, oc *controllers.OrderController) {
	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware())

	orders.GET("", oc.ListOrders)
	orders.GET("/:id", oc.GetOrder)
	orders.POST("/:id/prepare", oc.MarkInPreparation)
	orders.POST("/:id/ship", oc.MarkShipped)
	orders.POST("/:id/deliver", oc.MarkDelivered)
	orders.POST("/:id/cancel", oc.CancelOrder)
}
