package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Herzon-Palma/Coders/cart/controllers"
	"github.com/Herzon-Palma/Coders/pkg/middleware"
)

// RegisterCartRoutes sets up all cart-related routes.
func RegisterCartRoutes(r *gin.Engine, cc *controllers.CartController) {
	carts := r.Group("/carts")
	carts.Use(middleware.AuthMiddleware())

	carts.GET("/mine", cc.GetMyCart)
	carts.GET("/:id", cc.GetCart)
	carts.POST("/:id/items", cc.AddItem)
	carts.PUT("/:id/items/:product_id", cc.UpdateQty)
	carts.DELETE("/:id/items/:product_id", cc.RemoveItem)
	carts.POST("/:id/clear", cc.ClearCart)
	carts.POST("/:id/abandon", cc.AbandonCart)
}
