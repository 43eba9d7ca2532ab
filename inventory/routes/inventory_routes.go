package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Herzon-Palma/Coders/inventory/controllers"
	"github.com/Herzon-Palma/Coders/pkg/middleware"
)

// RegisterInventoryRoutes sets up all stock management routes.
func RegisterInventoryRoutes(r *gin.Engine, ic *controllers.InventoryController) {
	inventory := r.Group("/inventory")
	inventory.Use(middleware.AuthMiddleware())

	inventory.GET("/:product_id", ic.GetStock)
	inventory.PUT("", ic.SetStock)
}
