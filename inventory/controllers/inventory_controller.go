package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Herzon-Palma/Coders/inventory/models"
	"github.com/Herzon-Palma/Coders/inventory/repository"
	"github.com/Herzon-Palma/Coders/inventory/services"
)

// InventoryController handles HTTP requests for stock management.
type InventoryController struct {
	stockService services.StockService
}

// NewInventoryController creates a new InventoryController.
func NewInventoryController(stockService services.StockService) *InventoryController {
	return &InventoryController{stockService: stockService}
}

// GetStock handles GET /inventory/:product_id.
func (ic *InventoryController) GetStock(ctx *gin.Context) {
	productID := ctx.Param("product_id")
	record, err := ic.stockService.GetStock(ctx.Request.Context(), productID)
	if errors.Is(err, repository.ErrStockNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "No stock record for product"})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stock"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"stock": record})
}

// SetStock handles PUT /inventory.
func (ic *InventoryController) SetStock(ctx *gin.Context) {
	var req models.StockAdjustment
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := ic.stockService.SetStock(ctx.Request.Context(), &req); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set stock"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "updated"})
}
