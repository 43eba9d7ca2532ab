package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Herzon-Palma/Coders/order/services"
	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/middleware"
)

// OrderController handles HTTP requests for order fulfillment.
type OrderController struct {
	orderService services.OrderService
}

// NewOrderController creates a new OrderController.
func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// ShipRequest carries the shipment details.
type ShipRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required"`
	Carrier        string `json:"carrier" binding:"required"`
}

// CancelOrderRequest carries the cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// GetOrder handles GET /orders/:id.
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	orderID, ok := orderIDFromPath(ctx)
	if !ok {
		return
	}

	order, svcErr := oc.orderService.GetOrder(ctx.Request.Context(), orderID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// ListOrders handles GET /orders for the authenticated customer.
func (oc *OrderController) ListOrders(ctx *gin.Context) {
	raw, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}
	customerID, err := domain.ParseCustomerID(raw)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	orders, total, svcErr := oc.orderService.ListOrders(ctx.Request.Context(), customerID, page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders, "total": total, "page": page, "limit": limit})
}

// MarkInPreparation handles POST /orders/:id/prepare.
func (oc *OrderController) MarkInPreparation(ctx *gin.Context) {
	orderID, ok := orderIDFromPath(ctx)
	if !ok {
		return
	}

	order, svcErr := oc.orderService.MarkInPreparation(ctx.Request.Context(), orderID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// MarkShipped handles POST /orders/:id/ship.
func (oc *OrderController) MarkShipped(ctx *gin.Context) {
	orderID, ok := orderIDFromPath(ctx)
	if !ok {
		return
	}

	var req ShipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.MarkShipped(ctx.Request.Context(), orderID, req.TrackingNumber, req.Carrier)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// MarkDelivered handles POST /orders/:id/deliver.
func (oc *OrderController) MarkDelivered(ctx *gin.Context) {
	orderID, ok := orderIDFromPath(ctx)
	if !ok {
		return
	}

	order, svcErr := oc.orderService.MarkDelivered(ctx.Request.Context(), orderID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder handles POST /orders/:id/cancel.
func (oc *OrderController) CancelOrder(ctx *gin.Context) {
	orderID, ok := orderIDFromPath(ctx)
	if !ok {
		return
	}

	var req CancelOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.CancelOrder(ctx.Request.Context(), orderID, req.Reason)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

func orderIDFromPath(ctx *gin.Context) (domain.OrderID, bool) {
	orderID, err := domain.ParseOrderID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return domain.OrderID{}, false
	}
	return orderID, true
}
