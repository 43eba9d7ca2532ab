package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Herzon-Palma/Coders/cart/models"
	"github.com/Herzon-Palma/Coders/cart/services"
	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/middleware"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

// CartController handles HTTP requests for cart operations.
type CartController struct {
	cartService services.CartService
}

// NewCartController creates a new CartController.
func NewCartController(cartService services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// AddItemRequest is the payload for adding a product line to a cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Name      string `json:"name" binding:"required"`
	UnitPrice string `json:"unit_price" binding:"required"`
	Currency  string `json:"currency" binding:"required,currency"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

// UpdateQtyRequest is the payload for changing a line's quantity.
type UpdateQtyRequest struct {
	Quantity int `json:"quantity" binding:"required,gte=1"`
}

// GetMyCart handles GET /carts/mine: the caller's active cart, created on
// first use.
func (cc *CartController) GetMyCart(ctx *gin.Context) {
	customerID, ok := customerFromContext(ctx)
	if !ok {
		return
	}

	cart, svcErr := cc.cartService.GetOrCreateActiveCart(ctx.Request.Context(), customerID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// GetCart handles GET /carts/:id.
func (cc *CartController) GetCart(ctx *gin.Context) {
	cartID, ok := cartIDFromPath(ctx)
	if !ok {
		return
	}

	cart, svcErr := cc.cartService.GetCart(ctx.Request.Context(), cartID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// AddItem handles POST /carts/:id/items.
func (cc *CartController) AddItem(ctx *gin.Context) {
	cartID, ok := cartIDFromPath(ctx)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	productID, err := domain.ParseProductID(req.ProductID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	amount, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unit price"})
		return
	}
	unitPrice, err := money.New(amount, req.Currency)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := models.ProductRef{ProductID: productID, Name: req.Name, UnitPrice: unitPrice}
	cart, svcErr := cc.cartService.AddItem(ctx.Request.Context(), cartID, product, req.Quantity)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// UpdateQty handles PUT /carts/:id/items/:product_id.
func (cc *CartController) UpdateQty(ctx *gin.Context) {
	cartID, ok := cartIDFromPath(ctx)
	if !ok {
		return
	}
	productID, err := domain.ParseProductID(ctx.Param("product_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var req UpdateQtyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.UpdateQty(ctx.Request.Context(), cartID, productID, req.Quantity)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveItem handles DELETE /carts/:id/items/:product_id.
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	cartID, ok := cartIDFromPath(ctx)
	if !ok {
		return
	}
	productID, err := domain.ParseProductID(ctx.Param("product_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	cart, svcErr := cc.cartService.RemoveItem(ctx.Request.Context(), cartID, productID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// ClearCart handles POST /carts/:id/clear.
func (cc *CartController) ClearCart(ctx *gin.Context) {
	cartID, ok := cartIDFromPath(ctx)
	if !ok {
		return
	}

	cart, svcErr := cc.cartService.ClearCart(ctx.Request.Context(), cartID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// AbandonCart handles POST /carts/:id/abandon.
func (cc *CartController) AbandonCart(ctx *gin.Context) {
	cartID, ok := cartIDFromPath(ctx)
	if !ok {
		return
	}

	if svcErr := cc.cartService.AbandonCart(ctx.Request.Context(), cartID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "abandoned"})
}

func cartIDFromPath(ctx *gin.Context) (domain.CartID, bool) {
	cartID, err := domain.ParseCartID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart id"})
		return domain.CartID{}, false
	}
	return cartID, true
}

func customerFromContext(ctx *gin.Context) (domain.CustomerID, bool) {
	raw, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return domain.CustomerID{}, false
	}
	customerID, err := domain.ParseCustomerID(raw)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return domain.CustomerID{}, false
	}
	return customerID, true
}
