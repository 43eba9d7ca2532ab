package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/checkout/services"
	"github.com/Herzon-Palma/Coders/pkg/domain"
)

// CheckoutController handles HTTP requests for the checkout saga.
type CheckoutController struct {
	checkoutService services.CheckoutService
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(checkoutService services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutService}
}

// StartCheckoutRequest opens a checkout from a confirmed cart.
type StartCheckoutRequest struct {
	CartID string `json:"cart_id" binding:"required,uuid"`
}

// CaptureDataRequest carries the shipping and contact data.
type CaptureDataRequest struct {
	Address struct {
		RecipientName string `json:"recipient_name" binding:"required"`
		Street        string `json:"street" binding:"required"`
		City          string `json:"city" binding:"required"`
		State         string `json:"state" binding:"required"`
		ZipCode       string `json:"zip_code" binding:"required"`
		Phone         string `json:"phone" binding:"required"`
	} `json:"address" binding:"required"`
	Contact struct {
		Email string `json:"email" binding:"required,email"`
		Phone string `json:"phone" binding:"required"`
	} `json:"contact" binding:"required"`
}

// ApplyCouponRequest applies a coupon code to the checkout.
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required,min=1,max=64"`
}

// PayRequest charges the checkout total.
type PayRequest struct {
	Method string `json:"method" binding:"required,oneof=CARD TRANSFER CASH_ON_DELIVERY"`
}

// CancelRequest abandons the checkout with a reason.
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// StartCheckout handles POST /checkouts.
func (cc *CheckoutController) StartCheckout(ctx *gin.Context) {
	var req StartCheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cartID, err := domain.ParseCartID(req.CartID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart id"})
		return
	}

	chk, svcErr := cc.checkoutService.StartCheckout(ctx.Request.Context(), cartID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"checkout": chk})
}

// GetCheckout handles GET /checkouts/:id.
func (cc *CheckoutController) GetCheckout(ctx *gin.Context) {
	checkoutID, ok := checkoutIDFromPath(ctx)
	if !ok {
		return
	}

	chk, svcErr := cc.checkoutService.GetCheckout(ctx.Request.Context(), checkoutID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"checkout": chk})
}

// CaptureData handles POST /checkouts/:id/data.
func (cc *CheckoutController) CaptureData(ctx *gin.Context) {
	checkoutID, ok := checkoutIDFromPath(ctx)
	if !ok {
		return
	}

	var req CaptureDataRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	address := models.ShippingAddress{
		RecipientName: req.Address.RecipientName,
		Street:        req.Address.Street,
		City:          req.Address.City,
		State:         req.Address.State,
		ZipCode:       req.Address.ZipCode,
		Phone:         req.Address.Phone,
	}
	contact := models.ContactDetails{Email: req.Contact.Email, Phone: req.Contact.Phone}

	chk, svcErr := cc.checkoutService.CaptureData(ctx.Request.Context(), checkoutID, address, contact)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"checkout": chk})
}

// ApplyCoupon handles POST /checkouts/:id/coupon.
func (cc *CheckoutController) ApplyCoupon(ctx *gin.Context) {
	checkoutID, ok := checkoutIDFromPath(ctx)
	if !ok {
		return
	}

	var req ApplyCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	code, err := models.NewCouponCode(req.Code)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon code"})
		return
	}

	chk, svcErr := cc.checkoutService.ApplyCoupon(ctx.Request.Context(), checkoutID, code)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"checkout": chk})
}

// ValidateStock handles POST /checkouts/:id/validate-stock.
func (cc *CheckoutController) ValidateStock(ctx *gin.Context) {
	checkoutID, ok := checkoutIDFromPath(ctx)
	if !ok {
		return
	}

	chk, svcErr := cc.checkoutService.ValidateStock(ctx.Request.Context(), checkoutID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"checkout": chk})
}

// Pay handles POST /checkouts/:id/pay.
func (cc *CheckoutController) Pay(ctx *gin.Context) {
	checkoutID, ok := checkoutIDFromPath(ctx)
	if !ok {
		return
	}

	var req PayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	chk, svcErr := cc.checkoutService.Pay(ctx.Request.Context(), checkoutID, models.PaymentMethod(req.Method))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"checkout": chk})
}

// CreateOrder handles POST /checkouts/:id/order.
func (cc *CheckoutController) CreateOrder(ctx *gin.Context) {
	checkoutID, ok := checkoutIDFromPath(ctx)
	if !ok {
		return
	}

	orderID, svcErr := cc.checkoutService.CreateOrder(ctx.Request.Context(), checkoutID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"order_id": orderID})
}

// Cancel handles POST /checkouts/:id/cancel.
func (cc *CheckoutController) Cancel(ctx *gin.Context) {
	checkoutID, ok := checkoutIDFromPath(ctx)
	if !ok {
		return
	}

	var req CancelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	chk, svcErr := cc.checkoutService.Cancel(ctx.Request.Context(), checkoutID, req.Reason)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"checkout": chk})
}

func checkoutIDFromPath(ctx *gin.Context) (domain.CheckoutID, bool) {
	checkoutID, err := domain.ParseCheckoutID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid checkout id"})
		return domain.CheckoutID{}, false
	}
	return checkoutID, true
}
