// Package models holds the checkout saga: a policy-driven state machine
// that consumes a frozen cart snapshot and either ends in an order request
// or records why it died.
package models

import (
	"context"
	"errors"
	"time"

	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

// CheckoutState is the saga state. Happy path:
// STARTED -> DATA_CAPTURED -> STOCK_VALIDATED -> PAYMENT_APPROVED -> ORDER_CREATED.
// FAILED and CANCELLED are the alternate terminals.
type CheckoutState string

const (
	CheckoutStateStarted         CheckoutState = "STARTED"
	CheckoutStateDataCaptured    CheckoutState = "DATA_CAPTURED"
	CheckoutStateStockValidated  CheckoutState = "STOCK_VALIDATED"
	CheckoutStatePaymentApproved CheckoutState = "PAYMENT_APPROVED"
	CheckoutStateOrderCreated    CheckoutState = "ORDER_CREATED"
	CheckoutStateFailed          CheckoutState = "FAILED"
	CheckoutStateCancelled       CheckoutState = "CANCELLED"
)

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateOrderCreated || s == CheckoutStateFailed || s == CheckoutStateCancelled
}

func (s CheckoutState) String() string { return string(s) }

// Failure reasons recorded on the FAILED terminal.
const (
	FailureOutOfStock      = "OUT_OF_STOCK"
	FailurePaymentRejected = "PAYMENT_REJECTED"
)

// Checkout is the aggregate root of the checkout saga. A failed checkout is
// never retried in place: the caller starts a fresh one, so no stale stock
// or discount state survives a failure.
type Checkout struct {
	ID                 domain.CheckoutID `json:"id"`
	CustomerID         domain.CustomerID `json:"customer_id"`
	CartID             domain.CartID     `json:"cart_id"`
	State              CheckoutState     `json:"state"`
	Summary            CheckoutSummary   `json:"summary"`
	Address            *ShippingAddress  `json:"address,omitempty"`
	Contact            *ContactDetails   `json:"contact,omitempty"`
	Coupon             CouponCode        `json:"coupon,omitempty"`
	Discount           Discount          `json:"discount"`
	Subtotal           money.Money       `json:"subtotal"`
	Total              money.Money       `json:"total"`
	Payment            *PaymentReceipt   `json:"payment,omitempty"`
	OrderID            *domain.OrderID   `json:"order_id,omitempty"`
	FailureReason      string            `json:"failure_reason,omitempty"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`

	recorder domain.Recorder
}

// Start opens a checkout over a non-empty cart snapshot. The total begins
// equal to the subtotal; coupons adjust it later.
func Start(summary CheckoutSummary) (*Checkout, error) {
	if summary.IsEmpty() {
		return nil, domain.NewValidation("EMPTY_SUMMARY", "cannot start checkout with an empty cart snapshot")
	}
	now := time.Now()
	c := &Checkout{
		ID:         domain.NewCheckoutID(),
		CustomerID: summary.CustomerID,
		CartID:     summary.CartID,
		State:      CheckoutStateStarted,
		Summary:    summary,
		Discount:   NoDiscount(),
		Subtotal:   summary.Subtotal,
		Total:      summary.Subtotal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	c.recorder.Record(NewCheckoutStarted(c.ID, c.CartID, c.CustomerID))
	return c, nil
}

// CaptureData records shipping address and contact details.
func (c *Checkout) CaptureData(address ShippingAddress, contact ContactDetails) error {
	if err := c.requireState(CheckoutStateStarted, "CaptureData"); err != nil {
		return err
	}
	if err := address.Validate(); err != nil {
		return err
	}
	if err := contact.Validate(); err != nil {
		return err
	}
	c.Address = &address
	c.Contact = &contact
	c.State = CheckoutStateDataCaptured
	c.touch()
	return nil
}

// ApplyCoupon asks the coupon policy for a discount and recomputes the
// total. A rejection surfaces to the caller without killing the checkout:
// nothing with real-world cost has happened yet, so the customer can retry
// with another code.
func (c *Checkout) ApplyCoupon(ctx context.Context, code CouponCode, policy CouponPolicy) error {
	if err := c.requireState(CheckoutStateDataCaptured, "ApplyCoupon"); err != nil {
		return err
	}
	if code == "" {
		return domain.NewValidation("INVALID_COUPON", "coupon code is required")
	}

	discount, err := policy.Apply(ctx, code, c.Subtotal)
	if err != nil {
		return err
	}

	tooBig, err := discount.Amount.GreaterThan(c.Subtotal)
	if err != nil {
		return err
	}
	if tooBig {
		return domain.NewInvariant("INVALID_DISCOUNT", "discount %s exceeds subtotal %s", discount.Amount, c.Subtotal)
	}

	total, err := c.Subtotal.Subtract(discount.Amount)
	if err != nil {
		return err
	}

	c.Coupon = code
	c.Discount = discount
	c.Total = total
	c.touch()
	return nil
}

// ValidateStock asks the stock policy whether every line can be fulfilled.
// A negative verdict is terminal: the checkout moves to FAILED with reason
// OUT_OF_STOCK. Infrastructure errors leave the state untouched.
func (c *Checkout) ValidateStock(ctx context.Context, policy StockValidationPolicy) error {
	if err := c.requireState(CheckoutStateDataCaptured, "ValidateStock"); err != nil {
		return err
	}

	ok, err := policy.Validate(ctx, c.Summary.StockLines())
	if err != nil {
		return err
	}

	if !ok {
		c.fail(FailureOutOfStock)
		return nil
	}
	c.State = CheckoutStateStockValidated
	c.touch()
	return nil
}

// Pay charges the computed total through the payment policy. A rejection is
// terminal (FAILED with the provider's reason recorded); success stores the
// receipt and advances to PAYMENT_APPROVED.
func (c *Checkout) Pay(ctx context.Context, method PaymentMethod, policy PaymentPolicy) error {
	if err := c.requireState(CheckoutStateStockValidated, "Pay"); err != nil {
		return err
	}
	if !method.IsValid() {
		return domain.NewValidation("INVALID_METHOD", "unknown payment method %q", method)
	}

	receipt, err := policy.Charge(ctx, c.Total, method)
	if err != nil {
		if domain.IsPolicy(err) {
			c.failPayment(err)
			return nil
		}
		return err
	}

	c.Payment = &receipt
	c.State = CheckoutStatePaymentApproved
	c.touch()
	c.recorder.Record(NewCheckoutPaid(c.ID, receipt.ProviderRef, receipt.Amount))
	return nil
}

// CreateOrder finalizes the saga and requests order creation. It is the one
// idempotent transition: callers retry it after crashes between charging and
// recording, so a repeat call returns the same order id and emits nothing.
func (c *Checkout) CreateOrder() (domain.OrderID, error) {
	if c.State == CheckoutStateOrderCreated {
		return *c.OrderID, nil
	}
	if err := c.requireState(CheckoutStatePaymentApproved, "CreateOrder"); err != nil {
		return domain.OrderID{}, err
	}
	if c.Payment == nil {
		return domain.OrderID{}, domain.NewInvariant("NO_PAYMENT", "payment receipt is required to create an order")
	}

	orderID := domain.NewOrderID()
	c.OrderID = &orderID
	c.State = CheckoutStateOrderCreated
	c.touch()

	c.recorder.Record(OrderRequested{
		BaseEvent:     domain.NewBaseEvent(),
		CheckoutID:    c.ID,
		OrderID:       orderID,
		CustomerID:    c.CustomerID,
		CartID:        c.CartID,
		Items:         c.Summary.Items,
		Address:       *c.Address,
		PaymentMethod: c.Payment.Method,
		ProviderRef:   c.Payment.ProviderRef,
		Subtotal:      c.Subtotal,
		Discount:      c.Discount.Amount,
		Total:         c.Total,
	})
	return orderID, nil
}

// Cancel aborts the saga. Forbidden once the order exists or the checkout is
// already cancelled; allowed from FAILED so operators can close it out.
func (c *Checkout) Cancel(reason string) error {
	if reason == "" {
		return domain.NewValidation("INVALID_REASON", "cancellation reason is required")
	}
	if c.State == CheckoutStateOrderCreated {
		return domain.NewInvariant("INVALID_STATE_TRANSITION", "cannot cancel checkout after order is created")
	}
	if c.State == CheckoutStateCancelled {
		return domain.NewInvariant("INVALID_STATE_TRANSITION", "checkout is already cancelled")
	}
	c.CancellationReason = reason
	c.State = CheckoutStateCancelled
	c.touch()
	return nil
}

func (c *Checkout) IsFailed() bool    { return c.State == CheckoutStateFailed }
func (c *Checkout) IsCancelled() bool { return c.State == CheckoutStateCancelled }
func (c *Checkout) IsCompleted() bool { return c.State == CheckoutStateOrderCreated }

// PullEvents drains the accumulated domain events. Single-writer only.
func (c *Checkout) PullEvents() []domain.Event { return c.recorder.PullEvents() }

func (c *Checkout) fail(reason string) {
	c.State = CheckoutStateFailed
	c.FailureReason = reason
	c.touch()
	c.recorder.Record(NewCheckoutFailed(c.ID, reason))
}

func (c *Checkout) failPayment(rejection error) {
	var de *domain.Error
	reason := FailurePaymentRejected
	if errors.As(rejection, &de) {
		reason = FailurePaymentRejected + ": " + de.Message
	}
	c.State = CheckoutStateFailed
	c.FailureReason = reason
	c.touch()
	c.recorder.Record(NewCheckoutFailed(c.ID, FailurePaymentRejected))
}

func (c *Checkout) requireState(required CheckoutState, op string) error {
	if c.State != required {
		return domain.NewInvariant("INVALID_STATE_TRANSITION",
			"operation %q not allowed in state %s, required state: %s", op, c.State, required)
	}
	return nil
}

func (c *Checkout) touch() { c.UpdatedAt = time.Now() }
