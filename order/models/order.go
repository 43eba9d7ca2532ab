// Package models holds the post-purchase Order aggregate and its
// fulfillment state machine.
package models

import (
	"strings"
	"time"

	checkout "github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

// OrderStatus is the fulfillment state. Happy path:
// PENDING -> CONFIRMED -> PAID -> IN_PREPARATION -> SHIPPED -> DELIVERED.
// CANCELLED is the alternate terminal.
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "PENDING"
	OrderStatusConfirmed     OrderStatus = "CONFIRMED"
	OrderStatusPaid          OrderStatus = "PAID"
	OrderStatusInPreparation OrderStatus = "IN_PREPARATION"
	OrderStatusShipped       OrderStatus = "SHIPPED"
	OrderStatusDelivered     OrderStatus = "DELIVERED"
	OrderStatusCancelled     OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) String() string { return string(s) }

// OrderItem is a purchased line, immutable once the order exists.
type OrderItem struct {
	ProductID   domain.ProductID `json:"product_id"`
	ProductName string           `json:"product_name"`
	UnitPrice   money.Money      `json:"unit_price"`
	Quantity    int              `json:"quantity"`
}

// StatusChange is one entry of the append-only audit trail.
type StatusChange struct {
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	Note      string      `json:"note"`
	ChangedAt time.Time   `json:"changed_at"`
}

// ShipmentInfo is set exactly once, when the order ships.
type ShipmentInfo struct {
	TrackingNumber string    `json:"tracking_number"`
	Carrier        string    `json:"carrier"`
	ShippedAt      time.Time `json:"shipped_at"`
}

func NewShipmentInfo(trackingNumber, carrier string) (ShipmentInfo, error) {
	if strings.TrimSpace(trackingNumber) == "" {
		return ShipmentInfo{}, domain.NewValidation("INVALID_SHIPMENT", "tracking number is required")
	}
	if strings.TrimSpace(carrier) == "" {
		return ShipmentInfo{}, domain.NewValidation("INVALID_SHIPMENT", "carrier is required")
	}
	return ShipmentInfo{TrackingNumber: trackingNumber, Carrier: carrier, ShippedAt: time.Now()}, nil
}

// Order is the aggregate root tracking fulfillment of a completed purchase.
// Cancellation is only legal while nothing has been charged: Pending, or
// Confirmed with the payment still pending. Once Paid it is forbidden for
// good.
type Order struct {
	ID                 domain.OrderID           `json:"id"`
	CustomerID         domain.CustomerID        `json:"customer_id"`
	Items              []OrderItem              `json:"items"`
	ShippingAddress    checkout.ShippingAddress `json:"shipping_address"`
	Payment            PaymentInfo              `json:"payment"`
	Subtotal           money.Money              `json:"subtotal"`
	Discount           money.Money              `json:"discount"`
	Total              money.Money              `json:"total"`
	Status             OrderStatus              `json:"status"`
	History            []StatusChange           `json:"history"`
	Shipment           *ShipmentInfo            `json:"shipment,omitempty"`
	CancellationReason string                   `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`

	recorder domain.Recorder
}

// NewOrder creates a Pending order with a fresh id.
func NewOrder(customerID domain.CustomerID, items []OrderItem, address checkout.ShippingAddress,
	paymentMethod checkout.PaymentMethod, subtotal, discount money.Money) (*Order, error) {
	return NewOrderWithID(domain.NewOrderID(), customerID, items, address, paymentMethod, subtotal, discount)
}

// NewOrderWithID creates a Pending order under an externally assigned id.
// Used when reconstituting from an OrderRequested event, whose checkout
// already fixed the order id.
func NewOrderWithID(id domain.OrderID, customerID domain.CustomerID, items []OrderItem,
	address checkout.ShippingAddress, paymentMethod checkout.PaymentMethod,
	subtotal, discount money.Money) (*Order, error) {
	if id.IsNil() {
		return nil, domain.NewValidation("INVALID_ORDER", "order id is required")
	}
	if customerID.IsNil() {
		return nil, domain.NewValidation("INVALID_ORDER", "customer id is required")
	}
	if len(items) == 0 {
		return nil, domain.NewValidation("INVALID_ORDER", "order must have at least one item")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	payment, err := NewPaymentInfo(paymentMethod)
	if err != nil {
		return nil, err
	}
	total, err := subtotal.Subtract(discount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &Order{
		ID:              id,
		CustomerID:      customerID,
		Items:           append([]OrderItem(nil), items...),
		ShippingAddress: address,
		Payment:         payment,
		Subtotal:        subtotal,
		Discount:        discount,
		Total:           total,
		Status:          OrderStatusPending,
		History:         []StatusChange{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	order.recorder.Record(NewOrderCreated(order.ID, order.CustomerID, order.Total))
	return order, nil
}

// Confirm moves the order from Pending to Confirmed.
func (o *Order) Confirm() error {
	if err := o.requireStatus(OrderStatusPending, "Confirm"); err != nil {
		return err
	}
	o.transitionTo(OrderStatusConfirmed, "Order confirmed")
	return nil
}

// MarkPaid approves the payment with the provider reference and moves the
// order to Paid.
func (o *Order) MarkPaid(providerRef string) error {
	if err := o.requireStatus(OrderStatusConfirmed, "MarkPaid"); err != nil {
		return err
	}
	if !o.Payment.IsPending() {
		return domain.NewInvariant("INVALID_PAYMENT_STATE",
			"payment must be pending to mark as paid, got %s", o.Payment.Status)
	}
	if err := o.Payment.Approve(providerRef); err != nil {
		return err
	}
	o.transitionTo(OrderStatusPaid, "Payment approved: "+providerRef)
	return nil
}

// MarkInPreparation moves a paid order into the warehouse queue.
func (o *Order) MarkInPreparation() error {
	if err := o.requireStatus(OrderStatusPaid, "MarkInPreparation"); err != nil {
		return err
	}
	if !o.Payment.IsApproved() {
		return domain.NewInvariant("INVALID_PAYMENT_STATE", "payment must be approved before preparation")
	}
	o.transitionTo(OrderStatusInPreparation, "Order in preparation")
	return nil
}

// MarkShipped records the shipment exactly once and moves to Shipped.
func (o *Order) MarkShipped(trackingNumber, carrier string) error {
	if err := o.requireStatus(OrderStatusInPreparation, "MarkShipped"); err != nil {
		return err
	}
	if o.Shipment != nil {
		return domain.NewInvariant("ALREADY_SHIPPED", "order already has shipment info")
	}
	shipment, err := NewShipmentInfo(trackingNumber, carrier)
	if err != nil {
		return err
	}
	o.Shipment = &shipment
	o.transitionTo(OrderStatusShipped, "Shipped via "+carrier+": "+trackingNumber)
	o.recorder.Record(NewOrderShipped(o.ID, trackingNumber, carrier))
	return nil
}

// MarkDelivered closes the happy path.
func (o *Order) MarkDelivered() error {
	if err := o.requireStatus(OrderStatusShipped, "MarkDelivered"); err != nil {
		return err
	}
	if o.Shipment == nil {
		return domain.NewInvariant("NO_SHIPMENT", "order must have shipment info before delivery")
	}
	o.transitionTo(OrderStatusDelivered, "Order delivered")
	o.recorder.Record(NewOrderDelivered(o.ID))
	return nil
}

// Cancel aborts the order while that is still legal.
func (o *Order) Cancel(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domain.NewValidation("INVALID_REASON", "cancellation reason is required")
	}
	switch o.Status {
	case OrderStatusCancelled:
		return domain.NewInvariant("ALREADY_CANCELLED", "order is already cancelled")
	case OrderStatusDelivered:
		return domain.NewInvariant("CANNOT_CANCEL", "cannot cancel a delivered order")
	case OrderStatusPaid, OrderStatusInPreparation, OrderStatusShipped:
		return domain.NewInvariant("CANNOT_CANCEL", "cannot cancel order after payment, status: %s", o.Status)
	case OrderStatusConfirmed:
		if o.Payment.IsApproved() {
			return domain.NewInvariant("CANNOT_CANCEL", "cannot cancel order with approved payment")
		}
	}
	o.CancellationReason = reason
	o.transitionTo(OrderStatusCancelled, "Cancelled: "+reason)
	o.recorder.Record(NewOrderCancelled(o.ID, reason))
	return nil
}

// TotalItems is the sum of quantities across all lines.
func (o *Order) TotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

func (o *Order) IsCancelled() bool { return o.Status == OrderStatusCancelled }
func (o *Order) IsDelivered() bool { return o.Status == OrderStatusDelivered }

// PullEvents drains the accumulated domain events. Single-writer only.
func (o *Order) PullEvents() []domain.Event { return o.recorder.PullEvents() }

// transitionTo changes status and appends the audit entry. All transitions
// go through here so the history never misses one.
func (o *Order) transitionTo(to OrderStatus, note string) {
	o.History = append(o.History, StatusChange{
		From:      o.Status,
		To:        to,
		Note:      note,
		ChangedAt: time.Now(),
	})
	o.Status = to
	o.UpdatedAt = time.Now()
}

func (o *Order) requireStatus(required OrderStatus, op string) error {
	if o.Status != required {
		return domain.NewInvariant("INVALID_STATE_TRANSITION",
			"operation %q not allowed in status %s, required status: %s", op, o.Status, required)
	}
	return nil
}
