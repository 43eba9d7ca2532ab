package models

import (
	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

const (
	EventCheckoutStarted = "checkout.started"
	EventCheckoutPaid    = "checkout.paid"
	EventCheckoutFailed  = "checkout.failed"
	EventOrderRequested  = "checkout.order_requested"
)

type CheckoutStarted struct {
	domain.BaseEvent
	CheckoutID domain.CheckoutID `json:"checkout_id"`
	CartID     domain.CartID     `json:"cart_id"`
	CustomerID domain.CustomerID `json:"customer_id"`
}

func NewCheckoutStarted(checkoutID domain.CheckoutID, cartID domain.CartID, customerID domain.CustomerID) CheckoutStarted {
	return CheckoutStarted{BaseEvent: domain.NewBaseEvent(), CheckoutID: checkoutID, CartID: cartID, CustomerID: customerID}
}

func (CheckoutStarted) EventName() string { return EventCheckoutStarted }

type CheckoutPaid struct {
	domain.BaseEvent
	CheckoutID  domain.CheckoutID `json:"checkout_id"`
	ProviderRef string            `json:"provider_ref"`
	Amount      money.Money       `json:"amount"`
}

func NewCheckoutPaid(checkoutID domain.CheckoutID, providerRef string, amount money.Money) CheckoutPaid {
	return CheckoutPaid{BaseEvent: domain.NewBaseEvent(), CheckoutID: checkoutID, ProviderRef: providerRef, Amount: amount}
}

func (CheckoutPaid) EventName() string { return EventCheckoutPaid }

type CheckoutFailed struct {
	domain.BaseEvent
	CheckoutID domain.CheckoutID `json:"checkout_id"`
	Reason     string            `json:"reason"`
}

func NewCheckoutFailed(checkoutID domain.CheckoutID, reason string) CheckoutFailed {
	return CheckoutFailed{BaseEvent: domain.NewBaseEvent(), CheckoutID: checkoutID, Reason: reason}
}

func (CheckoutFailed) EventName() string { return EventCheckoutFailed }

// OrderRequested is the hand-off to the orders context. It carries
// everything an order needs so the handler never has to query the checkout
// back.
type OrderRequested struct {
	domain.BaseEvent
	CheckoutID    domain.CheckoutID `json:"checkout_id"`
	OrderID       domain.OrderID    `json:"order_id"`
	CustomerID    domain.CustomerID `json:"customer_id"`
	CartID        domain.CartID     `json:"cart_id"`
	Items         []CheckoutLine    `json:"items"`
	Address       ShippingAddress   `json:"address"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	ProviderRef   string            `json:"provider_ref"`
	Subtotal      money.Money       `json:"subtotal"`
	Discount      money.Money       `json:"discount"`
	Total         money.Money       `json:"total"`
}

func (OrderRequested) EventName() string { return EventOrderRequested }
