package models

import (
	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

// Event names double as Kafka topic suffixes.
const (
	EventItemAdded                = "cart.item_added"
	EventItemRemoved              = "cart.item_removed"
	EventCartConfirmedForCheckout = "cart.confirmed_for_checkout"
)

type ItemAddedToCart struct {
	domain.BaseEvent
	CartID      domain.CartID    `json:"cart_id"`
	ProductID   domain.ProductID `json:"product_id"`
	ProductName string           `json:"product_name"`
	Quantity    int              `json:"quantity"`
}

func NewItemAddedToCart(cartID domain.CartID, productID domain.ProductID, name string, qty int) ItemAddedToCart {
	return ItemAddedToCart{
		BaseEvent:   domain.NewBaseEvent(),
		CartID:      cartID,
		ProductID:   productID,
		ProductName: name,
		Quantity:    qty,
	}
}

func (ItemAddedToCart) EventName() string { return EventItemAdded }

type ItemRemovedFromCart struct {
	domain.BaseEvent
	CartID    domain.CartID    `json:"cart_id"`
	ProductID domain.ProductID `json:"product_id"`
}

func NewItemRemovedFromCart(cartID domain.CartID, productID domain.ProductID) ItemRemovedFromCart {
	return ItemRemovedFromCart{BaseEvent: domain.NewBaseEvent(), CartID: cartID, ProductID: productID}
}

func (ItemRemovedFromCart) EventName() string { return EventItemRemoved }

// CartConfirmedForCheckout hands the cart over to the checkout context.
type CartConfirmedForCheckout struct {
	domain.BaseEvent
	CartID     domain.CartID     `json:"cart_id"`
	CustomerID domain.CustomerID `json:"customer_id"`
	TotalItems int               `json:"total_items"`
	Subtotal   money.Money       `json:"subtotal"`
}

func NewCartConfirmedForCheckout(cartID domain.CartID, customerID domain.CustomerID, totalItems int, subtotal money.Money) CartConfirmedForCheckout {
	return CartConfirmedForCheckout{
		BaseEvent:  domain.NewBaseEvent(),
		CartID:     cartID,
		CustomerID: customerID,
		TotalItems: totalItems,
		Subtotal:   subtotal,
	}
}

func (CartConfirmedForCheckout) EventName() string { return EventCartConfirmedForCheckout }
