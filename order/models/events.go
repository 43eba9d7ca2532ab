package models

import (
	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderShipped   = "order.shipped"
	EventOrderDelivered = "order.delivered"
	EventOrderCancelled = "order.cancelled"
)

type OrderCreated struct {
	domain.BaseEvent
	OrderID    domain.OrderID    `json:"order_id"`
	CustomerID domain.CustomerID `json:"customer_id"`
	Total      money.Money       `json:"total"`
}

func NewOrderCreated(orderID domain.OrderID, customerID domain.CustomerID, total money.Money) OrderCreated {
	return OrderCreated{BaseEvent: domain.NewBaseEvent(), OrderID: orderID, CustomerID: customerID, Total: total}
}

func (OrderCreated) EventName() string { return EventOrderCreated }

type OrderShipped struct {
	domain.BaseEvent
	OrderID        domain.OrderID `json:"order_id"`
	TrackingNumber string         `json:"tracking_number"`
	Carrier        string         `json:"carrier"`
}

func NewOrderShipped(orderID domain.OrderID, trackingNumber, carrier string) OrderShipped {
	return OrderShipped{BaseEvent: domain.NewBaseEvent(), OrderID: orderID, TrackingNumber: trackingNumber, Carrier: carrier}
}

func (OrderShipped) EventName() string { return EventOrderShipped }

type OrderDelivered struct {
	domain.BaseEvent
	OrderID domain.OrderID `json:"order_id"`
}

func NewOrderDelivered(orderID domain.OrderID) OrderDelivered {
	return OrderDelivered{BaseEvent: domain.NewBaseEvent(), OrderID: orderID}
}

func (OrderDelivered) EventName() string { return EventOrderDelivered }

type OrderCancelled struct {
	domain.BaseEvent
	OrderID domain.OrderID `json:"order_id"`
	Reason  string         `json:"reason"`
}

func NewOrderCancelled(orderID domain.OrderID, reason string) OrderCancelled {
	return OrderCancelled{BaseEvent: domain.NewBaseEvent(), OrderID: orderID, Reason: reason}
}

func (OrderCancelled) EventName() string { return EventOrderCancelled }
