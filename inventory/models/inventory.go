package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StockRecord represents the stock details of a product.
type StockRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID string             `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`   // on-hand stock
	Reserved  int                `bson:"reserved" json:"reserved"`   // held for pending checkouts
	Threshold int                `bson:"threshold" json:"threshold"` // low stock alert level
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Available is the quantity that can still be promised to a checkout.
func (s StockRecord) Available() int {
	return s.Quantity - s.Reserved
}

// IsLow reports whether the available stock has dropped to the alert level.
func (s StockRecord) IsLow() bool {
	return s.Threshold > 0 && s.Available() <= s.Threshold
}

// StockAdjustment is the payload for setting a product's stock level.
type StockAdjustment struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
	Threshold int    `json:"threshold" binding:"gte=0"`
}
