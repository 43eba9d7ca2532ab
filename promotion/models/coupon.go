package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Herzon-Palma/Coders/pkg/money"
)

// ErrUnknownCouponType is returned when a stored coupon carries a type
// this version of the service does not understand.
var ErrUnknownCouponType = errors.New("unknown coupon type")

// CouponType represents the type of discount a coupon provides.
type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

// Coupon represents a promotional coupon stored in Postgres. Monetary
// columns are kept as numeric strings and converted to money values at
// the edges.
type Coupon struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code          string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Type          CouponType     `gorm:"type:varchar(20);not null" json:"type"`
	Value         string         `gorm:"type:numeric(12,2);not null" json:"value"`          // fixed amount or percentage
	Currency      string         `gorm:"type:varchar(3);not null" json:"currency"`
	MinOrderValue string         `gorm:"type:numeric(12,2);not null;default:0" json:"min_order_value"`
	UsageLimit    int            `gorm:"not null;default:0" json:"usage_limit"` // 0 = unlimited
	UsedCount     int            `gorm:"not null;default:0" json:"used_count"`
	ExpiresAt     time.Time      `gorm:"not null" json:"expires_at"`
	Active        bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// DiscountFor computes the discount this coupon grants on the given
// subtotal. Fixed discounts are capped at the subtotal so the checkout
// total never goes negative.
func (c *Coupon) DiscountFor(subtotal money.Money) (money.Money, error) {
	value, err := decimal.NewFromString(c.Value)
	if err != nil {
		return money.Money{}, err
	}

	switch c.Type {
	case CouponTypePercentage:
		amount := subtotal.Amount().Mul(value).Div(decimal.NewFromInt(100))
		return money.New(amount, subtotal.Currency())
	case CouponTypeFixed:
		discount, err := money.New(value, c.Currency)
		if err != nil {
			return money.Money{}, err
		}
		exceeds, err := discount.GreaterThan(subtotal)
		if err != nil {
			return money.Money{}, err
		}
		if exceeds {
			return subtotal, nil
		}
		return discount, nil
	default:
		return money.Money{}, ErrUnknownCouponType
	}
}

// IsExpired reports whether the coupon can no longer be redeemed.
func (c *Coupon) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// IsExhausted reports whether the usage limit has been reached.
func (c *Coupon) IsExhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}

// CreateCouponRequest is the payload for creating a new coupon.
type CreateCouponRequest struct {
	Code          string     `json:"code" binding:"required,min=3,max=64"`
	Type          CouponType `json:"type" binding:"required,oneof=percentage fixed"`
	Value         string     `json:"value" binding:"required"`
	Currency      string     `json:"currency" binding:"required,currency"`
	MinOrderValue string     `json:"min_order_value"`
	UsageLimit    int        `json:"usage_limit" binding:"gte=0"`
	ExpiresAt     time.Time  `json:"expires_at" binding:"required"`
}

// CouponAppliedEvent is published to SNS when a coupon grants a discount
// during checkout.
type CouponAppliedEvent struct {
	EventType      string    `json:"event_type"`
	CouponID       string    `json:"coupon_id"`
	CouponCode     string    `json:"coupon_code"`
	CouponType     string    `json:"coupon_type"`
	DiscountAmount string    `json:"discount_amount"`
	Currency       string    `json:"currency"`
	Subtotal       string    `json:"subtotal"`
	Timestamp      time.Time `json:"timestamp"`
}
