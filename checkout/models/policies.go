package models

import (
	"context"

	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

// The checkout saga depends on three ports owned by other bounded contexts.
// Each is a single blocking call with two business outcomes: a value or a
// typed rejection (domain error of kind POLICY). Any other error is an
// infrastructure fault and leaves the checkout state untouched.

// StockValidationPolicy answers whether the whole set of lines can be
// fulfilled. No stock levels leak back, only a verdict.
type StockValidationPolicy interface {
	Validate(ctx context.Context, items []StockLine) (bool, error)
}

// CouponPolicy validates a coupon against the subtotal and returns the
// discount it grants, or a CouponRejected error.
type CouponPolicy interface {
	Apply(ctx context.Context, code CouponCode, subtotal money.Money) (Discount, error)
}

// PaymentPolicy charges the customer and returns a receipt, or a
// PaymentRejected error carrying the provider's reason.
type PaymentPolicy interface {
	Charge(ctx context.Context, amount money.Money, method PaymentMethod) (PaymentReceipt, error)
}

// CouponRejected builds the policy rejection for an invalid coupon.
func CouponRejected(format string, args ...any) error {
	return domain.NewPolicy("INVALID_COUPON", format, args...)
}

// PaymentRejected builds the policy rejection for a declined charge. The
// message is the provider's human-readable reason.
func PaymentRejected(reason string) error {
	return domain.NewPolicy("PAYMENT_REJECTED", "%s", reason)
}
