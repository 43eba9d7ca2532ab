package models

import (
	"strings"

	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

// PaymentMethod identifies how the customer pays.
type PaymentMethod string

const (
	PaymentMethodCard           PaymentMethod = "CARD"
	PaymentMethodTransfer       PaymentMethod = "TRANSFER"
	PaymentMethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCashOnDelivery:
		return true
	}
	return false
}

func (m PaymentMethod) String() string { return string(m) }

// CouponCode is a normalized coupon identifier.
type CouponCode string

// NewCouponCode trims and uppercases the raw code.
func NewCouponCode(raw string) (CouponCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", domain.NewValidation("INVALID_COUPON", "coupon code cannot be empty")
	}
	return CouponCode(code), nil
}

func (c CouponCode) String() string { return string(c) }

// Discount is the outcome of a coupon application.
type Discount struct {
	Amount money.Money `json:"amount"`
	Reason string      `json:"reason"`
}

// NoDiscount is the neutral discount applied to every fresh checkout.
func NoDiscount() Discount {
	return Discount{Amount: money.Pesos(0), Reason: "No discount"}
}

func NewDiscount(amount money.Money, reason string) (Discount, error) {
	if strings.TrimSpace(reason) == "" {
		return Discount{}, domain.NewValidation("INVALID_DISCOUNT", "discount reason is required")
	}
	return Discount{Amount: amount, Reason: reason}, nil
}

func (d Discount) HasDiscount() bool { return !d.Amount.IsZero() }

// PaymentReceipt is the proof of a successful charge returned by the
// payment policy.
type PaymentReceipt struct {
	Method      PaymentMethod `json:"method"`
	ProviderRef string        `json:"provider_ref"`
	Amount      money.Money   `json:"amount"`
}

func NewPaymentReceipt(method PaymentMethod, providerRef string, amount money.Money) (PaymentReceipt, error) {
	if !method.IsValid() {
		return PaymentReceipt{}, domain.NewValidation("INVALID_RECEIPT", "unknown payment method %q", method)
	}
	if strings.TrimSpace(providerRef) == "" {
		return PaymentReceipt{}, domain.NewValidation("INVALID_RECEIPT", "provider reference is required")
	}
	return PaymentReceipt{Method: method, ProviderRef: providerRef, Amount: amount}, nil
}

// ShippingAddress is the delivery destination captured during checkout.
type ShippingAddress struct {
	RecipientName string `json:"recipient_name"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	Phone         string `json:"phone"`
}

// Validate checks that every field is present.
func (a ShippingAddress) Validate() error {
	fields := map[string]string{
		"recipient name": a.RecipientName,
		"street":         a.Street,
		"city":           a.City,
		"state":          a.State,
		"zip code":       a.ZipCode,
		"phone":          a.Phone,
	}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return domain.NewValidation("INVALID_ADDRESS", "%s is required", name)
		}
	}
	return nil
}

// ContactDetails is how the store reaches the customer about this purchase.
type ContactDetails struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (c ContactDetails) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return domain.NewValidation("INVALID_CONTACT", "email is required")
	}
	if !strings.Contains(c.Email, "@") {
		return domain.NewValidation("INVALID_CONTACT", "invalid email format: %q", c.Email)
	}
	if strings.TrimSpace(c.Phone) == "" {
		return domain.NewValidation("INVALID_CONTACT", "phone is required")
	}
	return nil
}
