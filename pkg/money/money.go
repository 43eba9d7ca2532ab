// Package money provides the currency-safe monetary value object shared by
// every aggregate in the order pipeline.
package money

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Herzon-Palma/Coders/pkg/domain"
)

// Money is an immutable amount in a single currency. Amounts are stored at
// two decimal places, rounded half-up, and are never negative. Every
// operation returns a new value.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// New validates and normalizes a monetary value. The currency is uppercased
// and the amount rounded to two decimal places.
func New(amount decimal.Decimal, currency string) (Money, error) {
	if strings.TrimSpace(currency) == "" {
		return Money{}, domain.NewValidation("INVALID_MONEY", "currency cannot be empty")
	}
	if amount.IsNegative() {
		return Money{}, domain.NewValidation("INVALID_MONEY", "amount cannot be negative")
	}
	return Money{
		amount:   amount.Round(2),
		currency: strings.ToUpper(strings.TrimSpace(currency)),
	}, nil
}

// NewFromFloat is a convenience constructor for literal amounts.
func NewFromFloat(amount float64, currency string) (Money, error) {
	return New(decimal.NewFromFloat(amount), currency)
}

// MustParse builds a Money from a decimal string and currency, panicking on
// invalid input. Intended for constants and tests.
func MustParse(amount, currency string) Money {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		panic(err)
	}
	m, err := New(d, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns the zero amount in the given currency.
func Zero(currency string) Money {
	return Money{amount: decimal.Zero, currency: strings.ToUpper(strings.TrimSpace(currency))}
}

// Pesos builds an MXN amount, the store's home currency.
func Pesos(amount float64) Money {
	m, _ := NewFromFloat(amount, "MXN")
	return m
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

// IsZero reports whether the amount is numerically zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// Add returns m + other. Fails on differing currencies.
func (m Money) Add(other Money) (Money, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns m - other. Fails on differing currencies or if the result
// would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, domain.NewInvariant("NEGATIVE_RESULT", "subtraction would result in a negative amount")
	}
	return Money{amount: result, currency: m.currency}, nil
}

// Multiply returns m * quantity for a non-negative integer quantity.
func (m Money) Multiply(quantity int) (Money, error) {
	if quantity < 0 {
		return Money{}, domain.NewValidation("INVALID_MONEY", "cannot multiply by negative quantity %d", quantity)
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))), currency: m.currency}, nil
}

// GreaterThan reports m > other. Fails on differing currencies.
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// GreaterOrEqual reports m >= other. Fails on differing currencies.
func (m Money) GreaterOrEqual(other Money) (bool, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThanOrEqual(other.amount), nil
}

// LessThan reports m < other. Fails on differing currencies.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// Equals compares amount numerically (MXN 15.00 == MXN 15.0) and currency.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.currency + " " + m.amount.StringFixed(2)
}

func (m Money) requireSameCurrency(other Money) error {
	if m.currency != other.currency {
		return domain.NewInvariant("CURRENCY_MISMATCH",
			"cannot operate on different currencies: %s vs %s", m.currency, other.currency)
	}
	return nil
}

type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.StringFixed(2), Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return err
	}
	parsed, err := New(d, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
