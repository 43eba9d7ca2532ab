package domain

import "github.com/google/uuid"

// Typed identifiers keep cart, checkout, order, customer and product ids from
// being mixed up at call sites. They marshal as plain UUID strings.

type CartID uuid.UUID

func NewCartID() CartID { return CartID(uuid.New()) }

func ParseCartID(s string) (CartID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return CartID{}, NewValidation("INVALID_CART_ID", "not a valid cart id: %q", s)
	}
	return CartID(u), nil
}

func (id CartID) String() string                { return uuid.UUID(id).String() }
func (id CartID) IsNil() bool                   { return uuid.UUID(id) == uuid.Nil }
func (id CartID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id *CartID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }

type CheckoutID uuid.UUID

func NewCheckoutID() CheckoutID { return CheckoutID(uuid.New()) }

func ParseCheckoutID(s string) (CheckoutID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return CheckoutID{}, NewValidation("INVALID_CHECKOUT_ID", "not a valid checkout id: %q", s)
	}
	return CheckoutID(u), nil
}

func (id CheckoutID) String() string                { return uuid.UUID(id).String() }
func (id CheckoutID) IsNil() bool                   { return uuid.UUID(id) == uuid.Nil }
func (id CheckoutID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id *CheckoutID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }

type OrderID uuid.UUID

func NewOrderID() OrderID { return OrderID(uuid.New()) }

func ParseOrderID(s string) (OrderID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return OrderID{}, NewValidation("INVALID_ORDER_ID", "not a valid order id: %q", s)
	}
	return OrderID(u), nil
}

func (id OrderID) String() string                { return uuid.UUID(id).String() }
func (id OrderID) IsNil() bool                   { return uuid.UUID(id) == uuid.Nil }
func (id OrderID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id *OrderID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }

type CustomerID uuid.UUID

func NewCustomerID() CustomerID { return CustomerID(uuid.New()) }

func ParseCustomerID(s string) (CustomerID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return CustomerID{}, NewValidation("INVALID_CUSTOMER_ID", "not a valid customer id: %q", s)
	}
	return CustomerID(u), nil
}

func (id CustomerID) String() string                { return uuid.UUID(id).String() }
func (id CustomerID) IsNil() bool                   { return uuid.UUID(id) == uuid.Nil }
func (id CustomerID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id *CustomerID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }

type ProductID uuid.UUID

func NewProductID() ProductID { return ProductID(uuid.New()) }

func ParseProductID(s string) (ProductID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ProductID{}, NewValidation("INVALID_PRODUCT_ID", "not a valid product id: %q", s)
	}
	return ProductID(u), nil
}

func (id ProductID) String() string                { return uuid.UUID(id).String() }
func (id ProductID) IsNil() bool                   { return uuid.UUID(id) == uuid.Nil }
func (id ProductID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id *ProductID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }

func unmarshalID(dst *uuid.UUID, b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*dst = u
	return nil
}
