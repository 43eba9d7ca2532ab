package models

import (
	"time"

	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

// CartState is the lifecycle state of a shopping cart.
type CartState string

const (
	CartStateActive     CartState = "ACTIVE"
	CartStateInCheckout CartState = "IN_CHECKOUT"
	CartStateAbandoned  CartState = "ABANDONED"
)

// IsTerminal reports whether no further transitions are possible.
func (s CartState) IsTerminal() bool { return s == CartStateAbandoned }

func (s CartState) String() string { return string(s) }

// ProductRef is the slice of product data the cart needs to build a line.
type ProductRef struct {
	ProductID domain.ProductID `json:"product_id"`
	Name      string           `json:"name"`
	UnitPrice money.Money      `json:"unit_price"`
}

// CartItem is a line within the cart. Identity is the product id: one line
// per product, repeat adds accumulate quantity.
type CartItem struct {
	ProductID   domain.ProductID `json:"product_id"`
	ProductName string           `json:"product_name"`
	UnitPrice   money.Money      `json:"unit_price"`
	Quantity    int              `json:"quantity"`
}

// LineTotal is unit price times quantity.
func (i CartItem) LineTotal() (money.Money, error) {
	return i.UnitPrice.Multiply(i.Quantity)
}

// Cart is the aggregate root for a customer's shopping session. All
// mutation goes through its methods; items are never modified from outside.
// Instances are owned by a single caller at a time, serialized by the
// service layer per cart id.
type Cart struct {
	ID         domain.CartID     `json:"id"`
	CustomerID domain.CustomerID `json:"customer_id"`
	State      CartState         `json:"state"`
	Items      []CartItem        `json:"items"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	recorder domain.Recorder
}

// NewCart creates an empty Active cart for a customer.
func NewCart(customerID domain.CustomerID) (*Cart, error) {
	if customerID.IsNil() {
		return nil, domain.NewValidation("INVALID_CUSTOMER", "customer id is required")
	}
	now := time.Now()
	return &Cart{
		ID:         domain.NewCartID(),
		CustomerID: customerID,
		State:      CartStateActive,
		Items:      []CartItem{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// AddItem upserts a line for the product, summing quantities on repeat adds.
// Only allowed while the cart is Active.
func (c *Cart) AddItem(product ProductRef, qty int) error {
	if err := c.requireState(CartStateActive, "AddItem"); err != nil {
		return err
	}
	if product.ProductID.IsNil() || product.Name == "" {
		return domain.NewValidation("INVALID_PRODUCT", "product reference is incomplete")
	}
	if qty <= 0 {
		return domain.NewValidation("INVALID_QUANTITY", "quantity must be greater than zero, got %d", qty)
	}

	if i := c.findItem(product.ProductID); i >= 0 {
		c.Items[i].Quantity += qty
	} else {
		c.Items = append(c.Items, CartItem{
			ProductID:   product.ProductID,
			ProductName: product.Name,
			UnitPrice:   product.UnitPrice,
			Quantity:    qty,
		})
	}
	c.touch()
	c.recorder.Record(NewItemAddedToCart(c.ID, product.ProductID, product.Name, qty))
	return nil
}

// UpdateQty replaces the quantity of an existing line.
func (c *Cart) UpdateQty(productID domain.ProductID, qty int) error {
	if err := c.requireState(CartStateActive, "UpdateQty"); err != nil {
		return err
	}
	if qty <= 0 {
		return domain.NewValidation("INVALID_QUANTITY", "quantity must be greater than zero, got %d", qty)
	}
	i := c.findItem(productID)
	if i < 0 {
		return domain.NewValidation("ITEM_NOT_FOUND", "product %s not in cart", productID)
	}
	c.Items[i].Quantity = qty
	c.touch()
	return nil
}

// RemoveItem deletes a line from the cart.
func (c *Cart) RemoveItem(productID domain.ProductID) error {
	if err := c.requireState(CartStateActive, "RemoveItem"); err != nil {
		return err
	}
	i := c.findItem(productID)
	if i < 0 {
		return domain.NewValidation("ITEM_NOT_FOUND", "product %s not in cart", productID)
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.touch()
	c.recorder.Record(NewItemRemovedFromCart(c.ID, productID))
	return nil
}

// Clear removes every line while the cart is still Active.
func (c *Cart) Clear() error {
	if err := c.requireState(CartStateActive, "Clear"); err != nil {
		return err
	}
	c.Items = c.Items[:0]
	c.touch()
	return nil
}

// StartCheckout freezes the cart for the checkout process. The cart must be
// Active and non-empty.
func (c *Cart) StartCheckout() error {
	if err := c.requireState(CartStateActive, "StartCheckout"); err != nil {
		return err
	}
	if len(c.Items) == 0 {
		return domain.NewInvariant("EMPTY_CART", "cannot start checkout with an empty cart")
	}
	subtotal, err := c.Subtotal()
	if err != nil {
		return err
	}
	c.State = CartStateInCheckout
	c.touch()
	c.recorder.Record(NewCartConfirmedForCheckout(c.ID, c.CustomerID, c.TotalItems(), subtotal))
	return nil
}

// CompleteCheckout retires the cart after the purchase went through.
func (c *Cart) CompleteCheckout() error {
	if err := c.requireState(CartStateInCheckout, "CompleteCheckout"); err != nil {
		return err
	}
	c.State = CartStateAbandoned
	c.touch()
	return nil
}

// Abandon retires the cart from any non-terminal state.
func (c *Cart) Abandon() error {
	if c.State == CartStateAbandoned {
		return domain.NewInvariant("ALREADY_ABANDONED", "cart is already abandoned")
	}
	c.State = CartStateAbandoned
	c.touch()
	return nil
}

// Subtotal sums unit price times quantity across all lines. An empty cart
// short-circuits to zero pesos.
func (c *Cart) Subtotal() (money.Money, error) {
	if len(c.Items) == 0 {
		return money.Pesos(0), nil
	}
	total, err := c.Items[0].LineTotal()
	if err != nil {
		return money.Money{}, err
	}
	for _, item := range c.Items[1:] {
		line, err := item.LineTotal()
		if err != nil {
			return money.Money{}, err
		}
		total, err = total.Add(line)
		if err != nil {
			return money.Money{}, err
		}
	}
	return total, nil
}

// TotalItems is the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// DistinctProducts is the number of lines in the cart.
func (c *Cart) DistinctProducts() int { return len(c.Items) }

// ContainsProduct reports whether the cart has a line for the product.
func (c *Cart) ContainsProduct(productID domain.ProductID) bool {
	return c.findItem(productID) >= 0
}

func (c *Cart) IsEmpty() bool      { return len(c.Items) == 0 }
func (c *Cart) IsActive() bool     { return c.State == CartStateActive }
func (c *Cart) IsInCheckout() bool { return c.State == CartStateInCheckout }
func (c *Cart) IsAbandoned() bool  { return c.State == CartStateAbandoned }

// PullEvents drains the accumulated domain events. Single-writer only, like
// every other mutation on the aggregate.
func (c *Cart) PullEvents() []domain.Event { return c.recorder.PullEvents() }

func (c *Cart) findItem(productID domain.ProductID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) requireState(required CartState, op string) error {
	if c.State != required {
		return domain.NewInvariant("INVALID_STATE_TRANSITION",
			"operation %q not allowed in state %s, required state: %s", op, c.State, required)
	}
	return nil
}

func (c *Cart) touch() { c.UpdatedAt = time.Now() }
