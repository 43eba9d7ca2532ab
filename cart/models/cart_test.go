package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Herzon-Palma/Coders/cart/models"
	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

func newTestCart(t *testing.T) *models.Cart {
	t.Helper()
	cart, err := models.NewCart(domain.NewCustomerID())
	require.NoError(t, err)
	return cart
}

func productRef(name string, price float64) models.ProductRef {
	return models.ProductRef{
		ProductID: domain.NewProductID(),
		Name:      name,
		UnitPrice: money.Pesos(price),
	}
}

func TestNewCart_RequiresCustomer(t *testing.T) {
	_, err := models.NewCart(domain.CustomerID{})
	assert.Equal(t, "INVALID_CUSTOMER", domain.CodeOf(err))
}

func TestAddItem_UpsertsByProduct(t *testing.T) {
	cart := newTestCart(t)
	laptop := productRef("Laptop", 15000)

	require.NoError(t, cart.AddItem(laptop, 1))
	require.NoError(t, cart.AddItem(laptop, 2))

	assert.Equal(t, 1, cart.DistinctProducts())
	assert.Equal(t, 3, cart.TotalItems())
	assert.True(t, cart.ContainsProduct(laptop.ProductID))
}

func TestAddItem_Validation(t *testing.T) {
	cart := newTestCart(t)

	err := cart.AddItem(productRef("Mouse", 500), 0)
	assert.Equal(t, "INVALID_QUANTITY", domain.CodeOf(err))

	err = cart.AddItem(models.ProductRef{}, 1)
	assert.Equal(t, "INVALID_PRODUCT", domain.CodeOf(err))
}

func TestSubtotalAndTotalItems(t *testing.T) {
	cart := newTestCart(t)
	require.NoError(t, cart.AddItem(productRef("Laptop", 15000), 1))
	require.NoError(t, cart.AddItem(productRef("Mouse", 500), 2))

	subtotal, err := cart.Subtotal()
	require.NoError(t, err)
	assert.True(t, subtotal.Equals(money.Pesos(16000)))
	assert.Equal(t, 3, cart.TotalItems())
}

func TestSubtotal_EmptyCartIsZero(t *testing.T) {
	cart := newTestCart(t)
	subtotal, err := cart.Subtotal()
	require.NoError(t, err)
	assert.True(t, subtotal.IsZero())
}

func TestUpdateQty(t *testing.T) {
	cart := newTestCart(t)
	mouse := productRef("Mouse", 500)
	require.NoError(t, cart.AddItem(mouse, 2))

	require.NoError(t, cart.UpdateQty(mouse.ProductID, 5))
	assert.Equal(t, 5, cart.TotalItems())

	err := cart.UpdateQty(domain.NewProductID(), 1)
	assert.Equal(t, "ITEM_NOT_FOUND", domain.CodeOf(err))

	err = cart.UpdateQty(mouse.ProductID, 0)
	assert.Equal(t, "INVALID_QUANTITY", domain.CodeOf(err))
}

func TestRemoveItemAndClear(t *testing.T) {
	cart := newTestCart(t)
	mouse := productRef("Mouse", 500)
	require.NoError(t, cart.AddItem(mouse, 1))
	require.NoError(t, cart.AddItem(productRef("Laptop", 15000), 1))

	require.NoError(t, cart.RemoveItem(mouse.ProductID))
	assert.False(t, cart.ContainsProduct(mouse.ProductID))
	assert.Equal(t, 1, cart.DistinctProducts())

	err := cart.RemoveItem(mouse.ProductID)
	assert.Equal(t, "ITEM_NOT_FOUND", domain.CodeOf(err))

	require.NoError(t, cart.Clear())
	assert.True(t, cart.IsEmpty())
}

func TestStartCheckout_EmptyCartFails(t *testing.T) {
	cart := newTestCart(t)
	err := cart.StartCheckout()
	assert.Equal(t, "EMPTY_CART", domain.CodeOf(err))
	assert.True(t, domain.IsInvariant(err))
	assert.True(t, cart.IsActive())
}

func TestStartCheckout_FreezesCartAndEmitsEvent(t *testing.T) {
	cart := newTestCart(t)
	require.NoError(t, cart.AddItem(productRef("Laptop", 15000), 1))
	cart.PullEvents() // drop the add event

	require.NoError(t, cart.StartCheckout())
	assert.True(t, cart.IsInCheckout())

	events := cart.PullEvents()
	require.Len(t, events, 1)
	confirmed, ok := events[0].(models.CartConfirmedForCheckout)
	require.True(t, ok)
	assert.Equal(t, cart.ID, confirmed.CartID)
	assert.Equal(t, 1, confirmed.TotalItems)
	assert.True(t, confirmed.Subtotal.Equals(money.Pesos(15000)))

	// frozen: item operations must now fail
	err := cart.AddItem(productRef("Mouse", 500), 1)
	assert.Equal(t, "INVALID_STATE_TRANSITION", domain.CodeOf(err))
}

func TestCompleteCheckout(t *testing.T) {
	cart := newTestCart(t)
	require.NoError(t, cart.AddItem(productRef("Laptop", 15000), 1))

	err := cart.CompleteCheckout()
	assert.Equal(t, "INVALID_STATE_TRANSITION", domain.CodeOf(err))

	require.NoError(t, cart.StartCheckout())
	require.NoError(t, cart.CompleteCheckout())
	assert.True(t, cart.IsAbandoned())
	assert.True(t, cart.State.IsTerminal())
}

func TestAbandon(t *testing.T) {
	cart := newTestCart(t)
	require.NoError(t, cart.Abandon())
	assert.True(t, cart.IsAbandoned())

	err := cart.Abandon()
	assert.Equal(t, "ALREADY_ABANDONED", domain.CodeOf(err))
}

func TestAbandon_FromInCheckout(t *testing.T) {
	cart := newTestCart(t)
	require.NoError(t, cart.AddItem(productRef("Laptop", 15000), 1))
	require.NoError(t, cart.StartCheckout())

	require.NoError(t, cart.Abandon())
	assert.True(t, cart.IsAbandoned())
}

func TestPullEvents_DrainsQueue(t *testing.T) {
	cart := newTestCart(t)
	require.NoError(t, cart.AddItem(productRef("Mouse", 500), 1))

	first := cart.PullEvents()
	assert.Len(t, first, 1)
	assert.Empty(t, cart.PullEvents())
}
