package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkout "github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/order/models"
	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

func testItems() []models.OrderItem {
	return []models.OrderItem{
		{ProductID: domain.NewProductID(), ProductName: "Laptop", UnitPrice: money.Pesos(15000), Quantity: 1},
		{ProductID: domain.NewProductID(), ProductName: "Mouse", UnitPrice: money.Pesos(500), Quantity: 2},
	}
}

func testAddress() checkout.ShippingAddress {
	return checkout.ShippingAddress{
		RecipientName: "Ana Torres",
		Street:        "Av. San Rafael Atlixco 186",
		City:          "Iztapalapa",
		State:         "CDMX",
		ZipCode:       "09340",
		Phone:         "5512345678",
	}
}

func newPendingOrder(t *testing.T) *models.Order {
	t.Helper()
	order, err := models.NewOrder(domain.NewCustomerID(), testItems(), testAddress(),
		checkout.PaymentMethodCard, money.Pesos(16000), money.Pesos(1000))
	require.NoError(t, err)
	return order
}

func orderAt(t *testing.T, status models.OrderStatus) *models.Order {
	t.Helper()
	order := newPendingOrder(t)
	steps := []func() error{
		order.Confirm,
		func() error { return order.MarkPaid("ch_prod_042") },
		order.MarkInPreparation,
		func() error { return order.MarkShipped("TRK-001", "Estafeta") },
		order.MarkDelivered,
	}
	for _, step := range steps {
		if order.Status == status {
			return order
		}
		require.NoError(t, step())
	}
	require.Equal(t, status, order.Status)
	return order
}

func TestNewOrder(t *testing.T) {
	order := newPendingOrder(t)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equals(money.Pesos(15000)))
	assert.True(t, order.Payment.IsPending())
	assert.Empty(t, order.History, "history is empty until the first transition")
	assert.Equal(t, 3, order.TotalItems())

	events := order.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventOrderCreated, events[0].EventName())
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := models.NewOrder(domain.NewCustomerID(), nil, testAddress(),
		checkout.PaymentMethodCard, money.Pesos(100), money.Pesos(0))
	assert.Equal(t, "INVALID_ORDER", domain.CodeOf(err))

	_, err = models.NewOrder(domain.CustomerID{}, testItems(), testAddress(),
		checkout.PaymentMethodCard, money.Pesos(100), money.Pesos(0))
	assert.Equal(t, "INVALID_ORDER", domain.CodeOf(err))

	_, err = models.NewOrder(domain.NewCustomerID(), testItems(), checkout.ShippingAddress{},
		checkout.PaymentMethodCard, money.Pesos(100), money.Pesos(0))
	assert.Equal(t, "INVALID_ADDRESS", domain.CodeOf(err))

	// discount bigger than subtotal cannot produce a valid total
	_, err = models.NewOrder(domain.NewCustomerID(), testItems(), testAddress(),
		checkout.PaymentMethodCard, money.Pesos(100), money.Pesos(200))
	assert.Equal(t, "NEGATIVE_RESULT", domain.CodeOf(err))
}

func TestHappyPath_AuditTrail(t *testing.T) {
	order := orderAt(t, models.OrderStatusDelivered)

	require.Len(t, order.History, 5)
	assert.Equal(t, models.OrderStatusPending, order.History[0].From)
	assert.Equal(t, models.OrderStatusConfirmed, order.History[0].To)
	assert.Equal(t, models.OrderStatusShipped, order.History[4].From)
	assert.Equal(t, models.OrderStatusDelivered, order.History[4].To)
	for _, change := range order.History {
		assert.False(t, change.ChangedAt.IsZero())
		assert.NotEmpty(t, change.Note)
	}
}

func TestMarkPaid(t *testing.T) {
	order := orderAt(t, models.OrderStatusConfirmed)

	require.NoError(t, order.MarkPaid("ch_prod_042"))
	assert.True(t, order.Payment.IsApproved())
	assert.Equal(t, "ch_prod_042", order.Payment.ProviderRef)

	// wrong state
	err := order.MarkPaid("ch_prod_043")
	assert.Equal(t, "INVALID_STATE_TRANSITION", domain.CodeOf(err))
}

func TestMarkPaid_RequiresProviderRef(t *testing.T) {
	order := orderAt(t, models.OrderStatusConfirmed)
	err := order.MarkPaid("")
	assert.Equal(t, "INVALID_PAYMENT", domain.CodeOf(err))
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
}

func TestMarkShipped(t *testing.T) {
	order := orderAt(t, models.OrderStatusInPreparation)
	order.PullEvents()

	require.NoError(t, order.MarkShipped("TRK-001", "Estafeta"))
	require.NotNil(t, order.Shipment)
	assert.Equal(t, "TRK-001", order.Shipment.TrackingNumber)

	events := order.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventOrderShipped, events[0].EventName())
}

func TestMarkShipped_Validation(t *testing.T) {
	order := orderAt(t, models.OrderStatusInPreparation)
	err := order.MarkShipped("", "Estafeta")
	assert.Equal(t, "INVALID_SHIPMENT", domain.CodeOf(err))
	assert.Equal(t, models.OrderStatusInPreparation, order.Status)

	err = order.MarkShipped("TRK-001", "")
	assert.Equal(t, "INVALID_SHIPMENT", domain.CodeOf(err))
}

func TestMarkDelivered(t *testing.T) {
	order := orderAt(t, models.OrderStatusShipped)
	order.PullEvents()

	require.NoError(t, order.MarkDelivered())
	assert.True(t, order.IsDelivered())
	assert.True(t, order.Status.IsTerminal())

	events := order.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventOrderDelivered, events[0].EventName())
}

func TestCancel_FromPending(t *testing.T) {
	order := newPendingOrder(t)
	order.PullEvents()

	require.NoError(t, order.Cancel("customer request"))
	assert.True(t, order.IsCancelled())
	assert.Equal(t, "customer request", order.CancellationReason)

	events := order.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventOrderCancelled, events[0].EventName())
}

func TestCancel_FromConfirmedWithPendingPayment(t *testing.T) {
	order := orderAt(t, models.OrderStatusConfirmed)
	require.NoError(t, order.Cancel("customer request"))
	assert.True(t, order.IsCancelled())
}

func TestCancel_ForbiddenAfterPayment(t *testing.T) {
	for _, status := range []models.OrderStatus{
		models.OrderStatusPaid,
		models.OrderStatusInPreparation,
		models.OrderStatusShipped,
	} {
		order := orderAt(t, status)
		err := order.Cancel("too late")
		assert.Equal(t, "CANNOT_CANCEL", domain.CodeOf(err), "status %s", status)
		assert.Equal(t, status, order.Status)
	}

	delivered := orderAt(t, models.OrderStatusDelivered)
	err := delivered.Cancel("too late")
	assert.Equal(t, "CANNOT_CANCEL", domain.CodeOf(err))

	cancelled := newPendingOrder(t)
	require.NoError(t, cancelled.Cancel("first"))
	err = cancelled.Cancel("second")
	assert.Equal(t, "ALREADY_CANCELLED", domain.CodeOf(err))
}

func TestCancel_RequiresReason(t *testing.T) {
	order := newPendingOrder(t)
	err := order.Cancel("  ")
	assert.Equal(t, "INVALID_REASON", domain.CodeOf(err))
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestPaymentInfo_ApproveIdempotent(t *testing.T) {
	payment, err := models.NewPaymentInfo(checkout.PaymentMethodCard)
	require.NoError(t, err)

	require.NoError(t, payment.Approve("ref-1"))
	require.NoError(t, payment.Approve("ref-2"), "second approve is a no-op")
	assert.Equal(t, "ref-1", payment.ProviderRef)

	err = payment.Reject("late rejection")
	assert.Equal(t, "INVALID_PAYMENT_TRANSITION", domain.CodeOf(err))
}

func TestPaymentInfo_Reject(t *testing.T) {
	payment, err := models.NewPaymentInfo(checkout.PaymentMethodTransfer)
	require.NoError(t, err)

	require.NoError(t, payment.Reject("insufficient funds"))
	assert.True(t, payment.IsRejected())
	assert.Equal(t, "insufficient funds", payment.RejectionReason)

	err = payment.Approve("ref-1")
	assert.Equal(t, "INVALID_PAYMENT_TRANSITION", domain.CodeOf(err))
}
