package services

import (
	"context"
	"testing"

	"github.com/stripe/stripe-go/v80"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	checkout "github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

func stripePolicy(create func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)) *StripePaymentPolicy {
	return &StripePaymentPolicy{logger: zap.NewNop(), createIntent: create}
}

func TestStripeCharge_Succeeded(t *testing.T) {
	policy := stripePolicy(func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		assert.Equal(t, int64(1500000), *params.Amount)
		assert.Equal(t, "MXN", *params.Currency)
		return &stripe.PaymentIntent{
			ID:     "pi_123",
			Amount: *params.Amount,
			Status: stripe.PaymentIntentStatusSucceeded,
		}, nil
	})

	receipt, err := policy.Charge(context.Background(), money.Pesos(15000), checkout.PaymentMethodCard)
	require.NoError(t, err)

	assert.Equal(t, "pi_123", receipt.ProviderRef)
	assert.True(t, receipt.Amount.Equals(money.Pesos(15000)))
}

func TestStripeCharge_CardDeclineIsRejection(t *testing.T) {
	policy := stripePolicy(func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		return nil, &stripe.Error{
			Type:        stripe.ErrorTypeCard,
			Msg:         "Your card has insufficient funds.",
			DeclineCode: stripe.DeclineCodeInsufficientFunds,
		}
	})

	_, err := policy.Charge(context.Background(), money.Pesos(100), checkout.PaymentMethodCard)
	require.Error(t, err)

	assert.True(t, domain.IsPolicy(err))
	assert.Equal(t, "PAYMENT_REJECTED", domain.CodeOf(err))
	assert.Contains(t, err.Error(), "insufficient funds")
}

func TestStripeCharge_APIErrorIsNotRejection(t *testing.T) {
	policy := stripePolicy(func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		return nil, &stripe.Error{Type: stripe.ErrorTypeAPI, Msg: "gateway timeout"}
	})

	_, err := policy.Charge(context.Background(), money.Pesos(100), checkout.PaymentMethodCard)
	require.Error(t, err)
	assert.False(t, domain.IsPolicy(err))
}

func TestStripeCharge_IncompleteIntentIsRejection(t *testing.T) {
	policy := stripePolicy(func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		return &stripe.PaymentIntent{ID: "pi_456", Status: stripe.PaymentIntentStatusRequiresAction}, nil
	})

	_, err := policy.Charge(context.Background(), money.Pesos(100), checkout.PaymentMethodCard)
	require.Error(t, err)
	assert.True(t, domain.IsPolicy(err))
}

func TestStripeCharge_RefusesNonCardMethods(t *testing.T) {
	policy := stripePolicy(nil)

	_, err := policy.Charge(context.Background(), money.Pesos(100), checkout.PaymentMethodTransfer)
	require.Error(t, err)
	assert.False(t, domain.IsPolicy(err))
}

func TestOfflineCharge_ApprovesTransfer(t *testing.T) {
	policy := NewOfflinePaymentPolicy(zap.NewNop())

	receipt, err := policy.Charge(context.Background(), money.Pesos(500), checkout.PaymentMethodTransfer)
	require.NoError(t, err)

	assert.Contains(t, receipt.ProviderRef, "offline_")
	assert.Equal(t, checkout.PaymentMethodTransfer, receipt.Method)
}

func TestRouting_DispatchesByMethod(t *testing.T) {
	card := stripePolicy(func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		return &stripe.PaymentIntent{ID: "pi_card", Status: stripe.PaymentIntentStatusSucceeded}, nil
	})
	routing := NewRoutingPaymentPolicy(card, NewOfflinePaymentPolicy(zap.NewNop()))

	receipt, err := routing.Charge(context.Background(), money.Pesos(100), checkout.PaymentMethodCard)
	require.NoError(t, err)
	assert.Equal(t, "pi_card", receipt.ProviderRef)

	receipt, err = routing.Charge(context.Background(), money.Pesos(100), checkout.PaymentMethodCashOnDelivery)
	require.NoError(t, err)
	assert.Contains(t, receipt.ProviderRef, "offline_")

	_, err = routing.Charge(context.Background(), money.Pesos(100), checkout.PaymentMethod("CRYPTO"))
	assert.Error(t, err)
}
