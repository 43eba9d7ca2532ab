package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"go.uber.org/zap"

	checkout "github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

// StripePaymentPolicy charges card payments through Stripe payment
// intents. Card declines surface as payment rejections; transport and
// API faults stay plain errors.
type StripePaymentPolicy struct {
	logger *zap.Logger

	// createIntent is swappable in tests.
	createIntent func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

func NewStripePaymentPolicy(secretKey string, logger *zap.Logger) *StripePaymentPolicy {
	stripe.Key = secretKey
	return &StripePaymentPolicy{
		logger:       logger,
		createIntent: paymentintent.New,
	}
}

func (p *StripePaymentPolicy) Charge(ctx context.Context, amount money.Money, method checkout.PaymentMethod) (checkout.PaymentReceipt, error) {
	if method != checkout.PaymentMethodCard {
		return checkout.PaymentReceipt{}, fmt.Errorf("stripe policy cannot charge method %s", method)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minorUnits(amount)),
		Currency: stripe.String(amount.Currency()),
		Confirm:  stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx

	pi, err := p.createIntent(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			p.logger.Info("Card declined",
				zap.String("decline_code", string(stripeErr.DeclineCode)),
			)
			return checkout.PaymentReceipt{}, checkout.PaymentRejected(declineReason(stripeErr))
		}
		return checkout.PaymentReceipt{}, fmt.Errorf("create payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return checkout.PaymentReceipt{}, checkout.PaymentRejected(fmt.Sprintf("payment not completed (status %s)", pi.Status))
	}

	p.logger.Info("Payment captured",
		zap.String("payment_intent", pi.ID),
		zap.Int64("amount", pi.Amount),
	)
	return checkout.NewPaymentReceipt(method, pi.ID, amount)
}

// declineReason prefers Stripe's human-readable message and falls back to
// the decline code.
func declineReason(stripeErr *stripe.Error) string {
	if stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	if stripeErr.DeclineCode != "" {
		return string(stripeErr.DeclineCode)
	}
	return "card declined"
}

// minorUnits converts a 2-decimal money amount to the integer minor units
// Stripe expects.
func minorUnits(amount money.Money) int64 {
	return amount.Amount().Shift(2).IntPart()
}

// OfflinePaymentPolicy approves transfer and cash-on-delivery checkouts
// without charging anything up front. Collection happens outside the
// purchase flow, so the receipt only carries a reference for later
// reconciliation.
type OfflinePaymentPolicy struct {
	logger *zap.Logger
}

func NewOfflinePaymentPolicy(logger *zap.Logger) *OfflinePaymentPolicy {
	return &OfflinePaymentPolicy{logger: logger}
}

func (p *OfflinePaymentPolicy) Charge(_ context.Context, amount money.Money, method checkout.PaymentMethod) (checkout.PaymentReceipt, error) {
	if method == checkout.PaymentMethodCard {
		return checkout.PaymentReceipt{}, fmt.Errorf("offline policy cannot charge method %s", method)
	}

	ref := fmt.Sprintf("offline_%s", uuid.NewString())
	p.logger.Info("Offline payment registered",
		zap.String("method", string(method)),
		zap.String("reference", ref),
	)
	return checkout.NewPaymentReceipt(method, ref, amount)
}

// RoutingPaymentPolicy dispatches each charge to the policy that handles
// its payment method.
type RoutingPaymentPolicy struct {
	card    checkout.PaymentPolicy
	offline checkout.PaymentPolicy
}

func NewRoutingPaymentPolicy(card, offline checkout.PaymentPolicy) *RoutingPaymentPolicy {
	return &RoutingPaymentPolicy{card: card, offline: offline}
}

func (p *RoutingPaymentPolicy) Charge(ctx context.Context, amount money.Money, method checkout.PaymentMethod) (checkout.PaymentReceipt, error) {
	switch method {
	case checkout.PaymentMethodCard:
		return p.card.Charge(ctx, amount, method)
	case checkout.PaymentMethodTransfer, checkout.PaymentMethodCashOnDelivery:
		return p.offline.Charge(ctx, amount, method)
	default:
		return checkout.PaymentReceipt{}, fmt.Errorf("unsupported payment method %s", method)
	}
}
