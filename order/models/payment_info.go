package models

import (
	"strings"

	checkout "github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/pkg/domain"
)

// PaymentStatus is the state of the payment inside an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusApproved PaymentStatus = "APPROVED"
	PaymentStatusRejected PaymentStatus = "REJECTED"
)

// PaymentInfo tracks the payment attached to an order. Approve and Reject
// are one-shot transitions from Pending; Approve is idempotent once
// approved.
type PaymentInfo struct {
	Method          checkout.PaymentMethod `json:"method"`
	ProviderRef     string                 `json:"provider_ref,omitempty"`
	Status          PaymentStatus          `json:"status"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
}

func NewPaymentInfo(method checkout.PaymentMethod) (PaymentInfo, error) {
	if !method.IsValid() {
		return PaymentInfo{}, domain.NewValidation("INVALID_PAYMENT", "unknown payment method %q", method)
	}
	return PaymentInfo{Method: method, Status: PaymentStatusPending}, nil
}

// Approve records the provider reference and marks the payment approved.
// Calling it again once approved is a no-op.
func (p *PaymentInfo) Approve(providerRef string) error {
	if p.Status == PaymentStatusApproved {
		return nil
	}
	if p.Status != PaymentStatusPending {
		return domain.NewInvariant("INVALID_PAYMENT_TRANSITION", "cannot approve payment in status %s", p.Status)
	}
	if strings.TrimSpace(providerRef) == "" {
		return domain.NewValidation("INVALID_PAYMENT", "provider reference is required")
	}
	p.ProviderRef = providerRef
	p.Status = PaymentStatusApproved
	return nil
}

// Reject marks the payment rejected with the provider's reason.
func (p *PaymentInfo) Reject(reason string) error {
	if p.Status != PaymentStatusPending {
		return domain.NewInvariant("INVALID_PAYMENT_TRANSITION", "cannot reject payment in status %s", p.Status)
	}
	if strings.TrimSpace(reason) == "" {
		return domain.NewValidation("INVALID_PAYMENT", "rejection reason is required")
	}
	p.RejectionReason = reason
	p.Status = PaymentStatusRejected
	return nil
}

func (p PaymentInfo) IsPending() bool  { return p.Status == PaymentStatusPending }
func (p PaymentInfo) IsApproved() bool { return p.Status == PaymentStatusApproved }
func (p PaymentInfo) IsRejected() bool { return p.Status == PaymentStatusRejected }
