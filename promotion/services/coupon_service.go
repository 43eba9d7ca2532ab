package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	checkout "github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/pkg/awsx"
	"github.com/Herzon-Palma/Coders/pkg/money"
	"github.com/Herzon-Palma/Coders/promotion/models"
	"github.com/Herzon-Palma/Coders/promotion/repository"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// CouponService defines the interface for coupon management.
type CouponService interface {
	CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError)
	GetCoupon(ctx context.Context, code string) (*models.Coupon, *ServiceError)
	DeactivateCoupon(ctx context.Context, code string) *ServiceError
	ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, *ServiceError)
}

type couponServiceImpl struct {
	repo   repository.CouponRepository
	logger *zap.Logger
}

// NewCouponService creates a new CouponService.
func NewCouponService(repo repository.CouponRepository, logger *zap.Logger) CouponService {
	return &couponServiceImpl{repo: repo, logger: logger}
}

// CreateCoupon creates a new coupon.
func (s *couponServiceImpl) CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError) {
	if req.ExpiresAt.Before(time.Now()) {
		return nil, &ServiceError{StatusCode: 400, Message: "Expiry date must be in the future"}
	}

	raw, err := decimal.NewFromString(req.Value)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid coupon value"}
	}
	value, err := money.New(raw, req.Currency)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid coupon value"}
	}
	if req.Type == models.CouponTypePercentage && value.Amount().GreaterThan(decimal.NewFromInt(100)) {
		return nil, &ServiceError{StatusCode: 400, Message: "Percentage discount cannot exceed 100"}
	}

	minOrder := req.MinOrderValue
	if minOrder == "" {
		minOrder = "0.00"
	}

	coupon := &models.Coupon{
		Code:          strings.ToUpper(req.Code),
		Type:          req.Type,
		Value:         value.Amount().StringFixed(2),
		Currency:      value.Currency(),
		MinOrderValue: minOrder,
		UsageLimit:    req.UsageLimit,
		ExpiresAt:     req.ExpiresAt,
		Active:        true,
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "Coupon code already exists"}
		}
		s.logger.Error("Failed to create coupon", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create coupon"}
	}

	s.logger.Info("Coupon created", zap.String("code", coupon.Code), zap.String("type", string(coupon.Type)))
	return coupon, nil
}

// GetCoupon retrieves a coupon by code.
func (s *couponServiceImpl) GetCoupon(ctx context.Context, code string) (*models.Coupon, *ServiceError) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Coupon not found"}
	}
	return coupon, nil
}

// DeactivateCoupon deactivates a coupon by code.
func (s *couponServiceImpl) DeactivateCoupon(ctx context.Context, code string) *ServiceError {
	if err := s.repo.Deactivate(ctx, code); err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Coupon not found"}
		}
		s.logger.Error("Failed to deactivate coupon", zap.String("code", code), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to deactivate coupon"}
	}

	s.logger.Info("Coupon deactivated", zap.String("code", code))
	return nil
}

// ListCoupons returns paginated coupons.
func (s *couponServiceImpl) ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, *ServiceError) {
	coupons, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list coupons", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list coupons"}
	}
	return coupons, total, nil
}

// CouponPolicyAdapter exposes the coupon catalog as the discount port the
// checkout saga consumes. Business rejections come back as policy errors
// so the saga can surface them without failing the checkout; anything else
// is an infrastructure fault.
type CouponPolicyAdapter struct {
	repo        repository.CouponRepository
	snsClient   awsx.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

// NewCouponPolicyAdapter creates the checkout-facing coupon adapter. The
// SNS client may be nil; the coupon_applied notification is best effort.
func NewCouponPolicyAdapter(
	repo repository.CouponRepository,
	snsClient awsx.SNSPublisher,
	snsTopicArn string,
	logger *zap.Logger,
) *CouponPolicyAdapter {
	return &CouponPolicyAdapter{
		repo:        repo,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		logger:      logger,
	}
}

// Apply validates the coupon against the checkout subtotal and returns the
// discount it grants. Each successful application counts against the usage
// limit.
func (a *CouponPolicyAdapter) Apply(ctx context.Context, code checkout.CouponCode, subtotal money.Money) (checkout.Discount, error) {
	coupon, err := a.repo.FindByCode(ctx, code.String())
	if errors.Is(err, repository.ErrCouponNotFound) {
		return checkout.Discount{}, checkout.CouponRejected("coupon %s not found or inactive", code)
	}
	if err != nil {
		return checkout.Discount{}, fmt.Errorf("look up coupon %s: %w", code, err)
	}

	if coupon.IsExpired(time.Now()) {
		return checkout.Discount{}, checkout.CouponRejected("coupon %s has expired", code)
	}
	if coupon.IsExhausted() {
		return checkout.Discount{}, checkout.CouponRejected("coupon %s usage limit reached", code)
	}

	rawMin, err := decimal.NewFromString(coupon.MinOrderValue)
	if err != nil {
		return checkout.Discount{}, fmt.Errorf("decode min order value for coupon %s: %w", code, err)
	}
	minOrder, err := money.New(rawMin, subtotal.Currency())
	if err != nil {
		return checkout.Discount{}, fmt.Errorf("decode min order value for coupon %s: %w", code, err)
	}
	belowMin, err := subtotal.LessThan(minOrder)
	if err != nil {
		return checkout.Discount{}, checkout.CouponRejected("coupon %s is not valid for %s orders", code, subtotal.Currency())
	}
	if belowMin {
		return checkout.Discount{}, checkout.CouponRejected("coupon %s requires a minimum order of %s", code, minOrder)
	}

	amount, err := coupon.DiscountFor(subtotal)
	if err != nil {
		if errors.Is(err, models.ErrUnknownCouponType) {
			return checkout.Discount{}, fmt.Errorf("coupon %s: %w", code, err)
		}
		return checkout.Discount{}, checkout.CouponRejected("coupon %s cannot be applied to this order", code)
	}

	if err := a.repo.IncrementUsedCount(ctx, code.String()); err != nil {
		return checkout.Discount{}, fmt.Errorf("increment usage for coupon %s: %w", code, err)
	}

	a.publishCouponApplied(ctx, coupon, amount, subtotal)

	return checkout.NewDiscount(amount, fmt.Sprintf("Coupon %s", coupon.Code))
}

func (a *CouponPolicyAdapter) publishCouponApplied(ctx context.Context, coupon *models.Coupon, discount, subtotal money.Money) {
	if a.snsClient == nil || a.snsTopicArn == "" {
		return
	}

	event := models.CouponAppliedEvent{
		EventType:      "coupon_applied",
		CouponID:       coupon.ID.String(),
		CouponCode:     coupon.Code,
		CouponType:     string(coupon.Type),
		DiscountAmount: discount.Amount().StringFixed(2),
		Currency:       discount.Currency(),
		Subtotal:       subtotal.Amount().StringFixed(2),
		Timestamp:      time.Now(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		a.logger.Error("Failed to marshal coupon_applied event", zap.Error(err))
		return
	}

	if err := a.snsClient.Publish(ctx, a.snsTopicArn, eventBytes); err != nil {
		a.logger.Error("Failed to publish coupon_applied event", zap.Error(err))
		return
	}

	a.logger.Info("Published coupon_applied event",
		zap.String("coupon_code", coupon.Code),
		zap.String("discount", discount.Amount().StringFixed(2)),
	)
}
