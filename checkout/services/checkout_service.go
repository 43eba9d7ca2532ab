package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	cartmodels "github.com/Herzon-Palma/Coders/cart/models"
	cartrepo "github.com/Herzon-Palma/Coders/cart/repository"
	"github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/checkout/repository"
	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/events"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// StockReserver holds and releases stock alongside the checkout's own
// validation verdict. Reservation is optional wiring: a nil reserver
// means validation is a pure check.
type StockReserver interface {
	ReserveLines(ctx context.Context, lines []models.StockLine) error
	ReleaseLines(ctx context.Context, lines []models.StockLine) error
}

// CheckoutService walks a checkout from a confirmed cart to a requested
// order. Each step loads the aggregate, applies one transition, saves,
// and ships the drained events.
type CheckoutService interface {
	StartCheckout(ctx context.Context, cartID domain.CartID) (*models.Checkout, *ServiceError)
	GetCheckout(ctx context.Context, checkoutID domain.CheckoutID) (*models.Checkout, *ServiceError)
	CaptureData(ctx context.Context, checkoutID domain.CheckoutID, address models.ShippingAddress, contact models.ContactDetails) (*models.Checkout, *ServiceError)
	ApplyCoupon(ctx context.Context, checkoutID domain.CheckoutID, code models.CouponCode) (*models.Checkout, *ServiceError)
	ValidateStock(ctx context.Context, checkoutID domain.CheckoutID) (*models.Checkout, *ServiceError)
	Pay(ctx context.Context, checkoutID domain.CheckoutID, method models.PaymentMethod) (*models.Checkout, *ServiceError)
	CreateOrder(ctx context.Context, checkoutID domain.CheckoutID) (domain.OrderID, *ServiceError)
	Cancel(ctx context.Context, checkoutID domain.CheckoutID, reason string) (*models.Checkout, *ServiceError)
}

type checkoutServiceImpl struct {
	checkouts repository.CheckoutRepository
	carts     cartrepo.CartRepository
	stock     models.StockValidationPolicy
	coupons   models.CouponPolicy
	payments  models.PaymentPolicy
	reserver  StockReserver
	publisher events.Publisher
	logger    *zap.Logger
}

// NewCheckoutService wires the saga with its three policy ports. The
// reserver and publisher may be nil.
func NewCheckoutService(
	checkouts repository.CheckoutRepository,
	carts cartrepo.CartRepository,
	stock models.StockValidationPolicy,
	coupons models.CouponPolicy,
	payments models.PaymentPolicy,
	reserver StockReserver,
	publisher events.Publisher,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		checkouts: checkouts,
		carts:     carts,
		stock:     stock,
		coupons:   coupons,
		payments:  payments,
		reserver:  reserver,
		publisher: publisher,
		logger:    logger,
	}
}

// SummaryFromCart freezes a cart into the snapshot a checkout starts
// from. The cart must already be able to produce a subtotal.
func SummaryFromCart(cart *cartmodels.Cart) (models.CheckoutSummary, error) {
	subtotal, err := cart.Subtotal()
	if err != nil {
		return models.CheckoutSummary{}, err
	}

	lines := make([]models.CheckoutLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lineTotal, err := item.LineTotal()
		if err != nil {
			return models.CheckoutSummary{}, err
		}
		lines = append(lines, models.CheckoutLine{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			UnitPrice: item.UnitPrice,
			Qty:       item.Quantity,
			LineTotal: lineTotal,
		})
	}

	return models.CheckoutSummary{
		CartID:     cart.ID,
		CustomerID: cart.CustomerID,
		Items:      lines,
		Subtotal:   subtotal,
	}, nil
}

// StartCheckout confirms the cart, freezes it into a summary, and opens
// the checkout. An already-started checkout for the same cart is returned
// as is so a double tap does not open a second saga.
func (s *checkoutServiceImpl) StartCheckout(ctx context.Context, cartID domain.CartID) (*models.Checkout, *ServiceError) {
	if existing, err := s.checkouts.FindByCartID(ctx, cartID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrCheckoutNotFound) {
		s.logger.Error("Failed to look up checkout by cart", zap.String("cart_id", cartID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to start checkout"}
	}

	cart, err := s.carts.FindByID(ctx, cartID)
	if errors.Is(err, cartrepo.ErrCartNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Cart not found"}
	}
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("cart_id", cartID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to start checkout"}
	}

	if err := cart.StartCheckout(); err != nil {
		return nil, toServiceError(err)
	}

	summary, err := SummaryFromCart(cart)
	if err != nil {
		return nil, toServiceError(err)
	}

	chk, err := models.Start(summary)
	if err != nil {
		return nil, toServiceError(err)
	}

	if err := s.checkouts.Save(ctx, chk); err != nil {
		s.logger.Error("Failed to save checkout", zap.String("checkout_id", chk.ID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to start checkout"}
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart after checkout start", zap.String("cart_id", cartID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to start checkout"}
	}

	s.publishCart(ctx, cart)
	s.publishCheckout(ctx, chk)

	s.logger.Info("Checkout started",
		zap.String("checkout_id", chk.ID.String()),
		zap.String("cart_id", cartID.String()),
	)
	return chk, nil
}

func (s *checkoutServiceImpl) GetCheckout(ctx context.Context, checkoutID domain.CheckoutID) (*models.Checkout, *ServiceError) {
	chk, err := s.checkouts.FindByID(ctx, checkoutID)
	if errors.Is(err, repository.ErrCheckoutNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Checkout not found"}
	}
	if err != nil {
		s.logger.Error("Failed to load checkout", zap.String("checkout_id", checkoutID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load checkout"}
	}
	return chk, nil
}

func (s *checkoutServiceImpl) CaptureData(ctx context.Context, checkoutID domain.CheckoutID, address models.ShippingAddress, contact models.ContactDetails) (*models.Checkout, *ServiceError) {
	return s.mutate(ctx, checkoutID, func(chk *models.Checkout) error {
		return chk.CaptureData(address, contact)
	})
}

func (s *checkoutServiceImpl) ApplyCoupon(ctx context.Context, checkoutID domain.CheckoutID, code models.CouponCode) (*models.Checkout, *ServiceError) {
	return s.mutate(ctx, checkoutID, func(chk *models.Checkout) error {
		return chk.ApplyCoupon(ctx, code, s.coupons)
	})
}

// ValidateStock asks the stock port for a verdict. A negative verdict
// fails the checkout terminally; when a reserver is wired, a positive
// verdict also places a hold on the stock.
func (s *checkoutServiceImpl) ValidateStock(ctx context.Context, checkoutID domain.CheckoutID) (*models.Checkout, *ServiceError) {
	chk, serr := s.mutate(ctx, checkoutID, func(chk *models.Checkout) error {
		return chk.ValidateStock(ctx, s.stock)
	})
	if serr != nil {
		return nil, serr
	}

	if s.reserver != nil && chk.State == models.CheckoutStateStockValidated {
		if err := s.reserver.ReserveLines(ctx, chk.Summary.StockLines()); err != nil {
			s.logger.Error("Failed to reserve stock after validation",
				zap.String("checkout_id", checkoutID.String()), zap.Error(err))
		}
	}
	return chk, nil
}

func (s *checkoutServiceImpl) Pay(ctx context.Context, checkoutID domain.CheckoutID, method models.PaymentMethod) (*models.Checkout, *ServiceError) {
	chk, serr := s.mutate(ctx, checkoutID, func(chk *models.Checkout) error {
		return chk.Pay(ctx, method, s.payments)
	})
	if serr != nil {
		return nil, serr
	}

	if chk.IsFailed() {
		s.releaseStock(ctx, chk)
	}
	return chk, nil
}

// CreateOrder closes the saga. The aggregate makes the call idempotent:
// repeating it returns the same order id without a second request event.
func (s *checkoutServiceImpl) CreateOrder(ctx context.Context, checkoutID domain.CheckoutID) (domain.OrderID, *ServiceError) {
	chk, serr := s.GetCheckout(ctx, checkoutID)
	if serr != nil {
		return domain.OrderID{}, serr
	}

	orderID, err := chk.CreateOrder()
	if err != nil {
		return domain.OrderID{}, toServiceError(err)
	}

	if err := s.checkouts.Save(ctx, chk); err != nil {
		s.logger.Error("Failed to save checkout", zap.String("checkout_id", checkoutID.String()), zap.Error(err))
		return domain.OrderID{}, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
	}

	s.completeCart(ctx, chk.Summary.CartID)
	s.publishCheckout(ctx, chk)

	s.logger.Info("Order requested",
		zap.String("checkout_id", checkoutID.String()),
		zap.String("order_id", orderID.String()),
	)
	return orderID, nil
}

func (s *checkoutServiceImpl) Cancel(ctx context.Context, checkoutID domain.CheckoutID, reason string) (*models.Checkout, *ServiceError) {
	chk, serr := s.mutate(ctx, checkoutID, func(chk *models.Checkout) error {
		return chk.Cancel(reason)
	})
	if serr != nil {
		return nil, serr
	}

	s.releaseStock(ctx, chk)
	return chk, nil
}

func (s *checkoutServiceImpl) mutate(ctx context.Context, checkoutID domain.CheckoutID, op func(*models.Checkout) error) (*models.Checkout, *ServiceError) {
	chk, serr := s.GetCheckout(ctx, checkoutID)
	if serr != nil {
		return nil, serr
	}

	if err := op(chk); err != nil {
		return nil, toServiceError(err)
	}

	if err := s.checkouts.Save(ctx, chk); err != nil {
		s.logger.Error("Failed to save checkout", zap.String("checkout_id", checkoutID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save checkout"}
	}

	s.publishCheckout(ctx, chk)
	return chk, nil
}

// completeCart marks the source cart as checked out. The order already
// exists, so a cart hiccup here is logged and swallowed.
func (s *checkoutServiceImpl) completeCart(ctx context.Context, cartID domain.CartID) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		s.logger.Error("Failed to load cart for completion", zap.String("cart_id", cartID.String()), zap.Error(err))
		return
	}
	if err := cart.CompleteCheckout(); err != nil {
		s.logger.Warn("Cart not completable", zap.String("cart_id", cartID.String()), zap.Error(err))
		return
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save completed cart", zap.String("cart_id", cartID.String()), zap.Error(err))
	}
}

// releaseStock returns any held stock once the checkout can no longer
// complete. Only meaningful when the saga got past stock validation.
func (s *checkoutServiceImpl) releaseStock(ctx context.Context, chk *models.Checkout) {
	if s.reserver == nil {
		return
	}
	if err := s.reserver.ReleaseLines(ctx, chk.Summary.StockLines()); err != nil {
		s.logger.Error("Failed to release reserved stock",
			zap.String("checkout_id", chk.ID.String()), zap.Error(err))
	}
}

func (s *checkoutServiceImpl) publishCheckout(ctx context.Context, chk *models.Checkout) {
	if s.publisher == nil {
		return
	}
	if err := events.PublishAll(ctx, s.publisher, chk.ID.String(), chk.PullEvents()); err != nil {
		s.logger.Error("Failed to publish checkout events", zap.String("checkout_id", chk.ID.String()), zap.Error(err))
	}
}

func (s *checkoutServiceImpl) publishCart(ctx context.Context, cart *cartmodels.Cart) {
	if s.publisher == nil {
		return
	}
	if err := events.PublishAll(ctx, s.publisher, cart.ID.String(), cart.PullEvents()); err != nil {
		s.logger.Error("Failed to publish cart events", zap.String("cart_id", cart.ID.String()), zap.Error(err))
	}
}

func toServiceError(err error) *ServiceError {
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case domain.KindValidation:
			return &ServiceError{StatusCode: 400, Message: de.Message}
		case domain.KindInvariant:
			return &ServiceError{StatusCode: 409, Message: de.Message}
		case domain.KindPolicy:
			return &ServiceError{StatusCode: 422, Message: de.Message}
		}
	}
	return &ServiceError{StatusCode: 500, Message: "Internal error"}
}
