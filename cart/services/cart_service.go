package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Herzon-Palma/Coders/cart/models"
	"github.com/Herzon-Palma/Coders/cart/repository"
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

// CartService drives the shopping cart use cases: every mutation loads the
// aggregate, applies one operation, persists it, and ships the drained
// events.
type CartService interface {
	GetCart(ctx context.Context, cartID domain.CartID) (*models.Cart, *ServiceError)
	GetOrCreateActiveCart(ctx context.Context, customerID domain.CustomerID) (*models.Cart, *ServiceError)
	AddItem(ctx context.Context, cartID domain.CartID, product models.ProductRef, qty int) (*models.Cart, *ServiceError)
	UpdateQty(ctx context.Context, cartID domain.CartID, productID domain.ProductID, qty int) (*models.Cart, *ServiceError)
	RemoveItem(ctx context.Context, cartID domain.CartID, productID domain.ProductID) (*models.Cart, *ServiceError)
	ClearCart(ctx context.Context, cartID domain.CartID) (*models.Cart, *ServiceError)
	AbandonCart(ctx context.Context, cartID domain.CartID) *ServiceError
}

type cartServiceImpl struct {
	repo      repository.CartRepository
	publisher events.Publisher
	logger    *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(repo repository.CartRepository, publisher events.Publisher, logger *zap.Logger) CartService {
	return &cartServiceImpl{repo: repo, publisher: publisher, logger: logger}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, cartID domain.CartID) (*models.Cart, *ServiceError) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Cart not found"}
	}
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("cart_id", cartID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	return cart, nil
}

// GetOrCreateActiveCart returns the customer's active cart, creating one
// when none exists.
func (s *cartServiceImpl) GetOrCreateActiveCart(ctx context.Context, customerID domain.CustomerID) (*models.Cart, *ServiceError) {
	cart, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		s.logger.Error("Failed to look up active cart", zap.String("customer_id", customerID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}

	cart, createErr := models.NewCart(customerID)
	if createErr != nil {
		return nil, toServiceError(createErr)
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save new cart", zap.String("customer_id", customerID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}

	s.logger.Info("Cart created",
		zap.String("cart_id", cart.ID.String()),
		zap.String("customer_id", customerID.String()),
	)
	return cart, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, cartID domain.CartID, product models.ProductRef, qty int) (*models.Cart, *ServiceError) {
	return s.mutate(ctx, cartID, func(cart *models.Cart) error {
		return cart.AddItem(product, qty)
	})
}

func (s *cartServiceImpl) UpdateQty(ctx context.Context, cartID domain.CartID, productID domain.ProductID, qty int) (*models.Cart, *ServiceError) {
	return s.mutate(ctx, cartID, func(cart *models.Cart) error {
		return cart.UpdateQty(productID, qty)
	})
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, cartID domain.CartID, productID domain.ProductID) (*models.Cart, *ServiceError) {
	return s.mutate(ctx, cartID, func(cart *models.Cart) error {
		return cart.RemoveItem(productID)
	})
}

func (s *cartServiceImpl) ClearCart(ctx context.Context, cartID domain.CartID) (*models.Cart, *ServiceError) {
	return s.mutate(ctx, cartID, func(cart *models.Cart) error {
		return cart.Clear()
	})
}

func (s *cartServiceImpl) AbandonCart(ctx context.Context, cartID domain.CartID) *ServiceError {
	_, serr := s.mutate(ctx, cartID, func(cart *models.Cart) error {
		return cart.Abandon()
	})
	return serr
}

// mutate is the single write path: load, apply, save, publish.
func (s *cartServiceImpl) mutate(ctx context.Context, cartID domain.CartID, op func(*models.Cart) error) (*models.Cart, *ServiceError) {
	cart, serr := s.GetCart(ctx, cartID)
	if serr != nil {
		return nil, serr
	}

	if err := op(cart); err != nil {
		return nil, toServiceError(err)
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("cart_id", cartID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}

	s.publish(ctx, cart)
	return cart, nil
}

// publish ships drained events best effort; the cart is already saved and
// a delivery failure must not fail the request.
func (s *cartServiceImpl) publish(ctx context.Context, cart *models.Cart) {
	if s.publisher == nil {
		return
	}
	if err := events.PublishAll(ctx, s.publisher, cart.ID.String(), cart.PullEvents()); err != nil {
		s.logger.Error("Failed to publish cart events", zap.String("cart_id", cart.ID.String()), zap.Error(err))
	}
}

// toServiceError maps domain errors onto HTTP status codes: validation and
// invariant violations are the caller's fault, everything else is ours.
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
