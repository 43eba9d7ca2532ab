package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	checkout "github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/order/models"
	"github.com/Herzon-Palma/Coders/order/repository"
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

// OrderService drives fulfillment: orders are born from checkout order
// requests and walked through their status machine from here.
type OrderService interface {
	CreateFromRequest(ctx context.Context, request *checkout.OrderRequested) (*models.Order, error)
	GetOrder(ctx context.Context, orderID domain.OrderID) (*models.Order, *ServiceError)
	ListOrders(ctx context.Context, customerID domain.CustomerID, page, limit int) ([]*models.Order, int64, *ServiceError)
	ConfirmOrder(ctx context.Context, orderID domain.OrderID) (*models.Order, *ServiceError)
	MarkPaid(ctx context.Context, orderID domain.OrderID, providerRef string) (*models.Order, *ServiceError)
	MarkInPreparation(ctx context.Context, orderID domain.OrderID) (*models.Order, *ServiceError)
	MarkShipped(ctx context.Context, orderID domain.OrderID, trackingNumber, carrier string) (*models.Order, *ServiceError)
	MarkDelivered(ctx context.Context, orderID domain.OrderID) (*models.Order, *ServiceError)
	CancelOrder(ctx context.Context, orderID domain.OrderID, reason string) (*models.Order, *ServiceError)
}

type orderServiceImpl struct {
	repo      repository.OrderRepository
	publisher events.Publisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo repository.OrderRepository, publisher events.Publisher, logger *zap.Logger) OrderService {
	return &orderServiceImpl{repo: repo, publisher: publisher, logger: logger}
}

// CreateFromRequest materializes the order a checkout asked for. The order
// id comes from the request, so redelivered messages reconstruct the same
// order and the existing row wins.
func (s *orderServiceImpl) CreateFromRequest(ctx context.Context, request *checkout.OrderRequested) (*models.Order, error) {
	if existing, err := s.repo.FindByID(ctx, request.OrderID); err == nil {
		s.logger.Info("Order request already materialized",
			zap.String("order_id", request.OrderID.String()),
		)
		return existing, nil
	} else if !errors.Is(err, repository.ErrOrderNotFound) {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(request.Items))
	for _, line := range request.Items {
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Qty,
		})
	}

	order, err := models.NewOrderWithID(
		request.OrderID, request.CustomerID, items,
		request.Address, request.PaymentMethod,
		request.Subtotal, request.Discount,
	)
	if err != nil {
		return nil, err
	}

	// the checkout already collected the money
	if err := order.Confirm(); err != nil {
		return nil, err
	}
	if err := order.MarkPaid(request.ProviderRef); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, order)
	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("checkout_id", request.CheckoutID.String()),
		zap.String("total", order.Total.String()),
	)
	return order, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID domain.OrderID) (*models.Order, *ServiceError) {
	order, err := s.repo.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	if err != nil {
		s.logger.Error("Failed to load order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load order"}
	}
	return order, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, customerID domain.CustomerID, page, limit int) ([]*models.Order, int64, *ServiceError) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	orders, total, err := s.repo.FindByCustomer(ctx, customerID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.String("customer_id", customerID.String()), zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list orders"}
	}
	return orders, total, nil
}

func (s *orderServiceImpl) ConfirmOrder(ctx context.Context, orderID domain.OrderID) (*models.Order, *ServiceError) {
	return s.mutate(ctx, orderID, func(order *models.Order) error {
		return order.Confirm()
	})
}

func (s *orderServiceImpl) MarkPaid(ctx context.Context, orderID domain.OrderID, providerRef string) (*models.Order, *ServiceError) {
	return s.mutate(ctx, orderID, func(order *models.Order) error {
		return order.MarkPaid(providerRef)
	})
}

func (s *orderServiceImpl) MarkInPreparation(ctx context.Context, orderID domain.OrderID) (*models.Order, *ServiceError) {
	return s.mutate(ctx, orderID, func(order *models.Order) error {
		return order.MarkInPreparation()
	})
}

func (s *orderServiceImpl) MarkShipped(ctx context.Context, orderID domain.OrderID, trackingNumber, carrier string) (*models.Order, *ServiceError) {
	return s.mutate(ctx, orderID, func(order *models.Order) error {
		return order.MarkShipped(trackingNumber, carrier)
	})
}

func (s *orderServiceImpl) MarkDelivered(ctx context.Context, orderID domain.OrderID) (*models.Order, *ServiceError) {
	return s.mutate(ctx, orderID, func(order *models.Order) error {
		return order.MarkDelivered()
	})
}

func (s *orderServiceImpl) CancelOrder(ctx context.Context, orderID domain.OrderID, reason string) (*models.Order, *ServiceError) {
	return s.mutate(ctx, orderID, func(order *models.Order) error {
		return order.Cancel(reason)
	})
}

func (s *orderServiceImpl) mutate(ctx context.Context, orderID domain.OrderID, op func(*models.Order) error) (*models.Order, *ServiceError) {
	order, serr := s.GetOrder(ctx, orderID)
	if serr != nil {
		return nil, serr
	}

	if err := op(order); err != nil {
		return nil, toServiceError(err)
	}

	if err := s.repo.Update(ctx, order); err != nil {
		s.logger.Error("Failed to save order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save order"}
	}

	s.publish(ctx, order)
	return order, nil
}

func (s *orderServiceImpl) publish(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	if err := events.PublishAll(ctx, s.publisher, order.ID.String(), order.PullEvents()); err != nil {
		s.logger.Error("Failed to publish order events", zap.String("order_id", order.ID.String()), zap.Error(err))
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
