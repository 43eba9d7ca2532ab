package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	checkout "github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/order/models"
	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the data access surface for order aggregates.
type OrderRepository interface {
	FindByID(ctx context.Context, id domain.OrderID) (*models.Order, error)
	FindByCustomer(ctx context.Context, customerID domain.CustomerID, page, limit int) ([]*models.Order, int64, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
}

// OrderRow is the GORM header row. Items and history live in child tables;
// the shipping address is a jsonb blob since it is never queried by field.
type OrderRow struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Status             string    `gorm:"type:varchar(20);not null"`
	Subtotal           string    `gorm:"type:numeric(12,2);not null"`
	Discount           string    `gorm:"type:numeric(12,2);not null"`
	Total              string    `gorm:"type:numeric(12,2);not null"`
	Currency           string    `gorm:"type:varchar(3);not null"`
	ShippingAddress    []byte    `gorm:"type:jsonb;not null"`
	PaymentMethod      string    `gorm:"type:varchar(20);not null"`
	PaymentStatus      string    `gorm:"type:varchar(20);not null"`
	ProviderRef        string
	RejectionReason    string
	TrackingNumber     string
	Carrier            string
	ShippedAt          *time.Time
	CancellationReason string
	CreatedAt          time.Time        `gorm:"autoCreateTime"`
	UpdatedAt          time.Time        `gorm:"autoUpdateTime"`
	Items              []OrderItemRow   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History            []StatusChangeRow `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderRow) TableName() string { return "orders" }

type OrderItemRow struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null"`
	ProductName string    `gorm:"not null"`
	UnitPrice   string    `gorm:"type:numeric(12,2);not null"`
	Quantity    int       `gorm:"not null"`
}

func (OrderItemRow) TableName() string { return "order_items" }

type StatusChangeRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	FromState string    `gorm:"type:varchar(20);not null"`
	ToState   string    `gorm:"type:varchar(20);not null"`
	Note      string
	ChangedAt time.Time `gorm:"not null"`
}

func (StatusChangeRow) TableName() string { return "order_status_changes" }

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id domain.OrderID) (*models.Order, error) {
	var row OrderRow
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("changed_at ASC") }).
		First(&row, "id = ?", uuid.UUID(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}
	return toAggregate(&row)
}

func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID domain.CustomerID, page, limit int) ([]*models.Order, int64, error) {
	var rows []OrderRow
	var total int64

	query := r.db.WithContext(ctx).Model(&OrderRow{}).Where("customer_id = ?", uuid.UUID(customerID))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders for customer %s: %w", customerID, err)
	}

	offset := (page - 1) * limit
	err := query.
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("changed_at ASC") }).
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders for customer %s: %w", customerID, err)
	}

	orders := make([]*models.Order, 0, len(rows))
	for i := range rows {
		order, err := toAggregate(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	return orders, total, nil
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	row, err := toRow(order)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create order %s: %w", order.ID, err)
	}
	return nil
}

// Update rewrites the header and replaces the history rows; items are
// immutable after creation so they are left alone.
func (r *GormOrderRepository) Update(ctx context.Context, order *models.Order) error {
	row, err := toRow(order)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&OrderRow{}).Where("id = ?", row.ID).Updates(map[string]any{
			"status":              row.Status,
			"payment_status":      row.PaymentStatus,
			"provider_ref":        row.ProviderRef,
			"rejection_reason":    row.RejectionReason,
			"tracking_number":     row.TrackingNumber,
			"carrier":             row.Carrier,
			"shipped_at":          row.ShippedAt,
			"cancellation_reason": row.CancellationReason,
		}).Error; err != nil {
			return fmt.Errorf("update order %s: %w", order.ID, err)
		}
		if err := tx.Where("order_id = ?", row.ID).Delete(&StatusChangeRow{}).Error; err != nil {
			return fmt.Errorf("replace history for order %s: %w", order.ID, err)
		}
		if len(row.History) == 0 {
			return nil
		}
		if err := tx.Create(&row.History).Error; err != nil {
			return fmt.Errorf("insert history for order %s: %w", order.ID, err)
		}
		return nil
	})
}

func toRow(order *models.Order) (*OrderRow, error) {
	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("encode shipping address for order %s: %w", order.ID, err)
	}

	row := &OrderRow{
		ID:                 uuid.UUID(order.ID),
		CustomerID:         uuid.UUID(order.CustomerID),
		Status:             order.Status.String(),
		Subtotal:           order.Subtotal.Amount().StringFixed(2),
		Discount:           order.Discount.Amount().StringFixed(2),
		Total:              order.Total.Amount().StringFixed(2),
		Currency:           order.Total.Currency(),
		ShippingAddress:    address,
		PaymentMethod:      string(order.Payment.Method),
		PaymentStatus:      string(order.Payment.Status),
		ProviderRef:        order.Payment.ProviderRef,
		RejectionReason:    order.Payment.RejectionReason,
		CancellationReason: order.CancellationReason,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
	if order.Shipment != nil {
		row.TrackingNumber = order.Shipment.TrackingNumber
		row.Carrier = order.Shipment.Carrier
		shippedAt := order.Shipment.ShippedAt
		row.ShippedAt = &shippedAt
	}
	for _, item := range order.Items {
		row.Items = append(row.Items, OrderItemRow{
			ID:          uuid.New(),
			OrderID:     row.ID,
			ProductID:   uuid.UUID(item.ProductID),
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice.Amount().StringFixed(2),
			Quantity:    item.Quantity,
		})
	}
	for _, change := range order.History {
		row.History = append(row.History, StatusChangeRow{
			ID:        uuid.New(),
			OrderID:   row.ID,
			FromState: change.From.String(),
			ToState:   change.To.String(),
			Note:      change.Note,
			ChangedAt: change.ChangedAt,
		})
	}
	return row, nil
}

func toAggregate(row *OrderRow) (*models.Order, error) {
	var address checkout.ShippingAddress
	if err := json.Unmarshal(row.ShippingAddress, &address); err != nil {
		return nil, fmt.Errorf("decode shipping address for order %s: %w", row.ID, err)
	}

	subtotal, err := parseMoney(row.Subtotal, row.Currency)
	if err != nil {
		return nil, err
	}
	discount, err := parseMoney(row.Discount, row.Currency)
	if err != nil {
		return nil, err
	}
	total, err := parseMoney(row.Total, row.Currency)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:              domain.OrderID(row.ID),
		CustomerID:      domain.CustomerID(row.CustomerID),
		ShippingAddress: address,
		Payment: models.PaymentInfo{
			Method:          checkout.PaymentMethod(row.PaymentMethod),
			ProviderRef:     row.ProviderRef,
			Status:          models.PaymentStatus(row.PaymentStatus),
			RejectionReason: row.RejectionReason,
		},
		Subtotal:           subtotal,
		Discount:           discount,
		Total:              total,
		Status:             models.OrderStatus(row.Status),
		CancellationReason: row.CancellationReason,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	for _, item := range row.Items {
		unitPrice, err := parseMoney(item.UnitPrice, row.Currency)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   domain.ProductID(item.ProductID),
			ProductName: item.ProductName,
			UnitPrice:   unitPrice,
			Quantity:    item.Quantity,
		})
	}
	for _, change := range row.History {
		order.History = append(order.History, models.StatusChange{
			From:      models.OrderStatus(change.FromState),
			To:        models.OrderStatus(change.ToState),
			Note:      change.Note,
			ChangedAt: change.ChangedAt,
		})
	}
	if row.TrackingNumber != "" && row.ShippedAt != nil {
		order.Shipment = &models.ShipmentInfo{
			TrackingNumber: row.TrackingNumber,
			Carrier:        row.Carrier,
			ShippedAt:      *row.ShippedAt,
		}
	}
	return order, nil
}

func parseMoney(amount, currency string) (money.Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return money.Money{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	return money.New(d, currency)
}
