package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/pkg/domain"
)

var ErrCheckoutNotFound = errors.New("checkout not found")

// CheckoutRepository persists checkout sagas. The aggregate is always
// loaded and mutated as a whole, so it is stored as one row with the full
// document in a jsonb column; the indexed scalar columns exist for lookups
// and reporting.
type CheckoutRepository interface {
	FindByID(ctx context.Context, id domain.CheckoutID) (*models.Checkout, error)
	FindByCartID(ctx context.Context, cartID domain.CartID) (*models.Checkout, error)
	Save(ctx context.Context, checkout *models.Checkout) error
}

// CheckoutRecord is the GORM row backing a checkout aggregate.
type CheckoutRecord struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	CustomerID string    `gorm:"type:uuid;not null;index"`
	CartID     string    `gorm:"type:uuid;not null;index"`
	State      string    `gorm:"type:varchar(20);not null"`
	Document   []byte    `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (CheckoutRecord) TableName() string { return "checkouts" }

type GormCheckoutRepository struct {
	db *gorm.DB
}

func NewGormCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &GormCheckoutRepository{db: db}
}

func (r *GormCheckoutRepository) FindByID(ctx context.Context, id domain.CheckoutID) (*models.Checkout, error) {
	var record CheckoutRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCheckoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find checkout %s: %w", id, err)
	}
	return decode(&record)
}

// FindByCartID returns the most recent checkout opened over a cart.
func (r *GormCheckoutRepository) FindByCartID(ctx context.Context, cartID domain.CartID) (*models.Checkout, error) {
	var record CheckoutRecord
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID.String()).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCheckoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find checkout by cart %s: %w", cartID, err)
	}
	return decode(&record)
}

// Save upserts the full saga document keyed by checkout id.
func (r *GormCheckoutRepository) Save(ctx context.Context, checkout *models.Checkout) error {
	document, err := json.Marshal(checkout)
	if err != nil {
		return fmt.Errorf("encode checkout %s: %w", checkout.ID, err)
	}
	record := CheckoutRecord{
		ID:         checkout.ID.String(),
		CustomerID: checkout.CustomerID.String(),
		CartID:     checkout.CartID.String(),
		State:      checkout.State.String(),
		Document:   document,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "document", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("save checkout %s: %w", checkout.ID, err)
	}
	return nil
}

func decode(record *CheckoutRecord) (*models.Checkout, error) {
	var checkout models.Checkout
	if err := json.Unmarshal(record.Document, &checkout); err != nil {
		return nil, fmt.Errorf("decode checkout %s: %w", record.ID, err)
	}
	return &checkout, nil
}
