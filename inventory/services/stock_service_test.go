package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	checkout "github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/inventory/models"
	"github.com/Herzon-Palma/Coders/inventory/repository"
	"github.com/Herzon-Palma/Coders/inventory/services"
	"github.com/Herzon-Palma/Coders/pkg/domain"
)

type mockInventoryRepo struct {
	records map[string]*models.StockRecord
}

func newMockInventoryRepo() *mockInventoryRepo {
	return &mockInventoryRepo{records: make(map[string]*models.StockRecord)}
}

func (m *mockInventoryRepo) FindByProductID(_ context.Context, productID string) (*models.StockRecord, error) {
	r, ok := m.records[productID]
	if !ok {
		return nil, repository.ErrStockNotFound
	}
	return r, nil
}

func (m *mockInventoryRepo) FindByProductIDs(_ context.Context, productIDs []string) ([]models.StockRecord, error) {
	var out []models.StockRecord
	for _, id := range productIDs {
		if r, ok := m.records[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockInventoryRepo) SetStock(_ context.Context, productID string, quantity, threshold int) error {
	r, ok := m.records[productID]
	if !ok {
		r = &models.StockRecord{ProductID: productID}
		m.records[productID] = r
	}
	r.Quantity = quantity
	r.Threshold = threshold
	r.UpdatedAt = time.Now()
	return nil
}

func (m *mockInventoryRepo) Reserve(_ context.Context, productID string, quantity int) error {
	r, ok := m.records[productID]
	if !ok || r.Available() < quantity {
		return repository.ErrStockNotFound
	}
	r.Reserved += quantity
	return nil
}

func (m *mockInventoryRepo) Release(_ context.Context, productID string, quantity int) error {
	r, ok := m.records[productID]
	if !ok || r.Reserved < quantity {
		return repository.ErrStockNotFound
	}
	r.Reserved -= quantity
	return nil
}

func seedStock(repo *mockInventoryRepo, productID domain.ProductID, quantity, reserved int) {
	repo.records[productID.String()] = &models.StockRecord{
		ProductID: productID.String(),
		Quantity:  quantity,
		Reserved:  reserved,
	}
}

func TestValidate_AllLinesInStock(t *testing.T) {
	repo := newMockInventoryRepo()
	laptop := domain.NewProductID()
	mouse := domain.NewProductID()
	seedStock(repo, laptop, 5, 0)
	seedStock(repo, mouse, 10, 3)
	svc := services.NewStockService(repo, zap.NewNop())

	ok, err := svc.Validate(context.Background(), []checkout.StockLine{
		{ProductID: laptop, Qty: 1},
		{ProductID: mouse, Qty: 2},
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidate_ReservedStockIsNotAvailable(t *testing.T) {
	repo := newMockInventoryRepo()
	laptop := domain.NewProductID()
	seedStock(repo, laptop, 5, 5)
	svc := services.NewStockService(repo, zap.NewNop())

	ok, err := svc.Validate(context.Background(), []checkout.StockLine{{ProductID: laptop, Qty: 1}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidate_MissingRecordFailsWholeSet(t *testing.T) {
	repo := newMockInventoryRepo()
	laptop := domain.NewProductID()
	seedStock(repo, laptop, 5, 0)
	svc := services.NewStockService(repo, zap.NewNop())

	ok, err := svc.Validate(context.Background(), []checkout.StockLine{
		{ProductID: laptop, Qty: 1},
		{ProductID: domain.NewProductID(), Qty: 1},
	})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidate_EmptyLines(t *testing.T) {
	svc := services.NewStockService(newMockInventoryRepo(), zap.NewNop())

	ok, err := svc.Validate(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReserveLines_RollsBackOnPartialFailure(t *testing.T) {
	repo := newMockInventoryRepo()
	laptop := domain.NewProductID()
	mouse := domain.NewProductID()
	seedStock(repo, laptop, 5, 0)
	seedStock(repo, mouse, 1, 1) // nothing available
	svc := services.NewStockService(repo, zap.NewNop())

	err := svc.ReserveLines(context.Background(), []checkout.StockLine{
		{ProductID: laptop, Qty: 2},
		{ProductID: mouse, Qty: 1},
	})
	require.Error(t, err)

	assert.Equal(t, 0, repo.records[laptop.String()].Reserved)
}

func TestSetStock_Upserts(t *testing.T) {
	repo := newMockInventoryRepo()
	productID := domain.NewProductID()
	svc := services.NewStockService(repo, zap.NewNop())

	err := svc.SetStock(context.Background(), &models.StockAdjustment{
		ProductID: productID.String(),
		Quantity:  20,
		Threshold: 5,
	})
	require.NoError(t, err)

	record, err := svc.GetStock(context.Background(), productID.String())
	require.NoError(t, err)
	assert.Equal(t, 20, record.Quantity)
	assert.Equal(t, 20, record.Available())
}
