package services

import (
	"context"

	"go.uber.org/zap"

	checkout "github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/inventory/models"
	"github.com/Herzon-Palma/Coders/inventory/repository"
)

// StockService answers stock questions for the checkout saga and manages
// per-product stock levels. It implements the stock validation port the
// checkout depends on.
type StockService interface {
	Validate(ctx context.Context, lines []checkout.StockLine) (bool, error)
	SetStock(ctx context.Context, adjustment *models.StockAdjustment) error
	GetStock(ctx context.Context, productID string) (*models.StockRecord, error)
	ReserveLines(ctx context.Context, lines []checkout.StockLine) error
	ReleaseLines(ctx context.Context, lines []checkout.StockLine) error
}

type stockServiceImpl struct {
	repo   repository.InventoryRepository
	logger *zap.Logger
}

func NewStockService(repo repository.InventoryRepository, logger *zap.Logger) StockService {
	return &stockServiceImpl{repo: repo, logger: logger}
}

// Validate reports whether every line can be fulfilled from available
// stock. A product with no stock record cannot be fulfilled. The verdict
// covers the whole set: one short line fails the lot.
func (s *stockServiceImpl) Validate(ctx context.Context, lines []checkout.StockLine) (bool, error) {
	if len(lines) == 0 {
		return true, nil
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID.String())
	}

	records, err := s.repo.FindByProductIDs(ctx, ids)
	if err != nil {
		return false, err
	}

	available := make(map[string]int, len(records))
	for _, record := range records {
		available[record.ProductID] = record.Available()
	}

	for _, line := range lines {
		got, ok := available[line.ProductID.String()]
		if !ok || got < line.Qty {
			s.logger.Info("Stock validation failed",
				zap.String("product_id", line.ProductID.String()),
				zap.Int("requested", line.Qty),
				zap.Int("available", got),
			)
			return false, nil
		}
	}
	return true, nil
}

// SetStock upserts the stock level for a product and logs a low stock
// warning when the new level sits at or below the alert threshold.
func (s *stockServiceImpl) SetStock(ctx context.Context, adjustment *models.StockAdjustment) error {
	if err := s.repo.SetStock(ctx, adjustment.ProductID, adjustment.Quantity, adjustment.Threshold); err != nil {
		return err
	}

	record, err := s.repo.FindByProductID(ctx, adjustment.ProductID)
	if err != nil {
		return err
	}
	if record.IsLow() {
		s.logger.Warn("Stock at or below threshold",
			zap.String("product_id", record.ProductID),
			zap.Int("available", record.Available()),
			zap.Int("threshold", record.Threshold),
		)
	}
	return nil
}

func (s *stockServiceImpl) GetStock(ctx context.Context, productID string) (*models.StockRecord, error) {
	return s.repo.FindByProductID(ctx, productID)
}

// ReserveLines holds stock for every line. On a partial failure the
// already reserved lines are released so the hold is all or nothing.
func (s *stockServiceImpl) ReserveLines(ctx context.Context, lines []checkout.StockLine) error {
	reserved := make([]checkout.StockLine, 0, len(lines))
	for _, line := range lines {
		if err := s.repo.Reserve(ctx, line.ProductID.String(), line.Qty); err != nil {
			for _, held := range reserved {
				if relErr := s.repo.Release(ctx, held.ProductID.String(), held.Qty); relErr != nil {
					s.logger.Error("Failed to roll back stock reservation",
						zap.String("product_id", held.ProductID.String()),
						zap.Error(relErr),
					)
				}
			}
			return err
		}
		reserved = append(reserved, line)
	}
	return nil
}

// ReleaseLines returns reserved stock, e.g. when a checkout fails after
// validation. Missing records are logged and skipped.
func (s *stockServiceImpl) ReleaseLines(ctx context.Context, lines []checkout.StockLine) error {
	for _, line := range lines {
		if err := s.repo.Release(ctx, line.ProductID.String(), line.Qty); err != nil {
			s.logger.Error("Failed to release reserved stock",
				zap.String("product_id", line.ProductID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}
