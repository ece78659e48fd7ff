package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository implements the InventoryRepository port using GORM
type InventoryRepository struct {
	db          *gorm.DB
	logger      coreport.Logger
	errorMapper *ErrorMapper
}

// NewInventoryRepository creates a new InventoryRepository instance
func NewInventoryRepository(db *gorm.DB, logger coreport.Logger) *InventoryRepository {
	return &InventoryRepository{
		db:          db,
		logger:      logger,
		errorMapper: NewErrorMapper(),
	}
}

func (r *InventoryRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	mapped := r.errorMapper.MapError(err, EntityInventory)
	fields["operation"] = operation
	fields["error"] = err.Error()
	if isExpected(mapped) {
		r.logger.Debug("Inventory operation rejected", fields)
	} else {
		r.logger.Error("Database error on inventory", fields)
	}
	return mapped
}

// CreateItem stores a new item
func (r *InventoryRepository) CreateItem(ctx context.Context, item *entity.InventoryItem) error {
	if err := r.db.WithContext(ctx).Create(model.InventoryItemFromEntity(item)).Error; err != nil {
		return r.handleDatabaseError("create item", err, map[string]any{"item_id": item.ID})
	}
	r.logger.Info("Inventory item created", map[string]any{
		"item_id": item.ID,
		"name":    item.Name,
	})
	return nil
}

// GetItem retrieves an item
func (r *InventoryRepository) GetItem(ctx context.Context, id string) (*entity.InventoryItem, error) {
	var row model.InventoryItem
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, r.handleDatabaseError("get item", err, map[string]any{"item_id": id})
	}
	return row.ToEntity(), nil
}

// ListItems returns all items by creation
func (r *InventoryRepository) ListItems(ctx context.Context) ([]*entity.InventoryItem, error) {
	var rows []model.InventoryItem
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, r.handleDatabaseError("list items", err, map[string]any{})
	}

	items := make([]*entity.InventoryItem, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].ToEntity())
	}
	return items, nil
}

// AddBatch stores a new batch; the foreign key rejects unknown items
func (r *InventoryRepository) AddBatch(ctx context.Context, batch *entity.InventoryBatch) error {
	if err := r.db.WithContext(ctx).Create(model.InventoryBatchFromEntity(batch)).Error; err != nil {
		return r.handleDatabaseError("add batch", err, map[string]any{
			"item_id":  batch.ItemID,
			"batch_id": batch.ID,
		})
	}
	r.logger.Info("Inventory batch added", map[string]any{
		"item_id":  batch.ItemID,
		"batch_id": batch.ID,
		"quantity": batch.OriginalQuantity,
	})
	return nil
}

// ListBatches returns an item's batches oldest first
func (r *InventoryRepository) ListBatches(ctx context.Context, itemID string) ([]*entity.InventoryBatch, error) {
	var rows []model.InventoryBatch
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, r.handleDatabaseError("list batches", err, map[string]any{"item_id": itemID})
	}
	return batchesToEntities(rows), nil
}

// Allocate depletes batches FIFO and stores the allocation in one transaction
func (r *InventoryRepository) Allocate(ctx context.Context, allocation *entity.Allocation) error {
	fields := map[string]any{
		"allocation_id": allocation.ID,
		"item_id":       allocation.ItemID,
		"quantity":      allocation.Quantity,
		"reference":     allocation.Reference,
	}

	var lines []entity.AllocationLine
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.InventoryItem
		if err := tx.First(&item, "id = ?", allocation.ItemID).Error; err != nil {
			return r.errorMapper.MapError(err, EntityInventory)
		}

		if allocation.Reference != "" {
			var count int64
			err := tx.Model(&model.InventoryAllocation{}).
				Where("reference = ?", allocation.Reference).
				Count(&count).Error
			if err != nil {
				return r.errorMapper.MapError(err, EntityInventory)
			}
			if count > 0 {
				return errs.NewDuplicateReferenceError(allocation.Reference, allocation.ItemID)
			}
		}

		var rows []model.InventoryBatch
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("item_id = ? AND remaining_quantity > 0", allocation.ItemID).
			Order("created_at, id").
			Find(&rows).Error
		if err != nil {
			return r.errorMapper.MapError(err, EntityInventory)
		}

		planned, err := entity.PlanFIFOAllocation(allocation.ItemID, batchesToEntities(rows), allocation.Quantity)
		if err != nil {
			return err
		}

		for _, line := range planned {
			result := tx.Model(&model.InventoryBatch{}).
				Where("id = ? AND remaining_quantity >= ?", line.BatchID, line.Quantity).
				Update("remaining_quantity", gorm.Expr("remaining_quantity - ?", line.Quantity))
			if result.Error != nil {
				return r.errorMapper.MapError(result.Error, EntityInventory)
			}
			if result.RowsAffected != 1 {
				return fmt.Errorf("%w: batch %s changed during allocation", errs.ErrConstraintViolation, line.BatchID)
			}
		}

		stored := *allocation
		stored.Lines = planned
		if err := tx.Create(model.InventoryAllocationFromEntity(&stored)).Error; err != nil {
			return r.errorMapper.MapError(err, EntityInventory)
		}

		lines = planned
		return nil
	})
	if err != nil {
		fields["error"] = err.Error()
		if errors.Is(err, errs.ErrInsufficientStock) || errors.Is(err, errs.ErrDuplicateReference) || errors.Is(err, errs.ErrUnknownItem) {
			r.logger.Warn("Allocation rejected", fields)
		} else {
			r.logger.Error("Failed to allocate stock", fields)
		}
		return err
	}

	allocation.Lines = lines
	fields["lines"] = len(lines)
	fields["total_cost"] = allocation.TotalCost()
	r.logger.Info("Stock allocated", fields)
	return nil
}

func batchesToEntities(rows []model.InventoryBatch) []*entity.InventoryBatch {
	batches := make([]*entity.InventoryBatch, 0, len(rows))
	for i := range rows {
		batches = append(batches, rows[i].ToEntity())
	}
	return batches
}
