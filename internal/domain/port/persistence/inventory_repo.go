package persistence

import (
	"context"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// InventoryRepository stores items and their stock batches
type InventoryRepository interface {
	// CreateItem stores a new item
	CreateItem(ctx context.Context, item *entity.InventoryItem) error

	// GetItem retrieves an item
	//
	// Possible errors:
	// - ErrUnknownItem: If the item doesn't exist
	GetItem(ctx context.Context, id string) (*entity.InventoryItem, error)

	// ListItems returns all items by creation
	ListItems(ctx context.Context) ([]*entity.InventoryItem, error)

	// AddBatch stores a new batch for an existing item
	//
	// Possible errors:
	// - ErrUnknownItem: If the item doesn't exist
	AddBatch(ctx context.Context, batch *entity.InventoryBatch) error

	// ListBatches returns an item's batches oldest first
	ListBatches(ctx context.Context, itemID string) ([]*entity.InventoryBatch, error)

	// Allocate depletes the item's batches FIFO inside one database transaction
	// with the batch rows locked, fills allocation.Lines and stores the
	// allocation. Nothing changes when the allocation fails.
	//
	// Possible errors:
	// - ErrUnknownItem: If the item doesn't exist
	// - ErrInsufficientStock: If remaining stock is short
	// - ErrDuplicateReference: If an allocation with the same reference exists
	Allocate(ctx context.Context, allocation *entity.Allocation) error
}
