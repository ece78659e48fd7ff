package usecase

import (
	"context"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// InventoryUseCase defines stock operations
type InventoryUseCase interface {
	CreateItem(ctx context.Context, name string, initialQuantity, price int64) (*entity.ItemStock, error)
	AddBatch(ctx context.Context, itemID string, quantity, price int64) (*entity.InventoryBatch, error)
	Allocate(ctx context.Context, itemID string, quantity int64, reference string) (*entity.Allocation, error)
	GetItem(ctx context.Context, itemID string) (*entity.ItemStock, error)
	ListItems(ctx context.Context) ([]*entity.ItemStock, error)
}
