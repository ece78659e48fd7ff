package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/cashely/internal/domain/usecase/serial"
)

// InventoryUseCase manages items and their FIFO stock batches. Writes to one
// item are serialized through the executor.
type InventoryUseCase struct {
	uow          persistence.UnitOfWork
	repo         persistence.InventoryRepository
	executor     *serial.Executor
	idGenerator  coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewInventoryUseCase creates a new inventory use case instance
func NewInventoryUseCase(
	uow persistence.UnitOfWork,
	executor *serial.Executor,
	idGenerator coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) usecase.InventoryUseCase {
	return &InventoryUseCase{
		uow:          uow,
		repo:         uow.GetInventoryRepository(context.Background()),
		executor:     executor,
		idGenerator:  idGenerator,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

func itemKey(itemID string) string {
	return "item:" + itemID
}

// CreateItem stores an item and its opening batch in one transaction
func (i *InventoryUseCase) CreateItem(ctx context.Context, name string, initialQuantity, price int64) (*entity.ItemStock, error) {
	if initialQuantity < 0 {
		return nil, fmt.Errorf("%w: initial quantity cannot be negative", errs.ErrInvalidQuantity)
	}

	item, err := entity.NewInventoryItem(i.idGenerator.NewID(), name, price, i.timeProvider)
	if err != nil {
		return nil, err
	}
	batch, err := entity.NewInventoryBatch(i.idGenerator.NewID(), item.ID, initialQuantity, price, true, i.timeProvider)
	if err != nil {
		return nil, err
	}

	txCtx, err := i.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = i.uow.Rollback(txCtx)
	}()

	repo := i.uow.GetInventoryRepository(txCtx)
	if err := repo.CreateItem(txCtx, item); err != nil {
		return nil, err
	}
	if err := repo.AddBatch(txCtx, batch); err != nil {
		return nil, err
	}
	if err := i.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	i.logger.Info("Item created with opening stock", map[string]any{
		"item_id":  item.ID,
		"quantity": initialQuantity,
		"price":    price,
	})
	return &entity.ItemStock{
		Item:    item,
		OnHand:  initialQuantity,
		Batches: []*entity.InventoryBatch{batch},
	}, nil
}

// AddBatch receives new stock for an existing item
func (i *InventoryUseCase) AddBatch(ctx context.Context, itemID string, quantity, price int64) (*entity.InventoryBatch, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, errs.ErrUnknownItem
	}

	return serial.Run(ctx, i.executor, itemKey(itemID), func(ctx context.Context) (*entity.InventoryBatch, error) {
		if _, err := i.repo.GetItem(ctx, itemID); err != nil {
			return nil, err
		}

		batch, err := entity.NewInventoryBatch(i.idGenerator.NewID(), itemID, quantity, price, false, i.timeProvider)
		if err != nil {
			return nil, err
		}
		if err := i.repo.AddBatch(ctx, batch); err != nil {
			return nil, err
		}
		return batch, nil
	})
}

// Allocate takes quantity units of an item from its oldest batches first
func (i *InventoryUseCase) Allocate(ctx context.Context, itemID string, quantity int64, reference string) (*entity.Allocation, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, errs.ErrUnknownItem
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: allocation quantity must be positive, got %d", errs.ErrInvalidQuantity, quantity)
	}

	return serial.Run(ctx, i.executor, itemKey(itemID), func(ctx context.Context) (*entity.Allocation, error) {
		allocation := &entity.Allocation{
			ID:        i.idGenerator.NewID(),
			ItemID:    itemID,
			Reference: strings.TrimSpace(reference),
			Quantity:  quantity,
			CreatedAt: i.timeProvider.Now(),
		}
		if err := i.repo.Allocate(ctx, allocation); err != nil {
			return nil, err
		}
		return allocation, nil
	})
}

// GetItem returns an item with its batches and on-hand stock
func (i *InventoryUseCase) GetItem(ctx context.Context, itemID string) (*entity.ItemStock, error) {
	item, err := i.repo.GetItem(ctx, strings.TrimSpace(itemID))
	if err != nil {
		return nil, err
	}
	return i.stockOf(ctx, item)
}

// ListItems returns every item with its stock, oldest item first
func (i *InventoryUseCase) ListItems(ctx context.Context) ([]*entity.ItemStock, error) {
	items, err := i.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	stocks := make([]*entity.ItemStock, 0, len(items))
	for _, item := range items {
		stock, err := i.stockOf(ctx, item)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, stock)
	}
	return stocks, nil
}

func (i *InventoryUseCase) stockOf(ctx context.Context, item *entity.InventoryItem) (*entity.ItemStock, error) {
	batches, err := i.repo.ListBatches(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	entity.SortBatchesFIFO(batches)
	return &entity.ItemStock{
		Item:    item,
		OnHand:  entity.OnHand(batches),
		Batches: batches,
	}, nil
}
