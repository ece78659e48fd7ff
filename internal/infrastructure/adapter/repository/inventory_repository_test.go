package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
)

func remaining(t *testing.T, f *fixture, itemID string) []int64 {
	t.Helper()
	batches, err := f.inventory().ListBatches(context.Background(), itemID)
	require.NoError(t, err)
	out := make([]int64, 0, len(batches))
	for _, b := range batches {
		out = append(out, b.RemainingQuantity)
	}
	return out
}

func TestInventoryAllocateFIFO(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := f.inventory()
	item, batches := f.createItem(t, 5, 4, 10)

	allocation := &entity.Allocation{ID: f.ids.NewID(), ItemID: item.ID, Quantity: 12, CreatedAt: f.clock.Now()}
	require.NoError(t, repo.Allocate(ctx, allocation))

	assert.Equal(t, []entity.AllocationLine{
		{BatchID: batches[0].ID, Quantity: 5, UnitPrice: 100},
		{BatchID: batches[1].ID, Quantity: 4, UnitPrice: 200},
		{BatchID: batches[2].ID, Quantity: 3, UnitPrice: 300},
	}, allocation.Lines)
	assert.Equal(t, int64(5*100+4*200+3*300), allocation.TotalCost())
	assert.Equal(t, []int64{0, 0, 7}, remaining(t, f, item.ID))

	t.Run("Insufficient stock changes nothing", func(t *testing.T) {
		tooMuch := &entity.Allocation{ID: f.ids.NewID(), ItemID: item.ID, Quantity: 30, CreatedAt: f.clock.Now()}
		err := repo.Allocate(ctx, tooMuch)

		require.ErrorIs(t, err, errs.ErrInsufficientStock)
		var stockErr *errs.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, int64(7), stockErr.Available)
		assert.Empty(t, tooMuch.Lines)
		assert.Equal(t, []int64{0, 0, 7}, remaining(t, f, item.ID))
	})
}

func TestInventoryAllocateFromFullStock(t *testing.T) {
	f := newFixture(t)
	item, _ := f.createItem(t, 5, 4, 10)

	err := f.inventory().Allocate(context.Background(), &entity.Allocation{
		ID: f.ids.NewID(), ItemID: item.ID, Quantity: 30, CreatedAt: f.clock.Now(),
	})

	var stockErr *errs.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(19), stockErr.Available)
	assert.Equal(t, []int64{5, 4, 10}, remaining(t, f, item.ID))
}

func TestInventoryAllocationReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := f.inventory()
	item, _ := f.createItem(t, 10)

	first := &entity.Allocation{ID: f.ids.NewID(), ItemID: item.ID, Reference: "order-1", Quantity: 2, CreatedAt: f.clock.Now()}
	require.NoError(t, repo.Allocate(ctx, first))

	again := &entity.Allocation{ID: f.ids.NewID(), ItemID: item.ID, Reference: "order-1", Quantity: 2, CreatedAt: f.clock.Now()}
	assert.ErrorIs(t, repo.Allocate(ctx, again), errs.ErrDuplicateReference)
	assert.Equal(t, []int64{8}, remaining(t, f, item.ID))

	// allocations without a reference never collide
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Allocate(ctx, &entity.Allocation{ID: f.ids.NewID(), ItemID: item.ID, Quantity: 1, CreatedAt: f.clock.Now()}))
	}
	assert.Equal(t, []int64{6}, remaining(t, f, item.ID))
}

func TestInventoryUnknownItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := f.inventory()

	_, err := repo.GetItem(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrUnknownItem)

	batch, err := entity.NewInventoryBatch(f.ids.NewID(), "missing", 3, 100, false, f.clock)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.AddBatch(ctx, batch), errs.ErrUnknownItem)

	err = repo.Allocate(ctx, &entity.Allocation{ID: f.ids.NewID(), ItemID: "missing", Quantity: 1, CreatedAt: f.clock.Now()})
	assert.ErrorIs(t, err, errs.ErrUnknownItem)
}

func TestInventoryListItems(t *testing.T) {
	f := newFixture(t)
	first, _ := f.createItem(t, 1)
	second, _ := f.createItem(t)

	items, err := f.inventory().ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
}
