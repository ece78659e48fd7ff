package entity

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
)

// InventoryItem is a sellable product. Stock lives in its batches.
type InventoryItem struct {
	ID        string
	Name      string
	Price     int64 // nominal unit price in minor units
	CreatedAt time.Time
}

// InventoryBatch is one received lot of an item
type InventoryBatch struct {
	ID                string
	ItemID            string
	OriginalQuantity  int64
	RemainingQuantity int64
	UnitPrice         int64
	CreatedAt         time.Time
}

// ItemStock is an item together with its batches in FIFO order
type ItemStock struct {
	Item    *InventoryItem
	OnHand  int64
	Batches []*InventoryBatch
}

// AllocationLine is the part of an allocation taken from a single batch
type AllocationLine struct {
	BatchID   string
	Quantity  int64
	UnitPrice int64
}

// Allocation is a FIFO depletion of an item's stock, with its cost trace
type Allocation struct {
	ID        string
	ItemID    string
	Reference string
	Quantity  int64
	Lines     []AllocationLine
	CreatedAt time.Time
}

// TotalCost is the sum of quantity times unit price over the lines
func (a *Allocation) TotalCost() int64 {
	var total int64
	for _, line := range a.Lines {
		total += line.Quantity * line.UnitPrice
	}
	return total
}

// NewInventoryItem validates and builds an item
func NewInventoryItem(id, name string, price int64, timeProvider coreport.TimeProvider) (*InventoryItem, error) {
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return nil, fmt.Errorf("%w: item id and name are required", errs.ErrInvalidRequest)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", errs.ErrInvalidAmount)
	}
	return &InventoryItem{
		ID:        id,
		Name:      name,
		Price:     price,
		CreatedAt: timeProvider.Now(),
	}, nil
}

// NewInventoryBatch builds a batch with remaining equal to quantity.
// Only the opening batch of an item may be empty.
func NewInventoryBatch(id, itemID string, quantity, unitPrice int64, allowEmpty bool, timeProvider coreport.TimeProvider) (*InventoryBatch, error) {
	if id == "" || itemID == "" {
		return nil, fmt.Errorf("%w: batch id and item id are required", errs.ErrInvalidRequest)
	}
	if quantity < 0 || (quantity == 0 && !allowEmpty) {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidQuantity, quantity)
	}
	if unitPrice < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", errs.ErrInvalidAmount)
	}
	return &InventoryBatch{
		ID:                id,
		ItemID:            itemID,
		OriginalQuantity:  quantity,
		RemainingQuantity: quantity,
		UnitPrice:         unitPrice,
		CreatedAt:         timeProvider.Now(),
	}, nil
}

// Take removes quantity from the batch
func (b *InventoryBatch) Take(quantity int64) error {
	if quantity <= 0 || quantity > b.RemainingQuantity {
		return fmt.Errorf("%w: cannot take %d from batch %s with %d remaining",
			errs.ErrInvalidQuantity, quantity, b.ID, b.RemainingQuantity)
	}
	b.RemainingQuantity -= quantity
	return nil
}

// SortBatchesFIFO orders batches oldest first, ties broken by id
func SortBatchesFIFO(batches []*InventoryBatch) {
	slices.SortStableFunc(batches, func(a, b *InventoryBatch) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// OnHand sums the remaining quantity across batches
func OnHand(batches []*InventoryBatch) int64 {
	var total int64
	for _, b := range batches {
		total += b.RemainingQuantity
	}
	return total
}

// PlanFIFOAllocation decides how many units to take from each batch, oldest
// first. Batches are not modified; the caller applies the plan with Take.
func PlanFIFOAllocation(itemID string, batches []*InventoryBatch, quantity int64) ([]AllocationLine, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidQuantity, quantity)
	}

	ordered := slices.Clone(batches)
	SortBatchesFIFO(ordered)

	if available := OnHand(ordered); available < quantity {
		return nil, errs.NewInsufficientStockError(itemID, quantity, available)
	}

	lines := make([]AllocationLine, 0, len(ordered))
	left := quantity
	for _, b := range ordered {
		if left == 0 {
			break
		}
		if b.RemainingQuantity == 0 {
			continue
		}
		take := min(b.RemainingQuantity, left)
		lines = append(lines, AllocationLine{
			BatchID:   b.ID,
			Quantity:  take,
			UnitPrice: b.UnitPrice,
		})
		left -= take
	}
	return lines, nil
}
