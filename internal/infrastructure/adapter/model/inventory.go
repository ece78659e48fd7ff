package model

import (
	"time"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// InventoryItem represents the database model for stock items
type InventoryItem struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"not null;size:255"`
	Price     int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// InventoryBatch represents one received lot of an item
type InventoryBatch struct {
	ID                string    `gorm:"primaryKey;size:36"`
	ItemID            string    `gorm:"not null;size:36;index:idx_inventory_batches_item_created,priority:1"`
	OriginalQuantity  int64     `gorm:"not null"`
	RemainingQuantity int64     `gorm:"not null;check:chk_inventory_batches_remaining,remaining_quantity >= 0"`
	UnitPrice         int64     `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null;index:idx_inventory_batches_item_created,priority:2"`

	Item InventoryItem `gorm:"foreignKey:ItemID;references:ID"`
}

// TableName specifies the table name for InventoryBatch
func (InventoryBatch) TableName() string {
	return "inventory_batches"
}

// InventoryAllocation records one FIFO depletion
type InventoryAllocation struct {
	ID        string    `gorm:"primaryKey;size:36"`
	ItemID    string    `gorm:"not null;size:36;index"`
	Reference *string   `gorm:"size:255;uniqueIndex"`
	Quantity  int64     `gorm:"not null"`
	TotalCost int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	Item  InventoryItem             `gorm:"foreignKey:ItemID;references:ID"`
	Lines []InventoryAllocationLine `gorm:"foreignKey:AllocationID;references:ID"`
}

// TableName specifies the table name for InventoryAllocation
func (InventoryAllocation) TableName() string {
	return "inventory_allocations"
}

// InventoryAllocationLine is the part of an allocation taken from one batch
type InventoryAllocationLine struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	AllocationID string `gorm:"not null;size:36;index"`
	BatchID      string `gorm:"not null;size:36;index"`
	Position     int    `gorm:"not null"`
	Quantity     int64  `gorm:"not null"`
	UnitPrice    int64  `gorm:"not null"`

	Batch InventoryBatch `gorm:"foreignKey:BatchID;references:ID"`
}

// TableName specifies the table name for InventoryAllocationLine
func (InventoryAllocationLine) TableName() string {
	return "inventory_allocation_lines"
}

// InventoryItemFromEntity converts an item entity to its database model
func InventoryItemFromEntity(i *entity.InventoryItem) *InventoryItem {
	return &InventoryItem{
		ID:        i.ID,
		Name:      i.Name,
		Price:     i.Price,
		CreatedAt: i.CreatedAt,
	}
}

// ToEntity converts the model to an item entity
func (m *InventoryItem) ToEntity() *entity.InventoryItem {
	return &entity.InventoryItem{
		ID:        m.ID,
		Name:      m.Name,
		Price:     m.Price,
		CreatedAt: m.CreatedAt,
	}
}

// InventoryBatchFromEntity converts a batch entity to its database model
func InventoryBatchFromEntity(b *entity.InventoryBatch) *InventoryBatch {
	return &InventoryBatch{
		ID:                b.ID,
		ItemID:            b.ItemID,
		OriginalQuantity:  b.OriginalQuantity,
		RemainingQuantity: b.RemainingQuantity,
		UnitPrice:         b.UnitPrice,
		CreatedAt:         b.CreatedAt,
	}
}

// ToEntity converts the model to a batch entity
func (m *InventoryBatch) ToEntity() *entity.InventoryBatch {
	return &entity.InventoryBatch{
		ID:                m.ID,
		ItemID:            m.ItemID,
		OriginalQuantity:  m.OriginalQuantity,
		RemainingQuantity: m.RemainingQuantity,
		UnitPrice:         m.UnitPrice,
		CreatedAt:         m.CreatedAt,
	}
}

// InventoryAllocationFromEntity converts an allocation and its lines to database models
func InventoryAllocationFromEntity(a *entity.Allocation) *InventoryAllocation {
	lines := make([]InventoryAllocationLine, 0, len(a.Lines))
	for i, line := range a.Lines {
		lines = append(lines, InventoryAllocationLine{
			AllocationID: a.ID,
			BatchID:      line.BatchID,
			Position:     i,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
		})
	}
	return &InventoryAllocation{
		ID:        a.ID,
		ItemID:    a.ItemID,
		Reference: nullableString(a.Reference),
		Quantity:  a.Quantity,
		TotalCost: a.TotalCost(),
		CreatedAt: a.CreatedAt,
		Lines:     lines,
	}
}

// ToEntity converts the model to an allocation entity. Lines must be loaded
// in position order.
func (m *InventoryAllocation) ToEntity() *entity.Allocation {
	lines := make([]entity.AllocationLine, 0, len(m.Lines))
	for _, line := range m.Lines {
		lines = append(lines, entity.AllocationLine{
			BatchID:   line.BatchID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return &entity.Allocation{
		ID:        m.ID,
		ItemID:    m.ItemID,
		Reference: stringValue(m.Reference),
		Quantity:  m.Quantity,
		Lines:     lines,
		CreatedAt: m.CreatedAt,
	}
}
