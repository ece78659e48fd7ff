package dto

import (
	"time"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// CreateItemRequest creates an item with its opening batch. Price is a decimal string.
type CreateItemRequest struct {
	Name            string `json:"name" binding:"required"`
	InitialQuantity int64  `json:"initialQuantity"`
	Price           string `json:"price" binding:"required"`
}

// AddBatchRequest receives a new lot of an item
type AddBatchRequest struct {
	Quantity int64  `json:"quantity" binding:"required"`
	Price    string `json:"price" binding:"required"`
}

// AllocateRequest takes stock from an item, oldest batch first
type AllocateRequest struct {
	Quantity  int64  `json:"quantity" binding:"required"`
	Reference string `json:"reference"`
}

// BatchResponse represents one lot of an item
type BatchResponse struct {
	ID                string    `json:"id"`
	OriginalQuantity  int64     `json:"originalQuantity"`
	RemainingQuantity int64     `json:"remainingQuantity"`
	UnitPrice         string    `json:"unitPrice"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ItemResponse represents an item with its stock
type ItemResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     string          `json:"price"`
	OnHand    int64           `json:"onHand"`
	Batches   []BatchResponse `json:"batches"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AllocationLineResponse is the part of an allocation taken from one batch
type AllocationLineResponse struct {
	BatchID   string `json:"batchId"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// AllocationResponse represents a FIFO allocation and its cost
type AllocationResponse struct {
	ID        string                   `json:"id"`
	ItemID    string                   `json:"itemId"`
	Reference string                   `json:"reference,omitempty"`
	Quantity  int64                    `json:"quantity"`
	TotalCost string                   `json:"totalCost"`
	Lines     []AllocationLineResponse `json:"lines"`
	CreatedAt time.Time                `json:"createdAt"`
}

// NewBatchResponse maps a batch to its response
func NewBatchResponse(batch *entity.InventoryBatch) BatchResponse {
	return BatchResponse{
		ID:                batch.ID,
		OriginalQuantity:  batch.OriginalQuantity,
		RemainingQuantity: batch.RemainingQuantity,
		UnitPrice:         entity.FormatAmount(batch.UnitPrice),
		CreatedAt:         batch.CreatedAt,
	}
}

// NewItemResponse maps an item and its stock to its response
func NewItemResponse(stock *entity.ItemStock) ItemResponse {
	resp := ItemResponse{
		ID:        stock.Item.ID,
		Name:      stock.Item.Name,
		Price:     entity.FormatAmount(stock.Item.Price),
		OnHand:    stock.OnHand,
		Batches:   make([]BatchResponse, 0, len(stock.Batches)),
		CreatedAt: stock.Item.CreatedAt,
	}
	for _, batch := range stock.Batches {
		resp.Batches = append(resp.Batches, NewBatchResponse(batch))
	}
	return resp
}

// NewAllocationResponse maps an allocation to its response
func NewAllocationResponse(allocation *entity.Allocation) AllocationResponse {
	resp := AllocationResponse{
		ID:        allocation.ID,
		ItemID:    allocation.ItemID,
		Reference: allocation.Reference,
		Quantity:  allocation.Quantity,
		TotalCost: entity.FormatAmount(allocation.TotalCost()),
		Lines:     make([]AllocationLineResponse, 0, len(allocation.Lines)),
		CreatedAt: allocation.CreatedAt,
	}
	for _, line := range allocation.Lines {
		resp.Lines = append(resp.Lines, AllocationLineResponse{
			BatchID:   line.BatchID,
			Quantity:  line.Quantity,
			UnitPrice: entity.FormatAmount(line.UnitPrice),
		})
	}
	return resp
}
