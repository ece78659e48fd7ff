package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles stock requests
type InventoryHandler struct {
	inventory usecase.InventoryUseCase
	logger    coreport.Logger
}

// NewInventoryHandler creates a new inventory handler instance
func NewInventoryHandler(inventory usecase.InventoryUseCase, logger coreport.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventory: inventory,
		logger:    logger,
	}
}

// CreateItem handles POST /inventory/items
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	price, err := entity.ParseAmount(req.Price)
	if err != nil {
		_ = c.Error(err)
		return
	}

	stock, err := h.inventory.CreateItem(c.Request.Context(), req.Name, req.InitialQuantity, price)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewItemResponse(stock))
}

// ListItems handles GET /inventory/items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.inventory.ListItems(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := make([]dto.ItemResponse, 0, len(items))
	for _, stock := range items {
		resp = append(resp, dto.NewItemResponse(stock))
	}
	c.JSON(http.StatusOK, gin.H{"items": resp})
}

// GetItem handles GET /inventory/items/:itemId
func (h *InventoryHandler) GetItem(c *gin.Context) {
	stock, err := h.inventory.GetItem(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewItemResponse(stock))
}

// AddBatch handles POST /inventory/items/:itemId/batches
func (h *InventoryHandler) AddBatch(c *gin.Context) {
	var req dto.AddBatchRequest
	if !bindJSON(c, &req) {
		return
	}

	price, err := entity.ParseAmount(req.Price)
	if err != nil {
		_ = c.Error(err)
		return
	}

	batch, err := h.inventory.AddBatch(c.Request.Context(), c.Param("itemId"), req.Quantity, price)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewBatchResponse(batch))
}

// Allocate handles POST /inventory/items/:itemId/allocations
func (h *InventoryHandler) Allocate(c *gin.Context) {
	var req dto.AllocateRequest
	if !bindJSON(c, &req) {
		return
	}

	allocation, err := h.inventory.Allocate(c.Request.Context(), c.Param("itemId"), req.Quantity, req.Reference)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.Debug("Stock allocated", map[string]any{
		"item_id":    allocation.ItemID,
		"quantity":   allocation.Quantity,
		"total_cost": allocation.TotalCost(),
	})
	c.JSON(http.StatusCreated, dto.NewAllocationResponse(allocation))
}
