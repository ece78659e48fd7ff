package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet and ledger requests
type WalletHandler struct {
	wallets usecase.WalletUseCase
	logger  coreport.Logger
}

// NewWalletHandler creates a new wallet handler instance
func NewWalletHandler(wallets usecase.WalletUseCase, logger coreport.Logger) *WalletHandler {
	return &WalletHandler{
		wallets: wallets,
		logger:  logger,
	}
}

// CreateWallet handles POST /wallets
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req dto.CreateWalletRequest
	if !bindJSON(c, &req) {
		return
	}

	wallet, err := h.wallets.CreateWallet(c.Request.Context(), req.UserID, req.Currency)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewWalletResponse(wallet))
}

// GetBalance handles GET /wallets/:walletId/balance
func (h *WalletHandler) GetBalance(c *gin.Context) {
	balance, err := h.wallets.GetBalance(c.Request.Context(), c.Param("walletId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBalanceResponse(balance))
}

// Credit handles POST /wallets/:walletId/credit
func (h *WalletHandler) Credit(c *gin.Context) {
	h.move(c, entity.Credit)
}

// Debit handles POST /wallets/:walletId/debit
func (h *WalletHandler) Debit(c *gin.Context) {
	h.move(c, entity.Debit)
}

func (h *WalletHandler) move(c *gin.Context, direction entity.Direction) {
	var req dto.TransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	amount, err := entity.ParsePositiveAmount(req.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	kind := defaultKind(direction)
	if req.Kind != "" {
		if kind, err = entity.ParseTransactionKind(req.Kind); err != nil {
			_ = c.Error(err)
			return
		}
	}

	ctx := c.Request.Context()
	walletID := c.Param("walletId")

	var tx *entity.Transaction
	if direction == entity.Debit {
		tx, err = h.wallets.Debit(ctx, walletID, amount, req.Reference, kind)
	} else {
		tx, err = h.wallets.Credit(ctx, walletID, amount, req.Reference, kind)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTransactionResponse(tx))
}

// ListTransactions handles GET /wallets/:walletId/transactions
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	walletID := c.Param("walletId")
	transactions, err := h.wallets.ListTransactions(c.Request.Context(), walletID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTransactionListResponse(walletID, transactions))
}

func defaultKind(direction entity.Direction) entity.TransactionKind {
	if direction == entity.Debit {
		return entity.KindWithdrawal
	}
	return entity.KindFunding
}
