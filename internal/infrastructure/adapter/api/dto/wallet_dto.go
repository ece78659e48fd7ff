package dto

import (
	"time"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// CreateWalletRequest opens a wallet for an existing user
type CreateWalletRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Currency string `json:"currency"`
}

// WalletResponse represents a wallet
type WalletResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Currency         string    `json:"currency"`
	AccountReference string    `json:"accountReference"`
	CreatedAt        time.Time `json:"createdAt"`
}

// BalanceResponse represents the API response for a wallet balance
type BalanceResponse struct {
	WalletID string `json:"walletId"`
	UserID   string `json:"userId"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
}

// NewWalletResponse maps a wallet to its response
func NewWalletResponse(wallet *entity.Wallet) *WalletResponse {
	if wallet == nil {
		return nil
	}
	return &WalletResponse{
		ID:               wallet.ID,
		UserID:           wallet.UserID,
		Currency:         wallet.Currency,
		AccountReference: wallet.AccountReference,
		CreatedAt:        wallet.CreatedAt,
	}
}

// NewBalanceResponse maps a computed balance to its response
func NewBalanceResponse(balance *entity.WalletBalance) BalanceResponse {
	return BalanceResponse{
		WalletID: balance.WalletID,
		UserID:   balance.UserID,
		Currency: balance.Currency,
		Balance:  balance.FormattedBalance(),
	}
}
