package dto

import (
	"time"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// TransactionRequest represents a credit or debit request. Amount is a
// decimal string with at most two fractional digits.
type TransactionRequest struct {
	Amount    string `json:"amount" binding:"required"`
	Reference string `json:"reference"`
	Kind      string `json:"kind"`
}

// TransactionResponse represents a committed ledger entry
type TransactionResponse struct {
	ID           string    `json:"id"`
	WalletID     string    `json:"walletId"`
	Amount       string    `json:"amount"`
	Kind         string    `json:"kind"`
	Reference    string    `json:"reference,omitempty"`
	Status       string    `json:"status"`
	BalanceAfter string    `json:"balanceAfter"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TransactionListResponse lists the committed entries of a wallet
type TransactionListResponse struct {
	WalletID     string                `json:"walletId"`
	Transactions []TransactionResponse `json:"transactions"`
}

// NewTransactionResponse maps a transaction to its response
func NewTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           tx.ID,
		WalletID:     tx.WalletID,
		Amount:       entity.FormatAmount(tx.Amount),
		Kind:         string(tx.Kind),
		Reference:    tx.Reference,
		Status:       string(tx.Status),
		BalanceAfter: entity.FormatAmount(tx.BalanceAfter),
		CreatedAt:    tx.CreatedAt,
	}
}

// NewTransactionListResponse maps a wallet's transactions to their response
func NewTransactionListResponse(walletID string, transactions []*entity.Transaction) TransactionListResponse {
	resp := TransactionListResponse{
		WalletID:     walletID,
		Transactions: make([]TransactionResponse, 0, len(transactions)),
	}
	for _, tx := range transactions {
		resp.Transactions = append(resp.Transactions, NewTransactionResponse(tx))
	}
	return resp
}
