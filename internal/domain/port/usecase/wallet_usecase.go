package usecase

import (
	"context"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// WalletUseCase defines wallet and ledger operations
type WalletUseCase interface {
	// CreateWallet opens the single wallet of a user
	CreateWallet(ctx context.Context, userID, currency string) (*entity.Wallet, error)

	// GetWallet returns a wallet by id
	GetWallet(ctx context.Context, walletID string) (*entity.Wallet, error)

	// GetWalletByUser returns the wallet owned by a user
	GetWalletByUser(ctx context.Context, userID string) (*entity.Wallet, error)

	// Credit adds amount (minor units) to a wallet
	Credit(ctx context.Context, walletID string, amount int64, reference string, kind entity.TransactionKind) (*entity.Transaction, error)

	// Debit takes amount (minor units) from a wallet, never below zero
	Debit(ctx context.Context, walletID string, amount int64, reference string, kind entity.TransactionKind) (*entity.Transaction, error)

	// GetBalance computes the balance of a wallet given its id or an owner lookup key
	GetBalance(ctx context.Context, key string) (*entity.WalletBalance, error)

	// ListTransactions returns committed transactions in creation order
	ListTransactions(ctx context.Context, walletID string) ([]*entity.Transaction, error)
}
