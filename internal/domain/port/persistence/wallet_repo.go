package persistence

import (
	"context"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// WalletRepository defines methods to interact with wallets
type WalletRepository interface {
	// Create stores a new wallet
	//
	// Possible errors:
	// - ErrDuplicateWallet: If the user already owns a wallet
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, wallet *entity.Wallet) error

	// GetByID retrieves a wallet by ID
	//
	// Possible errors:
	// - ErrWalletNotFound: If wallet doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id string) (*entity.Wallet, error)

	// GetByUserID retrieves the wallet owned by a user
	//
	// Possible errors:
	// - ErrWalletNotFound: If the user has no wallet
	// - ErrDatabaseConnection: If database connection fails
	GetByUserID(ctx context.Context, userID string) (*entity.Wallet, error)
}
