package persistence

import (
	"context"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// VirtualAccountRepository stores provisioning requests and their outcome
type VirtualAccountRepository interface {
	// Create stores a requested virtual account
	//
	// Possible errors:
	// - ErrConstraintViolation: If the wallet already has a virtual account record
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, account *entity.VirtualAccount) error

	// GetByWalletID returns the virtual account record of a wallet
	//
	// Possible errors:
	// - ErrVirtualAccountNotFound: If the wallet has none
	GetByWalletID(ctx context.Context, walletID string) (*entity.VirtualAccount, error)

	// Update persists status changes. Active records are never overwritten.
	Update(ctx context.Context, account *entity.VirtualAccount) error
}
