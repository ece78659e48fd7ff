package persistence

import (
	"context"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// LedgerRepository is the append-only store of wallet transactions
type LedgerRepository interface {
	// Append commits a pending transaction atomically: the wallet row is locked,
	// the reference and balance are checked, and the entry is inserted as
	// committed with its balance-after. Rejected attempts are stored as failed
	// and the domain error is returned. The transaction is updated in place.
	//
	// Possible errors:
	// - ErrWalletNotFound: If the wallet doesn't exist
	// - ErrDuplicateReference: If a committed transaction already carries the reference
	// - ErrInsufficientFunds: If a debit would make the balance negative
	// - ErrAmountOverflow: If the balance would overflow
	// - ErrDatabaseConnection: If database connection fails
	Append(ctx context.Context, transaction *entity.Transaction) error

	// Balance folds the committed transactions of a wallet
	Balance(ctx context.Context, walletID string) (int64, error)

	// ListByWallet returns committed transactions in creation order
	ListByWallet(ctx context.Context, walletID string) ([]*entity.Transaction, error)

	// ListAttempts returns every recorded attempt, failed ones included, in creation order
	ListAttempts(ctx context.Context, walletID string) ([]*entity.Transaction, error)

	// GetByReference returns the committed transaction carrying reference
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no committed transaction has the reference
	GetByReference(ctx context.Context, reference string) (*entity.Transaction, error)
}
