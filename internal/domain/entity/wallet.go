package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
)

// DefaultCurrency is used when a wallet is opened without an explicit currency
const DefaultCurrency = "NGN"

// accountReferencePrefix namespaces wallet references at the payment processor
const accountReferencePrefix = "cashely-"

// Wallet holds a user's money. Its balance is never stored; it is the sum
// of the wallet's committed transactions.
type Wallet struct {
	ID               string
	UserID           string
	Currency         string
	AccountReference string
	CreatedAt        time.Time
}

// WalletBalance is a balance computed from the ledger at a point in time
type WalletBalance struct {
	WalletID string
	UserID   string
	Currency string
	Balance  int64
}

// FormattedBalance returns the balance with two decimal places
func (b WalletBalance) FormattedBalance() string {
	return FormatAmount(b.Balance)
}

// NewWallet opens a wallet for a user
func NewWallet(id, userID, currency string, timeProvider coreport.TimeProvider) (*Wallet, error) {
	if id == "" || strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: wallet id and user id are required", errs.ErrInvalidRequest)
	}
	code, err := NormalizeCurrency(currency)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		ID:               id,
		UserID:           userID,
		Currency:         code,
		AccountReference: AccountReferenceFor(id),
		CreatedAt:        timeProvider.Now(),
	}, nil
}

// AccountReferenceFor derives the processor account reference from a wallet id.
// It doubles as the idempotency key for virtual account provisioning.
func AccountReferenceFor(walletID string) string {
	return accountReferencePrefix + walletID
}

// NormalizeCurrency upper-cases a three letter currency code, defaulting to NGN
func NormalizeCurrency(currency string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		return DefaultCurrency, nil
	}
	if len(code) != 3 {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidCurrency, currency)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", errs.ErrInvalidCurrency, currency)
		}
	}
	return code, nil
}
