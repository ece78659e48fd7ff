package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
)

// TransactionKind classifies why money moved
type TransactionKind string

// Transaction kinds
const (
	KindFunding    TransactionKind = "funding"
	KindWithdrawal TransactionKind = "withdrawal"
	KindPurchase   TransactionKind = "purchase"
	KindAdjustment TransactionKind = "adjustment"
)

// TransactionStatus defines possible status values for a transaction
type TransactionStatus string

// TransactionStatus constants
const (
	StatusPending   TransactionStatus = "pending"
	StatusCommitted TransactionStatus = "committed"
	StatusFailed    TransactionStatus = "failed"
)

// Direction tells whether a transaction adds to or takes from a wallet
type Direction int

// Directions
const (
	Credit Direction = iota
	Debit
)

// String returns the direction name used in logs
func (d Direction) String() string {
	if d == Debit {
		return "debit"
	}
	return "credit"
}

// Transaction is one entry of a wallet's append-only ledger
type Transaction struct {
	ID            string            // UUIDv7, ordered by creation
	WalletID      string            // Wallet the entry belongs to
	Amount        int64             // Signed minor units, positive credit, negative debit
	Kind          TransactionKind   // Why money moved
	Reference     string            // Optional caller reference, unique among committed entries
	Status        TransactionStatus // pending until the ledger accepts or rejects it
	BalanceAfter  int64             // Wallet balance right after commit
	FailureReason string            // Set when the attempt was rejected
	CreatedAt     time.Time
}

// NewTransaction builds a pending ledger entry. amount is the absolute value in
// minor units; the sign is taken from the direction.
func NewTransaction(
	id string,
	walletID string,
	direction Direction,
	amount int64,
	kind TransactionKind,
	reference string,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if id == "" || walletID == "" {
		return nil, fmt.Errorf("%w: transaction id and wallet id are required", errs.ErrInvalidRequest)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", errs.ErrInvalidAmount)
	}
	if !kind.Allows(direction) {
		return nil, fmt.Errorf("%w: %s cannot be a %s", errs.ErrInvalidTransactionKind, kind, direction)
	}

	signed := amount
	if direction == Debit {
		signed = -amount
	}

	return &Transaction{
		ID:        id,
		WalletID:  walletID,
		Amount:    signed,
		Kind:      kind,
		Reference: strings.TrimSpace(reference),
		Status:    StatusPending,
		CreatedAt: timeProvider.Now(),
	}, nil
}

// ParseTransactionKind validates a kind name
func ParseTransactionKind(kind string) (TransactionKind, error) {
	switch k := TransactionKind(strings.ToLower(strings.TrimSpace(kind))); k {
	case KindFunding, KindWithdrawal, KindPurchase, KindAdjustment:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %s", errs.ErrInvalidTransactionKind, kind)
	}
}

// Allows reports whether the kind may move money in the given direction
func (k TransactionKind) Allows(direction Direction) bool {
	switch k {
	case KindFunding:
		return direction == Credit
	case KindWithdrawal, KindPurchase:
		return direction == Debit
	case KindAdjustment:
		return true
	default:
		return false
	}
}

// MarkCommitted records the balance the wallet reached with this entry
func (t *Transaction) MarkCommitted(balanceAfter int64) {
	t.Status = StatusCommitted
	t.BalanceAfter = balanceAfter
	t.FailureReason = ""
}

// MarkFailed records a rejected attempt
func (t *Transaction) MarkFailed(reason string) {
	t.Status = StatusFailed
	t.FailureReason = reason
}

// IsCredit returns true if this transaction increases the balance
func (t *Transaction) IsCredit() bool {
	return t.Amount > 0
}

// IsDebit returns true if this transaction decreases the balance
func (t *Transaction) IsDebit() bool {
	return t.Amount < 0
}

// AbsoluteAmount returns the unsigned amount in minor units
func (t *Transaction) AbsoluteAmount() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// Direction returns Credit or Debit based on the sign
func (t *Transaction) Direction() Direction {
	if t.IsDebit() {
		return Debit
	}
	return Credit
}

// SumCommitted folds committed entries into a balance
func SumCommitted(transactions []*Transaction) int64 {
	var balance int64
	for _, t := range transactions {
		if t.Status == StatusCommitted {
			balance += t.Amount
		}
	}
	return balance
}
