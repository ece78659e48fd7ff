package model

import (
	"time"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// Transaction represents the database model for ledger entries. Reference is
// NULL when the caller gave none; a partial unique index covers committed rows.
type Transaction struct {
	ID            string    `gorm:"primaryKey;size:36"`
	WalletID      string    `gorm:"not null;size:36;index:idx_transactions_wallet_status,priority:1"`
	Amount        int64     `gorm:"not null"`
	Kind          string    `gorm:"not null;size:20"`
	Reference     *string   `gorm:"size:255"`
	Status        string    `gorm:"not null;size:20;index:idx_transactions_wallet_status,priority:2"`
	BalanceAfter  int64     `gorm:"not null;default:0"`
	FailureReason string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`

	Wallet Wallet `gorm:"foreignKey:WalletID;references:ID"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionFromEntity converts a transaction entity to its database model
func TransactionFromEntity(t *entity.Transaction) *Transaction {
	return &Transaction{
		ID:            t.ID,
		WalletID:      t.WalletID,
		Amount:        t.Amount,
		Kind:          string(t.Kind),
		Reference:     nullableString(t.Reference),
		Status:        string(t.Status),
		BalanceAfter:  t.BalanceAfter,
		FailureReason: t.FailureReason,
		CreatedAt:     t.CreatedAt,
	}
}

// ToEntity converts the model to a transaction entity
func (m *Transaction) ToEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:            m.ID,
		WalletID:      m.WalletID,
		Amount:        m.Amount,
		Kind:          entity.TransactionKind(m.Kind),
		Reference:     stringValue(m.Reference),
		Status:        entity.TransactionStatus(m.Status),
		BalanceAfter:  m.BalanceAfter,
		FailureReason: m.FailureReason,
		CreatedAt:     m.CreatedAt,
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
