package model

import (
	"time"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// Wallet represents the database model for wallets. The balance is not
// stored; it is the sum of committed transactions.
type Wallet struct {
	ID               string    `gorm:"primaryKey;size:36"`
	UserID           string    `gorm:"not null;size:36;uniqueIndex"`
	Currency         string    `gorm:"not null;size:3"`
	AccountReference string    `gorm:"not null;size:64;uniqueIndex"`
	CreatedAt        time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Wallet
func (Wallet) TableName() string {
	return "wallets"
}

// WalletFromEntity converts a wallet entity to its database model
func WalletFromEntity(w *entity.Wallet) *Wallet {
	return &Wallet{
		ID:               w.ID,
		UserID:           w.UserID,
		Currency:         w.Currency,
		AccountReference: w.AccountReference,
		CreatedAt:        w.CreatedAt,
	}
}

// ToEntity converts the model to a wallet entity
func (m *Wallet) ToEntity() *entity.Wallet {
	return &entity.Wallet{
		ID:               m.ID,
		UserID:           m.UserID,
		Currency:         m.Currency,
		AccountReference: m.AccountReference,
		CreatedAt:        m.CreatedAt,
	}
}
