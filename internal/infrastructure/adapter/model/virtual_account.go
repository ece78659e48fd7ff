package model

import (
	"time"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// VirtualAccount represents the database model for reserved bank accounts
type VirtualAccount struct {
	ID                    string    `gorm:"primaryKey;size:36"`
	WalletID              string    `gorm:"not null;size:36;uniqueIndex"`
	AccountNumber         string    `gorm:"size:20"`
	BankName              string    `gorm:"size:100"`
	BankCode              string    `gorm:"size:10"`
	ProvisioningReference string    `gorm:"not null;size:64;uniqueIndex"`
	ReservationReference  string    `gorm:"size:64"`
	Status                string    `gorm:"not null;size:20;index"`
	FailureReason         string    `gorm:"type:text"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`

	Wallet Wallet `gorm:"foreignKey:WalletID;references:ID"`
}

// TableName specifies the table name for VirtualAccount
func (VirtualAccount) TableName() string {
	return "virtual_accounts"
}

// VirtualAccountFromEntity converts a virtual account entity to its database model
func VirtualAccountFromEntity(v *entity.VirtualAccount) *VirtualAccount {
	return &VirtualAccount{
		ID:                    v.ID,
		WalletID:              v.WalletID,
		AccountNumber:         v.AccountNumber,
		BankName:              v.BankName,
		BankCode:              v.BankCode,
		ProvisioningReference: v.ProvisioningReference,
		ReservationReference:  v.ReservationReference,
		Status:                string(v.Status),
		FailureReason:         v.FailureReason,
		CreatedAt:             v.CreatedAt,
		UpdatedAt:             v.UpdatedAt,
	}
}

// ToEntity converts the model to a virtual account entity
func (m *VirtualAccount) ToEntity() *entity.VirtualAccount {
	return &entity.VirtualAccount{
		ID:                    m.ID,
		WalletID:              m.WalletID,
		AccountNumber:         m.AccountNumber,
		BankName:              m.BankName,
		BankCode:              m.BankCode,
		ProvisioningReference: m.ProvisioningReference,
		ReservationReference:  m.ReservationReference,
		Status:                entity.VirtualAccountStatus(m.Status),
		FailureReason:         m.FailureReason,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}
