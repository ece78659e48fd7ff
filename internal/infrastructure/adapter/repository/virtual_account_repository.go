package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// VirtualAccountRepository implements the VirtualAccountRepository port using GORM
type VirtualAccountRepository struct {
	db          *gorm.DB
	logger      coreport.Logger
	errorMapper *ErrorMapper
}

// NewVirtualAccountRepository creates a new VirtualAccountRepository instance
func NewVirtualAccountRepository(db *gorm.DB, logger coreport.Logger) *VirtualAccountRepository {
	return &VirtualAccountRepository{
		db:          db,
		logger:      logger,
		errorMapper: NewErrorMapper(),
	}
}

// Create stores a requested virtual account
func (r *VirtualAccountRepository) Create(ctx context.Context, account *entity.VirtualAccount) error {
	if err := r.db.WithContext(ctx).Create(model.VirtualAccountFromEntity(account)).Error; err != nil {
		mapped := r.errorMapper.MapError(err, EntityVirtualAccount)
		r.logger.Error("Failed to create virtual account", map[string]any{
			"virtual_account_id": account.ID,
			"wallet_id":          account.WalletID,
			"error":              err.Error(),
		})
		return mapped
	}

	r.logger.Info("Virtual account requested", map[string]any{
		"virtual_account_id": account.ID,
		"wallet_id":          account.WalletID,
		"reference":          account.ProvisioningReference,
	})
	return nil
}

// GetByWalletID returns the virtual account record of a wallet
func (r *VirtualAccountRepository) GetByWalletID(ctx context.Context, walletID string) (*entity.VirtualAccount, error) {
	var row model.VirtualAccount
	if err := r.db.WithContext(ctx).First(&row, "wallet_id = ?", walletID).Error; err != nil {
		mapped := r.errorMapper.MapError(err, EntityVirtualAccount)
		if !errors.Is(mapped, errs.ErrVirtualAccountNotFound) {
			r.logger.Error("Failed to get virtual account", map[string]any{
				"wallet_id": walletID,
				"error":     err.Error(),
			})
		}
		return nil, mapped
	}
	return row.ToEntity(), nil
}

// Update persists status changes. The status guard keeps an active record
// from being overwritten by a late writer.
func (r *VirtualAccountRepository) Update(ctx context.Context, account *entity.VirtualAccount) error {
	result := r.db.WithContext(ctx).
		Model(&model.VirtualAccount{}).
		Where("id = ? AND status <> ?", account.ID, string(entity.VirtualAccountActive)).
		Updates(map[string]any{
			"account_number":        account.AccountNumber,
			"bank_name":             account.BankName,
			"bank_code":             account.BankCode,
			"reservation_reference": account.ReservationReference,
			"status":                string(account.Status),
			"failure_reason":        account.FailureReason,
			"updated_at":            account.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("Failed to update virtual account", map[string]any{
			"virtual_account_id": account.ID,
			"error":              result.Error.Error(),
		})
		return r.errorMapper.MapError(result.Error, EntityVirtualAccount)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.VirtualAccount{}).Where("id = ?", account.ID).Count(&count).Error; err != nil {
			return r.errorMapper.MapError(err, EntityVirtualAccount)
		}
		if count == 0 {
			return errs.ErrVirtualAccountNotFound
		}
		return fmt.Errorf("%w: virtual account %s is already active", errs.ErrConstraintViolation, account.ID)
	}

	r.logger.Info("Virtual account updated", map[string]any{
		"virtual_account_id": account.ID,
		"wallet_id":          account.WalletID,
		"status":             account.Status,
	})
	return nil
}
