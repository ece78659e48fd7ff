package repository

import (
	"context"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// WalletRepository implements the WalletRepository port using GORM
type WalletRepository struct {
	db          *gorm.DB
	logger      coreport.Logger
	errorMapper *ErrorMapper
}

// NewWalletRepository creates a new WalletRepository instance
func NewWalletRepository(db *gorm.DB, logger coreport.Logger) *WalletRepository {
	return &WalletRepository{
		db:          db,
		logger:      logger,
		errorMapper: NewErrorMapper(),
	}
}

func (r *WalletRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	mapped := r.errorMapper.MapError(err, EntityWallet)
	fields["operation"] = operation
	fields["error"] = err.Error()
	if isExpected(mapped) {
		r.logger.Debug("Wallet lookup or insert rejected", fields)
	} else {
		r.logger.Error("Database error on wallets", fields)
	}
	return mapped
}

// Create stores a new wallet. The unique user_id index enforces one wallet per user.
func (r *WalletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	if err := r.db.WithContext(ctx).Create(model.WalletFromEntity(wallet)).Error; err != nil {
		return r.handleDatabaseError("create", err, map[string]any{
			"wallet_id": wallet.ID,
			"user_id":   wallet.UserID,
		})
	}

	r.logger.Info("Wallet created", map[string]any{
		"wallet_id": wallet.ID,
		"user_id":   wallet.UserID,
		"currency":  wallet.Currency,
	})
	return nil
}

// GetByID retrieves a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*entity.Wallet, error) {
	var walletModel model.Wallet
	if err := r.db.WithContext(ctx).First(&walletModel, "id = ?", id).Error; err != nil {
		return nil, r.handleDatabaseError("get", err, map[string]any{"wallet_id": id})
	}
	return walletModel.ToEntity(), nil
}

// GetByUserID retrieves the wallet owned by a user
func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*entity.Wallet, error) {
	var walletModel model.Wallet
	if err := r.db.WithContext(ctx).First(&walletModel, "user_id = ?", userID).Error; err != nil {
		return nil, r.handleDatabaseError("get by user", err, map[string]any{"user_id": userID})
	}
	return walletModel.ToEntity(), nil
}
