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
	"gorm.io/gorm/clause"
)

// LedgerRepository implements the append-only LedgerRepository port using GORM
type LedgerRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorMapper     *ErrorMapper
	errorClassifier *ErrorClassifier
}

// NewLedgerRepository creates a new LedgerRepository instance
func NewLedgerRepository(db *gorm.DB, logger coreport.Logger) *LedgerRepository {
	return &LedgerRepository{
		db:              db,
		logger:          logger,
		errorMapper:     NewErrorMapper(),
		errorClassifier: NewErrorClassifier(),
	}
}

// rejection carries a domain refusal out of the database transaction so it
// can be told apart from infrastructure failures after rollback
type rejection struct {
	err error
}

func (r *rejection) Error() string { return r.err.Error() }

func (r *rejection) Unwrap() error { return r.err }

// Append commits a pending transaction or records it as failed
func (r *LedgerRepository) Append(ctx context.Context, transaction *entity.Transaction) error {
	if transaction.Status != entity.StatusPending {
		return fmt.Errorf("%w: transaction %s is %s, not pending", errs.ErrInvalidRequest, transaction.ID, transaction.Status)
	}

	fields := map[string]any{
		"transaction_id": transaction.ID,
		"wallet_id":      transaction.WalletID,
		"amount":         transaction.Amount,
		"kind":           transaction.Kind,
		"reference":      transaction.Reference,
	}

	var committed entity.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet model.Wallet
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&wallet, "id = ?", transaction.WalletID).Error
		if err != nil {
			return r.errorMapper.MapError(err, EntityWallet)
		}

		if transaction.Reference != "" {
			var count int64
			err := tx.Model(&model.Transaction{}).
				Where("reference = ? AND status = ?", transaction.Reference, string(entity.StatusCommitted)).
				Count(&count).Error
			if err != nil {
				return r.errorMapper.MapError(err, EntityTransaction)
			}
			if count > 0 {
				return &rejection{errs.NewDuplicateReferenceError(transaction.Reference, transaction.WalletID)}
			}
		}

		balance, err := sumCommitted(tx, transaction.WalletID)
		if err != nil {
			return r.errorMapper.MapError(err, EntityTransaction)
		}

		next, err := entity.AddAmounts(balance, transaction.Amount)
		if err != nil {
			return &rejection{err}
		}
		if next < 0 {
			return &rejection{errs.NewInsufficientFundsError(
				transaction.WalletID,
				entity.FormatAmount(transaction.AbsoluteAmount()),
				entity.FormatAmount(balance),
			)}
		}

		committed = *transaction
		committed.MarkCommitted(next)
		if err := tx.Create(model.TransactionFromEntity(&committed)).Error; err != nil {
			// lost a race on the partial unique index
			if r.errorClassifier.IsDuplicateKeyError(err) && transaction.Reference != "" {
				return &rejection{errs.NewDuplicateReferenceError(transaction.Reference, transaction.WalletID)}
			}
			return r.errorMapper.MapError(err, EntityTransaction)
		}
		return nil
	})

	if err == nil {
		*transaction = committed
		fields["balance_after"] = transaction.BalanceAfter
		r.logger.Info("Transaction committed", fields)
		return nil
	}

	var rejected *rejection
	if !errors.As(err, &rejected) {
		fields["error"] = err.Error()
		r.logger.Error("Failed to append transaction", fields)
		return err
	}

	transaction.MarkFailed(rejected.err.Error())
	if recordErr := r.db.WithContext(ctx).Create(model.TransactionFromEntity(transaction)).Error; recordErr != nil {
		fields["record_error"] = recordErr.Error()
		r.logger.Error("Failed to record rejected transaction", fields)
	}

	fields["reason"] = transaction.FailureReason
	r.logger.Warn("Transaction rejected", fields)
	return rejected.err
}

// Balance folds the committed transactions of a wallet
func (r *LedgerRepository) Balance(ctx context.Context, walletID string) (int64, error) {
	balance, err := sumCommitted(r.db.WithContext(ctx), walletID)
	if err != nil {
		r.logger.Error("Failed to compute balance", map[string]any{
			"wallet_id": walletID,
			"error":     err.Error(),
		})
		return 0, r.errorMapper.MapError(err, EntityTransaction)
	}
	return balance, nil
}

// ListByWallet returns committed transactions in creation order
func (r *LedgerRepository) ListByWallet(ctx context.Context, walletID string) ([]*entity.Transaction, error) {
	return r.list(r.db.WithContext(ctx).
		Where("wallet_id = ? AND status = ?", walletID, string(entity.StatusCommitted)))
}

// ListAttempts returns every recorded attempt in creation order
func (r *LedgerRepository) ListAttempts(ctx context.Context, walletID string) ([]*entity.Transaction, error) {
	return r.list(r.db.WithContext(ctx).Where("wallet_id = ?", walletID))
}

func (r *LedgerRepository) list(query *gorm.DB) ([]*entity.Transaction, error) {
	var rows []model.Transaction
	if err := query.Order("created_at, id").Find(&rows).Error; err != nil {
		r.logger.Error("Failed to list transactions", map[string]any{"error": err.Error()})
		return nil, r.errorMapper.MapError(err, EntityTransaction)
	}

	transactions := make([]*entity.Transaction, 0, len(rows))
	for i := range rows {
		transactions = append(transactions, rows[i].ToEntity())
	}
	return transactions, nil
}

// GetByReference returns the committed transaction carrying reference
func (r *LedgerRepository) GetByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	var row model.Transaction
	err := r.db.WithContext(ctx).
		Where("reference = ? AND status = ?", reference, string(entity.StatusCommitted)).
		First(&row).Error
	if err != nil {
		return nil, r.errorMapper.MapError(err, EntityTransaction)
	}
	return row.ToEntity(), nil
}

func sumCommitted(db *gorm.DB, walletID string) (int64, error) {
	var balance int64
	err := db.Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("wallet_id = ? AND status = ?", walletID, string(entity.StatusCommitted)).
		Scan(&balance).Error
	return balance, err
}
