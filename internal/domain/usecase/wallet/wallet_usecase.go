package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/cashely/internal/domain/usecase/serial"
)

// WalletUseCase opens wallets and moves money through the ledger. Writes to
// one wallet are serialized through the executor.
type WalletUseCase struct {
	walletRepo      persistence.WalletRepository
	userRepo        persistence.UserRepository
	ledger          persistence.LedgerRepository
	executor        *serial.Executor
	idGenerator     coreport.IDGenerator
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	defaultCurrency string
}

// NewWalletUseCase creates a new wallet use case instance
func NewWalletUseCase(
	walletRepo persistence.WalletRepository,
	userRepo persistence.UserRepository,
	ledger persistence.LedgerRepository,
	executor *serial.Executor,
	idGenerator coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	defaultCurrency string,
) usecase.WalletUseCase {
	if defaultCurrency == "" {
		defaultCurrency = entity.DefaultCurrency
	}
	return &WalletUseCase{
		walletRepo:      walletRepo,
		userRepo:        userRepo,
		ledger:          ledger,
		executor:        executor,
		idGenerator:     idGenerator,
		timeProvider:    timeProvider,
		logger:          logger,
		defaultCurrency: defaultCurrency,
	}
}

func walletKey(walletID string) string {
	return "wallet:" + walletID
}

func ownerKey(userID string) string {
	return "wallet-owner:" + userID
}

// CreateWallet opens the single wallet of a user
func (w *WalletUseCase) CreateWallet(ctx context.Context, userID, currency string) (*entity.Wallet, error) {
	userID = strings.TrimSpace(userID)
	if strings.TrimSpace(currency) == "" {
		currency = w.defaultCurrency
	}

	wallet, err := entity.NewWallet(w.idGenerator.NewID(), userID, currency, w.timeProvider)
	if err != nil {
		return nil, err
	}

	return serial.Run(ctx, w.executor, ownerKey(userID), func(ctx context.Context) (*entity.Wallet, error) {
		if _, err := w.userRepo.GetByID(ctx, userID); err != nil {
			return nil, err
		}

		existing, err := w.walletRepo.GetByUserID(ctx, userID)
		switch {
		case err == nil:
			return nil, fmt.Errorf("%w: user %s owns wallet %s", errs.ErrDuplicateWallet, userID, existing.ID)
		case !errors.Is(err, errs.ErrWalletNotFound):
			return nil, err
		}

		if err := w.walletRepo.Create(ctx, wallet); err != nil {
			return nil, err
		}

		w.logger.Info("Wallet created", map[string]any{
			"wallet_id": wallet.ID,
			"user_id":   userID,
			"currency":  wallet.Currency,
		})
		return wallet, nil
	})
}

// GetWallet returns a wallet by id
func (w *WalletUseCase) GetWallet(ctx context.Context, walletID string) (*entity.Wallet, error) {
	return w.walletRepo.GetByID(ctx, strings.TrimSpace(walletID))
}

// GetWalletByUser returns the wallet owned by a user
func (w *WalletUseCase) GetWalletByUser(ctx context.Context, userID string) (*entity.Wallet, error) {
	return w.walletRepo.GetByUserID(ctx, strings.TrimSpace(userID))
}

// Credit adds amount (minor units) to a wallet
func (w *WalletUseCase) Credit(ctx context.Context, walletID string, amount int64, reference string, kind entity.TransactionKind) (*entity.Transaction, error) {
	return w.append(ctx, walletID, entity.Credit, amount, reference, kind)
}

// Debit takes amount (minor units) from a wallet, never below zero
func (w *WalletUseCase) Debit(ctx context.Context, walletID string, amount int64, reference string, kind entity.TransactionKind) (*entity.Transaction, error) {
	return w.append(ctx, walletID, entity.Debit, amount, reference, kind)
}

func (w *WalletUseCase) append(
	ctx context.Context,
	walletID string,
	direction entity.Direction,
	amount int64,
	reference string,
	kind entity.TransactionKind,
) (*entity.Transaction, error) {
	walletID = strings.TrimSpace(walletID)

	// the entry is built inside the job so its id and timestamp follow commit order
	committed, err := serial.Run(ctx, w.executor, walletKey(walletID), func(ctx context.Context) (*entity.Transaction, error) {
		transaction, err := entity.NewTransaction(w.idGenerator.NewID(), walletID, direction, amount, kind, reference, w.timeProvider)
		if err != nil {
			return nil, err
		}
		if err := w.ledger.Append(ctx, transaction); err != nil {
			return nil, err
		}
		return transaction, nil
	})
	if err != nil {
		return nil, errs.NewTransactionError(
			walletID,
			string(kind),
			entity.FormatAmount(amount),
			strings.TrimSpace(reference),
			direction.String()+" rejected",
			err,
		)
	}

	w.logger.Debug("Ledger entry appended", map[string]any{
		"wallet_id":      walletID,
		"transaction_id": committed.ID,
		"direction":      direction.String(),
	})
	return committed, nil
}

// GetBalance computes the balance of a wallet given its id or an owner lookup
// key (user id, email or mobile number)
func (w *WalletUseCase) GetBalance(ctx context.Context, key string) (*entity.WalletBalance, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: wallet id or user key is required", errs.ErrInvalidRequest)
	}

	wallet, err := w.resolveWallet(ctx, key)
	if err != nil {
		return nil, err
	}

	balance, err := w.ledger.Balance(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}

	return &entity.WalletBalance{
		WalletID: wallet.ID,
		UserID:   wallet.UserID,
		Currency: wallet.Currency,
		Balance:  balance,
	}, nil
}

// resolveWallet tries key as a wallet id first, then as a user lookup key
func (w *WalletUseCase) resolveWallet(ctx context.Context, key string) (*entity.Wallet, error) {
	wallet, err := w.walletRepo.GetByID(ctx, key)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, errs.ErrWalletNotFound) {
		return nil, err
	}

	user, err := w.userRepo.FindByLookupKey(ctx, key)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: no wallet or user matches %q", errs.ErrWalletNotFound, key)
		}
		return nil, err
	}
	return w.walletRepo.GetByUserID(ctx, user.ID)
}

// ListTransactions returns committed transactions in creation order
func (w *WalletUseCase) ListTransactions(ctx context.Context, walletID string) ([]*entity.Transaction, error) {
	wallet, err := w.walletRepo.GetByID(ctx, strings.TrimSpace(walletID))
	if err != nil {
		return nil, err
	}
	return w.ledger.ListByWallet(ctx, wallet.ID)
}
