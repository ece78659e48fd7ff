package provisioning

import (
	"context"
	"errors"
	"time"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/cashely/internal/domain/usecase/serial"
)

// DefaultGatewayTimeout bounds each gateway call when none is configured
const DefaultGatewayTimeout = 15 * time.Second

// Options tunes the orchestrator
type Options struct {
	VerifyIdentity bool
	GatewayTimeout time.Duration
	Currency       string
}

// ProvisioningUseCase runs onboarding: identity check, registration, wallet
// and virtual account. Steps that already happened are detected from the
// stored records and skipped; nothing is rolled back.
type ProvisioningUseCase struct {
	users           usecase.UserUseCase
	wallets         usecase.WalletUseCase
	virtualAccounts persistence.VirtualAccountRepository
	gateway         gateway.IdentityGateway
	executor        *serial.Executor
	idGenerator     coreport.IDGenerator
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	options         Options
}

// NewProvisioningUseCase creates a new provisioning use case instance
func NewProvisioningUseCase(
	users usecase.UserUseCase,
	wallets usecase.WalletUseCase,
	virtualAccounts persistence.VirtualAccountRepository,
	identityGateway gateway.IdentityGateway,
	executor *serial.Executor,
	idGenerator coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	options Options,
) usecase.ProvisioningUseCase {
	if options.GatewayTimeout <= 0 {
		options.GatewayTimeout = DefaultGatewayTimeout
	}
	return &ProvisioningUseCase{
		users:           users,
		wallets:         wallets,
		virtualAccounts: virtualAccounts,
		gateway:         identityGateway,
		executor:        executor,
		idGenerator:     idGenerator,
		timeProvider:    timeProvider,
		logger:          logger,
		options:         options,
	}
}

func provisionKey(walletID string) string {
	return "provision:" + walletID
}

// Provision runs the whole workflow for a registration
func (p *ProvisioningUseCase) Provision(ctx context.Context, reg entity.UserRegistration) (*entity.ProvisioningResult, error) {
	reg = reg.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	if p.options.VerifyIdentity {
		if err := p.verifyIdentity(ctx, reg); err != nil {
			return nil, err
		}
	}

	user, err := p.register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return p.continueFrom(ctx, user)
}

// Resume continues the workflow for an already registered user
func (p *ProvisioningUseCase) Resume(ctx context.Context, userID string) (*entity.ProvisioningResult, error) {
	user, err := p.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.continueFrom(ctx, user)
}

// Status reports the persisted provisioning state of a user
func (p *ProvisioningUseCase) Status(ctx context.Context, userID string) (*entity.ProvisioningResult, error) {
	user, err := p.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &entity.ProvisioningResult{User: user}

	wallet, err := p.wallets.GetWalletByUser(ctx, user.ID)
	switch {
	case err == nil:
		result.Wallet = wallet
	case !errors.Is(err, errs.ErrWalletNotFound):
		return nil, err
	}

	if result.Wallet != nil {
		account, err := p.virtualAccounts.GetByWalletID(ctx, result.Wallet.ID)
		switch {
		case err == nil:
			result.VirtualAccount = account
		case !errors.Is(err, errs.ErrVirtualAccountNotFound):
			return nil, err
		}
	}

	result.State = entity.DeriveProvisioningState(result.User, result.Wallet, result.VirtualAccount)
	return result, nil
}

func (p *ProvisioningUseCase) verifyIdentity(ctx context.Context, reg entity.UserRegistration) error {
	callCtx, cancel := p.timeProvider.WithTimeout(ctx, p.options.GatewayTimeout)
	defer cancel()

	matched, err := p.gateway.VerifyIdentity(callCtx, gateway.IdentityCheck{
		BVN:          reg.BVN,
		NIN:          reg.NIN,
		FullName:     reg.FullName,
		MobileNumber: reg.MobileNumber,
		DateOfBirth:  reg.DateOfBirth,
	})
	if err != nil {
		err = classifyGatewayError(callCtx, "verify identity", err)
		p.logger.Warn("Identity verification failed", map[string]any{
			"email": reg.Email,
			"error": err.Error(),
		})
		return err
	}
	if !matched {
		p.logger.Info("Identity details did not match", map[string]any{
			"email": reg.Email,
		})
		return errs.NewGatewayRejectedError("verify identity", 0, "identity details do not match BVN or NIN records")
	}
	return nil
}

// register creates the user, or picks up the existing one when the request
// repeats an earlier registration with the same identity and password
func (p *ProvisioningUseCase) register(ctx context.Context, reg entity.UserRegistration) (*entity.User, error) {
	user, err := p.users.Register(ctx, reg)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, errs.ErrDuplicateUser) {
		return nil, err
	}

	existing, authErr := p.users.Authenticate(ctx, reg.MobileNumber, reg.Password)
	if authErr != nil || !existing.SameIdentity(reg) {
		return nil, err
	}

	p.logger.Info("Registration repeated, resuming provisioning", map[string]any{
		"user_id": existing.ID,
	})
	return existing, nil
}

func (p *ProvisioningUseCase) continueFrom(ctx context.Context, user *entity.User) (*entity.ProvisioningResult, error) {
	result := &entity.ProvisioningResult{User: user, State: entity.StateRegistering}

	wallet, err := p.ensureWallet(ctx, user)
	if err != nil {
		result.State = entity.StateFailed
		return result, err
	}
	result.Wallet = wallet
	result.State = entity.StateWalletCreated

	account, err := serial.Run(ctx, p.executor, provisionKey(wallet.ID), func(ctx context.Context) (*entity.VirtualAccount, error) {
		return p.ensureVirtualAccount(ctx, user, wallet)
	})
	result.VirtualAccount = account
	if err != nil {
		result.State = entity.StateFailed
		return result, err
	}

	result.State = entity.DeriveProvisioningState(user, wallet, account)
	return result, nil
}

func (p *ProvisioningUseCase) ensureWallet(ctx context.Context, user *entity.User) (*entity.Wallet, error) {
	wallet, err := p.wallets.CreateWallet(ctx, user.ID, p.options.Currency)
	if err == nil {
		return wallet, nil
	}
	if errors.Is(err, errs.ErrDuplicateWallet) {
		return p.wallets.GetWalletByUser(ctx, user.ID)
	}
	return nil, err
}

// ensureVirtualAccount reserves the wallet's bank account. The request record
// is stored before the gateway call so a retry reuses the same reference.
func (p *ProvisioningUseCase) ensureVirtualAccount(ctx context.Context, user *entity.User, wallet *entity.Wallet) (*entity.VirtualAccount, error) {
	account, err := p.virtualAccounts.GetByWalletID(ctx, wallet.ID)
	switch {
	case err == nil && account.IsActive():
		return account, nil
	case err == nil:
		account.MarkRequested(p.timeProvider)
		if err := p.virtualAccounts.Update(ctx, account); err != nil {
			return account, err
		}
	case errors.Is(err, errs.ErrVirtualAccountNotFound):
		account, err = entity.NewVirtualAccountRequest(p.idGenerator.NewID(), wallet.ID, wallet.AccountReference, p.timeProvider)
		if err != nil {
			return nil, err
		}
		if err := p.virtualAccounts.Create(ctx, account); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	fields := map[string]any{
		"user_id":   user.ID,
		"wallet_id": wallet.ID,
		"reference": account.ProvisioningReference,
	}

	provisioned, err := p.requestAccount(ctx, user, wallet, account)
	if err == nil {
		err = account.Activate(*provisioned, p.timeProvider)
	}
	if err != nil {
		account.MarkFailed(err.Error(), p.timeProvider)
		if updateErr := p.virtualAccounts.Update(ctx, account); updateErr != nil {
			fields["update_error"] = updateErr.Error()
		}
		fields["error"] = err.Error()
		fields["retryable"] = errs.IsRetryable(err)
		p.logger.Warn("Virtual account provisioning failed", fields)
		return account, err
	}

	if err := p.virtualAccounts.Update(ctx, account); err != nil {
		fields["error"] = err.Error()
		p.logger.Error("Failed to store provisioned virtual account", fields)
		return account, err
	}

	fields["account_number"] = account.AccountNumber
	fields["bank_code"] = account.BankCode
	p.logger.Info("Virtual account active", fields)
	return account, nil
}

func (p *ProvisioningUseCase) requestAccount(
	ctx context.Context,
	user *entity.User,
	wallet *entity.Wallet,
	account *entity.VirtualAccount,
) (*entity.ProvisionedAccount, error) {
	callCtx, cancel := p.timeProvider.WithTimeout(ctx, p.options.GatewayTimeout)
	defer cancel()

	provisioned, err := p.gateway.ProvisionVirtualAccount(callCtx, gateway.VirtualAccountRequest{
		IdempotencyKey: account.ProvisioningReference,
		AccountName:    user.FullName,
		CustomerName:   user.FullName,
		CustomerEmail:  user.Email,
		BVN:            user.BVN,
		NIN:            user.NIN,
		CurrencyCode:   wallet.Currency,
	})
	if err != nil {
		return nil, classifyGatewayError(callCtx, "provision virtual account", err)
	}
	if provisioned == nil {
		return nil, errs.NewGatewayRejectedError("provision virtual account", 0, "empty response")
	}
	return provisioned, nil
}

// classifyGatewayError makes sure every gateway failure matches either
// ErrGatewayUnavailable or ErrGatewayRejected
func classifyGatewayError(ctx context.Context, operation string, err error) error {
	if errors.Is(err, errs.ErrGatewayUnavailable) || errors.Is(err, errs.ErrGatewayRejected) {
		return err
	}
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return errs.NewGatewayUnavailableError(operation, 0, "timed out", err)
	}
	return errs.NewGatewayUnavailableError(operation, 0, "unexpected failure", err)
}
