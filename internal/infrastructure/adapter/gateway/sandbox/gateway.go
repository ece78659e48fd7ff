// Package sandbox provides an in-process identity gateway for development
// and load tests. Results are deterministic: the same idempotency key always
// reserves the same account number.
package sandbox

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/gateway"
)

// Identity numbers starting with RejectedPrefix never match
const RejectedPrefix = "000"

// Bank details of every sandbox account
const (
	BankName = "Moniepoint Microfinance Bank"
	BankCode = "50515"
)

// Gateway is a deterministic IdentityGateway
type Gateway struct {
	logger coreport.Logger

	mu           sync.Mutex
	reservations map[string]*entity.ProvisionedAccount
}

// NewGateway creates a sandbox gateway
func NewGateway(logger coreport.Logger) *Gateway {
	return &Gateway{
		logger:       logger,
		reservations: make(map[string]*entity.ProvisionedAccount),
	}
}

// VerifyIdentity matches every identity except those with a rejected prefix
func (g *Gateway) VerifyIdentity(ctx context.Context, check gateway.IdentityCheck) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errs.NewGatewayUnavailableError("verify identity", 0, "request cancelled", err)
	}
	matched := !strings.HasPrefix(check.BVN, RejectedPrefix) && !strings.HasPrefix(check.NIN, RejectedPrefix)
	g.logger.Debug("Sandbox identity check", map[string]any{"matched": matched})
	return matched, nil
}

// ProvisionVirtualAccount reserves an account whose number is derived from the idempotency key
func (g *Gateway) ProvisionVirtualAccount(ctx context.Context, req gateway.VirtualAccountRequest) (*entity.ProvisionedAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.NewGatewayUnavailableError("reserve account", 0, "request cancelled", err)
	}
	if req.IdempotencyKey == "" {
		return nil, errs.NewGatewayRejectedError("reserve account", 400, "account reference is required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if account, ok := g.reservations[req.IdempotencyKey]; ok {
		copied := *account
		return &copied, nil
	}

	account := &entity.ProvisionedAccount{
		AccountNumber:        accountNumber(req.IdempotencyKey),
		BankName:             BankName,
		BankCode:             BankCode,
		ReservationReference: "SANDBOX-" + req.IdempotencyKey,
	}
	g.reservations[req.IdempotencyKey] = account

	g.logger.Info("Sandbox account reserved", map[string]any{
		"account_reference": req.IdempotencyKey,
		"account_number":    account.AccountNumber,
	})
	copied := *account
	return &copied, nil
}

// Reservations reports how many distinct references were reserved
func (g *Gateway) Reservations() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.reservations)
}

// accountNumber is a 10-digit NUBAN-shaped number
func accountNumber(reference string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(reference))
	return fmt.Sprintf("%010d", h.Sum64()%10_000_000_000)
}

var _ gateway.IdentityGateway = (*Gateway)(nil)
