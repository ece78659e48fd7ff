package gateway

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// IdentityCheck carries the identity numbers to verify and the details they
// must match
type IdentityCheck struct {
	BVN          string
	NIN          string
	FullName     string
	MobileNumber string
	DateOfBirth  time.Time
}

// VirtualAccountRequest asks the processor to reserve a bank account.
// IdempotencyKey is stable per wallet so a retried request cannot reserve twice.
type VirtualAccountRequest struct {
	IdempotencyKey string
	AccountName    string
	CustomerName   string
	CustomerEmail  string
	BVN            string
	NIN            string
	CurrencyCode   string
}

// IdentityGateway is the external identity verification and account
// provisioning service. Errors are classified as ErrGatewayUnavailable
// (timeouts, transport and 5xx failures, safe to retry) or ErrGatewayRejected.
type IdentityGateway interface {
	VerifyIdentity(ctx context.Context, check IdentityCheck) (bool, error)
	ProvisionVirtualAccount(ctx context.Context, req VirtualAccountRequest) (*entity.ProvisionedAccount, error)
}
