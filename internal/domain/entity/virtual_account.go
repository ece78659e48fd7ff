package entity

import (
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
)

// VirtualAccountStatus tracks a provisioning request at the payment processor
type VirtualAccountStatus string

// VirtualAccountStatus constants
const (
	VirtualAccountRequested VirtualAccountStatus = "requested"
	VirtualAccountActive    VirtualAccountStatus = "active"
	VirtualAccountFailed    VirtualAccountStatus = "failed"
)

// VirtualAccount is the reserved bank account that funds a wallet.
// Immutable once active.
type VirtualAccount struct {
	ID                    string
	WalletID              string
	AccountNumber         string
	BankName              string
	BankCode              string
	ProvisioningReference string // idempotency key shared with the gateway
	ReservationReference  string // processor-side id of the reservation
	Status                VirtualAccountStatus
	FailureReason         string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ProvisionedAccount holds the bank details returned by the gateway
type ProvisionedAccount struct {
	AccountNumber        string
	BankName             string
	BankCode             string
	ReservationReference string
}

// NewVirtualAccountRequest records the intent to provision before the gateway is called
func NewVirtualAccountRequest(id, walletID, reference string, timeProvider coreport.TimeProvider) (*VirtualAccount, error) {
	if id == "" || walletID == "" || reference == "" {
		return nil, fmt.Errorf("%w: virtual account id, wallet id and reference are required", errs.ErrInvalidRequest)
	}
	now := timeProvider.Now()
	return &VirtualAccount{
		ID:                    id,
		WalletID:              walletID,
		ProvisioningReference: reference,
		Status:                VirtualAccountRequested,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// IsActive reports whether the account has been provisioned
func (v *VirtualAccount) IsActive() bool {
	return v.Status == VirtualAccountActive
}

// Activate stores the provisioned bank details
func (v *VirtualAccount) Activate(account ProvisionedAccount, timeProvider coreport.TimeProvider) error {
	if v.IsActive() {
		return fmt.Errorf("%w: virtual account %s is already active", errs.ErrInvalidRequest, v.ID)
	}
	if account.AccountNumber == "" {
		return fmt.Errorf("%w: gateway returned no account number", errs.ErrGatewayRejected)
	}
	v.AccountNumber = account.AccountNumber
	v.BankName = account.BankName
	v.BankCode = account.BankCode
	v.ReservationReference = account.ReservationReference
	v.Status = VirtualAccountActive
	v.FailureReason = ""
	v.UpdatedAt = timeProvider.Now()
	return nil
}

// MarkFailed records why the last provisioning attempt failed. A failed
// request stays retryable with the same reference.
func (v *VirtualAccount) MarkFailed(reason string, timeProvider coreport.TimeProvider) {
	if v.IsActive() {
		return
	}
	v.Status = VirtualAccountFailed
	v.FailureReason = reason
	v.UpdatedAt = timeProvider.Now()
}

// MarkRequested moves a failed request back to requested before a retry
func (v *VirtualAccount) MarkRequested(timeProvider coreport.TimeProvider) {
	if v.IsActive() {
		return
	}
	v.Status = VirtualAccountRequested
	v.UpdatedAt = timeProvider.Now()
}
