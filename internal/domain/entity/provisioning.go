package entity

// ProvisioningState is the progress of onboarding a user
type ProvisioningState string

// Provisioning states
const (
	StateRegistering      ProvisioningState = "registering"
	StateWalletCreated    ProvisioningState = "wallet_created"
	StateAccountRequested ProvisioningState = "account_requested"
	StateActive           ProvisioningState = "active"
	StateFailed           ProvisioningState = "failed"
)

// ProvisioningResult is what the orchestrator knows about a user after a run
type ProvisioningResult struct {
	User           *User
	Wallet         *Wallet
	VirtualAccount *VirtualAccount
	State          ProvisioningState
}

// DeriveProvisioningState computes the state from the persisted records, so a
// re-run can tell where the previous one stopped.
func DeriveProvisioningState(user *User, wallet *Wallet, account *VirtualAccount) ProvisioningState {
	switch {
	case user == nil:
		return StateRegistering
	case wallet == nil:
		return StateRegistering
	case account == nil:
		return StateWalletCreated
	case account.Status == VirtualAccountActive:
		return StateActive
	case account.Status == VirtualAccountFailed:
		return StateFailed
	default:
		return StateAccountRequested
	}
}
