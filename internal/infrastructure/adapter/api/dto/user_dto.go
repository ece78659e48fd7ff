package dto

import (
	"fmt"
	"time"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
)

// DateLayout is the date of birth format accepted by the API
const DateLayout = "2006-01-02"

// RegisterRequest registers a user and provisions their wallet and virtual account
type RegisterRequest struct {
	FullName     string `json:"fullName" binding:"required"`
	Email        string `json:"email" binding:"required"`
	MobileNumber string `json:"mobileNumber" binding:"required"`
	BVN          string `json:"bvn" binding:"required"`
	NIN          string `json:"nin" binding:"required"`
	DateOfBirth  string `json:"dateOfBirth" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// ToRegistration converts the request into a domain registration
func (r RegisterRequest) ToRegistration() (entity.UserRegistration, error) {
	dob, err := time.Parse(DateLayout, r.DateOfBirth)
	if err != nil {
		return entity.UserRegistration{}, fmt.Errorf("%w: date of birth must be YYYY-MM-DD", errs.ErrInvalidRequest)
	}
	return entity.UserRegistration{
		FullName:     r.FullName,
		Email:        r.Email,
		MobileNumber: r.MobileNumber,
		BVN:          r.BVN,
		NIN:          r.NIN,
		DateOfBirth:  dob,
		Password:     r.Password,
	}, nil
}

// UserResponse represents a user. Identity numbers are masked.
type UserResponse struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobileNumber"`
	BVN          string    `json:"bvn"`
	NIN          string    `json:"nin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// VirtualAccountResponse represents a reserved bank account
type VirtualAccountResponse struct {
	AccountNumber         string `json:"accountNumber,omitempty"`
	BankName              string `json:"bankName,omitempty"`
	BankCode              string `json:"bankCode,omitempty"`
	ProvisioningReference string `json:"provisioningReference"`
	Status                string `json:"status"`
	FailureReason         string `json:"failureReason,omitempty"`
}

// ProvisioningResponse reports how far onboarding got
type ProvisioningResponse struct {
	State          string                  `json:"state"`
	User           *UserResponse           `json:"user,omitempty"`
	Wallet         *WalletResponse         `json:"wallet,omitempty"`
	VirtualAccount *VirtualAccountResponse `json:"virtualAccount,omitempty"`
	Error          *ErrorResponse          `json:"error,omitempty"`
}

// NewProvisioningResponse maps a provisioning result to its response
func NewProvisioningResponse(result *entity.ProvisioningResult) ProvisioningResponse {
	resp := ProvisioningResponse{
		State:  string(result.State),
		Wallet: NewWalletResponse(result.Wallet),
	}
	if user := result.User; user != nil {
		resp.User = &UserResponse{
			ID:           user.ID,
			FullName:     user.FullName,
			Email:        user.Email,
			MobileNumber: user.MobileNumber,
			BVN:          mask(user.BVN),
			NIN:          mask(user.NIN),
			CreatedAt:    user.CreatedAt,
		}
	}
	if account := result.VirtualAccount; account != nil {
		resp.VirtualAccount = &VirtualAccountResponse{
			AccountNumber:         account.AccountNumber,
			BankName:              account.BankName,
			BankCode:              account.BankCode,
			ProvisioningReference: account.ProvisioningReference,
			Status:                string(account.Status),
			FailureReason:         account.FailureReason,
		}
	}
	return resp
}

// mask keeps the last four digits
func mask(value string) string {
	if len(value) <= 4 {
		return value
	}
	masked := make([]byte, len(value))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(value)-4:], value[len(value)-4:])
	return string(masked)
}
