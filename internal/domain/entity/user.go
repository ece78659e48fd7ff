package entity

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 8

// identityNumberLength is the length of both BVN and NIN
const identityNumberLength = 11

// User is a registered customer. Immutable after registration.
type User struct {
	ID           string
	FullName     string
	Email        string
	MobileNumber string
	BVN          string
	NIN          string
	DateOfBirth  time.Time
	PasswordHash string
	CreatedAt    time.Time
}

// UserRegistration carries the identity details submitted by a new customer
type UserRegistration struct {
	FullName     string
	Email        string
	MobileNumber string
	BVN          string
	NIN          string
	DateOfBirth  time.Time
	Password     string
}

// Normalize trims the identity fields and lower-cases the email
func (r UserRegistration) Normalize() UserRegistration {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.MobileNumber = strings.TrimSpace(r.MobileNumber)
	r.BVN = strings.TrimSpace(r.BVN)
	r.NIN = strings.TrimSpace(r.NIN)
	return r
}

// Validate checks a normalized registration
func (r UserRegistration) Validate() error {
	if r.FullName == "" {
		return fmt.Errorf("%w: full name is required", errs.ErrInvalidRequest)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil || r.Email == "" {
		return fmt.Errorf("%w: invalid email address", errs.ErrInvalidRequest)
	}
	if !isMobileNumber(r.MobileNumber) {
		return fmt.Errorf("%w: invalid mobile number", errs.ErrInvalidRequest)
	}
	if !isDigits(r.BVN, identityNumberLength) {
		return fmt.Errorf("%w: BVN must be %d digits", errs.ErrInvalidRequest, identityNumberLength)
	}
	if !isDigits(r.NIN, identityNumberLength) {
		return fmt.Errorf("%w: NIN must be %d digits", errs.ErrInvalidRequest, identityNumberLength)
	}
	if r.DateOfBirth.IsZero() {
		return fmt.Errorf("%w: date of birth is required", errs.ErrInvalidRequest)
	}
	return ValidatePassword(r.Password)
}

// ValidatePassword enforces the minimum password length
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errs.ErrWeakPassword
	}
	return nil
}

// NewUser builds a user from a validated registration and an already hashed password
func NewUser(id string, reg UserRegistration, passwordHash string, timeProvider coreport.TimeProvider) (*User, error) {
	reg = reg.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	if id == "" || passwordHash == "" {
		return nil, fmt.Errorf("%w: missing user id or password hash", errs.ErrInvalidRequest)
	}

	return &User{
		ID:           id,
		FullName:     reg.FullName,
		Email:        reg.Email,
		MobileNumber: reg.MobileNumber,
		BVN:          reg.BVN,
		NIN:          reg.NIN,
		DateOfBirth:  reg.DateOfBirth,
		PasswordHash: passwordHash,
		CreatedAt:    timeProvider.Now(),
	}, nil
}

// SameIdentity reports whether the registration names exactly this user.
// A partial overlap (same email, different BVN) is a conflict, not a retry.
func (u *User) SameIdentity(reg UserRegistration) bool {
	reg = reg.Normalize()
	return u.Email == reg.Email &&
		u.MobileNumber == reg.MobileNumber &&
		u.BVN == reg.BVN &&
		u.NIN == reg.NIN
}

func isDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isMobileNumber(s string) bool {
	s = strings.TrimPrefix(s, "+")
	if len(s) < 10 || len(s) > 14 {
		return false
	}
	return isDigits(s, len(s))
}
