package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientFunds     = 4001
	CodeInvalidAmount         = 4002
	CodeInvalidRequest        = 4003
	CodeDuplicateReference    = 4004
	CodeConstraintViolation   = 4005
	CodeAmountOverflow        = 4006
	CodeInvalidQuantity       = 4007
	CodeInvalidCurrency       = 4008
	CodeInvalidKind           = 4009
	CodeWeakPassword          = 4010
	CodeInsufficientStock     = 4011
	CodeInvalidCredentials    = 4012
	CodeUserNotFound          = 4040
	CodeWalletNotFound        = 4041
	CodeUnknownItem           = 4042
	CodeVirtualAccountMissing = 4043
	CodeNotFound              = 4044
	CodeDuplicateUser         = 4090
	CodeDuplicateWallet       = 4091
	CodeGatewayRejected       = 4220

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeDatabaseConnection = 5001
	CodeGatewayUnavailable = 5030
)

// Base error types
var (
	// ErrInsufficientFunds is returned when a debit would drive a wallet balance negative
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount is returned when an amount is malformed, zero or negative
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountOverflow is returned when the amount is too large and would cause overflow
	ErrAmountOverflow = errors.New("amount is too large and would cause overflow")

	// ErrInvalidQuantity is returned when a stock quantity is not acceptable
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidCurrency is returned when a currency code is not a three letter code
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrInvalidTransactionKind is returned when a kind is unknown or does not fit the direction
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrWeakPassword is returned when a password does not satisfy the minimum length
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrInvalidCredentials is returned when a mobile number and password do not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateUser is returned when email, mobile number, BVN or NIN is already registered
	ErrDuplicateUser = errors.New("user already exists")

	// ErrDuplicateWallet is returned when the user already owns a wallet
	ErrDuplicateWallet = errors.New("wallet already exists for user")

	// ErrDuplicateReference is returned when a committed transaction already carries the reference
	ErrDuplicateReference = errors.New("reference already committed")

	// ErrUnknownItem is returned when an inventory item does not exist
	ErrUnknownItem = errors.New("unknown inventory item")

	// ErrInsufficientStock is returned when an allocation exceeds remaining stock
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrGatewayUnavailable is returned when the external gateway timed out or failed transiently
	ErrGatewayUnavailable = errors.New("gateway unavailable")

	// ErrGatewayRejected is returned when the external gateway refused the request
	ErrGatewayRejected = errors.New("gateway rejected request")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrWalletNotFound is returned when the requested wallet doesn't exist
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrVirtualAccountNotFound is returned when a wallet has no virtual account record
	ErrVirtualAccountNotFound = errors.New("virtual account not found")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrAmountOverflow):
		return CodeAmountOverflow
	case errors.Is(err, ErrInvalidQuantity):
		return CodeInvalidQuantity
	case errors.Is(err, ErrInvalidCurrency):
		return CodeInvalidCurrency
	case errors.Is(err, ErrInvalidTransactionKind):
		return CodeInvalidKind
	case errors.Is(err, ErrWeakPassword):
		return CodeWeakPassword
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrDuplicateUser):
		return CodeDuplicateUser
	case errors.Is(err, ErrDuplicateWallet):
		return CodeDuplicateWallet
	case errors.Is(err, ErrDuplicateReference):
		return CodeDuplicateReference
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrUnknownItem):
		return CodeUnknownItem
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrWalletNotFound):
		return CodeWalletNotFound
	case errors.Is(err, ErrVirtualAccountNotFound):
		return CodeVirtualAccountMissing
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrTransactionNotFound):
		return CodeNotFound
	case errors.Is(err, ErrGatewayRejected):
		return CodeGatewayRejected
	case errors.Is(err, ErrGatewayUnavailable):
		return CodeGatewayUnavailable
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseConnection
	default:
		return CodeInternalServer
	}
}

// TransactionError represents an error related to ledger operations on a wallet
type TransactionError struct {
	WalletID  string
	Kind      string
	Amount    string
	Reference string
	Reason    string
	Err       error
}

// Error implements the error interface for TransactionError
func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction error for wallet %s (kind: %s, amount: %s): %s - %v",
		e.WalletID, e.Kind, e.Amount, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *TransactionError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "transaction_error",
		"wallet_id":  e.WalletID,
		"kind":       e.Kind,
		"amount":     e.Amount,
		"reference":  e.Reference,
		"reason":     e.Reason,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewTransactionError creates a detailed transaction error
func NewTransactionError(walletID, kind, amount, reference, reason string, err error) error {
	return &TransactionError{
		WalletID:  walletID,
		Kind:      kind,
		Amount:    amount,
		Reference: reference,
		Reason:    reason,
		Err:       err,
	}
}

// InsufficientFundsError provides detailed error information for a rejected debit
type InsufficientFundsError struct {
	WalletID string
	Amount   string
	Balance  string
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in wallet %s: required %s, available %s",
		e.WalletID, e.Amount, e.Balance)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"wallet_id":  e.WalletID,
		"amount":     e.Amount,
		"balance":    e.Balance,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(walletID, amount, balance string) error {
	return &InsufficientFundsError{
		WalletID: walletID,
		Amount:   amount,
		Balance:  balance,
	}
}

// DuplicateReferenceError provides detailed information about a reused transaction reference
type DuplicateReferenceError struct {
	Reference string
	WalletID  string
}

// Error implements the error interface
func (e *DuplicateReferenceError) Error() string {
	return fmt.Sprintf("duplicate reference detected: reference=%s for wallet %s",
		e.Reference, e.WalletID)
}

// Is checks if the target error is an ErrDuplicateReference
func (e *DuplicateReferenceError) Is(target error) bool {
	return target == ErrDuplicateReference
}

// LogFields returns a map of fields for structured logging
func (e *DuplicateReferenceError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "duplicate_reference",
		"reference":  e.Reference,
		"wallet_id":  e.WalletID,
		"error_code": CodeDuplicateReference,
	}
}

// NewDuplicateReferenceError creates a new detailed duplicate reference error
func NewDuplicateReferenceError(reference, walletID string) error {
	return &DuplicateReferenceError{
		Reference: reference,
		WalletID:  walletID,
	}
}

// InsufficientStockError reports an allocation larger than the stock on hand
type InsufficientStockError struct {
	ItemID    string
	Requested int64
	Available int64
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: requested %d, available %d",
		e.ItemID, e.Requested, e.Available)
}

// Is checks if the target error is an ErrInsufficientStock
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientStockError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_stock",
		"item_id":    e.ItemID,
		"requested":  e.Requested,
		"available":  e.Available,
		"error_code": CodeInsufficientStock,
	}
}

// NewInsufficientStockError creates a new detailed insufficient stock error
func NewInsufficientStockError(itemID string, requested, available int64) error {
	return &InsufficientStockError{
		ItemID:    itemID,
		Requested: requested,
		Available: available,
	}
}

// GatewayError describes a failed call to the identity and account gateway.
// Err is either ErrGatewayUnavailable or ErrGatewayRejected.
type GatewayError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
	Cause      error
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	msg := fmt.Sprintf("gateway %s failed", e.Operation)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Is matches the classification sentinel
func (e *GatewayError) Is(target error) bool {
	return target == e.Err
}

// Unwrap returns the transport or decoding cause, if any
func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// LogFields returns a map of fields for structured logging
func (e *GatewayError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type":  "gateway_error",
		"operation":   e.Operation,
		"status_code": e.StatusCode,
		"message":     e.Message,
		"error_code":  ErrorCode(e.Err),
	}
	if e.Cause != nil {
		fields["cause"] = e.Cause.Error()
	}
	return fields
}

// NewGatewayUnavailableError creates an error for transient gateway failures
func NewGatewayUnavailableError(operation string, statusCode int, message string, cause error) error {
	return &GatewayError{
		Operation:  operation,
		StatusCode: statusCode,
		Message:    message,
		Err:        ErrGatewayUnavailable,
		Cause:      cause,
	}
}

// NewGatewayRejectedError creates an error for requests the gateway refused
func NewGatewayRejectedError(operation string, statusCode int, message string) error {
	return &GatewayError{
		Operation:  operation,
		StatusCode: statusCode,
		Message:    message,
		Err:        ErrGatewayRejected,
	}
}

// IsDuplicateReferenceError checks if the error is a duplicate reference error
func IsDuplicateReferenceError(err error) bool {
	return errors.Is(err, ErrDuplicateReference)
}

// IsInsufficientFundsError checks if the error is related to insufficient funds
func IsInsufficientFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrWalletNotFound) ||
		errors.Is(err, ErrUnknownItem) ||
		errors.Is(err, ErrVirtualAccountNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}

// IsRetryable reports whether the operation may be retried unchanged
func IsRetryable(err error) bool {
	return errors.Is(err, ErrGatewayUnavailable)
}
