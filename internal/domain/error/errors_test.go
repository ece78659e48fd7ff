package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"InsufficientFunds", ErrInsufficientFunds, 4001},
		{"InvalidAmount", ErrInvalidAmount, 4002},
		{"DuplicateReference", ErrDuplicateReference, 4004},
		{"InsufficientStock", ErrInsufficientStock, 4011},
		{"UserNotFound", ErrUserNotFound, 4040},
		{"UnknownItem", ErrUnknownItem, 4042},
		{"DuplicateUser", ErrDuplicateUser, 4090},
		{"DuplicateWallet", ErrDuplicateWallet, 4091},
		{"GatewayRejected", ErrGatewayRejected, 4220},
		{"GatewayUnavailable", ErrGatewayUnavailable, 5030},
		{"UnknownError", errors.New("unknown error"), 5000},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrWalletNotFound), 4041},
		{"DetailedError", NewInsufficientFundsError("w1", "150.00", "100.00"), 4001},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := ErrorCode(tc.err)
			if code != tc.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tc.err, code, tc.expected)
			}
		})
	}
}

func TestTransactionError(t *testing.T) {
	txError := NewTransactionError("wallet-1", "withdrawal", "150.00", "ref-1", "debit rejected",
		NewInsufficientFundsError("wallet-1", "150.00", "100.00"))

	if !errors.Is(txError, ErrInsufficientFunds) {
		t.Errorf("errors.Is(txError, ErrInsufficientFunds) = false, want true")
	}

	var detailed *InsufficientFundsError
	if !errors.As(txError, &detailed) {
		t.Fatalf("errors.As did not find InsufficientFundsError")
	}
	if detailed.Balance != "100.00" {
		t.Errorf("Balance = %s, want 100.00", detailed.Balance)
	}

	fields := txError.(*TransactionError).LogFields()
	if fields["wallet_id"] != "wallet-1" || fields["error_code"] != CodeInsufficientFunds {
		t.Errorf("unexpected log fields: %v", fields)
	}
}

func TestDuplicateReferenceError(t *testing.T) {
	err := NewDuplicateReferenceError("ref-9", "wallet-2")

	if !IsDuplicateReferenceError(err) {
		t.Errorf("IsDuplicateReferenceError = false, want true")
	}
	if IsInsufficientFundsError(err) {
		t.Errorf("IsInsufficientFundsError = true, want false")
	}
	expected := "duplicate reference detected: reference=ref-9 for wallet wallet-2"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
}

func TestInsufficientStockError(t *testing.T) {
	err := NewInsufficientStockError("item-1", 30, 19)

	if !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("errors.Is(err, ErrInsufficientStock) = false, want true")
	}
	fields := err.(*InsufficientStockError).LogFields()
	if fields["requested"] != int64(30) || fields["available"] != int64(19) {
		t.Errorf("unexpected log fields: %v", fields)
	}
}

func TestGatewayErrorClassification(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	unavailable := NewGatewayUnavailableError("reserve_account", 0, "", cause)
	rejected := NewGatewayRejectedError("verify_bvn", 400, "BVN mismatch")

	if !errors.Is(unavailable, ErrGatewayUnavailable) || errors.Is(unavailable, ErrGatewayRejected) {
		t.Errorf("unavailable error classified incorrectly: %v", unavailable)
	}
	if !errors.Is(unavailable, cause) {
		t.Errorf("unavailable error should unwrap to its cause")
	}
	if !IsRetryable(unavailable) {
		t.Errorf("IsRetryable(unavailable) = false, want true")
	}

	if !errors.Is(rejected, ErrGatewayRejected) {
		t.Errorf("errors.Is(rejected, ErrGatewayRejected) = false, want true")
	}
	if IsRetryable(rejected) {
		t.Errorf("IsRetryable(rejected) = true, want false")
	}
	if ErrorCode(fmt.Errorf("provisioning: %w", rejected)) != CodeGatewayRejected {
		t.Errorf("wrapped rejected error should map to CodeGatewayRejected")
	}
}

func TestIsNotFoundError(t *testing.T) {
	for _, err := range []error{ErrUserNotFound, ErrWalletNotFound, ErrUnknownItem, ErrVirtualAccountNotFound} {
		if !IsNotFoundError(fmt.Errorf("lookup: %w", err)) {
			t.Errorf("IsNotFoundError(%v) = false, want true", err)
		}
	}
	if IsNotFoundError(ErrInsufficientStock) {
		t.Errorf("IsNotFoundError(ErrInsufficientStock) = true, want false")
	}
}
