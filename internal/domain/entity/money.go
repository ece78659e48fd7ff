package entity

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// ParseAmount converts a decimal string such as "150.5" into minor units (1505 kobo).
// Negative values and more than two fractional digits are rejected.
func ParseAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, amount)
	}
	if value.IsNegative() {
		return 0, fmt.Errorf("%w: amount cannot be negative", errs.ErrInvalidAmount)
	}
	if value.Exponent() < -MaxDecimalPlaces {
		return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	minor := value.Shift(MaxDecimalPlaces)
	if minor.GreaterThan(maxMinorUnits) {
		return 0, errs.ErrAmountOverflow
	}
	return minor.IntPart(), nil
}

// ParsePositiveAmount is ParseAmount that also rejects zero
func ParsePositiveAmount(amount string) (int64, error) {
	minor, err := ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	if minor == 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", errs.ErrInvalidAmount)
	}
	return minor, nil
}

// FormatAmount renders minor units with exactly two decimal places, e.g. 1015 -> "10.15"
func FormatAmount(minor int64) string {
	return decimal.New(minor, -MaxDecimalPlaces).StringFixed(MaxDecimalPlaces)
}

// AddAmounts sums two minor-unit values, failing instead of wrapping around
func AddAmounts(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, errs.ErrAmountOverflow
	}
	return a + b, nil
}
