package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
)

func TestParseAmount(t *testing.T) {
	t.Run("Valid amounts", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected int64
		}{
			{"100.00", 10000},
			{"0.01", 1},
			{"0.10", 10},
			{"1", 100},
			{"1.5", 150},
			{" 25.75 ", 2575},
			{"1234567.89", 123456789},
			{"0", 0},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				minor, err := ParseAmount(tc.input)
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, minor)
			})
		}
	})

	t.Run("Invalid amounts", func(t *testing.T) {
		testCases := []struct {
			input       string
			errorType   error
			description string
		}{
			{"", errs.ErrInvalidAmount, "Empty string"},
			{"   ", errs.ErrInvalidAmount, "Whitespace only"},
			{"-1.00", errs.ErrInvalidAmount, "Negative amount"},
			{"1.234", errs.ErrInvalidAmount, "Too many decimal places"},
			{"abc", errs.ErrInvalidAmount, "Non-numeric"},
			{"1,000.00", errs.ErrInvalidAmount, "Comma as thousands separator"},
			{"$100", errs.ErrInvalidAmount, "Currency symbol"},
			{"100000000000000000000", errs.ErrAmountOverflow, "Beyond int64"},
		}

		for _, tc := range testCases {
			t.Run(tc.description, func(t *testing.T) {
				_, err := ParseAmount(tc.input)
				assert.ErrorIs(t, err, tc.errorType)
			})
		}
	})
}

func TestParsePositiveAmount(t *testing.T) {
	_, err := ParsePositiveAmount("0.00")
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)

	minor, err := ParsePositiveAmount("0.01")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), minor)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "10.15", FormatAmount(1015))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "-1.50", FormatAmount(-150))
	assert.Equal(t, "1000.00", FormatAmount(100000))
}

func TestAddAmounts(t *testing.T) {
	sum, err := AddAmounts(10000, -15000)
	assert.NoError(t, err)
	assert.Equal(t, int64(-5000), sum)

	_, err = AddAmounts(math.MaxInt64, 1)
	assert.ErrorIs(t, err, errs.ErrAmountOverflow)

	_, err = AddAmounts(math.MinInt64, -1)
	assert.ErrorIs(t, err, errs.ErrAmountOverflow)
}
