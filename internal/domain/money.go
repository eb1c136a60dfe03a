/**
 * @description
 * Money handling for the banking service. All balances and transaction amounts
 * are stored internally as int64 cents to avoid floating-point drift. On the
 * wire, amounts travel as fixed-point decimal strings (e.g. "100.00"), parsed
 * and rendered with shopspring/decimal.
 *
 * @dependencies
 * - github.com/shopspring/decimal: Exact decimal arithmetic for the API boundary.
 */

package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrMalformedAmount indicates the amount string is not a valid decimal.
	ErrMalformedAmount = errors.New("amount is not a valid decimal number")
	// ErrAmountPrecision indicates the amount has more than two decimal places.
	ErrAmountPrecision = errors.New("amount must have at most two decimal places")
	// ErrNonPositiveAmount indicates the amount is zero or negative.
	ErrNonPositiveAmount = errors.New("amount must be positive")
)

// ParseAmount converts a fixed-point decimal string into cents.
// It rejects malformed input, sub-cent precision, and non-positive values.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrMalformedAmount
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, ErrAmountPrecision
	}
	if !d.IsPositive() {
		return 0, ErrNonPositiveAmount
	}
	// IntPart wraps silently above int64 range; the cent value must be
	// exactly representable.
	shifted := d.Shift(2)
	if !shifted.BigInt().IsInt64() {
		return 0, ErrMalformedAmount
	}
	return shifted.IntPart(), nil
}

// FormatAmount renders cents as a fixed-point decimal string with two places.
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
