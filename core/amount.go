package core

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount reports bid text that is not a positive whole number.
var ErrInvalidAmount = errors.New("invalid bid amount")

var maxBidAmount = decimal.NewFromInt(math.MaxInt64)

// ParseBidAmount parses raw bid text into a positive whole amount.
// Uses decimal parsing so that malformed numbers, fractions, grouping
// separators and out-of-range values are rejected rather than coerced.
func ParseBidAmount(text string) (int64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, trimmed)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidAmount, trimmed)
	}
	if d.Sign() <= 0 {
		return 0, fmt.Errorf("%w: %q is not positive", ErrInvalidAmount, trimmed)
	}
	if d.GreaterThan(maxBidAmount) {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, trimmed)
	}

	return d.IntPart(), nil
}
