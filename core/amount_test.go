package core

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestParseBidAmount_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"100", 100},
		{"1", 1},
		{" 250 ", 250},
		{"42.0", 42},
		{"9223372036854775807", 9223372036854775807},
	}

	for _, tc := range tests {
		amount, err := ParseBidAmount(tc.input)
		check.Nil(t, err)
		check.Equal(t, tc.want, amount)
	}
}

func TestParseBidAmount_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"abc",
		"1,000",
		"12.5",
		"0",
		"-5",
		"0.0",
		"100 gold",
		"9223372036854775808", // MaxInt64 + 1
	}

	for _, input := range inputs {
		_, err := ParseBidAmount(input)
		check.True(t, errors.Is(err, ErrInvalidAmount))
	}
}
