package chain

import (
	"fmt"
	"math/big"
	"strings"
)

// Decimals is the base-unit scale of the chain's native token (wei-style).
const Decimals = 18

// ParseAmount converts a human decimal string ("5.0") into base units.
// Rejects negative values, malformed input, and more than Decimals fractional digits.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("negative amount %q", s)
	}
	s = strings.TrimPrefix(s, "+")

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("malformed amount %q", s)
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) {
		return nil, fmt.Errorf("malformed amount %q", s)
	}
	if hasDot && fracPart != "" && !isDigits(fracPart) {
		return nil, fmt.Errorf("malformed amount %q", s)
	}
	if len(fracPart) > Decimals {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", s, Decimals)
	}

	fracPart += strings.Repeat("0", Decimals-len(fracPart))
	v, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return nil, fmt.Errorf("malformed amount %q", s)
	}
	return v, nil
}

// FormatAmount renders base units as a decimal string with trailing zeros
// trimmed; whole values keep a single ".0" so they read as a decimal.
func FormatAmount(v *big.Int) string {
	if v == nil || v.Sign() == 0 {
		return "0.0"
	}
	s := v.String()
	if len(s) <= Decimals {
		s = strings.Repeat("0", Decimals-len(s)+1) + s
	}
	cut := len(s) - Decimals
	intPart, fracPart := s[:cut], s[cut:]
	fracPart = strings.TrimRight(fracPart, "0")
	if fracPart == "" {
		fracPart = "0"
	}
	return intPart + "." + fracPart
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
