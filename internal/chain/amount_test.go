package chain

import (
	"math/big"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string // base units, decimal; "" = expect error
	}{
		{"5.0", "5000000000000000000"},
		{"5", "5000000000000000000"},
		{"0.5", "500000000000000000"},
		{"0.000000000000000001", "1"},
		{"1000000", "1000000000000000000000000"},
		{"0", "0"},
		{"0.0", "0"},
		{" 2.5 ", "2500000000000000000"},
		{"+1", "1000000000000000000"},
		{"007", "7000000000000000000"},
		{"3.", "3000000000000000000"},
		{".25", "250000000000000000"},

		{"", ""},
		{"-1", ""},
		{"-0.5", ""},
		{".", ""},
		{"abc", ""},
		{"1.2.3", ""},
		{"1,5", ""},
		{"1e18", ""},
		{"0.0000000000000000001", ""}, // 19 fractional digits
		{"five", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.expected == "" {
				if err == nil {
					t.Fatalf("ParseAmount(%q) = %s, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.expected {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		baseUnits string
		expected  string
	}{
		{"5000000000000000000", "5.0"},
		{"500000000000000000", "0.5"},
		{"1", "0.000000000000000001"},
		{"0", "0.0"},
		{"1230000000000000000", "1.23"},
		{"1000000000000000000000000", "1000000.0"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			v, ok := new(big.Int).SetString(tt.baseUnits, 10)
			if !ok {
				t.Fatalf("bad test input %q", tt.baseUnits)
			}
			if got := FormatAmount(v); got != tt.expected {
				t.Errorf("FormatAmount(%s) = %q, want %q", tt.baseUnits, got, tt.expected)
			}
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"5.0", "0.5", "1.23", "0.000000000000000001", "42.0"} {
		v, err := ParseAmount(s)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", s, err)
		}
		if got := FormatAmount(v); got != s {
			t.Errorf("round trip %q -> %s -> %q", s, v, got)
		}
	}
}

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"0x8ba1f109551bD432803012645Ac136ddd64DBA72", true},
		{"0x0000000000000000000000000000000000000000", true},
		{"8ba1f109551bD432803012645Ac136ddd64DBA72", true}, // 0x prefix optional
		{"0x8ba1f109551bD432803012645Ac136ddd64DBA7", false},
		{"0xZZa1f109551bD432803012645Ac136ddd64DBA72", false},
		{"", false},
		{"not-an-address", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidAddress(tt.input); got != tt.expected {
				t.Errorf("IsValidAddress(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
