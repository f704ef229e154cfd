package chain

import (
	"strings"
	"testing"
)

func TestNormalizeAddress(t *testing.T) {
	got, err := NormalizeAddress(" 0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed" {
		t.Errorf("expected checksummed address, got %s", got)
	}

	for _, bad := range []string{"", "0x1234", "not-an-address", "0xZZaeb6053f3e94c9b9a09f33669435e7ef1beaed"} {
		if _, err := NormalizeAddress(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestSameAddress(t *testing.T) {
	if !SameAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed") {
		t.Error("addresses differing only by case should match")
	}
	if SameAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "bogus") {
		t.Error("invalid address should never match")
	}
}

func TestNormalizeHash(t *testing.T) {
	upper := "0x" + strings.ToUpper(strings.Repeat("ab", 32))
	got, err := NormalizeHash(upper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0x"+strings.Repeat("ab", 32) {
		t.Errorf("expected lower-cased hash, got %s", got)
	}

	for _, bad := range []string{"", "0x", "0xabc", "ab" + strings.Repeat("00", 31), "0x" + strings.Repeat("ab", 31)} {
		if _, err := NormalizeHash(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestNormalizeTokenID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"12", "12", false},
		{" 0xc ", "12", false},
		{"0X10", "16", false},
		{"0", "0", false},
		{"-1", "", true},
		{"abc", "", true},
		{"0x", "", true},
		{"1" + strings.Repeat("0", 78), "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeTokenID(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got %s", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}
